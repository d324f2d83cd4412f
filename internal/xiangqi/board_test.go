package xiangqi

import (
	"errors"
	"testing"
)

func TestApplyCapturesAndKeepsOriginal(t *testing.T) {
	b := NewInitialBoard()
	m := Move{From: Pos{1, 7}, To: Pos{1, 0}} // 炮打马
	nb := b.Apply(m)

	if got := nb.At(1, 0); got != NewPiece(Red, Cannon) {
		t.Fatalf("destination = %+v, want red cannon", got)
	}
	if !nb.At(1, 7).IsEmpty() {
		t.Fatalf("source not cleared")
	}
	if nb.Count() != b.Count()-1 {
		t.Fatalf("piece count = %d, want %d", nb.Count(), b.Count()-1)
	}
	if got := b.At(1, 0); got != NewPiece(Black, Horse) {
		t.Fatalf("original board mutated: %+v", got)
	}
}

func TestGeneralPos(t *testing.T) {
	b := NewInitialBoard()
	if p, ok := b.GeneralPos(Red); !ok || p != (Pos{4, 9}) {
		t.Fatalf("red general at %v ok=%v", p, ok)
	}
	if p, ok := b.GeneralPos(Black); !ok || p != (Pos{4, 0}) {
		t.Fatalf("black general at %v ok=%v", p, ok)
	}
	var empty Board
	if _, ok := empty.GeneralPos(Red); ok {
		t.Fatalf("empty board should have no general")
	}
}

func TestValidate(t *testing.T) {
	b := NewInitialBoard()
	if err := b.Validate(); err != nil {
		t.Fatalf("initial board invalid: %v", err)
	}

	two := b
	two.Set(Pos{3, 8}, NewPiece(Red, General))
	if err := two.Validate(); !errors.Is(err, ErrTooManyGenerals) {
		t.Fatalf("got %v, want ErrTooManyGenerals", err)
	}

	out := boardWith(t, placed{4, 5, "r_j"})
	if err := out.Validate(); !errors.Is(err, ErrGeneralOutside) {
		t.Fatalf("got %v, want ErrGeneralOutside", err)
	}

	bad := boardWith(t, placed{0, 0, "b_c"})
	bad.Cells[5][5] = Piece{Color: Red, Kind: Kind(9)}
	if err := bad.Validate(); !errors.Is(err, ErrUnknownPieceKind) {
		t.Fatalf("got %v, want ErrUnknownPieceKind", err)
	}
}

func TestHashDistinguishesBoards(t *testing.T) {
	a := NewInitialBoard()
	b := NewInitialBoard()
	if a.Hash() != b.Hash() {
		t.Fatalf("equal boards hash differently")
	}
	if a.Hash() == 0 {
		t.Fatalf("initial board hash is zero")
	}
	moved := a.Apply(Move{From: Pos{1, 7}, To: Pos{4, 7}})
	if moved.Hash() == a.Hash() {
		t.Fatalf("moved board has same hash")
	}
	var empty Board
	if empty.Hash() != 0 {
		t.Fatalf("empty board hash = %d, want 0", empty.Hash())
	}
}
