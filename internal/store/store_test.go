package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/go-cmp/cmp"

	"xqpuzzle/internal/puzzle"
	"xqpuzzle/internal/xiangqi"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func samplePuzzle(t *testing.T, fen string) *puzzle.Puzzle {
	t.Helper()
	b, err := xiangqi.ParseFEN(fen)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	m, _ := xiangqi.ParseMove("0,5->0,0")
	return &puzzle.Puzzle{
		Name:    "车杀",
		Score:   5,
		Initial: b,
		Moves:   []xiangqi.Move{m},
	}
}

func TestSaveAndGetPuzzle(t *testing.T) {
	s := openTest(t)
	p := samplePuzzle(t, "4k4/9/9/9/9/R8/9/9/9/3K5")
	if err := s.SavePuzzle(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Fatalf("save did not assign id/time: %+v", p)
	}

	got, err := s.GetPuzzle(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.GetPuzzle("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDuplicateBoardRejected(t *testing.T) {
	s := openTest(t)
	first := samplePuzzle(t, "4k4/9/9/9/9/R8/9/9/9/3K5")
	if err := s.SavePuzzle(first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := samplePuzzle(t, "4k4/9/9/9/9/R8/9/9/9/3K5")
	if err := s.SavePuzzle(second); !errors.Is(err, ErrDuplicatePuzzle) {
		t.Fatalf("got %v, want ErrDuplicatePuzzle", err)
	}

	// 同一道题改名后重新保存可以
	first.Name = "改名"
	if err := s.SavePuzzle(first); err != nil {
		t.Fatalf("resave: %v", err)
	}

	// 改了盘面之后旧指纹释放
	moved, _ := xiangqi.ParseFEN("3k5/9/9/9/9/R8/9/9/9/3K5")
	first.Initial = moved
	if err := s.SavePuzzle(first); err != nil {
		t.Fatalf("resave with new board: %v", err)
	}
	if err := s.SavePuzzle(second); err != nil {
		t.Fatalf("old fingerprint should be free now: %v", err)
	}
}

func TestListAndDeletePuzzles(t *testing.T) {
	s := openTest(t)
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	fens := []string{
		"4k4/9/9/9/9/R8/9/9/9/3K5",
		"4k4/9/9/9/9/1R7/9/9/9/3K5",
		"4k4/9/9/9/9/2R6/9/9/9/3K5",
	}
	var ids []string
	for i := len(fens) - 1; i >= 0; i-- {
		p := samplePuzzle(t, fens[i])
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := s.SavePuzzle(p); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		ids = append([]string{p.ID}, ids...)
	}

	list, err := s.ListPuzzles()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []string
	for _, p := range list {
		got = append(got, p.ID)
	}
	if diff := cmp.Diff(ids, got); diff != "" {
		t.Fatalf("list order mismatch (-want +got):\n%s", diff)
	}

	if err := s.DeletePuzzle(ids[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeletePuzzle(ids[1]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: got %v", err)
	}
	list, _ = s.ListPuzzles()
	if len(list) != 2 {
		t.Fatalf("after delete: %d puzzles, want 2", len(list))
	}
	// 删除后盘面可以重新使用
	if err := s.SavePuzzle(samplePuzzle(t, fens[1])); err != nil {
		t.Fatalf("reuse deleted board: %v", err)
	}
}

func TestCompletionsAndRank(t *testing.T) {
	s := openTest(t)
	records := []Completion{
		{StudentID: "alice", PuzzleID: "p1", Score: 10},
		{StudentID: "bob", PuzzleID: "p1", Score: 10},
		{StudentID: "bob", PuzzleID: "p2", Score: 5},
		{StudentID: "carol", PuzzleID: "p3", Score: 15},
		{StudentID: "dave", PuzzleID: "p2", Score: 5},
	}
	for _, c := range records {
		created, err := s.RecordCompletion(c)
		if err != nil || !created {
			t.Fatalf("record %+v: created=%v err=%v", c, created, err)
		}
	}
	// 重复完成不加分
	created, err := s.RecordCompletion(Completion{StudentID: "alice", PuzzleID: "p1", Score: 10})
	if err != nil || created {
		t.Fatalf("duplicate completion: created=%v err=%v", created, err)
	}

	rank, err := s.Rank()
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	want := []RankEntry{
		{StudentID: "bob", TotalScore: 15, Solved: 2},
		{StudentID: "carol", TotalScore: 15, Solved: 1},
		{StudentID: "alice", TotalScore: 10, Solved: 1},
		{StudentID: "dave", TotalScore: 5, Solved: 1},
	}
	if diff := cmp.Diff(want, rank); diff != "" {
		t.Fatalf("rank mismatch (-want +got):\n%s", diff)
	}

	bob, err := s.Completions("bob")
	if err != nil || len(bob) != 2 {
		t.Fatalf("bob completions = %v, %v", bob, err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := samplePuzzle(t, "4k4/9/9/9/9/R8/9/9/9/3K5")
	if err := s.SavePuzzle(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(Options{Dir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.GetPuzzle(p.ID); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func TestCompletionsWithSlashInStudentID(t *testing.T) {
	s := openTest(t)
	if _, err := s.RecordCompletion(Completion{StudentID: "bob/x", PuzzleID: "p1", Score: 3}); err != nil {
		t.Fatalf("record: %v", err)
	}
	bob, err := s.Completions("bob")
	if err != nil || len(bob) != 0 {
		t.Fatalf("bob completions = %v, %v", bob, err)
	}
	other, err := s.Completions("bob/x")
	if err != nil || len(other) != 1 || other[0].StudentID != "bob/x" {
		t.Fatalf("bob/x completions = %v, %v", other, err)
	}
}

func TestPuzzleStoredWithoutHTMLEscaping(t *testing.T) {
	s := openTest(t)
	p := samplePuzzle(t, "4k4/9/9/9/9/R8/9/9/9/3K5")
	if err := s.SavePuzzle(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	var raw string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(puzzleKey(p.ID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = string(val)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	if !strings.Contains(raw, `"0,5->0,0"`) {
		t.Fatalf("stored puzzle = %s", raw)
	}
}
