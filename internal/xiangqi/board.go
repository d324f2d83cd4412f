package xiangqi

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Rows = 10
	Cols = 9

	// 河界在第 4、5 行之间：y >= RiverRow 为红方半场
	RiverRow = 5

	palaceMinX = 3
	palaceMaxX = 5
)

func onBoard(x, y int) bool {
	return x >= 0 && x < Cols && y >= 0 && y < Rows
}

// 兵的前进方向：红向上(-1)，黑向下(+1)
func forward(c Color) int {
	switch c {
	case Red:
		return -1
	case Black:
		return +1
	}
	return 0
}

// 是否在己方半场（相不能过河）
func ownHalf(c Color, y int) bool {
	switch c {
	case Red:
		return y >= RiverRow
	case Black:
		return y < RiverRow
	}
	return false
}

// 兵是否已经过河
func crossedRiver(c Color, y int) bool {
	switch c {
	case Red:
		return y < RiverRow
	case Black:
		return y >= RiverRow
	}
	return false
}

// 是否在九宫
func inPalace(c Color, x, y int) bool {
	if x < palaceMinX || x > palaceMaxX {
		return false
	}
	switch c {
	case Black:
		return y >= 0 && y <= 2
	case Red:
		return y >= Rows-3 && y <= Rows-1 // 7..9
	}
	return false
}

// At 返回 (x, y) 上的棋子；调用方负责先做越界检查
func (b *Board) At(x, y int) Piece {
	return b.Cells[y][x]
}

func (b *Board) Set(p Pos, pc Piece) {
	b.Cells[p.Y][p.X] = pc
}

// Apply 执行走子：目标格原有棋子被吃掉。返回新棋盘，原棋盘不变
func (b Board) Apply(m Move) Board {
	if !m.From.OnBoard() || !m.To.OnBoard() {
		return b
	}
	pc := b.Cells[m.From.Y][m.From.X]
	b.Cells[m.To.Y][m.To.X] = pc
	b.Cells[m.From.Y][m.From.X] = Piece{}
	return b
}

func (b *Board) GeneralPos(c Color) (Pos, bool) {
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			pc := b.Cells[y][x]
			if pc.Kind == General && pc.Color == c {
				return Pos{X: x, Y: y}, true
			}
		}
	}
	return Pos{}, false
}

func (b *Board) Count() int {
	n := 0
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			if !b.Cells[y][x].IsEmpty() {
				n++
			}
		}
	}
	return n
}

var (
	ErrTooManyGenerals  = errors.New("more than one general per side")
	ErrGeneralOutside   = errors.New("general outside its palace")
	ErrUnknownPieceKind = errors.New("unknown piece kind")
)

// Validate 摆棋阶段的基本校验：每方最多一个将，且必须在己方九宫
func (b *Board) Validate() error {
	var generals [2]int
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			pc := b.Cells[y][x]
			if pc.IsEmpty() {
				continue
			}
			if pc.Kind > Soldier || pc.Kind < KindNone || (pc.Color != Red && pc.Color != Black) {
				return fmt.Errorf("%w at %d,%d", ErrUnknownPieceKind, x, y)
			}
			if pc.Kind != General {
				continue
			}
			generals[pc.Color]++
			if generals[pc.Color] > 1 {
				return fmt.Errorf("%w: %s", ErrTooManyGenerals, pc.Color)
			}
			if !inPalace(pc.Color, x, y) {
				return fmt.Errorf("%w: %s at %d,%d", ErrGeneralOutside, pc.Color, x, y)
			}
		}
	}
	return nil
}

// 开局盘面，第 0 行为黑方底线
const initialBoardFEN = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR"

func NewInitialBoard() Board {
	b, err := ParseFEN(initialBoardFEN)
	if err != nil {
		panic("initial board: " + err.Error())
	}
	return b
}

// String 调试用的文本棋盘
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			sb.WriteRune(pieceToFEN(b.Cells[y][x]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
