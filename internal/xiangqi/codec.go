package xiangqi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// 存储 / 传输用的棋子编码："r_c" = 红车。颜色字母 r/b，类型字母见下表
var codeToKind = map[byte]Kind{
	'c': Chariot,  // 车
	'm': Horse,    // 马
	'x': Elephant, // 相
	's': Advisor,  // 士
	'j': General,  // 将
	'p': Cannon,   // 炮
	'z': Soldier,  // 卒
}

var kindToCode = map[Kind]byte{
	Chariot:  'c',
	Horse:    'm',
	Elephant: 'x',
	Advisor:  's',
	General:  'j',
	Cannon:   'p',
	Soldier:  'z',
}

var (
	ErrInvalidPieceCode = errors.New("invalid piece code")
	ErrInvalidBoard     = errors.New("invalid board")
	ErrInvalidMove      = errors.New("invalid move")
)

// Code 返回 "r_c" 形式；空格返回 ""
func (p Piece) Code() string {
	k, ok := kindToCode[p.Kind]
	if !ok {
		return ""
	}
	c := byte('r')
	if p.Color == Black {
		c = 'b'
	}
	return string([]byte{c, '_', k})
}

// ParsePieceCode 同时接受 "r_c" 和紧凑的 "rc"
func ParsePieceCode(s string) (Piece, error) {
	var colorCh, kindCh byte
	switch len(s) {
	case 2:
		colorCh, kindCh = s[0], s[1]
	case 3:
		if s[1] != '_' {
			return Piece{}, fmt.Errorf("%w: %q", ErrInvalidPieceCode, s)
		}
		colorCh, kindCh = s[0], s[2]
	default:
		return Piece{}, fmt.Errorf("%w: %q", ErrInvalidPieceCode, s)
	}
	var color Color
	switch colorCh {
	case 'r':
		color = Red
	case 'b':
		color = Black
	default:
		return Piece{}, fmt.Errorf("%w: %q", ErrInvalidPieceCode, s)
	}
	kind, ok := codeToKind[kindCh]
	if !ok {
		return Piece{}, fmt.Errorf("%w: %q", ErrInvalidPieceCode, s)
	}
	return NewPiece(color, kind), nil
}

// MarshalJSON 输出 10x9 的行优先数组，空格为 null
func (b Board) MarshalJSON() ([]byte, error) {
	grid := make([][]*string, Rows)
	for y := 0; y < Rows; y++ {
		grid[y] = make([]*string, Cols)
		for x := 0; x < Cols; x++ {
			pc := b.Cells[y][x]
			if pc.IsEmpty() {
				continue
			}
			code := pc.Code()
			grid[y][x] = &code
		}
	}
	return json.Marshal(grid)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var grid [][]*string
	if err := json.Unmarshal(data, &grid); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	if len(grid) != Rows {
		return fmt.Errorf("%w: %d rows", ErrInvalidBoard, len(grid))
	}
	var nb Board
	for y, row := range grid {
		if len(row) != Cols {
			return fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, y, len(row))
		}
		for x, code := range row {
			if code == nil || *code == "" {
				continue
			}
			pc, err := ParsePieceCode(*code)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidBoard, err)
			}
			nb.Cells[y][x] = pc
		}
	}
	*b = nb
	return nil
}

// String 走法记录格式 "x1,y1->x2,y2"
func (m Move) String() string {
	return fmt.Sprintf("%d,%d->%d,%d", m.From.X, m.From.Y, m.To.X, m.To.Y)
}

func ParseMove(s string) (Move, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), "->")
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	f, err := parsePos(from)
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	t, err := parsePos(to)
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	return Move{From: f, To: t}, nil
}

func parsePos(s string) (Pos, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Pos{}, ErrInvalidMove
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Pos{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Pos{}, err
	}
	p := Pos{X: x, Y: y}
	if !p.OnBoard() {
		return Pos{}, ErrInvalidMove
	}
	return p, nil
}

// MarshalJSON 不经过 json.Marshal，避免 "->" 被转义成 \u003e
func (m Move) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *Move) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	mv, err := ParseMove(s)
	if err != nil {
		return err
	}
	*m = mv
	return nil
}
