package xiangqi

type Color int8

const (
	NoColor Color = -1
	Red     Color = 0
	Black   Color = 1
)

func (c Color) Opposite() Color {
	switch c {
	case Red:
		return Black
	case Black:
		return Red
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Black:
		return "black"
	}
	return "none"
}

type Kind int8

const (
	KindNone Kind = iota
	Chariot       // 车
	Horse         // 马
	Elephant      // 相 / 象
	Advisor       // 仕 / 士
	General       // 帅 / 将
	Cannon        // 炮
	Soldier       // 兵 / 卒
)

var kindNames = [...]string{
	KindNone: "none",
	Chariot:  "chariot",
	Horse:    "horse",
	Elephant: "elephant",
	Advisor:  "advisor",
	General:  "general",
	Cannon:   "cannon",
	Soldier:  "soldier",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Piece 零值表示空格
type Piece struct {
	Color Color
	Kind  Kind
}

func NewPiece(c Color, k Kind) Piece {
	if k == KindNone || c == NoColor {
		return Piece{}
	}
	return Piece{Color: c, Kind: k}
}

func (p Piece) IsEmpty() bool { return p.Kind == KindNone }

// Pos：X 为列 0..8，Y 为行 0..9
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Pos) OnBoard() bool { return onBoard(p.X, p.Y) }

// Board 行优先：Cells[y][x]
type Board struct {
	Cells [Rows][Cols]Piece
}

// Move 一步棋：From -> To
type Move struct {
	From Pos
	To   Pos
}
