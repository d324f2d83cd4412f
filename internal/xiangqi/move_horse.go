package xiangqi

// 8 种“日”字：终点偏移 + 马腿偏移
var horseLegMoves = [8]struct {
	Dx, Dy int // 终点
	Bx, By int // 马腿
}{
	{+2, +1, +1, 0},
	{+2, -1, +1, 0},
	{-2, +1, -1, 0},
	{-2, -1, -1, 0},
	{+1, +2, 0, +1},
	{+1, -2, 0, -1},
	{-1, +2, 0, +1},
	{-1, -2, 0, -1},
}

func genHorseMoves(b *Board, from Pos, c Color, out *[]Pos) {
	for _, m := range horseLegMoves {
		x, y := from.X+m.Dx, from.Y+m.Dy
		if !onBoard(x, y) {
			continue
		}
		// 马腿一定在棋盘内：终点在界内时，腿格介于起点和终点之间
		if !b.At(from.X+m.Bx, from.Y+m.By).IsEmpty() {
			continue // 蹩马腿
		}
		if canLand(b, x, y, c) {
			*out = append(*out, Pos{X: x, Y: y})
		}
	}
}
