package xiangqi

// 兵：只进不退；过河后可以左右平移
func genSoldierMoves(b *Board, from Pos, c Color, out *[]Pos) {
	dy := forward(c)
	if dy == 0 {
		return
	}

	if y := from.Y + dy; onBoard(from.X, y) && canLand(b, from.X, y, c) {
		*out = append(*out, Pos{X: from.X, Y: y})
	}

	if !crossedRiver(c, from.Y) {
		return
	}
	for _, dx := range [2]int{-1, +1} {
		x := from.X + dx
		if !onBoard(x, from.Y) {
			continue
		}
		if canLand(b, x, from.Y, c) {
			*out = append(*out, Pos{X: x, Y: from.Y})
		}
	}
}
