package xiangqi

// 方向均为 (dx, dy)
var (
	orthoDirs    = [4][2]int{{-1, 0}, {+1, 0}, {0, -1}, {0, +1}}
	diagDirs     = [4][2]int{{+1, +1}, {+1, -1}, {-1, +1}, {-1, -1}}
	generalSteps = [4][2]int{{+1, 0}, {-1, 0}, {0, +1}, {0, -1}}
)

// 目标格为空或是对方棋子
func canLand(b *Board, x, y int, c Color) bool {
	dst := b.At(x, y)
	return dst.IsEmpty() || dst.Color != c
}

// 车：横竖直走，遇子停，对方子可吃
func genChariotMoves(b *Board, from Pos, c Color, out *[]Pos) {
	for _, d := range orthoDirs {
		x, y := from.X+d[0], from.Y+d[1]
		for onBoard(x, y) {
			pc := b.At(x, y)
			if pc.IsEmpty() {
				*out = append(*out, Pos{X: x, Y: y})
			} else {
				if pc.Color != c {
					*out = append(*out, Pos{X: x, Y: y})
				}
				break
			}
			x += d[0]
			y += d[1]
		}
	}
}

// 炮：车走法 + 隔一子（炮架）吃
func genCannonMoves(b *Board, from Pos, c Color, out *[]Pos) {
	for _, d := range orthoDirs {
		x, y := from.X+d[0], from.Y+d[1]

		// 走子阶段：直到第一个棋子
		for onBoard(x, y) {
			if b.At(x, y).IsEmpty() {
				*out = append(*out, Pos{X: x, Y: y})
				x += d[0]
				y += d[1]
				continue
			}
			x += d[0]
			y += d[1]
			break
		}

		// 吃子阶段：越过炮架，遇到的第一子若是对方则可吃
		for onBoard(x, y) {
			pc := b.At(x, y)
			if !pc.IsEmpty() {
				if pc.Color != c {
					*out = append(*out, Pos{X: x, Y: y})
				}
				break
			}
			x += d[0]
			y += d[1]
		}
	}
}

// 相：田字，塞象眼不能走，不能过河
func genElephantMoves(b *Board, from Pos, c Color, out *[]Pos) {
	for _, d := range diagDirs {
		x, y := from.X+2*d[0], from.Y+2*d[1]
		if !onBoard(x, y) {
			continue
		}
		if !ownHalf(c, y) {
			continue
		}
		if !b.At(from.X+d[0], from.Y+d[1]).IsEmpty() {
			continue // 象眼
		}
		if canLand(b, x, y, c) {
			*out = append(*out, Pos{X: x, Y: y})
		}
	}
}

// 士：九宫内斜走一格
func genAdvisorMoves(b *Board, from Pos, c Color, out *[]Pos) {
	for _, d := range diagDirs {
		x, y := from.X+d[0], from.Y+d[1]
		if !inPalace(c, x, y) {
			continue
		}
		if canLand(b, x, y, c) {
			*out = append(*out, Pos{X: x, Y: y})
		}
	}
}

// 将：九宫内上下左右一格，外加“飞将”
func genGeneralMoves(b *Board, from Pos, c Color, out *[]Pos) {
	for _, d := range generalSteps {
		x, y := from.X+d[0], from.Y+d[1]
		if !inPalace(c, x, y) {
			continue
		}
		if canLand(b, x, y, c) {
			*out = append(*out, Pos{X: x, Y: y})
		}
	}

	// 飞将：沿本列朝对方方向看，第一个棋子若是对方的将，则可以直接吃
	dy := forward(c)
	if dy == 0 {
		return
	}
	for y := from.Y + dy; onBoard(from.X, y); y += dy {
		pc := b.At(from.X, y)
		if pc.IsEmpty() {
			continue
		}
		// 对方将紧挨着且在九宫内时，上面一格一步已经收过
		if pc.Kind == General && pc.Color == c.Opposite() && !containsPos(*out, Pos{X: from.X, Y: y}) {
			*out = append(*out, Pos{X: from.X, Y: y})
		}
		return
	}
}

func containsPos(ps []Pos, p Pos) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
