package xiangqi

type ruleFunc func(b *Board, from Pos, c Color, out *[]Pos)

var rules = map[Kind]ruleFunc{
	Chariot:  genChariotMoves,
	Horse:    genHorseMoves,
	Elephant: genElephantMoves,
	Advisor:  genAdvisorMoves,
	General:  genGeneralMoves,
	Cannon:   genCannonMoves,
	Soldier:  genSoldierMoves,
}

// LegalDestinations 返回 (x, y) 上一枚 kind/c 棋子一步可以到达的所有格子。
// 不检查走后是否被将军；调用方保证 (x, y) 在棋盘内且棋子与参数一致。
// 未知类型返回空列表。
func LegalDestinations(b *Board, x, y int, kind Kind, c Color) []Pos {
	out := make([]Pos, 0, 17)
	if !onBoard(x, y) {
		return out
	}
	gen, ok := rules[kind]
	if !ok {
		return out
	}
	gen(b, Pos{X: x, Y: y}, c, &out)
	return out
}

// Destinations 按棋盘上 p 处的棋子计算；空格返回空列表
func (b *Board) Destinations(p Pos) []Pos {
	if !p.OnBoard() {
		return []Pos{}
	}
	pc := b.At(p.X, p.Y)
	return LegalDestinations(b, p.X, p.Y, pc.Kind, pc.Color)
}

// IsLegal 判断 m.To 是否在 m.From 处棋子的可走格子里
func (b *Board) IsLegal(m Move) bool {
	if !m.From.OnBoard() || !m.To.OnBoard() {
		return false
	}
	if b.At(m.From.X, m.From.Y).IsEmpty() {
		return false
	}
	for _, to := range b.Destinations(m.From) {
		if to == m.To {
			return true
		}
	}
	return false
}

// AllDestinations 生成某一方所有棋子的可走格子，key 为起点
func (b *Board) AllDestinations(c Color) map[Pos][]Pos {
	all := make(map[Pos][]Pos)
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			pc := b.Cells[y][x]
			if pc.IsEmpty() || pc.Color != c {
				continue
			}
			from := Pos{X: x, Y: y}
			all[from] = LegalDestinations(b, x, y, pc.Kind, pc.Color)
		}
	}
	return all
}

// Moves 把 AllDestinations 展开成按起点行列排序的走法列表
func (b *Board) Moves(c Color) []Move {
	var moves []Move
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			pc := b.Cells[y][x]
			if pc.IsEmpty() || pc.Color != c {
				continue
			}
			from := Pos{X: x, Y: y}
			for _, to := range LegalDestinations(b, x, y, pc.Kind, pc.Color) {
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	return moves
}
