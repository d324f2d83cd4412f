package xiangqi

import "sync"

const zobristKinds = int(Soldier) + 1 // Kind 范围 [1..7]，0 保留空位不用

var (
	zobristOnce sync.Once

	zobristPieces [2][zobristKinds][Rows * Cols]uint64
)

func initZobrist() {
	zobristOnce.Do(func() {
		seed := uint64(0x9E3779B97F4A7C15)
		next := func() uint64 {
			seed += 0x9E3779B97F4A7C15
			z := seed
			z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
			z = (z ^ (z >> 27)) * 0x94D049BB133111EB
			return z ^ (z >> 31)
		}

		for c := 0; c < 2; c++ {
			for k := 1; k < zobristKinds; k++ {
				for sq := 0; sq < Rows*Cols; sq++ {
					zobristPieces[c][k][sq] = next()
				}
			}
		}
	})
}

func pieceHashKey(pc Piece, x, y int) uint64 {
	if pc.IsEmpty() || !onBoard(x, y) {
		return 0
	}
	if pc.Color != Red && pc.Color != Black {
		return 0
	}
	k := int(pc.Kind)
	if k <= 0 || k >= zobristKinds {
		return 0
	}
	return zobristPieces[pc.Color][k][y*Cols+x]
}

// Hash 棋盘的 Zobrist 指纹，用于识别重复的残局盘面
func (b *Board) Hash() uint64 {
	initZobrist()

	var h uint64
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			h ^= pieceHashKey(b.Cells[y][x], x, y)
		}
	}
	return h
}
