// Package puzzle 残局题目：录制的初始盘面 + 正确走法序列，以及学生的做题回放。
package puzzle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"xqpuzzle/internal/xiangqi"
)

var (
	ErrEmptyName       = errors.New("puzzle name is required")
	ErrNegativeScore   = errors.New("puzzle score must not be negative")
	ErrNoMoves         = errors.New("puzzle has no recorded moves")
	ErrIllegalSolution = errors.New("recorded move is not legal")
)

// Puzzle 一道残局题
type Puzzle struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Score       int            `json:"score"`
	TeacherID   string         `json:"teacher_id,omitempty"`
	Initial     xiangqi.Board  `json:"initial_board"`
	Moves       []xiangqi.Move `json:"moves"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Validate 检查录制结果：每一步都必须是当时盘面上该子的合法落点
func (p *Puzzle) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Score < 0 {
		return ErrNegativeScore
	}
	if err := p.Initial.Validate(); err != nil {
		return err
	}
	if len(p.Moves) == 0 {
		return ErrNoMoves
	}
	b := p.Initial
	for i, m := range p.Moves {
		if !b.IsLegal(m) {
			return fmt.Errorf("%w: step %d %s", ErrIllegalSolution, i+1, m)
		}
		b = b.Apply(m)
	}
	return nil
}

// Final 走完全部正确步之后的盘面
func (p *Puzzle) Final() xiangqi.Board {
	b := p.Initial
	for _, m := range p.Moves {
		b = b.Apply(m)
	}
	return b
}

// Summary 列表页用，不带答案
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Score       int       `json:"score"`
	MoveCount   int       `json:"move_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Puzzle) Summary() Summary {
	return Summary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Score:       p.Score,
		MoveCount:   len(p.Moves),
		CreatedAt:   p.CreatedAt,
	}
}
