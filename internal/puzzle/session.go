package puzzle

import (
	"errors"
	"sync"
	"time"

	"xqpuzzle/internal/xiangqi"
)

var (
	ErrEmptySquare = errors.New("no piece on that square")
	ErrIllegalMove = errors.New("illegal move")
	ErrWrongMove   = errors.New("wrong move")
	ErrFinished    = errors.New("puzzle already finished")
)

// Session 一次做题过程。学生走奇数步，开启 AutoReply 时对方应着自动走出
type Session struct {
	ID        string
	StudentID string
	Puzzle    *Puzzle
	AutoReply bool
	CreatedAt time.Time

	mu       sync.Mutex
	board    xiangqi.Board
	index    int
	hintUsed bool
	recorded bool
}

func NewSession(id, studentID string, p *Puzzle, autoReply bool) *Session {
	return &Session{
		ID:        id,
		StudentID: studentID,
		Puzzle:    p,
		AutoReply: autoReply,
		CreatedAt: time.Now(),
		board:     p.Initial,
	}
}

// PlayResult 一步棋之后的状态
type PlayResult struct {
	Board     xiangqi.Board `json:"board"`
	Reply     *xiangqi.Move `json:"reply,omitempty"`
	Completed bool          `json:"completed"`
	MoveIndex int           `json:"move_index"`
}

// Snapshot 当前盘面、进度
func (s *Session) Snapshot() PlayResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked(nil)
}

func (s *Session) resultLocked(reply *xiangqi.Move) PlayResult {
	return PlayResult{
		Board:     s.board,
		Reply:     reply,
		Completed: s.index >= len(s.Puzzle.Moves),
		MoveIndex: s.index,
	}
}

// Select 点中一个棋子，返回可落点（前端据此画提示点）
func (s *Session) Select(p xiangqi.Pos) ([]xiangqi.Pos, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !p.OnBoard() || s.board.At(p.X, p.Y).IsEmpty() {
		return nil, ErrEmptySquare
	}
	s.hintUsed = false
	return s.board.Destinations(p), nil
}

// Play 学生走一步。走错时盘面不变
func (s *Session) Play(m xiangqi.Move) (PlayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moves := s.Puzzle.Moves
	if s.index >= len(moves) {
		return s.resultLocked(nil), ErrFinished
	}
	if !m.From.OnBoard() || s.board.At(m.From.X, m.From.Y).IsEmpty() {
		return s.resultLocked(nil), ErrEmptySquare
	}
	if !s.board.IsLegal(m) {
		return s.resultLocked(nil), ErrIllegalMove
	}
	// 和录制的答案按 "x1,y1->x2,y2" 逐字比较
	if m.String() != moves[s.index].String() {
		return s.resultLocked(nil), ErrWrongMove
	}

	s.board = s.board.Apply(m)
	s.index++
	s.hintUsed = false

	var reply *xiangqi.Move
	if s.AutoReply && s.index < len(moves) {
		r := moves[s.index]
		s.board = s.board.Apply(r)
		s.index++
		reply = &r
	}
	return s.resultLocked(reply), nil
}

// Hint 返回下一步正确走法的落点，起点不透露
func (s *Session) Hint() (xiangqi.Pos, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.Puzzle.Moves) {
		return xiangqi.Pos{}, ErrFinished
	}
	s.hintUsed = true
	return s.Puzzle.Moves[s.index].To, nil
}

func (s *Session) HintUsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hintUsed
}

func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index >= len(s.Puzzle.Moves)
}

// Recorded 完成记录是否已经写入存储
func (s *Session) Recorded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorded
}

// MarkRecorded 存储写入成功后调用；写失败时不标记，下次还能补记
func (s *Session) MarkRecorded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = true
}
