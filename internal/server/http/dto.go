package httpserver

import (
	"xqpuzzle/internal/puzzle"
	"xqpuzzle/internal/store"
	"xqpuzzle/internal/xiangqi"
)

// 前端用 [x, y] 表示一个格子
type PointDTO [2]int

func posToDTO(p xiangqi.Pos) PointDTO { return PointDTO{p.X, p.Y} }

func posesToDTO(ps []xiangqi.Pos) []PointDTO {
	out := make([]PointDTO, len(ps))
	for i, p := range ps {
		out[i] = posToDTO(p)
	}
	return out
}

// LegalMovesRequest board 和 fen 二选一；piece 为空时取棋盘上 (x, y) 的棋子
type LegalMovesRequest struct {
	Board *xiangqi.Board `json:"board"`
	FEN   string         `json:"fen"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Piece string         `json:"piece"`
}

type LegalMovesResponse struct {
	Destinations []PointDTO `json:"destinations"`
}

// SavePuzzleRequest 教师录制结束后提交
type SavePuzzleRequest struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Score       int            `json:"score"`
	TeacherID   string         `json:"teacher_id"`
	Initial     xiangqi.Board  `json:"initial_board"`
	Moves       []xiangqi.Move `json:"moves"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type SavePuzzleResponse struct {
	ID string `json:"id"`
}

type NewSessionRequest struct {
	PuzzleID  string `json:"puzzle_id"`
	StudentID string `json:"student_id"`
	AutoReply *bool  `json:"auto_reply"` // 默认开启自动应着
}

type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Puzzle    puzzle.Summary `json:"puzzle"`
	Board     xiangqi.Board  `json:"board"`
	MoveIndex int            `json:"move_index"`
	Completed bool           `json:"completed"`
	AutoReply bool           `json:"auto_reply"`
	HintUsed  bool           `json:"hint_used"`
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type SelectRequest struct {
	SessionID string `json:"session_id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

type PlayRequest struct {
	SessionID string       `json:"session_id"`
	Move      xiangqi.Move `json:"move"`
}

type PlayResponse struct {
	puzzle.PlayResult
	Recorded bool `json:"recorded"` // 本次请求是否写入了完成记录
}

// HintResponse 只给落点，和前端提示点一致
type HintResponse struct {
	To PointDTO `json:"to"`
}

type CompletionsRequest struct {
	StudentID string `json:"student_id"`
}

type CompletionsResponse struct {
	Completions []store.Completion `json:"completions"`
}

type RankResponse struct {
	Rank []store.RankEntry `json:"rank"`
}

type ErrorResponse struct {
	Error string         `json:"error"`
	Board *xiangqi.Board `json:"board,omitempty"`
}
