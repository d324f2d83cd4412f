package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"xqpuzzle/internal/puzzle"
	"xqpuzzle/internal/store"
	"xqpuzzle/internal/xiangqi"
)

const maxJSONBodyBytes int64 = 1 << 20

// PuzzleStore 题库与积分的持久化，由 store.Store 实现
type PuzzleStore interface {
	SavePuzzle(p *puzzle.Puzzle) error
	GetPuzzle(id string) (*puzzle.Puzzle, error)
	ListPuzzles() ([]*puzzle.Puzzle, error)
	DeletePuzzle(id string) error
	RecordCompletion(c store.Completion) (bool, error)
	Completions(studentID string) ([]store.Completion, error)
	Rank() ([]store.RankEntry, error)
}

// Handler 实现 http.Handler，用于 /api/* 路由
type Handler struct {
	store    PuzzleStore
	sessions *puzzle.Manager
}

func NewHandler(st PuzzleStore, sessions *puzzle.Manager) *Handler {
	if sessions == nil {
		sessions = puzzle.NewManager()
	}
	return &Handler{store: st, sessions: sessions}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type route struct {
		method string
		fn     func(http.ResponseWriter, *http.Request)
	}
	var rt route
	switch r.URL.Path {
	case "/api/legal_moves":
		rt = route{http.MethodPost, h.handleLegalMoves}
	case "/api/puzzles":
		rt = route{http.MethodGet, h.handleListPuzzles}
	case "/api/puzzles/save":
		rt = route{http.MethodPost, h.handleSavePuzzle}
	case "/api/puzzles/get":
		rt = route{http.MethodPost, h.handleGetPuzzle}
	case "/api/puzzles/delete":
		rt = route{http.MethodPost, h.handleDeletePuzzle}
	case "/api/session/new":
		rt = route{http.MethodPost, h.handleNewSession}
	case "/api/session/state":
		rt = route{http.MethodPost, h.handleSessionState}
	case "/api/session/select":
		rt = route{http.MethodPost, h.handleSelect}
	case "/api/session/play":
		rt = route{http.MethodPost, h.handlePlay}
	case "/api/session/hint":
		rt = route{http.MethodPost, h.handleHint}
	case "/api/session/delete":
		rt = route{http.MethodPost, h.handleDeleteSession}
	case "/api/completions":
		rt = route{http.MethodPost, h.handleCompletions}
	case "/api/rank":
		rt = route{http.MethodGet, h.handleRank}
	default:
		http.NotFound(w, r)
		return
	}
	if r.Method != rt.method {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	rt.fn(w, r)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("bad json: "+err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logrus.Errorf("writeJSON error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// 业务错误 -> HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, puzzle.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicatePuzzle),
		errors.Is(err, puzzle.ErrWrongMove),
		errors.Is(err, puzzle.ErrFinished):
		return http.StatusConflict
	case errors.Is(err, puzzle.ErrIllegalMove),
		errors.Is(err, puzzle.ErrEmptySquare),
		errors.Is(err, puzzle.ErrEmptyName),
		errors.Is(err, puzzle.ErrNegativeScore),
		errors.Is(err, puzzle.ErrNoMoves),
		errors.Is(err, puzzle.ErrIllegalSolution),
		errors.Is(err, xiangqi.ErrTooManyGenerals),
		errors.Is(err, xiangqi.ErrGeneralOutside),
		errors.Is(err, xiangqi.ErrUnknownPieceKind),
		errors.Is(err, xiangqi.ErrInvalidFEN),
		errors.Is(err, xiangqi.ErrInvalidPieceCode),
		errors.Is(err, xiangqi.ErrInvalidBoard),
		errors.Is(err, xiangqi.ErrInvalidMove):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := logrus.WithFields(logrus.Fields{"path": r.URL.Path, "status": status})
	if status >= http.StatusInternalServerError {
		entry.Errorf("request failed: %v", err)
	} else {
		entry.Debugf("request rejected: %v", err)
	}
	writeError(w, status, err)
}

func (h *Handler) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	var req LegalMovesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var b xiangqi.Board
	switch {
	case req.Board != nil:
		b = *req.Board
	case req.FEN != "":
		parsed, err := xiangqi.ParseFEN(req.FEN)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		b = parsed
	default:
		writeError(w, http.StatusBadRequest, errors.New("missing board"))
		return
	}

	at := xiangqi.Pos{X: req.X, Y: req.Y}
	if !at.OnBoard() {
		writeError(w, http.StatusBadRequest, errors.New("square off board"))
		return
	}
	pc := b.At(at.X, at.Y)
	if req.Piece != "" {
		parsed, err := xiangqi.ParsePieceCode(req.Piece)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		pc = parsed
	}

	dests := xiangqi.LegalDestinations(&b, at.X, at.Y, pc.Kind, pc.Color)
	writeJSON(w, http.StatusOK, LegalMovesResponse{Destinations: posesToDTO(dests)})
}

func (h *Handler) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListPuzzles()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]puzzle.Summary, len(list))
	for i, p := range list {
		out[i] = p.Summary()
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleSavePuzzle(w http.ResponseWriter, r *http.Request) {
	var req SavePuzzleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := &puzzle.Puzzle{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Score:       req.Score,
		TeacherID:   req.TeacherID,
		Initial:     req.Initial,
		Moves:       req.Moves,
	}
	if p.ID != "" {
		// 覆盖保存时保留原创建时间
		if old, err := h.store.GetPuzzle(p.ID); err == nil {
			p.CreatedAt = old.CreatedAt
		}
	}
	if err := p.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.SavePuzzle(p); err != nil {
		h.fail(w, r, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"puzzle": p.ID,
		"moves":  len(p.Moves),
		"fen":    p.Initial.FEN(),
	}).Info("puzzle saved")
	writeJSON(w, http.StatusOK, SavePuzzleResponse{ID: p.ID})
}

func (h *Handler) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	var req IDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.store.GetPuzzle(req.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDeletePuzzle(w http.ResponseWriter, r *http.Request) {
	var req IDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.store.DeletePuzzle(req.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SavePuzzleResponse{ID: req.ID})
}

func (h *Handler) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req NewSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.store.GetPuzzle(req.PuzzleID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	autoReply := true
	if req.AutoReply != nil {
		autoReply = *req.AutoReply
	}
	s := h.sessions.New(req.StudentID, p, autoReply)
	logrus.WithFields(logrus.Fields{
		"session": s.ID,
		"puzzle":  p.ID,
		"active":  h.sessions.Len(),
	}).Debug("session started")
	writeJSON(w, http.StatusOK, sessionResponse(s))
}

func sessionResponse(s *puzzle.Session) SessionResponse {
	snap := s.Snapshot()
	return SessionResponse{
		SessionID: s.ID,
		Puzzle:    s.Puzzle.Summary(),
		Board:     snap.Board,
		MoveIndex: snap.MoveIndex,
		Completed: snap.Completed,
		AutoReply: s.AutoReply,
		HintUsed:  s.HintUsed(),
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request, id string) (*puzzle.Session, bool) {
	s, err := h.sessions.Get(id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) handleSessionState(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s, ok := h.session(w, r, req.SessionID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(s))
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s, ok := h.session(w, r, req.SessionID)
	if !ok {
		return
	}
	dests, err := s.Select(xiangqi.Pos{X: req.X, Y: req.Y})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LegalMovesResponse{Destinations: posesToDTO(dests)})
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s, ok := h.session(w, r, req.SessionID)
	if !ok {
		return
	}

	res, err := s.Play(req.Move)
	if errors.Is(err, puzzle.ErrFinished) && h.pendingCompletion(s) {
		// 上次完成时积分没写进去，这次补记
		res, err = s.Snapshot(), nil
	}
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.fail(w, r, err)
			return
		}
		// 走错时把当前盘面带回去，前端据此复位
		writeJSON(w, status, ErrorResponse{Error: err.Error(), Board: &res.Board})
		return
	}

	resp := PlayResponse{PlayResult: res}
	if res.Completed && h.pendingCompletion(s) {
		created, err := h.store.RecordCompletion(store.Completion{
			StudentID: s.StudentID,
			PuzzleID:  s.Puzzle.ID,
			Score:     s.Puzzle.Score,
		})
		if err != nil {
			h.fail(w, r, err)
			return
		}
		s.MarkRecorded()
		resp.Recorded = created
		logrus.WithFields(logrus.Fields{
			"student": s.StudentID,
			"puzzle":  s.Puzzle.ID,
			"new":     created,
		}).Info("puzzle completed")
	}
	writeJSON(w, http.StatusOK, resp)
}

// 做完且有学生身份，但完成记录还没写入
func (h *Handler) pendingCompletion(s *puzzle.Session) bool {
	return s.StudentID != "" && s.Completed() && !s.Recorded()
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s, ok := h.session(w, r, req.SessionID)
	if !ok {
		return
	}
	to, err := s.Hint()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HintResponse{To: posToDTO(to)})
}

// 学生退出做题页面时释放会话
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.sessions.Delete(req.SessionID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionRequest{SessionID: req.SessionID})
}

func (h *Handler) handleCompletions(w http.ResponseWriter, r *http.Request) {
	var req CompletionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.StudentID == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing student_id"))
		return
	}
	list, err := h.store.Completions(req.StudentID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []store.Completion{}
	}
	writeJSON(w, http.StatusOK, CompletionsResponse{Completions: list})
}

func (h *Handler) handleRank(w http.ResponseWriter, r *http.Request) {
	rank, err := h.store.Rank()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RankResponse{Rank: rank})
}
