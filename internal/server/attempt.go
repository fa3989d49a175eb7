package server

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
)

func (s *Server) handleAttempt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	marked := s.attempt.Marked()
	sort.Ints(marked)
	writeJSON(w, http.StatusOK, map[string]any{
		"answers":    s.attempt.Answers(),
		"marked":     marked,
		"submitting": s.attempt.Submitting(),
		"error":      s.attempt.Err(),
	})
}

type recordAnswerRequest struct {
	QuestionID  int `json:"questionId"`
	OptionIndex int `json:"optionIndex"`
}

func (s *Server) handleAttemptAnswers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req recordAnswerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.QuestionID <= 0 || req.OptionIndex < 0 {
		writeError(w, http.StatusBadRequest, "questionId must be positive and optionIndex non-negative")
		return
	}
	s.attempt.RecordAnswer(req.QuestionID, req.OptionIndex)
	writeJSON(w, http.StatusOK, map[string]any{
		"questionId":  req.QuestionID,
		"optionIndex": req.OptionIndex,
	})
}

type toggleMarkRequest struct {
	QuestionID int `json:"questionId"`
}

func (s *Server) handleAttemptMarks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req toggleMarkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.QuestionID <= 0 {
		writeError(w, http.StatusBadRequest, "questionId must be positive")
		return
	}
	s.attempt.ToggleMark(req.QuestionID)
	writeJSON(w, http.StatusOK, map[string]any{
		"questionId": req.QuestionID,
		"marked":     s.attempt.IsMarked(req.QuestionID),
	})
}

func (s *Server) handleAttemptReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.attempt.ResetAll()
	s.attempt.SetError("")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
