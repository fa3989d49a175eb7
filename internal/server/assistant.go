package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

type assistantSendRequest struct {
	Query   string `json:"query"`
	Subject string `json:"subject"`
}

// handleAssistantSend runs one assistant exchange. The thread always gains
// an assistant turn, so the handler answers 200 with the reply even when the
// backend call failed and the reply is the scripted apology.
func (s *Server) handleAssistantSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req assistantSendRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	token, ok := bearerToken(r)
	if !ok {
		// Fall back to the stored session credential.
		token, _ = s.sessionFor(r).Token(r.Context())
	}

	reply, err := s.chat.Send(r.Context(), token, req.Query, req.Subject)
	payload := map[string]any{"reply": reply}
	if err != nil {
		payload["error"] = s.chatState.Err()
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleAssistantMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	messages := s.chatState.Messages()
	writeJSON(w, http.StatusOK, map[string]any{
		"items":   messages,
		"count":   len(messages),
		"loading": s.chatState.Loading(),
		"error":   s.chatState.Err(),
	})
}

func (s *Server) handleAssistantReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.chatState.ResetToWelcome()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
