package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"neetgenie/internal/usertoken"
)

type putSessionUserRequest struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

func (s *Server) handleSessionUser(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		s.handlePutSessionUser(w, r)
	case http.MethodGet:
		s.handleGetSessionUser(w, r)
	default:
		methodNotAllowed(w)
	}
}

// handlePutSessionUser stores the signed-in student's record and credential.
// The is_verified flag is coerced at the JSON boundary, so only a literal
// boolean true survives into the stored record.
func (s *Server) handlePutSessionUser(w http.ResponseWriter, r *http.Request) {
	var req putSessionUserRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.User) == 0 {
		writeError(w, http.StatusBadRequest, "user record is required")
		return
	}

	sess := s.sessionFor(r)
	user, err := sess.PersistUserJSON(r.Context(), req.User)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user record")
		return
	}
	if token := strings.TrimSpace(req.Token); token != "" {
		if err := sess.SetToken(r.Context(), token); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store credential")
			return
		}
		subject, _ := usertoken.ExtractSubject(token)
		s.audit(r, "gateway.session.signin", "success", "subject", subject)
	}
	if user != nil && user.Email != "" {
		if err := sess.RememberEmail(r.Context(), user.Email); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store email")
			return
		}
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetSessionUser(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(r)
	user := sess.ReadUser(r.Context())
	if user == nil {
		writeError(w, http.StatusNotFound, "no session user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":     user,
		"verified": sess.IsVerified(r.Context()),
	})
}

// handleSession serves DELETE /api/session: sign-out clears the credential
// and record but keeps the remembered login email.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	sess := s.sessionFor(r)
	sess.Clear(r.Context())
	s.audit(r, "gateway.session.signout", "success")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSessionVerification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionFor(r).DebugSnapshot(r.Context()))
}
