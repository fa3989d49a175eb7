package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"neetgenie/internal/apierr"
)

// handleDebugVerification echoes the request shape back to the caller. It
// never calls the backend; the front-end uses it to inspect what a
// verification link actually delivered.
func (s *Server) handleDebugVerification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	headers := make(map[string]string, len(r.Header))
	for name := range r.Header {
		headers[name] = r.Header.Get(name)
	}
	params := make(map[string]string)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":       r.URL.String(),
		"method":    r.Method,
		"headers":   headers,
		"params":    params,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleDirectTokenVerify relays an email-verification token to the backend
// and passes the upstream status and JSON body through verbatim. Exactly one
// outbound call per request; there is no retry.
func (s *Server) handleDirectTokenVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if !s.verifyLimiter.Allow(s.clientIP(r)) {
		s.audit(r, "gateway.verify.relay", "fail", "reason", "rate_limited")
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "too many verification attempts")
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		s.audit(r, "gateway.verify.relay", "fail", "reason", "missing_token")
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Missing token",
			"message": "Verification token is required",
		})
		return
	}

	sess := s.sessionFor(r)
	attempts := sess.BumpVerificationAttempts(r.Context())
	if err := sess.SetVerificationToken(r.Context(), token); err != nil {
		// The relay itself does not depend on the diagnostic keys.
		s.audit(r, "gateway.verify.relay", "fail", "reason", "session_write_failed")
	}

	status, body, err := s.backend.VerifyEmailToken(r.Context(), token)
	if err != nil {
		s.audit(r, "gateway.verify.relay", "fail", "reason", "backend_error", "attempts", attempts)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Verification failed",
			"message": apierr.Normalize(err, "Verification failed"),
		})
		return
	}
	s.audit(r, "gateway.verify.relay", "success", "upstream_status", status, "attempts", attempts)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// handleResetPassword forwards the caller to the reset-password page,
// carrying whichever of token and email were present, URL-encoded. The
// redirect has no body.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	params := url.Values{}
	if token := r.URL.Query().Get("token"); token != "" {
		params.Set("token", token)
	}
	if email := r.URL.Query().Get("email"); email != "" {
		params.Set("email", email)
	}
	target := "/reset-password"
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}
	s.audit(r, "gateway.reset_password.redirect", "success", "has_token", params.Has("token"), "has_email", params.Has("email"))
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusTemporaryRedirect)
}
