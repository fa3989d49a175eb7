// Package apierr converts the failure shapes seen at the backend boundary
// (HTTP responses, typed upstream errors, plain errors) into a single
// displayable message. It never fails: every input maps to some string.
package apierr

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error represents a structured error response from the backend API.
type Error struct {
	Status  int
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// Kind tags the failure shape a message was derived from.
type Kind string

const (
	KindHTTPFailure Kind = "http_failure"
	KindParsedBody  Kind = "parsed_body"
	KindPlainText   Kind = "plain_text"
	KindUnknown     Kind = "unknown"
)

// Failure is the normalized form of any boundary error.
type Failure struct {
	Kind       Kind
	Status     int
	StatusText string
	Message    string
}

// bodyProbe covers the message fields backends use, in priority order.
type bodyProbe struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func (p bodyProbe) first() string {
	for _, s := range []string{p.Message, p.Error, p.Detail} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// FromResponse classifies a failed HTTP response. The body is consumed; when
// it holds structured data with a recognizable message field the result is a
// ParsedBody failure, otherwise an HTTPFailure carrying status info.
func FromResponse(resp *http.Response) Failure {
	if resp == nil {
		return Failure{Kind: KindUnknown}
	}
	httpFail := Failure{
		Kind:       KindHTTPFailure,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
	if resp.Body == nil {
		return httpFail
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(data) == 0 {
		return httpFail
	}
	var probe bodyProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return httpFail
	}
	msg := probe.first()
	if msg == "" {
		return httpFail
	}
	return Failure{
		Kind:       KindParsedBody,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Message:    msg,
	}
}

// FromError classifies an error value.
func FromError(err error) Failure {
	switch e := err.(type) {
	case nil:
		return Failure{Kind: KindUnknown}
	case *Error:
		return Failure{
			Kind:       KindParsedBody,
			Status:     e.Status,
			StatusText: http.StatusText(e.Status),
			Message:    e.Message,
		}
	default:
		return Failure{Kind: KindPlainText, Message: err.Error()}
	}
}

// FromText classifies a raw string.
func FromText(text string) Failure {
	if strings.TrimSpace(text) == "" {
		return Failure{Kind: KindUnknown}
	}
	return Failure{Kind: KindPlainText, Message: text}
}

// Display maps a failure to user-facing text. Pure and total: it always
// returns a non-empty string when fallback is non-empty.
func (f Failure) Display(fallback string) string {
	msg := strings.TrimSpace(f.Message)
	// Upstream sometimes wraps its own message with an "API Error:" prefix.
	msg = strings.TrimSpace(strings.TrimPrefix(msg, "API Error:"))
	if msg != "" {
		return msg
	}
	if f.Kind == KindHTTPFailure && f.Status != 0 {
		return fmt.Sprintf("Error %d: %s", f.Status, f.StatusText)
	}
	return fallback
}

// ParseResponseError extracts a displayable message from a failed response.
func ParseResponseError(resp *http.Response) string {
	return FromResponse(resp).Display("request failed")
}

// Normalize converts any error into a displayable message, using fallback
// when the error carries no usable text.
func Normalize(err error, fallback string) string {
	return FromError(err).Display(fallback)
}
