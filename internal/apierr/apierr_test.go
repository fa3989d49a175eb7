package apierr

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func respWithBody(status int, contentType, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{contentType}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseErrorJSONMessage(t *testing.T) {
	resp := respWithBody(http.StatusUnauthorized, "application/json", `{"message":"Token expired"}`)
	if got := ParseResponseError(resp); got != "Token expired" {
		t.Fatalf("ParseResponseError = %q, want %q", got, "Token expired")
	}
}

func TestParseResponseErrorFieldPriority(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message wins", `{"message":"m","error":"e","detail":"d"}`, "m"},
		{"error next", `{"error":"e","detail":"d"}`, "e"},
		{"detail last", `{"detail":"d"}`, "d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := respWithBody(http.StatusBadRequest, "application/json", tc.body)
			if got := ParseResponseError(resp); got != tc.want {
				t.Fatalf("ParseResponseError = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseResponseErrorNonJSONFallsBackToStatus(t *testing.T) {
	resp := respWithBody(http.StatusServiceUnavailable, "text/html", "<html>boom</html>")
	if got := ParseResponseError(resp); got != "Error 503: Service Unavailable" {
		t.Fatalf("ParseResponseError = %q, want %q", got, "Error 503: Service Unavailable")
	}
}

func TestParseResponseErrorEmptyBody(t *testing.T) {
	resp := respWithBody(http.StatusBadGateway, "application/json", "")
	if got := ParseResponseError(resp); got != "Error 502: Bad Gateway" {
		t.Fatalf("ParseResponseError = %q, want %q", got, "Error 502: Bad Gateway")
	}
}

func TestNormalizeStripsAPIErrorPrefix(t *testing.T) {
	err := errors.New("API Error: verification failed")
	if got := Normalize(err, "fallback"); got != "verification failed" {
		t.Fatalf("Normalize = %q, want %q", got, "verification failed")
	}
}

func TestNormalizeTypedError(t *testing.T) {
	err := &Error{Status: http.StatusConflict, Message: "email already registered"}
	if got := Normalize(err, "fallback"); got != "email already registered" {
		t.Fatalf("Normalize = %q, want %q", got, "email already registered")
	}
}

func TestNormalizeNilUsesFallback(t *testing.T) {
	if got := Normalize(nil, "something went wrong"); got != "something went wrong" {
		t.Fatalf("Normalize = %q, want fallback", got)
	}
}

func TestFromTextBlank(t *testing.T) {
	f := FromText("   ")
	if f.Kind != KindUnknown {
		t.Fatalf("FromText blank kind = %q, want unknown", f.Kind)
	}
	if got := f.Display("fb"); got != "fb" {
		t.Fatalf("Display = %q, want fallback", got)
	}
}
