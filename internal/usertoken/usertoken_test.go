package usertoken

import (
	"encoding/base64"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func mustSignToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestExtractSubjectFromSignedToken(t *testing.T) {
	token := mustSignToken(t, jwt.MapClaims{
		"sub": "student-42",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	got, ok := ExtractSubject(token)
	if !ok || got != "student-42" {
		t.Fatalf("ExtractSubject = %q, %v; want %q, true", got, ok, "student-42")
	}
}

func TestExtractSubjectFieldPriority(t *testing.T) {
	token := mustSignToken(t, jwt.MapClaims{
		"id":      "primary-id",
		"sub":     "secondary",
		"userId":  "tertiary",
		"user_id": "last",
	})
	got, ok := ExtractSubject(token)
	if !ok || got != "primary-id" {
		t.Fatalf("ExtractSubject = %q, %v; want id field to win", got, ok)
	}
}

func TestExtractSubjectNumericID(t *testing.T) {
	token := mustSignToken(t, jwt.MapClaims{"id": 1234})
	got, ok := ExtractSubject(token)
	if !ok || got != "1234" {
		t.Fatalf("ExtractSubject = %q, %v; want %q, true", got, ok, "1234")
	}
}

func TestExtractSubjectMalformedInputs(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"no separator", "nodotsatall"},
		{"invalid base64 payload", "header.!!!not-base64!!!.sig"},
		{"payload not json", "header." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".sig"},
		{"no known claim", "header." + base64.RawURLEncoding.EncodeToString([]byte(`{"role":"student"}`)) + ".sig"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got, ok := ExtractSubject(tc.token); ok {
				t.Fatalf("ExtractSubject(%q) = %q, want not ok", tc.token, got)
			}
		})
	}
}

func TestExtractSubjectPaddedBase64(t *testing.T) {
	payload := base64.URLEncoding.EncodeToString([]byte(`{"user_id":"u-9"}`))
	got, ok := ExtractSubject("header." + payload + ".sig")
	if !ok || got != "u-9" {
		t.Fatalf("ExtractSubject = %q, %v; want %q, true", got, ok, "u-9")
	}
}
