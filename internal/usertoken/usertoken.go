// Package usertoken extracts a display identifier from a bearer token's
// payload segment.
//
// This is a decode, not a verification: no signature is checked and nothing
// here may feed an authorization decision. The backend re-derives identity on
// every proxied call; the extracted subject exists only for display and log
// correlation.
package usertoken

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// subjectFields is the priority order for identifier claims.
var subjectFields = []string{"id", "sub", "userId", "user_id"}

// ExtractSubject decodes the token's payload segment and returns the first
// identifier claim present. It returns ok=false on any malformed input:
// missing segment, invalid base64, non-JSON payload, or no known claim.
func ExtractSubject(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return "", false
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return "", false
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", false
	}
	for _, field := range subjectFields {
		if v, ok := claims[field]; ok {
			if s, ok := renderClaim(v); ok {
				return s, true
			}
		}
	}
	return "", false
}

// decodeSegment accepts both raw and padded base64url, the two encodings
// seen in the wild for JWT payloads.
func decodeSegment(seg string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(seg); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(seg)
}

func renderClaim(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return "", false
		}
		return val, true
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val)), true
		}
		return fmt.Sprintf("%v", val), true
	default:
		return "", false
	}
}
