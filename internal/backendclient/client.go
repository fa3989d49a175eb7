// Package backendclient calls the NEETgenie backend API over HTTP.
package backendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"neetgenie/internal/apierr"
)

const defaultTimeout = 30 * time.Second

// Client is a thin HTTP client for the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a backend client. A zero timeout falls back to the
// default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type assistantRequest struct {
	Query   string `json:"query"`
	Subject string `json:"subject,omitempty"`
}

type assistantResponse struct {
	Success  *bool  `json:"success"`
	Response string `json:"response"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

// AskAssistant sends one question to the assistant endpoint. The subject
// field is included only when provided. A well-formed reply returns the
// response text; logical failures surface as *apierr.Error.
func (c *Client) AskAssistant(ctx context.Context, bearer, query, subject string) (string, error) {
	payload := assistantRequest{Query: query, Subject: subject}
	var resp assistantResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/ask", bearer, payload, &resp); err != nil {
		return "", err
	}
	if resp.Success != nil && !*resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = resp.Error
		}
		if msg == "" {
			msg = "assistant request failed"
		}
		return "", &apierr.Error{Status: http.StatusBadGateway, Message: msg}
	}
	if strings.TrimSpace(resp.Response) == "" {
		return "", errors.New("assistant returned an empty response")
	}
	return resp.Response, nil
}

// VerifyEmailToken forwards a verification token to the backend and returns
// the upstream status code and raw JSON body for verbatim relay. Exactly one
// outbound call is made; there is no retry.
func (c *Client) VerifyEmailToken(ctx context.Context, token string) (int, json.RawMessage, error) {
	endpoint := c.baseURL + "/auth/verify-email-token/" + url.PathEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, err
	}
	if !json.Valid(body) {
		return 0, nil, fmt.Errorf("backend returned non-JSON verification response (status %d)", resp.StatusCode)
	}
	return resp.StatusCode, json.RawMessage(body), nil
}

func (c *Client) doJSON(ctx context.Context, method, path, bearer string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
			Error   string `json:"error"`
			Detail  string `json:"detail"`
			Code    string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
		if msg == "" {
			msg = errResp.Detail
		}
		if msg == "" {
			msg = resp.Status
		}
		return &apierr.Error{Status: resp.StatusCode, Message: msg, Code: strings.TrimSpace(errResp.Code)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
