// Package chat orchestrates one assistant exchange: append the user turn,
// call the backend, and always leave the thread with an assistant reply.
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"neetgenie/internal/apierr"
	"neetgenie/internal/notify"
	"neetgenie/internal/state"
	"neetgenie/pkg/domain"
)

// ApologyMessage is the assistant's scripted reply when a send fails. The
// thread is never left without an assistant turn.
const ApologyMessage = "Sorry, I ran into a problem answering that. Please try again in a moment."

const fallbackErrorText = "Failed to reach the study assistant"

const defaultSendTimeout = 30 * time.Second

// Assistant is the outbound surface the orchestrator needs.
type Assistant interface {
	AskAssistant(ctx context.Context, bearer, query, subject string) (string, error)
}

// Service coordinates sends against the chat container.
//
// Overlap policy (newest wins): starting a send cancels the previous
// in-flight one. The cancelled send takes the failure path and appends the
// apology, so every user message gets exactly one assistant turn; only the
// newest send may set the visible error text. Every send carries a timeout
// so the loading flag can never hang indefinitely.
type Service struct {
	chat      *state.Chat
	assistant Assistant
	notifier  *notify.Center
	timeout   time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	inflight int
}

// NewService wires the orchestrator. A zero timeout falls back to the
// default.
func NewService(chat *state.Chat, assistant Assistant, notifier *notify.Center, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Service{
		chat:      chat,
		assistant: assistant,
		notifier:  notifier,
		timeout:   timeout,
	}
}

// Send appends the user message, asks the assistant, and appends its reply
// or the apology. It returns the assistant turn.
func (s *Service) Send(ctx context.Context, bearer, content, subject string) (domain.ChatMessage, error) {
	sendCtx, superseded := s.begin(ctx)

	s.chat.Append(domain.RoleUser, content)
	s.chat.SetLoading(true)
	defer s.finish()

	answer, err := s.assistant.AskAssistant(sendCtx, bearer, content, subject)
	if err != nil {
		if superseded(err) {
			// A newer send owns the error state now; just close out this turn.
			return s.chat.Append(domain.RoleAssistant, ApologyMessage), err
		}
		text := s.notifier.Error(err, fallbackErrorText)
		s.chat.SetError(text)
		return s.chat.Append(domain.RoleAssistant, ApologyMessage), err
	}

	s.chat.SetError("")
	return s.chat.Append(domain.RoleAssistant, answer), nil
}

// begin registers a new send, cancelling any previous in-flight one. The
// returned predicate reports whether a failure came from being superseded
// rather than from the caller or the network.
func (s *Service) begin(ctx context.Context) (context.Context, func(error) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	s.cancel = cancel
	s.inflight++

	callerDone := ctx.Done()
	return sendCtx, func(err error) bool {
		if !errors.Is(err, context.Canceled) {
			return false
		}
		select {
		case <-callerDone:
			return false
		default:
			return true
		}
	}
}

// finish clears the loading flag once no send remains in flight.
func (s *Service) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.inflight <= 0 {
		s.chat.SetLoading(false)
	}
}

// Normalize exposes the orchestrator's error-to-text mapping for handlers.
func Normalize(err error) string {
	return apierr.Normalize(err, fallbackErrorText)
}
