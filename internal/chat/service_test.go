package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"neetgenie/internal/apierr"
	"neetgenie/internal/notify"
	"neetgenie/internal/state"
	"neetgenie/pkg/domain"
)

type fakeAssistant struct {
	mu      sync.Mutex
	answer  string
	err     error
	delay   time.Duration
	queries []string
}

func (f *fakeAssistant) AskAssistant(ctx context.Context, _, query, _ string) (string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	answer, err, delay := f.answer, f.err, f.delay
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return answer, nil
}

func newService(assistant Assistant) (*Service, *state.Chat) {
	chatState := state.NewChat()
	svc := NewService(chatState, assistant, notify.NewCenter(), time.Second)
	return svc, chatState
}

func TestSendSuccessAppendsBothTurns(t *testing.T) {
	svc, chatState := newService(&fakeAssistant{answer: "Focus on thermodynamics today."})

	reply, err := svc.Send(context.Background(), "bearer", "What should I study?", "Physics")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Role != domain.RoleAssistant || reply.Content != "Focus on thermodynamics today." {
		t.Fatalf("reply = %+v", reply)
	}

	msgs := chatState.Messages()
	if len(msgs) != 3 { // welcome, user, assistant
		t.Fatalf("messages = %d, want 3", len(msgs))
	}
	if msgs[1].Role != domain.RoleUser || msgs[1].Content != "What should I study?" {
		t.Fatalf("user turn = %+v", msgs[1])
	}
	if chatState.Loading() {
		t.Fatalf("loading should clear after send")
	}
	if chatState.Err() != "" {
		t.Fatalf("error should be empty, got %q", chatState.Err())
	}
}

func TestSendFailureAppendsApology(t *testing.T) {
	svc, chatState := newService(&fakeAssistant{
		err: &apierr.Error{Status: 503, Message: "assistant overloaded"},
	})

	reply, err := svc.Send(context.Background(), "bearer", "help", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if reply.Content != ApologyMessage {
		t.Fatalf("reply = %q, want apology", reply.Content)
	}

	msgs := chatState.Messages()
	if msgs[len(msgs)-1].Role != domain.RoleAssistant {
		t.Fatalf("thread must end with an assistant turn")
	}
	if chatState.Err() != "assistant overloaded" {
		t.Fatalf("error text = %q, want normalized upstream message", chatState.Err())
	}
	if chatState.Loading() {
		t.Fatalf("loading should clear on failure too")
	}
}

func TestSendTimesOut(t *testing.T) {
	chatState := state.NewChat()
	svc := NewService(chatState, &fakeAssistant{answer: "late", delay: time.Second}, notify.NewCenter(), 30*time.Millisecond)

	_, err := svc.Send(context.Background(), "bearer", "slow question", "")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	last := chatState.Messages()[len(chatState.Messages())-1]
	if last.Content != ApologyMessage {
		t.Fatalf("timed-out send must still append the apology")
	}
	if chatState.Loading() {
		t.Fatalf("loading must clear after a timeout")
	}
}

func TestNewerSendSupersedesInFlight(t *testing.T) {
	assistant := &fakeAssistant{answer: "first answer", delay: 200 * time.Millisecond}
	svc, chatState := newService(assistant)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.Send(context.Background(), "bearer", "first", "")
	}()
	time.Sleep(50 * time.Millisecond)

	assistant.mu.Lock()
	assistant.delay = 0
	assistant.answer = "second answer"
	assistant.mu.Unlock()

	reply, err := svc.Send(context.Background(), "bearer", "second", "")
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if reply.Content != "second answer" {
		t.Fatalf("reply = %q", reply.Content)
	}
	wg.Wait()

	// Both user turns got an assistant reply: the superseded send closed
	// with the apology, the newer one with the real answer.
	var apologies, answers int
	for _, m := range chatState.Messages() {
		if m.Role != domain.RoleAssistant {
			continue
		}
		switch m.Content {
		case ApologyMessage:
			apologies++
		case "second answer":
			answers++
		}
	}
	if apologies != 1 || answers != 1 {
		t.Fatalf("apologies=%d answers=%d, want 1 and 1", apologies, answers)
	}
	// The superseded send must not clobber the newer send's clean state.
	if chatState.Err() != "" {
		t.Fatalf("error = %q, want empty after newest send succeeded", chatState.Err())
	}
	if chatState.Loading() {
		t.Fatalf("loading should be clear once all sends finished")
	}
}
