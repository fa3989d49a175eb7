// Package state holds the in-memory UI state containers. Each container
// owns exactly one slice of state; none depends on another. All operations
// are synchronous and total.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"neetgenie/pkg/domain"
)

// WelcomeMessage seeds a fresh conversation.
const WelcomeMessage = "Hi! I'm your NEETgenie study assistant. Ask me anything about Physics, Chemistry or Biology."

// Chat owns the assistant conversation thread.
type Chat struct {
	mu       sync.RWMutex
	messages []domain.ChatMessage
	loading  bool
	err      string
}

// NewChat initializes the thread with the welcome message.
func NewChat() *Chat {
	c := &Chat{}
	c.ResetToWelcome()
	return c
}

// Append adds a message with a fresh unique id and current timestamp and
// returns the stored message. Insertion order is preserved.
func (c *Chat) Append(role domain.MessageRole, content string) domain.ChatMessage {
	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return msg
}

// Messages returns a snapshot of the thread in insertion order.
func (c *Chat) Messages() []domain.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// SetLoading flips the in-flight flag.
func (c *Chat) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// Loading reports whether a send is in flight.
func (c *Chat) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// SetError records the last error text; empty clears it.
func (c *Chat) SetError(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = text
}

// Err returns the last error text.
func (c *Chat) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// ResetToWelcome replaces the thread with the single seeded greeting.
func (c *Chat) ResetToWelcome() {
	welcome := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   WelcomeMessage,
		CreatedAt: time.Now().UTC(),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = []domain.ChatMessage{welcome}
	c.err = ""
}
