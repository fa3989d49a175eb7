// Package notify keeps short-lived user notifications for the UI to poll.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"neetgenie/internal/apierr"
)

const (
	errorTTL   = 5 * time.Second
	successTTL = 3 * time.Second
)

type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Notice is one transient notification.
type Notice struct {
	Level     Level     `json:"level"`
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Center holds auto-expiring notices.
type Center struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

// NewCenter initializes an empty notification center.
func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Error records an error notice derived from err and returns the displayed
// text for reuse.
func (c *Center) Error(err error, fallback string) string {
	text := apierr.Normalize(err, fallback)
	c.push(Notice{Level: LevelError, Text: text}, errorTTL)
	slog.Warn("notification", "level", LevelError, "text", text)
	return text
}

// Success records a success notice and returns the displayed text.
func (c *Center) Success(text string) string {
	c.push(Notice{Level: LevelSuccess, Text: text}, successTTL)
	slog.Info("notification", "level", LevelSuccess, "text", text)
	return text
}

// Active returns notices that have not expired yet, pruning the rest.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	kept := c.notices[:0]
	for _, n := range c.notices {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	c.notices = kept
	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}

func (c *Center) push(n Notice, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n.ExpiresAt = c.now().Add(ttl)
	c.notices = append(c.notices, n)
}
