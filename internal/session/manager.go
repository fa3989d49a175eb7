// Package session owns the durable session record of a signed-in student and
// the session-scoped verification scratch keys around it.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"neetgenie/pkg/domain"
)

// Storage keys. The first three are durable; the verification trio is
// session-scoped and expires with the session TTL.
const (
	keyToken     = "token"
	keyUser      = "user"
	keyUserEmail = "userEmail"

	keyVerificationEmail    = "verificationEmail"
	keyVerificationToken    = "verificationToken"
	keyVerificationAttempts = "verificationAttempts"
)

const defaultEphemeralTTL = 30 * time.Minute

// Manager exposes session record operations for one client session.
// Construct with For to bind a session id.
type Manager struct {
	store        Store
	sid          string
	ephemeralTTL time.Duration
}

// NewManager binds session operations to a store and session id.
func NewManager(store Store, sid string, ephemeralTTL time.Duration) *Manager {
	if ephemeralTTL <= 0 {
		ephemeralTTL = defaultEphemeralTTL
	}
	return &Manager{store: store, sid: sid, ephemeralTTL: ephemeralTTL}
}

func (m *Manager) key(name string) string {
	return m.sid + ":" + name
}

// SetToken stores the opaque bearer credential.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	return m.store.Set(ctx, m.key(keyToken), token, 0)
}

// Token returns the stored bearer credential, if any.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	val, ok, err := m.store.Get(ctx, m.key(keyToken))
	if err != nil {
		slog.Error("session token read failed", "err", err)
		return "", false
	}
	return val, ok
}

// PersistUser writes the session record. The verification flag is already a
// strict boolean at this point (domain.StrictBool coerces at the JSON
// boundary, so only the literal true survives). A nil user is a no-op that
// returns nil. On a storage failure the original record is returned so the
// caller can keep its in-memory view, and the failure is logged.
func (m *Manager) PersistUser(ctx context.Context, user *domain.SessionUser) *domain.SessionUser {
	if user == nil {
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		slog.Error("session user marshal failed", "err", err)
		return user
	}
	if err := m.store.Set(ctx, m.key(keyUser), string(data), 0); err != nil {
		slog.Error("session user write failed", "err", err)
		return user
	}
	return user
}

// PersistUserJSON decodes a raw record and persists it. Unknown shapes for
// is_verified collapse to false via domain.StrictBool.
func (m *Manager) PersistUserJSON(ctx context.Context, raw []byte) (*domain.SessionUser, error) {
	var user domain.SessionUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return m.PersistUser(ctx, &user), nil
}

// ReadUser returns the stored session record, or nil on absence or corrupt
// JSON. A corrupt record is treated as "no session", never as an error.
func (m *Manager) ReadUser(ctx context.Context) *domain.SessionUser {
	val, ok, err := m.store.Get(ctx, m.key(keyUser))
	if err != nil {
		slog.Error("session user read failed", "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	var user domain.SessionUser
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		slog.Warn("session user record corrupt, treating as absent", "err", err)
		return nil
	}
	return &user
}

// IsVerified reports whether a session user exists with a strictly true
// verification flag.
func (m *Manager) IsVerified(ctx context.Context) bool {
	user := m.ReadUser(ctx)
	return user != nil && bool(user.IsVerified)
}

// RememberEmail stores the login email hint that survives logout.
func (m *Manager) RememberEmail(ctx context.Context, email string) error {
	return m.store.Set(ctx, m.key(keyUserEmail), email, 0)
}

// StoredEmail returns the remembered login email, if any.
func (m *Manager) StoredEmail(ctx context.Context) string {
	val, _, err := m.store.Get(ctx, m.key(keyUserEmail))
	if err != nil {
		slog.Error("session email read failed", "err", err)
		return ""
	}
	return val
}

// Clear removes the bearer token and the user record. The remembered email
// stays so the login form can prefill it next time.
func (m *Manager) Clear(ctx context.Context) {
	if err := m.store.Delete(ctx, m.key(keyToken)); err != nil {
		slog.Error("session token delete failed", "err", err)
	}
	if err := m.store.Delete(ctx, m.key(keyUser)); err != nil {
		slog.Error("session user delete failed", "err", err)
	}
}

// SetVerificationEmail records the email awaiting verification.
func (m *Manager) SetVerificationEmail(ctx context.Context, email string) error {
	return m.store.Set(ctx, m.key(keyVerificationEmail), email, m.ephemeralTTL)
}

// SetVerificationToken records the pending verification token.
func (m *Manager) SetVerificationToken(ctx context.Context, token string) error {
	return m.store.Set(ctx, m.key(keyVerificationToken), token, m.ephemeralTTL)
}

// BumpVerificationAttempts increments the diagnostic attempt counter.
func (m *Manager) BumpVerificationAttempts(ctx context.Context) int {
	count, err := m.store.Incr(ctx, m.key(keyVerificationAttempts), m.ephemeralTTL)
	if err != nil {
		slog.Error("verification attempts incr failed", "err", err)
		return 0
	}
	return int(count)
}

// DebugSnapshot assembles a read-only diagnostic report of verification
// state and emits a structured trace. It never mutates stored data.
func (m *Manager) DebugSnapshot(ctx context.Context) domain.VerificationSnapshot {
	snap := domain.VerificationSnapshot{}
	if _, ok := m.Token(ctx); ok {
		snap.HasToken = true
	}
	if user := m.ReadUser(ctx); user != nil {
		snap.HasUser = true
		snap.IsVerified = bool(user.IsVerified)
	}
	snap.StoredEmail = m.StoredEmail(ctx)
	if val, ok, _ := m.store.Get(ctx, m.key(keyVerificationEmail)); ok {
		snap.VerificationEmail = val
	}
	if val, ok, _ := m.store.Get(ctx, m.key(keyVerificationToken)); ok {
		snap.VerificationToken = val
	}
	if val, ok, _ := m.store.Get(ctx, m.key(keyVerificationAttempts)); ok {
		if n, err := strconv.Atoi(val); err == nil {
			snap.VerificationAttempts = n
		}
	}
	slog.Debug("verification_snapshot",
		"sid", m.sid,
		"has_token", snap.HasToken,
		"has_user", snap.HasUser,
		"is_verified", snap.IsVerified,
		"attempts", snap.VerificationAttempts,
	)
	return snap
}
