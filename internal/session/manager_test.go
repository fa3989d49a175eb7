package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"neetgenie/pkg/domain"
)

func newRedisManager(t *testing.T) (*Manager, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr(), "", "test:session:")
	return NewManager(store, "sid-1", time.Minute), store
}

func TestPersistUserNilIsNoop(t *testing.T) {
	mgr, store := newRedisManager(t)
	ctx := context.Background()
	if got := mgr.PersistUser(ctx, nil); got != nil {
		t.Fatalf("PersistUser(nil) = %+v, want nil", got)
	}
	if _, ok, _ := store.Get(ctx, "sid-1:user"); ok {
		t.Fatalf("no record should be written for nil user")
	}
}

func TestPersistUserJSONCoercesVerificationFlag(t *testing.T) {
	mgr, _ := newRedisManager(t)
	ctx := context.Background()

	// The string "true" must not pass; only the boolean literal does.
	raw := []byte(`{"id":"u-1","name":"Asha","email":"a@example.com","role":"student","is_verified":"true"}`)
	user, err := mgr.PersistUserJSON(ctx, raw)
	if err != nil {
		t.Fatalf("persist user json: %v", err)
	}
	if user.IsVerified {
		t.Fatalf("is_verified %q should coerce to false", "true")
	}
	stored := mgr.ReadUser(ctx)
	if stored == nil || stored.IsVerified {
		t.Fatalf("stored record = %+v, want is_verified false", stored)
	}

	raw = []byte(`{"id":"u-1","email":"a@example.com","is_verified":true}`)
	user, err = mgr.PersistUserJSON(ctx, raw)
	if err != nil {
		t.Fatalf("persist user json: %v", err)
	}
	if !user.IsVerified {
		t.Fatalf("boolean true should persist as true")
	}
	if !mgr.IsVerified(ctx) {
		t.Fatalf("IsVerified should see the stored true flag")
	}
}

func TestReadUserCorruptRecordTreatedAsAbsent(t *testing.T) {
	mgr, store := newRedisManager(t)
	ctx := context.Background()
	if err := store.Set(ctx, "sid-1:user", "{not json", 0); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}
	if got := mgr.ReadUser(ctx); got != nil {
		t.Fatalf("ReadUser on corrupt record = %+v, want nil", got)
	}
	if mgr.IsVerified(ctx) {
		t.Fatalf("IsVerified should be false without a readable user")
	}
}

func TestClearPreservesRememberedEmail(t *testing.T) {
	mgr, _ := newRedisManager(t)
	ctx := context.Background()
	if err := mgr.SetToken(ctx, "bearer-abc"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	mgr.PersistUser(ctx, &domain.SessionUser{ID: "u-1", Email: "a@example.com"})
	if err := mgr.RememberEmail(ctx, "a@example.com"); err != nil {
		t.Fatalf("remember email: %v", err)
	}

	mgr.Clear(ctx)

	if _, ok := mgr.Token(ctx); ok {
		t.Fatalf("token should be gone after Clear")
	}
	if mgr.ReadUser(ctx) != nil {
		t.Fatalf("user record should be gone after Clear")
	}
	if got := mgr.StoredEmail(ctx); got != "a@example.com" {
		t.Fatalf("StoredEmail = %q, want preserved email", got)
	}
}

func TestDebugSnapshotReflectsState(t *testing.T) {
	mgr, _ := newRedisManager(t)
	ctx := context.Background()
	if err := mgr.SetToken(ctx, "bearer-abc"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	mgr.PersistUser(ctx, &domain.SessionUser{ID: "u-1", Email: "a@example.com", IsVerified: true})
	if err := mgr.RememberEmail(ctx, "a@example.com"); err != nil {
		t.Fatalf("remember email: %v", err)
	}
	if err := mgr.SetVerificationEmail(ctx, "a@example.com"); err != nil {
		t.Fatalf("set verification email: %v", err)
	}
	if err := mgr.SetVerificationToken(ctx, "verify-123"); err != nil {
		t.Fatalf("set verification token: %v", err)
	}
	mgr.BumpVerificationAttempts(ctx)
	mgr.BumpVerificationAttempts(ctx)

	snap := mgr.DebugSnapshot(ctx)
	if !snap.HasToken || !snap.HasUser || !snap.IsVerified {
		t.Fatalf("snapshot flags = %+v, want token/user/verified all true", snap)
	}
	if snap.StoredEmail != "a@example.com" || snap.VerificationEmail != "a@example.com" {
		t.Fatalf("snapshot emails = %+v", snap)
	}
	if snap.VerificationToken != "verify-123" {
		t.Fatalf("snapshot verification token = %q", snap.VerificationToken)
	}
	if snap.VerificationAttempts != 2 {
		t.Fatalf("snapshot attempts = %d, want 2", snap.VerificationAttempts)
	}
}

func TestMemoryStoreParity(t *testing.T) {
	mgr := NewManager(NewMemoryStore(), "sid-2", time.Minute)
	ctx := context.Background()
	raw, _ := json.Marshal(domain.SessionUser{ID: "u-2", Email: "b@example.com", IsVerified: true})
	if _, err := mgr.PersistUserJSON(ctx, raw); err != nil {
		t.Fatalf("persist: %v", err)
	}
	user := mgr.ReadUser(ctx)
	if user == nil || user.ID != "u-2" || !user.IsVerified {
		t.Fatalf("ReadUser = %+v", user)
	}
	if n := mgr.BumpVerificationAttempts(ctx); n != 1 {
		t.Fatalf("first bump = %d, want 1", n)
	}
	if n := mgr.BumpVerificationAttempts(ctx); n != 2 {
		t.Fatalf("second bump = %d, want 2", n)
	}
}
