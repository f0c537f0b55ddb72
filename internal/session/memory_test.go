package session

import (
	"context"
	"testing"
	"time"
)

// newClockedRegistry returns a registry with a controllable clock and no
// background sweeper.
func newClockedRegistry(start time.Time) (*MemoryRegistry, *time.Time) {
	now := start
	r := &MemoryRegistry{
		sessions: make(map[string]*Session),
		now:      func() time.Time { return now },
		done:     make(chan struct{}),
	}
	return r, &now
}

func TestCreateAndValidate(t *testing.T) {
	r := NewMemoryRegistry()
	defer r.Close()
	ctx := context.Background()

	token, err := r.Create(ctx, "admin")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	sess, err := r.Validate(ctx, token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if sess.Principal != "admin" {
		t.Errorf("expected principal admin, got %q", sess.Principal)
	}
}

func TestTokensAreUnique(t *testing.T) {
	r := NewMemoryRegistry()
	defer r.Close()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := r.Create(ctx, "admin")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if seen[token] {
			t.Fatalf("token collision after %d creates", i)
		}
		seen[token] = true
	}
}

func TestValidateUnknownToken(t *testing.T) {
	r := NewMemoryRegistry()
	defer r.Close()

	if _, err := r.Validate(context.Background(), "no-such-token"); err != ErrNotAuthenticated {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestIdleExpiryIsSliding(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r, clock := newClockedRegistry(t0)
	ctx := context.Background()

	token, err := r.Create(ctx, "admin")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A request at 23h59m slides the window forward.
	*clock = t0.Add(23*time.Hour + 59*time.Minute)
	if _, err := r.Validate(ctx, token); err != nil {
		t.Fatalf("expected session alive at 23h59m, got %v", err)
	}

	// Another 23h59m after the touch: still alive.
	*clock = clock.Add(23*time.Hour + 59*time.Minute)
	if _, err := r.Validate(ctx, token); err != nil {
		t.Fatalf("expected session alive after sliding touch, got %v", err)
	}
}

func TestIdleExpiryWithoutActivity(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r, clock := newClockedRegistry(t0)
	ctx := context.Background()

	token, err := r.Create(ctx, "admin")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Untouched past the idle window: expired and indistinguishable from an
	// unknown token.
	*clock = t0.Add(IdleExpiry + time.Second)
	if _, err := r.Validate(ctx, token); err != ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated after idle expiry, got %v", err)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	r := NewMemoryRegistry()
	defer r.Close()
	ctx := context.Background()

	token, err := r.Create(ctx, "admin")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := r.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := r.Revoke(ctx, token); err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}
	if _, err := r.Validate(ctx, token); err != ErrNotAuthenticated {
		t.Errorf("expected revoked token to be unauthenticated, got %v", err)
	}
}
