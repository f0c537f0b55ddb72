// Package session provides the admin session registry. Tokens are opaque
// random values; validation slides the idle-expiry window forward.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// IdleExpiry is the sliding idle window: a session untouched for this long
// fails validation.
const IdleExpiry = 24 * time.Hour

// ErrNotAuthenticated is returned for unknown and expired tokens alike;
// callers must treat any negative result as "require login".
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is what a valid token resolves to.
type Session struct {
	Token        string
	Principal    string
	CreatedAt    time.Time
	LastActivity time.Time
}

// Registry maps opaque session tokens to a principal. Validate refreshes the
// session's last activity on success, so every authenticated request extends
// the session. Revoke is idempotent.
type Registry interface {
	Create(ctx context.Context, principal string) (string, error)
	Validate(ctx context.Context, token string) (Session, error)
	Revoke(ctx context.Context, token string) error
	Close() error
}

// NewToken returns a cryptographically random opaque token. Collisions are
// negligible by construction (256 bits).
func NewToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// HashToken derives the storage key for a token so backends never hold the
// raw credential.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return fmt.Sprintf("%x", sum)
}
