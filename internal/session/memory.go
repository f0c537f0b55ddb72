package session

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry keeps sessions in a mutex-guarded map. Suitable for a
// single-process deployment; use the Redis registry when running more than
// one API process.
type MemoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
	done     chan struct{}
}

func NewMemoryRegistry() *MemoryRegistry {
	r := &MemoryRegistry{
		sessions: make(map[string]*Session),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go r.sweepLoop()
	return r
}

func (r *MemoryRegistry) Create(ctx context.Context, principal string) (string, error) {
	token := NewToken()
	now := r.now()
	r.mu.Lock()
	r.sessions[HashToken(token)] = &Session{
		Token:        token,
		Principal:    principal,
		CreatedAt:    now,
		LastActivity: now,
	}
	r.mu.Unlock()
	return token, nil
}

// Validate fails identically for unknown and expired tokens. On success it
// touches LastActivity, sliding the idle window forward.
func (r *MemoryRegistry) Validate(ctx context.Context, token string) (Session, error) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[HashToken(token)]
	if !ok {
		return Session{}, ErrNotAuthenticated
	}
	if now.Sub(sess.LastActivity) > IdleExpiry {
		delete(r.sessions, HashToken(token))
		return Session{}, ErrNotAuthenticated
	}
	sess.LastActivity = now
	return *sess, nil
}

func (r *MemoryRegistry) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, HashToken(token))
	r.mu.Unlock()
	return nil
}

func (r *MemoryRegistry) Close() error {
	close(r.done)
	return nil
}

// sweepLoop drops idle-expired sessions so the map does not grow unbounded
// with abandoned logins.
func (r *MemoryRegistry) sweepLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			cutoff := r.now().Add(-IdleExpiry)
			r.mu.Lock()
			for key, sess := range r.sessions {
				if sess.LastActivity.Before(cutoff) {
					delete(r.sessions, key)
				}
			}
			r.mu.Unlock()
		}
	}
}
