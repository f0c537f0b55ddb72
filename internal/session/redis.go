package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionData is the payload stored for each token.
type sessionData struct {
	Principal string    `json:"principal"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisRegistry stores sessions under hashed token keys with a TTL equal to
// the idle window; Validate re-arms the TTL, which gives the same sliding
// expiry as the in-memory registry but shared across processes.
type RedisRegistry struct {
	client *redis.Client
	prefix string
}

func NewRedisRegistry(redisURL string) (*RedisRegistry, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisRegistry{client: client, prefix: "session:"}, nil
}

// NewRedisRegistryWithClient creates a registry from an existing client.
func NewRedisRegistryWithClient(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client, prefix: "session:"}
}

func (r *RedisRegistry) key(token string) string {
	return r.prefix + HashToken(token)
}

func (r *RedisRegistry) Create(ctx context.Context, principal string) (string, error) {
	token := NewToken()
	payload, err := json.Marshal(sessionData{Principal: principal, CreatedAt: time.Now()})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(token), payload, IdleExpiry).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

func (r *RedisRegistry) Validate(ctx context.Context, token string) (Session, error) {
	// GETEX refreshes the TTL atomically with the read.
	raw, err := r.client.GetEx(ctx, r.key(token), IdleExpiry).Result()
	if err == redis.Nil {
		return Session{}, ErrNotAuthenticated
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup session: %w", err)
	}

	var data sessionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	return Session{
		Token:        token,
		Principal:    data.Principal,
		CreatedAt:    data.CreatedAt,
		LastActivity: time.Now(),
	}, nil
}

func (r *RedisRegistry) Revoke(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Close() error {
	return r.client.Close()
}

// Ping checks if Redis is reachable.
func (r *RedisRegistry) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
