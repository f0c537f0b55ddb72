// Package notify broadcasts "data changed" signals after a successful content
// write so any open preview surface can refetch. Delivery is best-effort and
// fire-and-forget: a broadcast never fails or delays the write that caused it.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Change is the message schema carried on the channel.
type Change struct {
	SiteKey   string    `json:"siteKey"`
	Section   string    `json:"section"` // empty when the whole document changed
	ChangedAt time.Time `json:"changedAt"`
}

// Notifier fans a change out to interested listeners.
type Notifier interface {
	Broadcast(ctx context.Context, change Change)
}

// Hub is the in-process notifier: channel fan-out to subscribers in the same
// process (the preview event stream subscribes here). Sends never block; a
// slow subscriber misses intermediate changes rather than stalling writes.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Change]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Change]struct{})}
}

// Subscribe returns a channel of changes and a cancel function. The channel
// is buffered; dropped sends are silent.
func (h *Hub) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Broadcast(ctx context.Context, change Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- change:
		default:
		}
	}
}

// SubscriberCount reports how many listeners are currently attached.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

const redisChannel = "vitrine:content-changed"

// RedisNotifier publishes changes on a Redis channel in addition to the local
// hub, so a preview window served by another process can refetch too.
type RedisNotifier struct {
	client *redis.Client
	local  Notifier
}

func NewRedisNotifier(client *redis.Client, local Notifier) *RedisNotifier {
	return &RedisNotifier{client: client, local: local}
}

func NewRedisNotifierFromURL(redisURL string, local Notifier) (*RedisNotifier, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedisNotifier(redis.NewClient(opts), local), nil
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

func (n *RedisNotifier) Broadcast(ctx context.Context, change Change) {
	if n.local != nil {
		n.local.Broadcast(ctx, change)
	}
	payload, err := json.Marshal(change)
	if err != nil {
		log.Printf("notify: marshal change: %v", err)
		return
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.client.Publish(pubCtx, redisChannel, payload).Err(); err != nil {
			log.Printf("notify: publish change: %v", err)
		}
	}()
}

// Listen subscribes to the Redis channel and forwards remote changes into the
// local hub until ctx is cancelled.
func (n *RedisNotifier) Listen(ctx context.Context) {
	sub := n.client.Subscribe(ctx, redisChannel)
	defer sub.Close()
	for {
		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("notify: subscribe error: %v", err)
			return
		}
		var change Change
		if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
			log.Printf("notify: decode change: %v", err)
			continue
		}
		if n.local != nil {
			n.local.Broadcast(ctx, change)
		}
	}
}
