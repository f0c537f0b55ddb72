// Package preview keeps a live preview surface current while an operator
// edits. Editors push field snapshots; subscribers receive one coalesced
// refresh after a debounce window, not one event per keystroke.
package preview

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay between the last pushed snapshot and the
// refresh event it produces. Bursts of pushes inside the window coalesce into
// a single refresh.
const DefaultDebounce = 500 * time.Millisecond

// Snapshot is a document-shaped object serialized from the editor's currently
// visible fields.
type Snapshot struct {
	SiteKey string         `json:"siteKey"`
	Fields  map[string]any `json:"fields"`
	At      time.Time      `json:"at"`
}

// Event is what subscribers receive.
type Event struct {
	Type     string    `json:"type"` // refresh
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Hub debounces pushed snapshots into refresh events. A refresh that fires
// after the last subscriber has gone is a harmless no-op; pending timers are
// deliberately not cancelled when subscribers detach.
type Hub struct {
	debounce time.Duration

	mu     sync.Mutex
	subs   map[chan Event]struct{}
	latest *Snapshot
	timer  *time.Timer
}

func NewHub() *Hub {
	return NewHubWithDebounce(DefaultDebounce)
}

func NewHubWithDebounce(d time.Duration) *Hub {
	return &Hub{debounce: d, subs: make(map[chan Event]struct{})}
}

// Push records the latest snapshot and (re)arms the debounce timer.
func (h *Hub) Push(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	snap.At = time.Now()
	h.latest = &snap
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.debounce, h.fire)
}

func (h *Hub) fire() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timer = nil
	if len(h.subs) == 0 {
		return
	}
	event := Event{Type: "refresh", Snapshot: h.latest}
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe attaches a preview surface. A new subscriber immediately receives
// the latest snapshot, if any, so it does not start stale.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 4)
	h.mu.Lock()
	if h.latest != nil {
		ch <- Event{Type: "refresh", Snapshot: h.latest}
	}
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

// SubscriberCount reports attached preview surfaces.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
