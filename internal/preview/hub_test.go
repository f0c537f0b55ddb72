package preview

import (
	"testing"
	"time"
)

func TestPushDebouncesIntoOneRefresh(t *testing.T) {
	hub := NewHubWithDebounce(30 * time.Millisecond)
	ch, cancel := hub.Subscribe()
	defer cancel()

	// A burst of pushes inside the window must coalesce.
	for i := 0; i < 5; i++ {
		hub.Push(Snapshot{SiteKey: "acme", Fields: map[string]any{"headline": i}})
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case event := <-ch:
		if event.Type != "refresh" {
			t.Fatalf("expected refresh event, got %q", event.Type)
		}
		if got := event.Snapshot.Fields["headline"]; got != 4 {
			t.Errorf("expected the last snapshot to win, got headline=%v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a refresh event")
	}

	// No second refresh for the same burst.
	select {
	case event := <-ch:
		t.Fatalf("unexpected extra event: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFireAfterLastSubscriberLeftIsNoop(t *testing.T) {
	hub := NewHubWithDebounce(20 * time.Millisecond)
	_, cancel := hub.Subscribe()

	hub.Push(Snapshot{SiteKey: "acme"})
	cancel() // detach before the timer fires

	// The pending timer still fires; it must not panic or deliver anywhere.
	time.Sleep(60 * time.Millisecond)
	if n := hub.SubscriberCount(); n != 0 {
		t.Errorf("expected 0 subscribers, got %d", n)
	}
}

func TestNewSubscriberGetsLatestSnapshot(t *testing.T) {
	hub := NewHubWithDebounce(10 * time.Millisecond)
	hub.Push(Snapshot{SiteKey: "acme", Fields: map[string]any{"headline": "Fresh"}})
	time.Sleep(30 * time.Millisecond)

	ch, cancel := hub.Subscribe()
	defer cancel()

	select {
	case event := <-ch:
		if event.Snapshot == nil || event.Snapshot.Fields["headline"] != "Fresh" {
			t.Errorf("expected latest snapshot on subscribe, got %+v", event.Snapshot)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an immediate event for the new subscriber")
	}
}
