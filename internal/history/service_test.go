package history

import (
	"testing"

	"vitrine/api/internal/store"
)

func TestRecordAndList(t *testing.T) {
	svc := New(t.TempDir())

	doc := store.DefaultDocument()
	doc.Hero.Headline = "v1"
	if _, err := svc.Record("acme", doc, "admin", "Replace document"); err != nil {
		t.Fatalf("Record v1 failed: %v", err)
	}

	doc.Hero.Headline = "v2"
	info, err := svc.Record("acme", doc, "admin", "Update hero")
	if err != nil {
		t.Fatalf("Record v2 failed: %v", err)
	}
	if info.Hash == "" || info.Author != "admin" {
		t.Errorf("unexpected commit info: %+v", info)
	}

	items, err := svc.List("acme", 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(items))
	}
	if items[0].Message != "Update hero" {
		t.Errorf("expected newest first, got %q", items[0].Message)
	}
}

func TestVersionReturnsSnapshot(t *testing.T) {
	svc := New(t.TempDir())

	doc := store.DefaultDocument()
	doc.Hero.Headline = "original"
	first, err := svc.Record("acme", doc, "admin", "Replace document")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	doc.Hero.Headline = "changed"
	if _, err := svc.Record("acme", doc, "admin", "Update hero"); err != nil {
		t.Fatalf("second Record failed: %v", err)
	}

	// The first version must still read back with its original headline.
	got, err := svc.Version("acme", first.Hash)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if got.Hero.Headline != "original" {
		t.Errorf("expected original headline, got %q", got.Hero.Headline)
	}
}

func TestListWithoutHistory(t *testing.T) {
	svc := New(t.TempDir())

	items, err := svc.List("nothing-recorded", 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty history, got %d items", len(items))
	}
}

func TestIdenticalSnapshotDoesNotDuplicate(t *testing.T) {
	svc := New(t.TempDir())

	doc := store.DefaultDocument()
	if _, err := svc.Record("acme", doc, "admin", "Replace document"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := svc.Record("acme", doc, "admin", "Replace document"); err != nil {
		t.Fatalf("identical Record failed: %v", err)
	}

	items, err := svc.List("acme", 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected identical snapshot to be skipped, got %d commits", len(items))
	}
}

func TestListHonorsLimit(t *testing.T) {
	svc := New(t.TempDir())

	doc := store.DefaultDocument()
	for i, headline := range []string{"a", "b", "c"} {
		doc.Hero.Headline = headline
		if _, err := svc.Record("acme", doc, "admin", "Update hero"); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	items, err := svc.List("acme", 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items with limit, got %d", len(items))
	}
}
