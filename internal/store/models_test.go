package store

import "testing"

func intp(v int) *int { return &v }

func TestSortServicesByOrderThenID(t *testing.T) {
	// Orders [2,0,1]: rendering must yield the entities whose orders are 0,1,2.
	items := []Service{
		{ID: 10, Name: "third", Order: intp(2)},
		{ID: 11, Name: "first", Order: intp(0)},
		{ID: 12, Name: "second", Order: intp(1)},
	}
	SortServices(items)

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if items[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, items[i].Name)
		}
	}
}

func TestSortServicesTiesBrokenByID(t *testing.T) {
	items := []Service{
		{ID: 20, Order: intp(5)},
		{ID: 7, Order: intp(5)},
		{ID: 13, Order: intp(5)},
	}
	SortServices(items)
	if items[0].ID != 7 || items[1].ID != 13 || items[2].ID != 20 {
		t.Errorf("expected ids ascending on equal order, got %d,%d,%d", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestSortServicesMissingOrderFallsBackToID(t *testing.T) {
	items := []Service{
		{ID: 100},
		{ID: 3, Order: intp(50)},
		{ID: 2},
	}
	SortServices(items)
	if items[0].ID != 2 {
		t.Errorf("expected id 2 first (order fallback), got %d", items[0].ID)
	}
	if items[1].ID != 3 {
		t.Errorf("expected id 3 second (order 50), got %d", items[1].ID)
	}
	if items[2].ID != 100 {
		t.Errorf("expected id 100 last, got %d", items[2].ID)
	}
}

func TestSortFaqIsStable(t *testing.T) {
	items := []FaqItem{
		{ID: 1, Question: "a", Order: intp(1)},
		{ID: 2, Question: "b", Order: intp(0)},
		{ID: 3, Question: "c", Order: intp(1)},
	}
	SortFaq(items)
	if items[0].ID != 2 || items[1].ID != 1 || items[2].ID != 3 {
		t.Errorf("unexpected faq order: %d,%d,%d", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestDefaultDocumentHasEverySection(t *testing.T) {
	doc := DefaultDocument()
	if doc.Services == nil || doc.Projects == nil || doc.Testimonials == nil || doc.FAQ == nil {
		t.Errorf("default document has nil sections")
	}
	if doc.Contact.Submissions == nil {
		t.Errorf("default document has nil submissions log")
	}
	if doc.Settings.SubmissionsView != "kanban" {
		t.Errorf("expected default submissions view kanban, got %q", doc.Settings.SubmissionsView)
	}
}
