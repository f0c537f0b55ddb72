package app

import (
	"context"
	"testing"

	"vitrine/api/internal/store"
)

func strp(v string) *string { return &v }
func boolp(v bool) *bool    { return &v }

func TestCreateServiceAssignsUniqueIDsAndOrder(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	first, err := svc.CreateService(ctx, ServiceInput{Name: strp("Web design")})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreateService(ctx, ServiceInput{Name: strp("Hosting")})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both %d", first.ID)
	}
	if second.ID < first.ID {
		t.Fatalf("expected ids to grow, got %d then %d", first.ID, second.ID)
	}
	if first.Order == nil || *first.Order != 0 {
		t.Fatalf("expected first order 0, got %v", first.Order)
	}
	if second.Order == nil || *second.Order != 1 {
		t.Fatalf("expected second order 1, got %v", second.Order)
	}
	if !first.Active {
		t.Fatalf("expected new service active by default")
	}
}

func TestCreateServiceRequiresName(t *testing.T) {
	svc := newTestService(t, newMemStore())

	_, err := svc.CreateService(context.Background(), ServiceInput{})
	var domainErr *DomainError
	if !asDomainError(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestUpdateServiceKeepsUnsetFields(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	created, err := svc.CreateService(ctx, ServiceInput{
		Name:        strp("Web design"),
		Description: strp("Full websites"),
		Icon:        strp("globe"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateService(ctx, created.ID, ServiceInput{Active: boolp(false)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Active {
		t.Fatalf("expected active toggled off")
	}
	if updated.Name != "Web design" || updated.Description != "Full websites" || updated.Icon != "globe" {
		t.Fatalf("expected untouched fields preserved, got %#v", updated)
	}
}

func TestDeleteMissingServiceLeavesSectionUnchanged(t *testing.T) {
	st := newMemStore()
	svc := newTestService(t, st)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, ServiceInput{Name: strp("Web design")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	putsBefore := st.puts

	for i := 0; i < 2; i++ {
		err := svc.DeleteService(ctx, created.ID+999)
		var domainErr *DomainError
		if !asDomainError(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
			t.Fatalf("attempt %d: expected NOT_FOUND, got %v", i, err)
		}
	}

	if st.puts != putsBefore {
		t.Fatalf("expected no writes for failed deletes, got %d extra", st.puts-putsBefore)
	}
	doc, _ := svc.Document(ctx)
	if len(doc.Services) != 1 || doc.Services[0].ID != created.ID {
		t.Fatalf("expected section unchanged, got %#v", doc.Services)
	}
}

func TestDeleteServiceRemovesOnlyTarget(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	keep, _ := svc.CreateService(ctx, ServiceInput{Name: strp("Keep")})
	drop, _ := svc.CreateService(ctx, ServiceInput{Name: strp("Drop")})

	if err := svc.DeleteService(ctx, drop.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	doc, _ := svc.Document(ctx)
	if len(doc.Services) != 1 || doc.Services[0].ID != keep.ID {
		t.Fatalf("expected only %d left, got %#v", keep.ID, doc.Services)
	}
}

func TestReorderServicesAssignsRanks(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	a, _ := svc.CreateService(ctx, ServiceInput{Name: strp("A")})
	b, _ := svc.CreateService(ctx, ServiceInput{Name: strp("B")})
	c, _ := svc.CreateService(ctx, ServiceInput{Name: strp("C")})

	if err := svc.ReorderServices(ctx, []int64{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	doc, _ := svc.Document(ctx)
	store.SortServices(doc.Services)
	got := []int64{doc.Services[0].ID, doc.Services[1].ID, doc.Services[2].ID}
	want := []int64{c.ID, a.ID, b.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestReorderRejectsPartialAndDuplicateLists(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	a, _ := svc.CreateService(ctx, ServiceInput{Name: strp("A")})
	b, _ := svc.CreateService(ctx, ServiceInput{Name: strp("B")})

	cases := [][]int64{
		{a.ID},
		{a.ID, a.ID},
		{a.ID, b.ID, 9999},
	}
	for _, ids := range cases {
		err := svc.ReorderServices(ctx, ids)
		var domainErr *DomainError
		if !asDomainError(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("ids %v: expected VALIDATION_ERROR, got %v", ids, err)
		}
	}
}

func TestCreateProjectValidatesType(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, ProjectInput{Name: strp("Shop"), Type: strp("spaceship"), Image: strp("/uploads/shop.jpg")})
	var domainErr *DomainError
	if !asDomainError(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	created, err := svc.CreateProject(ctx, ProjectInput{Name: strp("Shop"), Type: strp(store.ProjectTypeEcommerce), Image: strp("/uploads/shop.jpg")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Type != store.ProjectTypeEcommerce {
		t.Fatalf("expected type kept, got %q", created.Type)
	}
}

func TestCreateProjectDefaultsToWebsite(t *testing.T) {
	svc := newTestService(t, newMemStore())

	created, err := svc.CreateProject(context.Background(), ProjectInput{Name: strp("Brochure"), Image: strp("/uploads/brochure.jpg")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Type != store.ProjectTypeWebsite {
		t.Fatalf("expected website default, got %q", created.Type)
	}
}

func TestCreateProjectRequiresImage(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, ProjectInput{Name: strp("No image")})
	var domainErr *DomainError
	if !asDomainError(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR for missing image, got %v", err)
	}

	doc, _ := svc.Document(ctx)
	if len(doc.Projects) != 0 {
		t.Fatalf("expected rejected project not stored, got %#v", doc.Projects)
	}
}

func TestUpdateProjectKeepsImageWhenUnset(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, ProjectInput{Name: strp("Shop"), Image: strp("/uploads/shop.jpg")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateProject(ctx, created.ID, ProjectInput{Featured: boolp(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Image != "/uploads/shop.jpg" {
		t.Fatalf("expected image preserved, got %q", updated.Image)
	}

	_, err = svc.UpdateProject(ctx, created.ID, ProjectInput{Image: strp("")})
	var domainErr *DomainError
	if !asDomainError(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR when clearing image, got %v", err)
	}
}

func TestTestimonialRatingBounds(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		r := rating
		_, err := svc.CreateTestimonial(ctx, TestimonialInput{ClientName: strp("Maria"), Rating: &r})
		var domainErr *DomainError
		if !asDomainError(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("rating %d: expected VALIDATION_ERROR, got %v", rating, err)
		}
	}

	created, err := svc.CreateTestimonial(ctx, TestimonialInput{ClientName: strp("Maria")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Rating != 5 {
		t.Fatalf("expected default rating 5, got %d", created.Rating)
	}
}

func TestFaqDefaultsCategory(t *testing.T) {
	svc := newTestService(t, newMemStore())

	created, err := svc.CreateFaq(context.Background(), FaqInput{Question: strp("How long does a site take?")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Category != "general" {
		t.Fatalf("expected general category, got %q", created.Category)
	}
}
