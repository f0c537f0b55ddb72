package export

import (
	"strings"
	"testing"

	"vitrine/api/internal/store"
)

func floatp(v float64) *float64 { return &v }

func TestRenderQuoteHTML(t *testing.T) {
	sub := store.Submission{
		ID:          1700000000000,
		Name:        "Maria Svensson",
		Email:       "maria@example.com",
		ProjectType: store.ProjectTypeEcommerce,
		Budget:      "20-50k",
		Timeline:    "2 months",
		Description: "Webshop for handmade ceramics.",
		Price:       floatp(34500),
		Deadline:    "2026-11-01",
		Notes:       "Includes one year of hosting.",
	}
	settings := store.Settings{
		BusinessName: "Norrsken Web",
		Email:        "hello@norrskenweb.se",
		Phone:        "+46 70 000 00 00",
	}

	html, err := RenderQuoteHTML(sub, settings)
	if err != nil {
		t.Fatalf("RenderQuoteHTML failed: %v", err)
	}

	for _, want := range []string{
		"Maria Svensson",
		"Norrsken Web",
		"34500.00",
		"2026-11-01",
		"Includes one year of hosting.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected rendered quote to contain %q", want)
		}
	}
}

func TestRenderQuoteHTMLWithoutOptionalFields(t *testing.T) {
	html, err := RenderQuoteHTML(store.Submission{Name: "Jon", Email: "jon@example.com", ProjectType: "website"}, store.Settings{})
	if err != nil {
		t.Fatalf("RenderQuoteHTML failed: %v", err)
	}
	if strings.Contains(html, "Quoted price") {
		t.Error("expected no price row when price is unset")
	}
	if strings.Contains(html, "Delivery deadline") {
		t.Error("expected no deadline row when deadline is unset")
	}
}

func TestRenderQuoteHTMLEscapes(t *testing.T) {
	html, err := RenderQuoteHTML(store.Submission{
		Name:        "<script>alert(1)</script>",
		Email:       "x@example.com",
		ProjectType: "website",
	}, store.Settings{})
	if err != nil {
		t.Fatalf("RenderQuoteHTML failed: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("expected client-supplied fields to be escaped")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"quote-Maria Svensson", "quote-Maria-Svensson"},
		{"///", "quote"},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	if got := percentEncodeForDataURL("a b"); got != "a%20b" {
		t.Errorf("expected a%%20b, got %q", got)
	}
	if got := percentEncodeForDataURL("a+b"); got != "a%2Bb" {
		t.Errorf("expected plus to be encoded, got %q", got)
	}
}
