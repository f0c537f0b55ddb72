package store

import "sort"

// ContentDocument is the single JSON aggregate holding every content section of
// one site. It is always read and written as a whole; section-level semantics
// live above the store.
type ContentDocument struct {
	Hero         Hero          `json:"hero"`
	Services     []Service     `json:"services"`
	Projects     []Project     `json:"projects"`
	Testimonials []Testimonial `json:"testimonials"`
	FAQ          []FaqItem     `json:"faq"`
	Contact      Contact       `json:"contact"`
	Design       Design        `json:"design"`
	SEO          SEO           `json:"seo"`
	Settings     Settings      `json:"settings"`
}

type Hero struct {
	Headline   string `json:"headline"`
	Subtitle   string `json:"subtitle"`
	Background string `json:"background"` // gradient | solid | image
	Animations bool   `json:"animations"`
}

type Service struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Active      bool   `json:"active"`
	Order       *int   `json:"order,omitempty"`
}

// Project types offered on the site.
const (
	ProjectTypeWebsite     = "website"
	ProjectTypeEcommerce   = "ecommerce"
	ProjectTypeApp         = "app"
	ProjectTypeSystem      = "system"
	ProjectTypeMaintenance = "maintenance"
)

type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
	Image       string `json:"image,omitempty"`
	Featured    bool   `json:"featured"`
	Active      bool   `json:"active"`
	Order       *int   `json:"order,omitempty"`
}

type Testimonial struct {
	ID          int64  `json:"id"`
	ClientName  string `json:"clientName"`
	ClientTitle string `json:"clientTitle"`
	Content     string `json:"content"`
	Rating      int    `json:"rating"`
	Photo       string `json:"photo,omitempty"`
	Active      bool   `json:"active"`
	Order       *int   `json:"order,omitempty"`
}

type FaqItem struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	Active   bool   `json:"active"`
	Order    *int   `json:"order,omitempty"`
}

type Contact struct {
	Submissions []Submission `json:"submissions"`
}

// Submission statuses. The store does not enforce transitions between them;
// any value may follow any value.
const (
	StatusNew           = "new"
	StatusContacted     = "contacted"
	StatusQuoted        = "quoted"
	StatusApproved      = "approved"
	StatusInDevelopment = "in_development"
	StatusCompleted     = "completed"
	StatusCancelled     = "cancelled"
	StatusRead          = "read"
	StatusReplied       = "replied"
)

type Submission struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	ProjectType string   `json:"projectType"`
	Budget      string   `json:"budget"`
	Timeline    string   `json:"timeline"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
	Deadline    string   `json:"deadline,omitempty"` // YYYY-MM-DD
	Notes       string   `json:"notes,omitempty"`
	Status      string   `json:"status"`
	Timestamp   string   `json:"timestamp"`
	LastUpdated string   `json:"lastUpdated"`
}

type Design struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
	FontFamily     string `json:"fontFamily"`
	LogoURL        string `json:"logoUrl"`
}

type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	OGImage     string `json:"ogImage"`
}

type Settings struct {
	BusinessName    string `json:"businessName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Instagram       string `json:"instagram"`
	Facebook        string `json:"facebook"`
	LinkedIn        string `json:"linkedin"`
	WhatsApp        string `json:"whatsapp"`
	SubmissionsView string `json:"submissionsView"` // kanban | list
}

// MaxSubmissions caps the stored contact log; inserting beyond it evicts the
// oldest entries.
const MaxSubmissions = 100

// DefaultDocument is the document materialized on first read of a site that
// has no stored content yet.
func DefaultDocument() ContentDocument {
	return ContentDocument{
		Hero: Hero{
			Headline:   "We build websites that work",
			Subtitle:   "Design, development and maintenance for small businesses",
			Background: "gradient",
			Animations: true,
		},
		Services:     []Service{},
		Projects:     []Project{},
		Testimonials: []Testimonial{},
		FAQ:          []FaqItem{},
		Contact:      Contact{Submissions: []Submission{}},
		Design: Design{
			PrimaryColor:   "#1a1a2e",
			SecondaryColor: "#16213e",
			AccentColor:    "#e94560",
			FontFamily:     "Inter",
		},
		SEO:      SEO{},
		Settings: Settings{SubmissionsView: "kanban"},
	}
}

// EmptyDocument is the minimal fallback returned when the store itself is
// unreachable: every section present, nothing in any of them.
func EmptyDocument() ContentDocument {
	return ContentDocument{
		Services:     []Service{},
		Projects:     []Project{},
		Testimonials: []Testimonial{},
		FAQ:          []FaqItem{},
		Contact:      Contact{Submissions: []Submission{}},
	}
}

// orderOf resolves the render rank of an entity: the explicit order value when
// present, otherwise the id.
func orderOf(order *int, id int64) int64 {
	if order != nil {
		return int64(*order)
	}
	return id
}

// SortServices orders services for rendering: order ascending, ties broken by
// id ascending. The sort is stable and total.
func SortServices(items []Service) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := orderOf(items[i].Order, items[i].ID), orderOf(items[j].Order, items[j].ID)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
}

func SortProjects(items []Project) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := orderOf(items[i].Order, items[i].ID), orderOf(items[j].Order, items[j].ID)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
}

func SortTestimonials(items []Testimonial) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := orderOf(items[i].Order, items[i].ID), orderOf(items[j].Order, items[j].ID)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
}

func SortFaq(items []FaqItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := orderOf(items[i].Order, items[i].ID), orderOf(items[j].Order, items[j].ID)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
}
