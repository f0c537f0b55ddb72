package app

import (
	"context"
	"fmt"
	"net/http"

	"vitrine/api/internal/store"
)

// Section editor inputs. Pointer fields distinguish "leave unchanged" from an
// explicit value on update; create ignores nil pointers and applies defaults.

type ServiceInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Active      *bool   `json:"active"`
	Order       *int    `json:"order"`
}

type ProjectInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	URL         *string `json:"url"`
	Image       *string `json:"image"`
	Featured    *bool   `json:"featured"`
	Active      *bool   `json:"active"`
	Order       *int    `json:"order"`
}

type TestimonialInput struct {
	ClientName  *string `json:"clientName"`
	ClientTitle *string `json:"clientTitle"`
	Content     *string `json:"content"`
	Rating      *int    `json:"rating"`
	Photo       *string `json:"photo"`
	Active      *bool   `json:"active"`
	Order       *int    `json:"order"`
}

type FaqInput struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Category *string `json:"category"`
	Active   *bool   `json:"active"`
	Order    *int    `json:"order"`
}

func validationError(message string, details any) *DomainError {
	return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, details)
}

func notFound(kind string, id int64) *DomainError {
	return domainError(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s %d not found", kind, id), nil)
}

func strOr(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}

func boolOr(p *bool, fallback bool) bool {
	if p != nil {
		return *p
	}
	return fallback
}

func intp(v int) *int { return &v }

func validProjectType(t string) bool {
	switch t {
	case store.ProjectTypeWebsite, store.ProjectTypeEcommerce, store.ProjectTypeApp,
		store.ProjectTypeSystem, store.ProjectTypeMaintenance:
		return true
	}
	return false
}

func (s *Service) CreateService(ctx context.Context, in ServiceInput) (store.Service, error) {
	if strOr(in.Name, "") == "" {
		return store.Service{}, validationError("service name is required", nil)
	}
	var created store.Service
	_, err := s.mutate(ctx, "services", "Add service "+*in.Name, func(doc *store.ContentDocument) error {
		ids := make([]int64, len(doc.Services))
		for i, it := range doc.Services {
			ids[i] = it.ID
		}
		created = store.Service{
			ID:          s.nextEntityID(ids),
			Name:        *in.Name,
			Description: strOr(in.Description, ""),
			Icon:        strOr(in.Icon, ""),
			Active:      boolOr(in.Active, true),
			Order:       intp(len(doc.Services)),
		}
		doc.Services = append(doc.Services, created)
		return nil
	})
	return created, err
}

func (s *Service) UpdateService(ctx context.Context, id int64, in ServiceInput) (store.Service, error) {
	if in.Name != nil && *in.Name == "" {
		return store.Service{}, validationError("service name cannot be empty", nil)
	}
	var updated store.Service
	_, err := s.mutate(ctx, "services", fmt.Sprintf("Update service %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.Services {
			if doc.Services[i].ID != id {
				continue
			}
			it := &doc.Services[i]
			it.Name = strOr(in.Name, it.Name)
			it.Description = strOr(in.Description, it.Description)
			it.Icon = strOr(in.Icon, it.Icon)
			it.Active = boolOr(in.Active, it.Active)
			if in.Order != nil {
				it.Order = intp(*in.Order)
			}
			updated = *it
			return nil
		}
		return notFound("service", id)
	})
	return updated, err
}

func (s *Service) DeleteService(ctx context.Context, id int64) error {
	_, err := s.mutate(ctx, "services", fmt.Sprintf("Delete service %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.Services {
			if doc.Services[i].ID == id {
				doc.Services = append(doc.Services[:i], doc.Services[i+1:]...)
				return nil
			}
		}
		return notFound("service", id)
	})
	return err
}

func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (store.Project, error) {
	if strOr(in.Name, "") == "" {
		return store.Project{}, validationError("project name is required", nil)
	}
	projectType := strOr(in.Type, store.ProjectTypeWebsite)
	if !validProjectType(projectType) {
		return store.Project{}, validationError("invalid project type", map[string]string{"type": projectType})
	}
	// A project card is useless without its image; reject the save rather than
	// publish a broken gallery entry. Updates may leave an existing image alone.
	if strOr(in.Image, "") == "" {
		return store.Project{}, validationError("project image is required", nil)
	}
	var created store.Project
	_, err := s.mutate(ctx, "projects", "Add project "+*in.Name, func(doc *store.ContentDocument) error {
		ids := make([]int64, len(doc.Projects))
		for i, it := range doc.Projects {
			ids[i] = it.ID
		}
		created = store.Project{
			ID:          s.nextEntityID(ids),
			Name:        *in.Name,
			Description: strOr(in.Description, ""),
			Type:        projectType,
			URL:         strOr(in.URL, ""),
			Image:       strOr(in.Image, ""),
			Featured:    boolOr(in.Featured, false),
			Active:      boolOr(in.Active, true),
			Order:       intp(len(doc.Projects)),
		}
		doc.Projects = append(doc.Projects, created)
		return nil
	})
	return created, err
}

func (s *Service) UpdateProject(ctx context.Context, id int64, in ProjectInput) (store.Project, error) {
	if in.Name != nil && *in.Name == "" {
		return store.Project{}, validationError("project name cannot be empty", nil)
	}
	if in.Type != nil && !validProjectType(*in.Type) {
		return store.Project{}, validationError("invalid project type", map[string]string{"type": *in.Type})
	}
	if in.Image != nil && *in.Image == "" {
		return store.Project{}, validationError("project image cannot be cleared", nil)
	}
	var updated store.Project
	_, err := s.mutate(ctx, "projects", fmt.Sprintf("Update project %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.Projects {
			if doc.Projects[i].ID != id {
				continue
			}
			it := &doc.Projects[i]
			it.Name = strOr(in.Name, it.Name)
			it.Description = strOr(in.Description, it.Description)
			it.Type = strOr(in.Type, it.Type)
			it.URL = strOr(in.URL, it.URL)
			it.Image = strOr(in.Image, it.Image)
			it.Featured = boolOr(in.Featured, it.Featured)
			it.Active = boolOr(in.Active, it.Active)
			if in.Order != nil {
				it.Order = intp(*in.Order)
			}
			updated = *it
			return nil
		}
		return notFound("project", id)
	})
	return updated, err
}

func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	_, err := s.mutate(ctx, "projects", fmt.Sprintf("Delete project %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.Projects {
			if doc.Projects[i].ID == id {
				doc.Projects = append(doc.Projects[:i], doc.Projects[i+1:]...)
				return nil
			}
		}
		return notFound("project", id)
	})
	return err
}

func (s *Service) CreateTestimonial(ctx context.Context, in TestimonialInput) (store.Testimonial, error) {
	if strOr(in.ClientName, "") == "" {
		return store.Testimonial{}, validationError("client name is required", nil)
	}
	rating := 5
	if in.Rating != nil {
		rating = *in.Rating
	}
	if rating < 1 || rating > 5 {
		return store.Testimonial{}, validationError("rating must be between 1 and 5", nil)
	}
	var created store.Testimonial
	_, err := s.mutate(ctx, "testimonials", "Add testimonial from "+*in.ClientName, func(doc *store.ContentDocument) error {
		ids := make([]int64, len(doc.Testimonials))
		for i, it := range doc.Testimonials {
			ids[i] = it.ID
		}
		created = store.Testimonial{
			ID:          s.nextEntityID(ids),
			ClientName:  *in.ClientName,
			ClientTitle: strOr(in.ClientTitle, ""),
			Content:     strOr(in.Content, ""),
			Rating:      rating,
			Photo:       strOr(in.Photo, ""),
			Active:      boolOr(in.Active, true),
			Order:       intp(len(doc.Testimonials)),
		}
		doc.Testimonials = append(doc.Testimonials, created)
		return nil
	})
	return created, err
}

func (s *Service) UpdateTestimonial(ctx context.Context, id int64, in TestimonialInput) (store.Testimonial, error) {
	if in.ClientName != nil && *in.ClientName == "" {
		return store.Testimonial{}, validationError("client name cannot be empty", nil)
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return store.Testimonial{}, validationError("rating must be between 1 and 5", nil)
	}
	var updated store.Testimonial
	_, err := s.mutate(ctx, "testimonials", fmt.Sprintf("Update testimonial %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.Testimonials {
			if doc.Testimonials[i].ID != id {
				continue
			}
			it := &doc.Testimonials[i]
			it.ClientName = strOr(in.ClientName, it.ClientName)
			it.ClientTitle = strOr(in.ClientTitle, it.ClientTitle)
			it.Content = strOr(in.Content, it.Content)
			if in.Rating != nil {
				it.Rating = *in.Rating
			}
			it.Photo = strOr(in.Photo, it.Photo)
			it.Active = boolOr(in.Active, it.Active)
			if in.Order != nil {
				it.Order = intp(*in.Order)
			}
			updated = *it
			return nil
		}
		return notFound("testimonial", id)
	})
	return updated, err
}

func (s *Service) DeleteTestimonial(ctx context.Context, id int64) error {
	_, err := s.mutate(ctx, "testimonials", fmt.Sprintf("Delete testimonial %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.Testimonials {
			if doc.Testimonials[i].ID == id {
				doc.Testimonials = append(doc.Testimonials[:i], doc.Testimonials[i+1:]...)
				return nil
			}
		}
		return notFound("testimonial", id)
	})
	return err
}

func (s *Service) CreateFaq(ctx context.Context, in FaqInput) (store.FaqItem, error) {
	if strOr(in.Question, "") == "" {
		return store.FaqItem{}, validationError("question is required", nil)
	}
	var created store.FaqItem
	_, err := s.mutate(ctx, "faq", "Add faq entry", func(doc *store.ContentDocument) error {
		ids := make([]int64, len(doc.FAQ))
		for i, it := range doc.FAQ {
			ids[i] = it.ID
		}
		created = store.FaqItem{
			ID:       s.nextEntityID(ids),
			Question: *in.Question,
			Answer:   strOr(in.Answer, ""),
			Category: strOr(in.Category, "general"),
			Active:   boolOr(in.Active, true),
			Order:    intp(len(doc.FAQ)),
		}
		doc.FAQ = append(doc.FAQ, created)
		return nil
	})
	return created, err
}

func (s *Service) UpdateFaq(ctx context.Context, id int64, in FaqInput) (store.FaqItem, error) {
	if in.Question != nil && *in.Question == "" {
		return store.FaqItem{}, validationError("question cannot be empty", nil)
	}
	var updated store.FaqItem
	_, err := s.mutate(ctx, "faq", fmt.Sprintf("Update faq %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.FAQ {
			if doc.FAQ[i].ID != id {
				continue
			}
			it := &doc.FAQ[i]
			it.Question = strOr(in.Question, it.Question)
			it.Answer = strOr(in.Answer, it.Answer)
			it.Category = strOr(in.Category, it.Category)
			it.Active = boolOr(in.Active, it.Active)
			if in.Order != nil {
				it.Order = intp(*in.Order)
			}
			updated = *it
			return nil
		}
		return notFound("faq", id)
	})
	return updated, err
}

func (s *Service) DeleteFaq(ctx context.Context, id int64) error {
	_, err := s.mutate(ctx, "faq", fmt.Sprintf("Delete faq %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.FAQ {
			if doc.FAQ[i].ID == id {
				doc.FAQ = append(doc.FAQ[:i], doc.FAQ[i+1:]...)
				return nil
			}
		}
		return notFound("faq", id)
	})
	return err
}

// Reorder endpoints take the full list of ids in the desired render order and
// rewrite each entity's order rank. The id list must be a permutation of the
// section's current ids.

func checkPermutation(got []int64, have []int64) error {
	if len(got) != len(have) {
		return validationError("id list must cover the whole section", nil)
	}
	seen := make(map[int64]bool, len(got))
	for _, id := range got {
		if seen[id] {
			return validationError("duplicate id in order list", map[string]int64{"id": id})
		}
		seen[id] = true
	}
	for _, id := range have {
		if !seen[id] {
			return validationError("id list must cover the whole section", map[string]int64{"missing": id})
		}
	}
	return nil
}

func (s *Service) ReorderServices(ctx context.Context, ids []int64) error {
	_, err := s.mutate(ctx, "services", "Reorder services", func(doc *store.ContentDocument) error {
		have := make([]int64, len(doc.Services))
		for i, it := range doc.Services {
			have[i] = it.ID
		}
		if err := checkPermutation(ids, have); err != nil {
			return err
		}
		rank := make(map[int64]int, len(ids))
		for i, id := range ids {
			rank[id] = i
		}
		for i := range doc.Services {
			doc.Services[i].Order = intp(rank[doc.Services[i].ID])
		}
		store.SortServices(doc.Services)
		return nil
	})
	return err
}

func (s *Service) ReorderProjects(ctx context.Context, ids []int64) error {
	_, err := s.mutate(ctx, "projects", "Reorder projects", func(doc *store.ContentDocument) error {
		have := make([]int64, len(doc.Projects))
		for i, it := range doc.Projects {
			have[i] = it.ID
		}
		if err := checkPermutation(ids, have); err != nil {
			return err
		}
		rank := make(map[int64]int, len(ids))
		for i, id := range ids {
			rank[id] = i
		}
		for i := range doc.Projects {
			doc.Projects[i].Order = intp(rank[doc.Projects[i].ID])
		}
		store.SortProjects(doc.Projects)
		return nil
	})
	return err
}

func (s *Service) ReorderTestimonials(ctx context.Context, ids []int64) error {
	_, err := s.mutate(ctx, "testimonials", "Reorder testimonials", func(doc *store.ContentDocument) error {
		have := make([]int64, len(doc.Testimonials))
		for i, it := range doc.Testimonials {
			have[i] = it.ID
		}
		if err := checkPermutation(ids, have); err != nil {
			return err
		}
		rank := make(map[int64]int, len(ids))
		for i, id := range ids {
			rank[id] = i
		}
		for i := range doc.Testimonials {
			doc.Testimonials[i].Order = intp(rank[doc.Testimonials[i].ID])
		}
		store.SortTestimonials(doc.Testimonials)
		return nil
	})
	return err
}

func (s *Service) ReorderFaq(ctx context.Context, ids []int64) error {
	_, err := s.mutate(ctx, "faq", "Reorder faq", func(doc *store.ContentDocument) error {
		have := make([]int64, len(doc.FAQ))
		for i, it := range doc.FAQ {
			have[i] = it.ID
		}
		if err := checkPermutation(ids, have); err != nil {
			return err
		}
		rank := make(map[int64]int, len(ids))
		for i, id := range ids {
			rank[id] = i
		}
		for i := range doc.FAQ {
			doc.FAQ[i].Order = intp(rank[doc.FAQ[i].ID])
		}
		store.SortFaq(doc.FAQ)
		return nil
	})
	return err
}
