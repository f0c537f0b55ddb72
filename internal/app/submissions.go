package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"vitrine/api/internal/export"
	"vitrine/api/internal/search"
	"vitrine/api/internal/store"
)

// ContactInput is the public contact form payload.
type ContactInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ProjectType string `json:"projectType"`
	Budget      string `json:"budget"`
	Timeline    string `json:"timeline"`
	Description string `json:"description"`
}

// SubmissionPatch updates the pipeline fields of one submission. Nil fields
// keep their current value.
type SubmissionPatch struct {
	Status   *string  `json:"status"`
	Price    *float64 `json:"price"`
	Deadline *string  `json:"deadline"`
	Notes    *string  `json:"notes"`
}

// DeadlineWarning is derived per submission from its deadline and today's
// date; it is never stored.
type DeadlineWarning struct {
	Level string `json:"level"` // overdue | urgent | ok
	Days  int    `json:"days"`
	Text  string `json:"text"`
}

// SubmissionView is a submission decorated for the admin UI.
type SubmissionView struct {
	store.Submission
	DeadlineWarning *DeadlineWarning `json:"deadlineWarning,omitempty"`
}

// BoardColumn groups submissions of one pipeline status.
type BoardColumn struct {
	Status      string           `json:"status"`
	Submissions []SubmissionView `json:"submissions"`
}

// Board is the kanban projection of the submissions log.
type Board struct {
	View           string        `json:"view"`
	Columns        []BoardColumn `json:"columns"`
	HiddenStatuses []string      `json:"hiddenStatuses"`
}

// boardColumns is the fixed pipeline shown on the kanban board. Statuses not
// listed here (and not hidden) never occur through the API; hidden statuses
// keep their submissions stored but off the board.
var boardColumns = []string{
	store.StatusNew,
	store.StatusContacted,
	store.StatusQuoted,
	store.StatusApproved,
	store.StatusInDevelopment,
	store.StatusCompleted,
}

var hiddenStatuses = []string{
	store.StatusCancelled,
	store.StatusRead,
	store.StatusReplied,
}

func validStatus(status string) bool {
	for _, s := range boardColumns {
		if s == status {
			return true
		}
	}
	for _, s := range hiddenStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CreateSubmission appends a contact form entry. The log is capped; once full,
// each insert evicts the oldest entry.
func (s *Service) CreateSubmission(ctx context.Context, in ContactInput) (store.Submission, error) {
	details := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		details["name"] = "required"
	}
	if !strings.Contains(in.Email, "@") {
		details["email"] = "must be a valid email address"
	}
	if strings.TrimSpace(in.Description) == "" {
		details["description"] = "required"
	}
	if len(details) > 0 {
		return store.Submission{}, validationError("invalid contact form", details)
	}
	if in.ProjectType != "" && !validProjectType(in.ProjectType) {
		return store.Submission{}, validationError("invalid project type", map[string]string{"type": in.ProjectType})
	}

	var created store.Submission
	_, err := s.mutate(ctx, "contact", "New submission from "+in.Name, func(doc *store.ContentDocument) error {
		ids := make([]int64, len(doc.Contact.Submissions))
		for i, sub := range doc.Contact.Submissions {
			ids[i] = sub.ID
		}
		now := s.now().UTC()
		created = store.Submission{
			ID:          s.nextEntityID(ids),
			Name:        strings.TrimSpace(in.Name),
			Email:       strings.TrimSpace(in.Email),
			Phone:       strings.TrimSpace(in.Phone),
			ProjectType: in.ProjectType,
			Budget:      in.Budget,
			Timeline:    in.Timeline,
			Description: in.Description,
			Status:      store.StatusNew,
			Timestamp:   now.Format(time.RFC3339),
			LastUpdated: now.Format(time.RFC3339),
		}
		doc.Contact.Submissions = append(doc.Contact.Submissions, created)
		if extra := len(doc.Contact.Submissions) - store.MaxSubmissions; extra > 0 {
			evicted := doc.Contact.Submissions[:extra]
			if s.search != nil {
				for _, old := range evicted {
					s.search.DeleteSubmission(strconv.FormatInt(old.ID, 10))
				}
			}
			doc.Contact.Submissions = append([]store.Submission{}, doc.Contact.Submissions[extra:]...)
		}
		return nil
	})
	if err != nil {
		return store.Submission{}, err
	}

	if s.search != nil {
		s.search.IndexSubmission(submissionRecord(s.siteKey, created))
	}
	if s.mailer != nil && s.notifyTo != "" {
		sub := created
		go func() {
			if err := s.mailer.NotifySubmission(s.notifyTo, sub); err != nil {
				log.Printf(`{"level":"warn","msg":"submission email failed","error":%q}`, err.Error())
			}
		}()
	}
	return created, nil
}

// Submissions lists the log newest first.
func (s *Service) Submissions(ctx context.Context) ([]SubmissionView, bool) {
	doc, degraded := s.Document(ctx)
	views := make([]SubmissionView, len(doc.Contact.Submissions))
	for i, sub := range doc.Contact.Submissions {
		views[i] = s.viewOf(sub)
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].ID > views[j].ID })
	return views, degraded
}

// UpdateSubmission moves a submission through the pipeline. Any status may
// follow any status; there is no transition graph.
func (s *Service) UpdateSubmission(ctx context.Context, id int64, patch SubmissionPatch) (SubmissionView, error) {
	if patch.Status != nil && !validStatus(*patch.Status) {
		return SubmissionView{}, validationError("unknown status", map[string]string{"status": *patch.Status})
	}
	if patch.Deadline != nil && *patch.Deadline != "" {
		if _, err := time.Parse("2006-01-02", *patch.Deadline); err != nil {
			return SubmissionView{}, validationError("deadline must be YYYY-MM-DD", nil)
		}
	}
	if patch.Price != nil && *patch.Price < 0 {
		return SubmissionView{}, validationError("price cannot be negative", nil)
	}

	var updated store.Submission
	_, err := s.mutate(ctx, "contact", fmt.Sprintf("Update submission %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.Contact.Submissions {
			if doc.Contact.Submissions[i].ID != id {
				continue
			}
			sub := &doc.Contact.Submissions[i]
			if patch.Status != nil {
				sub.Status = *patch.Status
			}
			if patch.Price != nil {
				sub.Price = patch.Price
			}
			if patch.Deadline != nil {
				sub.Deadline = *patch.Deadline
			}
			if patch.Notes != nil {
				sub.Notes = *patch.Notes
			}
			sub.LastUpdated = s.now().UTC().Format(time.RFC3339)
			updated = *sub
			return nil
		}
		return notFound("submission", id)
	})
	if err != nil {
		return SubmissionView{}, err
	}
	if s.search != nil {
		s.search.IndexSubmission(submissionRecord(s.siteKey, updated))
	}
	return s.viewOf(updated), nil
}

func (s *Service) DeleteSubmission(ctx context.Context, id int64) error {
	_, err := s.mutate(ctx, "contact", fmt.Sprintf("Delete submission %d", id), func(doc *store.ContentDocument) error {
		for i := range doc.Contact.Submissions {
			if doc.Contact.Submissions[i].ID == id {
				doc.Contact.Submissions = append(doc.Contact.Submissions[:i], doc.Contact.Submissions[i+1:]...)
				return nil
			}
		}
		return notFound("submission", id)
	})
	if err != nil {
		return err
	}
	if s.search != nil {
		s.search.DeleteSubmission(strconv.FormatInt(id, 10))
	}
	return nil
}

// BoardView builds the kanban projection: one column per pipeline status in
// fixed order, newest card first within each column. Submissions in a hidden
// status stay stored but appear in no column.
func (s *Service) BoardView(ctx context.Context) (Board, bool) {
	doc, degraded := s.Document(ctx)
	byStatus := make(map[string][]SubmissionView, len(boardColumns))
	for _, sub := range doc.Contact.Submissions {
		byStatus[sub.Status] = append(byStatus[sub.Status], s.viewOf(sub))
	}
	columns := make([]BoardColumn, len(boardColumns))
	for i, status := range boardColumns {
		cards := byStatus[status]
		if cards == nil {
			cards = []SubmissionView{}
		}
		sort.SliceStable(cards, func(a, b int) bool { return cards[a].ID > cards[b].ID })
		columns[i] = BoardColumn{Status: status, Submissions: cards}
	}
	view := doc.Settings.SubmissionsView
	if view == "" {
		view = "kanban"
	}
	return Board{
		View:           view,
		Columns:        columns,
		HiddenStatuses: append([]string{}, hiddenStatuses...),
	}, degraded
}

// SearchSubmissions queries the submissions log by free text.
func (s *Service) SearchSubmissions(ctx context.Context, q string) ([]SubmissionView, error) {
	doc, err := s.store.Get(ctx, s.siteKey)
	if err != nil {
		return nil, domainError(http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "content store unavailable", nil)
	}
	records := make([]search.SubmissionRecord, len(doc.Contact.Submissions))
	byID := make(map[string]store.Submission, len(doc.Contact.Submissions))
	for i, sub := range doc.Contact.Submissions {
		records[i] = submissionRecord(s.siteKey, sub)
		byID[records[i].ID] = sub
	}
	matched := records
	if s.search != nil {
		matched = s.search.Search(s.siteKey, q, records)
	} else {
		matched = []search.SubmissionRecord{}
		for _, rec := range records {
			if search.MatchSubstring(rec, q) {
				matched = append(matched, rec)
			}
		}
	}
	views := make([]SubmissionView, 0, len(matched))
	for _, rec := range matched {
		if sub, ok := byID[rec.ID]; ok {
			views = append(views, s.viewOf(sub))
		}
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].ID > views[j].ID })
	return views, nil
}

// QuotePDF renders a printable quote for one submission.
func (s *Service) QuotePDF(ctx context.Context, id int64) (*export.Result, error) {
	doc, err := s.store.Get(ctx, s.siteKey)
	if err != nil {
		return nil, domainError(http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "content store unavailable", nil)
	}
	for _, sub := range doc.Contact.Submissions {
		if sub.ID != id {
			continue
		}
		result, err := export.Quote(sub, doc.Settings)
		if err != nil {
			if err == export.ErrPDFDependencyMissing {
				return nil, domainError(http.StatusServiceUnavailable, "PDF_UNAVAILABLE", "no chromium available for pdf rendering", nil)
			}
			return nil, domainError(http.StatusInternalServerError, "SERVER_ERROR", "quote rendering failed", nil)
		}
		return result, nil
	}
	return nil, notFound("submission", id)
}

func (s *Service) viewOf(sub store.Submission) SubmissionView {
	return SubmissionView{
		Submission:      sub,
		DeadlineWarning: deadlineWarning(sub.Deadline, s.now()),
	}
}

func submissionRecord(siteKey string, sub store.Submission) search.SubmissionRecord {
	return search.SubmissionRecord{
		ID:          strconv.FormatInt(sub.ID, 10),
		SiteKey:     siteKey,
		Name:        sub.Name,
		Email:       sub.Email,
		Description: sub.Description,
		ProjectType: sub.ProjectType,
		Status:      sub.Status,
	}
}

// deadlineWarning classifies a deadline against today's date. Days are counted
// on calendar dates, so a deadline of today is 0 days away until midnight.
func deadlineWarning(deadline string, now time.Time) *DeadlineWarning {
	if deadline == "" {
		return nil
	}
	due, err := time.Parse("2006-01-02", deadline)
	if err != nil {
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)
	switch {
	case days < 0:
		return &DeadlineWarning{Level: "overdue", Days: days, Text: fmt.Sprintf("overdue by %d days", -days)}
	case days <= 3:
		return &DeadlineWarning{Level: "urgent", Days: days, Text: fmt.Sprintf("due in %d days", days)}
	case days <= 7:
		return &DeadlineWarning{Level: "ok", Days: days, Text: fmt.Sprintf("due in %d days", days)}
	}
	return nil
}
