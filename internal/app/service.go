package app

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vitrine/api/internal/email"
	"vitrine/api/internal/history"
	"vitrine/api/internal/notify"
	"vitrine/api/internal/preview"
	"vitrine/api/internal/search"
	"vitrine/api/internal/session"
	"vitrine/api/internal/store"
)

// Credentials is the single admin account. PasswordHash, when set, is a bcrypt
// hash and takes precedence over the plaintext Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

func (c Credentials) configured() bool {
	return c.Username != "" && (c.Password != "" || c.PasswordHash != "")
}

// Deps carries everything the service needs. Notifier, Preview, History,
// Search, Mailer and Images may be nil; the matching features degrade to
// no-ops.
type Deps struct {
	Store       store.Store
	Sessions    session.Registry
	Notifier    notify.Notifier
	Preview     *preview.Hub
	History     *history.Service
	Search      *search.Service
	Mailer      *email.Service
	SiteKey     string
	NotifyEmail string
	Credentials Credentials
}

type Service struct {
	store    store.Store
	sessions session.Registry
	notifier notify.Notifier
	preview  *preview.Hub
	history  *history.Service
	search   *search.Service
	mailer   *email.Service
	siteKey  string
	notifyTo string
	creds    Credentials
	now      func() time.Time
}

func NewService(d Deps) *Service {
	siteKey := d.SiteKey
	if siteKey == "" {
		siteKey = "default"
	}
	return &Service{
		store:    d.Store,
		sessions: d.Sessions,
		notifier: d.Notifier,
		preview:  d.Preview,
		history:  d.History,
		search:   d.Search,
		mailer:   d.Mailer,
		siteKey:  siteKey,
		notifyTo: d.NotifyEmail,
		creds:    d.Credentials,
		now:      time.Now,
	}
}

type ctxKey int

const principalKey ctxKey = 0

func withPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func principalFrom(ctx context.Context) string {
	if p, ok := ctx.Value(principalKey).(string); ok && p != "" {
		return p
	}
	return "admin"
}

// Ping reports content store connectivity for the readiness probe.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

var errUnauthorized = domainError(http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials", nil)

// Login checks the configured admin credentials and mints a session token.
// An unconfigured account rejects every attempt; callers cannot tell the
// difference from a wrong password.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.creds.configured() {
		return "", errUnauthorized
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passOK := false
	if s.creds.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	}
	if !userOK || !passOK {
		return "", errUnauthorized
	}
	token, err := s.sessions.Create(ctx, s.creds.Username)
	if err != nil {
		return "", domainError(http.StatusInternalServerError, "SERVER_ERROR", "failed to create session", nil)
	}
	return token, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate validates a session token, sliding its expiry. Unknown and
// expired tokens produce the same error.
func (s *Service) Authenticate(ctx context.Context, token string) (session.Session, error) {
	sess, err := s.sessions.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return session.Session{}, domainError(http.StatusUnauthorized, "UNAUTHORIZED", "session expired or unknown", nil)
		}
		return session.Session{}, domainError(http.StatusInternalServerError, "SERVER_ERROR", "session lookup failed", nil)
	}
	return sess, nil
}

// Document returns the whole content aggregate. When the store is unreachable
// it falls back to an empty document and reports the degradation so the
// handler can surface a warning instead of failing the page.
func (s *Service) Document(ctx context.Context) (store.ContentDocument, bool) {
	doc, err := s.store.Get(ctx, s.siteKey)
	if err != nil {
		log.Printf(`{"level":"error","msg":"content fetch failed, serving empty document","site":%q,"error":%q}`, s.siteKey, err.Error())
		return store.EmptyDocument(), true
	}
	return doc, false
}

// SaveDocument replaces the stored aggregate wholesale. The last write wins;
// there is no merge and no version check.
func (s *Service) SaveDocument(ctx context.Context, doc store.ContentDocument) (store.ContentDocument, error) {
	normalizeDocument(&doc)
	if err := s.store.Put(ctx, s.siteKey, doc); err != nil {
		return store.ContentDocument{}, domainError(http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "content store unavailable", nil)
	}
	s.recordAndBroadcast(ctx, doc, "document", "Replace document")
	return doc, nil
}

// mutate is the single write path for section-scoped edits: read the whole
// document, apply fn, write the whole document back.
func (s *Service) mutate(ctx context.Context, section, message string, fn func(*store.ContentDocument) error) (store.ContentDocument, error) {
	doc, err := s.store.Get(ctx, s.siteKey)
	if err != nil {
		return store.ContentDocument{}, domainError(http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "content store unavailable", nil)
	}
	if err := fn(&doc); err != nil {
		return store.ContentDocument{}, err
	}
	if err := s.store.Put(ctx, s.siteKey, doc); err != nil {
		return store.ContentDocument{}, domainError(http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "content store unavailable", nil)
	}
	s.recordAndBroadcast(ctx, doc, section, message)
	return doc, nil
}

func (s *Service) recordAndBroadcast(ctx context.Context, doc store.ContentDocument, section, message string) {
	if s.history != nil {
		if _, err := s.history.Record(s.siteKey, doc, principalFrom(ctx), message); err != nil {
			log.Printf(`{"level":"warn","msg":"history record failed","site":%q,"error":%q}`, s.siteKey, err.Error())
		}
	}
	if s.notifier != nil {
		s.notifier.Broadcast(ctx, notify.Change{SiteKey: s.siteKey, Section: section, ChangedAt: s.now().UTC()})
	}
}

// normalizeDocument repairs nil slices so a stored document always has every
// section present.
func normalizeDocument(doc *store.ContentDocument) {
	if doc.Services == nil {
		doc.Services = []store.Service{}
	}
	if doc.Projects == nil {
		doc.Projects = []store.Project{}
	}
	if doc.Testimonials == nil {
		doc.Testimonials = []store.Testimonial{}
	}
	if doc.FAQ == nil {
		doc.FAQ = []store.FaqItem{}
	}
	if doc.Contact.Submissions == nil {
		doc.Contact.Submissions = []store.Submission{}
	}
}

// nextEntityID assigns ids from the current clock in milliseconds, bumped past
// any existing id so ids stay unique and are never reused after a deletion.
func (s *Service) nextEntityID(existing []int64) int64 {
	id := s.now().UnixMilli()
	for _, e := range existing {
		if e >= id {
			id = e + 1
		}
	}
	return id
}

// UpdateSettings merges the given fields over the stored settings; absent keys
// keep their current value.
func (s *Service) UpdateSettings(ctx context.Context, patch map[string]any) (store.ContentDocument, error) {
	if view, ok := patch["submissionsView"].(string); ok {
		if view != "kanban" && view != "list" {
			return store.ContentDocument{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "submissionsView must be kanban or list", nil)
		}
	}
	return s.mutate(ctx, "settings", "Update settings", func(doc *store.ContentDocument) error {
		merged, err := mergeSettings(doc.Settings, patch)
		if err != nil {
			return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid settings payload", nil)
		}
		doc.Settings = merged
		return nil
	})
}

func mergeSettings(current store.Settings, patch map[string]any) (store.Settings, error) {
	base := map[string]any{}
	raw, err := json.Marshal(current)
	if err != nil {
		return store.Settings{}, err
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return store.Settings{}, err
	}
	for k, v := range patch {
		base[k] = v
	}
	raw, err = json.Marshal(base)
	if err != nil {
		return store.Settings{}, err
	}
	var merged store.Settings
	if err := json.Unmarshal(raw, &merged); err != nil {
		return store.Settings{}, err
	}
	return merged, nil
}

// History lists recorded document versions, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]history.CommitInfo, error) {
	if s.history == nil {
		return []history.CommitInfo{}, nil
	}
	commits, err := s.history.List(s.siteKey, limit)
	if err != nil {
		return nil, domainError(http.StatusInternalServerError, "SERVER_ERROR", "history unavailable", nil)
	}
	return commits, nil
}

func (s *Service) HistoryVersion(ctx context.Context, hash string) (store.ContentDocument, error) {
	if s.history == nil {
		return store.ContentDocument{}, domainError(http.StatusNotFound, "NOT_FOUND", "version not found", nil)
	}
	doc, err := s.history.Version(s.siteKey, hash)
	if err != nil {
		return store.ContentDocument{}, domainError(http.StatusNotFound, "NOT_FOUND", "version not found", nil)
	}
	return doc, nil
}

// RestoreVersion overwrites the live document with a recorded version. The
// restore itself is recorded, so nothing is lost by restoring.
func (s *Service) RestoreVersion(ctx context.Context, hash string) (store.ContentDocument, error) {
	doc, err := s.HistoryVersion(ctx, hash)
	if err != nil {
		return store.ContentDocument{}, err
	}
	if err := s.store.Put(ctx, s.siteKey, doc); err != nil {
		return store.ContentDocument{}, domainError(http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "content store unavailable", nil)
	}
	s.recordAndBroadcast(ctx, doc, "document", "Restore version "+hash)
	return doc, nil
}

// PushPreview hands a draft snapshot to the preview hub; delivery to open
// preview windows is debounced there.
func (s *Service) PushPreview(fields map[string]any) {
	if s.preview == nil {
		return
	}
	s.preview.Push(preview.Snapshot{SiteKey: s.siteKey, Fields: fields, At: s.now().UTC()})
}
