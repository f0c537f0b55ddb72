package search

import "log"

// Service is the facade that tries Meilisearch first and falls back to a
// substring scan over the caller-supplied records. meili may be nil when
// Meilisearch is not configured.
type Service struct {
	meili *Meili
}

func NewService(meili *Meili) *Service {
	return &Service{meili: meili}
}

// Search filters records matching q. The caller already holds the full
// submissions log (the document is always read whole), so the index only
// contributes which ids match.
func (s *Service) Search(siteKey, q string, records []SubmissionRecord) []SubmissionRecord {
	if s.meili != nil && s.meili.Healthy() {
		ids, err := s.meili.Search(siteKey, q, len(records))
		if err == nil {
			wanted := make(map[string]struct{}, len(ids))
			for _, id := range ids {
				wanted[id] = struct{}{}
			}
			matched := make([]SubmissionRecord, 0, len(ids))
			for _, rec := range records {
				if _, ok := wanted[rec.ID]; ok {
					matched = append(matched, rec)
				}
			}
			return matched
		}
		log.Printf("search: meilisearch error, falling back to substring scan: %v", err)
	}

	matched := make([]SubmissionRecord, 0)
	for _, rec := range records {
		if MatchSubstring(rec, q) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// IndexSubmission indexes a submission (fire-and-forget to Meilisearch).
func (s *Service) IndexSubmission(rec SubmissionRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexSubmission(rec); err != nil {
			log.Printf("search: index submission %s: %v", rec.ID, err)
		}
	}()
}

// DeleteSubmission removes a submission from the index (fire-and-forget).
func (s *Service) DeleteSubmission(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteSubmission(id); err != nil {
			log.Printf("search: delete submission %s: %v", id, err)
		}
	}()
}
