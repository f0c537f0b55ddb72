// Package search finds contact submissions by free text. Meilisearch is used
// when reachable; otherwise a plain substring scan over the stored log serves
// the same queries.
package search

import "strings"

// SubmissionRecord is the indexed shape of a contact submission.
type SubmissionRecord struct {
	ID          string `json:"id"`
	SiteKey     string `json:"siteKey"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
	ProjectType string `json:"projectType"`
	Status      string `json:"status"`
}

// MatchSubstring reports whether the record matches q with a case-insensitive
// substring scan. The fallback path when Meilisearch is down, and the
// reference behavior the index only needs to approximate.
func MatchSubstring(rec SubmissionRecord, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range []string{rec.Name, rec.Email, rec.Description, rec.ProjectType, rec.Status} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
