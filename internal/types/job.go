// Package types defines the shared data structures passed between scrapers,
// filters, and the reconciliation engine.
package types

import "strconv"

// Source name constants for known producers.
const (
	SourceGreenhouse     = "greenhouse"
	SourceSimplifyGitHub = "simplify_github"
)

// RawJob is a single job posting as produced by a scraper. It carries no
// identity field; deduplication identity is derived from the normalized
// (company, job_title, location) triple downstream.
type RawJob struct {
	Company    string `json:"company"`
	JobTitle   string `json:"job_title"`
	Location   string `json:"location"`
	JobURL     string `json:"job_url"`
	Source     string `json:"source"`
	DatePosted string `json:"date_posted,omitempty"` // ISO date or empty

	// Optional enrichment signals; nil when the producer does not score.
	RelevanceScore *int     `json:"relevance_score,omitempty"`
	RoleType       string   `json:"role_type,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
}

// RelevanceScoreString returns the relevance score formatted for cell
// storage, or the empty string when unset.
func (j RawJob) RelevanceScoreString() string {
	if j.RelevanceScore == nil {
		return ""
	}
	return strconv.Itoa(*j.RelevanceScore)
}

// ConfidenceString returns the confidence formatted for cell storage, or the
// empty string when unset.
func (j RawJob) ConfidenceString() string {
	if j.Confidence == nil {
		return ""
	}
	return strconv.FormatFloat(*j.Confidence, 'g', -1, 64)
}
