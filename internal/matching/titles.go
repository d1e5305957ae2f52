// Package matching implements the pre-ingestion preference filters. Filters
// are pure predicates over freshly scraped listings; they never run against
// persisted rows. All keyword checks are case-insensitive substring matches,
// and every filter is an explicit value constructed from configuration, with
// no package-level mutable state.
package matching

import (
	"strings"

	"github.com/jonathan/job-radar/internal/types"
)

// TitleFilter is the simple title predicate: the title must contain at least
// one role-level keyword AND at least one role-type keyword. An empty
// keyword set is vacuously satisfied.
type TitleFilter struct {
	RoleLevelKeywords []string // e.g. "intern", "internship"
	RoleTypeKeywords  []string // e.g. "software", "backend"
}

// Matches reports whether the title satisfies both keyword gates.
func (f TitleFilter) Matches(title string) bool {
	title = strings.ToLower(title)

	if len(f.RoleLevelKeywords) > 0 && !containsAny(title, f.RoleLevelKeywords) {
		return false
	}
	if len(f.RoleTypeKeywords) > 0 && !containsAny(title, f.RoleTypeKeywords) {
		return false
	}
	return true
}

// FilterJobs returns the raw jobs whose titles pass the filter.
func FilterJobs(jobs []types.RawJob, f TitleFilter) []types.RawJob {
	filtered := make([]types.RawJob, 0, len(jobs))
	for _, job := range jobs {
		if f.Matches(job.JobTitle) {
			filtered = append(filtered, job)
		}
	}
	return filtered
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
