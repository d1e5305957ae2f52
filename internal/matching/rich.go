package matching

import (
	"regexp"
	"strconv"
	"strings"
)

// Listing is the raw table row shape the rich filter evaluates: the job
// title, the free-text location, and a free-text age such as "5d" or
// "2 months ago".
type Listing struct {
	Title    string
	Location string
	Age      string
}

// usStates are two-letter US state abbreviations (plus DC) recognized when
// preceded by ", " in a location string.
var usStates = []string{
	"al", "ak", "az", "ar", "ca", "co", "ct", "de", "fl", "ga",
	"hi", "id", "il", "in", "ia", "ks", "ky", "la", "me", "md",
	"ma", "mi", "mn", "ms", "mo", "mt", "ne", "nv", "nh", "nj",
	"nm", "ny", "nc", "nd", "oh", "ok", "or", "pa", "ri", "sc",
	"sd", "tn", "tx", "ut", "vt", "va", "wa", "wv", "wi", "wy",
	"dc",
}

// implicitUSCities are location strings accepted as US without a state
// abbreviation.
var implicitUSCities = map[string]bool{
	"nyc": true,
	"sf":  true,
}

var firstIntRe = regexp.MustCompile(`(\d+)`)

// RichFilter is the multi-criterion gate used by the markdown-table source.
// All gates are AND-ed; empty keyword lists impose no constraint.
type RichFilter struct {
	RequiredJobType []string // at least one must appear in the title
	Keywords        []string // at least one must appear in the title
	MaxDaysBack     int      // listings older than this are rejected
	UsOnly          bool
	RemoteAllowed   bool
}

// Matches reports whether a listing passes every gate.
func (f RichFilter) Matches(l Listing) bool {
	title := strings.ToLower(l.Title)
	location := strings.ToLower(l.Location)
	age := strings.ToLower(l.Age)

	// Month-denominated ages are stale beyond any reasonable window.
	if strings.Contains(age, "mo") {
		return false
	}

	if len(f.RequiredJobType) > 0 && !containsAny(title, f.RequiredJobType) {
		return false
	}

	if len(f.Keywords) > 0 && !containsAny(title, f.Keywords) {
		return false
	}

	if days, ok := AgeInDays(age); ok && days > f.MaxDaysBack {
		return false
	}

	if f.UsOnly {
		if strings.Contains(location, "canada") {
			return false
		}
		if !strings.Contains(location, "remote") && !HasUSLocation(location) {
			return false
		}
	}

	if !f.RemoteAllowed && strings.Contains(location, "remote") {
		return false
	}

	return true
}

// AgeInDays extracts the first integer from a free-text age string ("10d",
// "posted 3 days ago"). The second return is false when no integer is
// present.
func AgeInDays(age string) (int, bool) {
	match := firstIntRe.FindString(age)
	if match == "" {
		return 0, false
	}
	days, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return days, true
}

// HasUSLocation reports whether a lowercased location names a US place: a
// state abbreviation preceded by ", ", or a known implicit-US city token.
func HasUSLocation(location string) bool {
	for _, state := range usStates {
		if strings.Contains(location, ", "+state) {
			return true
		}
	}
	return implicitUSCities[location]
}
