// Package identity derives stable, deterministic job identifiers from the
// immutable identity fields of a posting (company, title, location). The same
// semantic identity always yields the same id, regardless of capitalization,
// punctuation, or legal-suffix noise in source company names, so re-scraping
// a listing from any source resolves to the same row instead of a duplicate.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	punctuationRe = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// legalSuffixes are company-name tokens that carry no identity information.
var legalSuffixes = map[string]bool{
	"inc":          true,
	"incorporated": true,
	"llc":          true,
	"ltd":          true,
	"limited":      true,
	"corp":         true,
	"corporation":  true,
	"co":           true,
	"company":      true,
}

// Normalize lowercases text, strips punctuation, and collapses whitespace
// runs to a single space.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = punctuationRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NormalizeCompany normalizes a company name like Normalize and additionally
// drops common legal-entity suffixes ("inc", "llc", ...) as whole words.
func NormalizeCompany(company string) string {
	normalized := Normalize(company)
	if normalized == "" {
		return ""
	}

	words := strings.Fields(normalized)
	kept := words[:0]
	for _, w := range words {
		if !legalSuffixes[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// JobID generates a deterministic job id from the identity fields. The three
// normalized strings are joined with "|" to prevent field-boundary collisions
// before hashing. Empty fields still participate, so ("", "X", "") is a
// valid, distinct identity.
func JobID(company, jobTitle, location string) string {
	identityString := NormalizeCompany(company) + "|" + Normalize(jobTitle) + "|" + Normalize(location)

	sum := sha256.Sum256([]byte(identityString))
	return hex.EncodeToString(sum[:])
}
