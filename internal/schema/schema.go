// Package schema defines the typed column schema of the jobs table and the
// write-permission model shared by the reconciliation engine and the batch
// writer. Columns fall into three ownership groups: identity fields are
// immutable once a row exists, system fields are written only by the
// pipeline, and user fields are never written by the pipeline.
package schema

import (
	"fmt"
	"strings"
)

// Column is a named column of the jobs table.
type Column string

// Identity columns (immutable after row creation).
const (
	ColJobID    Column = "job_id"
	ColJobTitle Column = "job_title"
	ColCompany  Column = "company"
	ColLocation Column = "location"
)

// System columns (written only by the pipeline).
const (
	ColJobURL         Column = "job_url"
	ColSource         Column = "source"
	ColDatePosted     Column = "date_posted"
	ColRelevanceScore Column = "relevance_score"
	ColRoleType       Column = "role_type"
	ColConfidence     Column = "confidence"
	ColArchived       Column = "archived"
	ColLastUpdated    Column = "last_updated"
	ColDateFound      Column = "date_found"
)

// User columns (owned by a human; off limits to the pipeline).
const (
	ColApplied           Column = "applied"
	ColDateApplied       Column = "date_applied"
	ColApplicationStatus Column = "application_status"
	ColPriority          Column = "priority"
	ColNotes             Column = "notes"
)

// ColLocked freezes a row: when TRUE, no automated write may touch the row.
const ColLocked Column = "locked"

// Required is the column set every jobs table must carry. A table missing
// any of these is a fatal configuration error.
var Required = []Column{
	ColJobID,
	ColJobTitle,
	ColCompany,
	ColLocation,
	ColApplied,
	ColLocked,
	ColLastUpdated,
}

// SystemWritable is the whitelist of columns the pipeline may patch on an
// existing row.
var SystemWritable = map[Column]bool{
	ColJobURL:         true,
	ColSource:         true,
	ColDatePosted:     true,
	ColRelevanceScore: true,
	ColRoleType:       true,
	ColConfidence:     true,
	ColArchived:       true,
	ColLastUpdated:    true,
}

// UserOwned are columns that must never be written by the pipeline, even
// when blank.
var UserOwned = map[Column]bool{
	ColApplied:           true,
	ColDateApplied:       true,
	ColApplicationStatus: true,
	ColPriority:          true,
	ColNotes:             true,
}

// DiffColumns are the system columns compared against incoming raw jobs when
// reconciling an existing row. ColLastUpdated is excluded: it is the
// heartbeat, stamped unconditionally.
var DiffColumns = []Column{
	ColJobURL,
	ColSource,
	ColDatePosted,
	ColRelevanceScore,
	ColRoleType,
	ColConfidence,
}

// UserOwnedColumnError reports an attempted write to a user-owned column.
type UserOwnedColumnError struct {
	Column Column
}

func (e *UserOwnedColumnError) Error() string {
	return fmt.Sprintf("writing to user-owned column %q is not allowed", e.Column)
}

// NotWritableError reports an attempted write to a column outside the
// system-writable whitelist.
type NotWritableError struct {
	Column Column
}

func (e *NotWritableError) Error() string {
	return fmt.Sprintf("column %q is not writable by the system", e.Column)
}

// CheckWritable returns an error unless col is on the system-writable
// whitelist. Writes to user-owned columns and to unrecognized columns fail
// with distinguishable errors; they are never silently dropped.
func CheckWritable(col Column) error {
	if UserOwned[col] {
		return &UserOwnedColumnError{Column: col}
	}
	if !SystemWritable[col] {
		return &NotWritableError{Column: col}
	}
	return nil
}

// ParseBool parses a boolean cell. Only the literal "TRUE" (any casing)
// counts as true; everything else, including blank cells, is false.
func ParseBool(cell string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), "TRUE")
}

// FormatBool renders a boolean in the table's cell convention.
func FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
