// Package store defines the narrow tabular-storage contract the sync
// pipeline requires of any backend, plus the concrete adapters: Google
// Sheets, a Postgres mirror, and an in-memory table for tests and dry runs.
//
// Rows are addressed by 1-based table row number, where row 1 is the header;
// data rows therefore start at row 2, matching spreadsheet conventions.
package store

import (
	"context"
	"fmt"
)

// CellUpdate patches a single cell on an existing row.
type CellUpdate struct {
	Row    int    // 1-based table row number (header is row 1)
	Column string // column name as it appears in the header
	Value  string
}

// TableStore is the backend contract. Implementations derive the
// column-to-position mapping from the header row on every operation; callers
// never address cells positionally.
type TableStore interface {
	// ReadAll returns the header row and all data rows.
	ReadAll(ctx context.Context) (header []string, rows [][]string, err error)

	// AppendRows inserts the given rows contiguously, directly after the
	// header, preserving batch order. Cells absent from a row map are blank.
	AppendRows(ctx context.Context, rows []map[string]string) error

	// PatchCells applies the updates, as one atomic batch where the backend
	// allows it. A failed batch must not be reported as success.
	PatchCells(ctx context.Context, updates []CellUpdate) error
}

// NotFoundError reports a table (sheet) that does not exist in the backend.
type NotFoundError struct {
	Table string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("table %q not found", e.Table)
}

// UnknownColumnError reports a write addressed to a column absent from the
// header row.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("column %q not present in table header", e.Column)
}

// RowRangeError reports a patch addressed to a row outside the table.
type RowRangeError struct {
	Row int
}

func (e *RowRangeError) Error() string {
	return fmt.Sprintf("row %d is out of range", e.Row)
}

// columnMap builds the name -> index mapping from a header row.
func columnMap(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		m[name] = i
	}
	return m
}

// buildRow lays out a row map positionally according to the header.
func buildRow(header []string, cells map[string]string) []string {
	row := make([]string, len(header))
	for i, name := range header {
		if v, ok := cells[name]; ok {
			row[i] = v
		}
	}
	return row
}
