// Package snapshot loads the backing table into an in-memory, point-in-time
// index keyed by job id. The snapshot is computed once per run; all
// reconciliation decisions for that run are made against it, and structural
// mutations are deferred until after every position-dependent read has
// completed.
package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/job-radar/internal/schema"
	"github.com/jonathan/job-radar/internal/store"
)

// State holds the mutable per-row flags the engine consults before writing.
type State struct {
	Applied  bool
	Locked   bool
	Archived bool
}

// Snapshot is an immutable view of the table at load time.
type Snapshot struct {
	header []string
	cols   map[string]int
	rows   [][]string
	index  map[string]int // job_id -> 1-based table row number
	states map[string]State
}

// MissingColumnsError reports required columns absent from the header. This
// is a fatal configuration error, not recoverable at runtime.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// DuplicateIDError reports two rows sharing one job_id, a fatal
// data-integrity violation.
type DuplicateIDError struct {
	JobID string
	Row   int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate job_id %q at row %d", e.JobID, e.Row)
}

// Load reads the entire table and builds the index. It fails fast on an
// empty table, on missing required columns, and on duplicate job ids rather
// than silently picking one of two conflicting rows.
func Load(ctx context.Context, st store.TableStore) (*Snapshot, error) {
	header, rows, err := st.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("jobs table is empty")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	var missing []string
	for _, col := range schema.Required {
		if _, ok := cols[string(col)]; !ok {
			missing = append(missing, string(col))
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	s := &Snapshot{
		header: header,
		cols:   cols,
		rows:   rows,
		index:  make(map[string]int, len(rows)),
		states: make(map[string]State, len(rows)),
	}

	for i, row := range rows {
		rowNumber := i + 2 // header is row 1

		jobID := cell(row, cols, schema.ColJobID)
		if jobID == "" {
			// Rows without an id were not created by this pipeline; leave
			// them alone.
			continue
		}
		if _, exists := s.index[jobID]; exists {
			return nil, &DuplicateIDError{JobID: jobID, Row: rowNumber}
		}

		s.index[jobID] = rowNumber
		s.states[jobID] = State{
			Applied:  schema.ParseBool(cell(row, cols, schema.ColApplied)),
			Locked:   schema.ParseBool(cell(row, cols, schema.ColLocked)),
			Archived: schema.ParseBool(cell(row, cols, schema.ColArchived)),
		}
	}

	return s, nil
}

// Has reports whether the table holds a row for the given job id.
func (s *Snapshot) Has(jobID string) bool {
	_, ok := s.index[jobID]
	return ok
}

// RowNumber returns the 1-based table row number for a job id.
func (s *Snapshot) RowNumber(jobID string) (int, bool) {
	n, ok := s.index[jobID]
	return n, ok
}

// State returns the mutable flags for a job id.
func (s *Snapshot) State(jobID string) (State, bool) {
	st, ok := s.states[jobID]
	return st, ok
}

// Value returns the persisted cell value for (jobID, column), or the empty
// string when the cell is absent.
func (s *Snapshot) Value(jobID string, col schema.Column) string {
	rowNumber, ok := s.index[jobID]
	if !ok {
		return ""
	}
	return cell(s.rows[rowNumber-2], s.cols, col)
}

// Len returns the number of indexed rows.
func (s *Snapshot) Len() int {
	return len(s.index)
}

// cell defensively reads a cell; trailing cells may be missing from short rows.
func cell(row []string, cols map[string]int, col schema.Column) string {
	idx, ok := cols[string(col)]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
