package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonathan/job-radar/internal/schema"
	"github.com/jonathan/job-radar/internal/snapshot"
	"github.com/jonathan/job-radar/internal/store"
)

// LockedRowError reports a staged patch that targets a locked row. The
// engine never produces one; the writer re-checks anyway.
type LockedRowError struct {
	JobID string
}

func (e *LockedRowError) Error() string {
	return fmt.Sprintf("job %s is locked; refusing to write", e.JobID)
}

// UnknownJobIDError reports a staged patch whose job id is absent from the
// snapshot the patch positions were resolved against.
type UnknownJobIDError struct {
	JobID string
}

func (e *UnknownJobIDError) Error() string {
	return fmt.Sprintf("unknown job_id: %s", e.JobID)
}

// Writer applies a run's staged decisions to the backend. Ordering
// discipline: every cell patch is flushed before the single bulk insert, so
// all row positions resolved from the snapshot are still valid when they are
// used; the one structural mutation happens last.
type Writer struct {
	st   store.TableStore
	snap *snapshot.Snapshot
}

// NewWriter creates a writer bound to the same snapshot the engine decided
// against.
func NewWriter(st store.TableStore, snap *snapshot.Snapshot) *Writer {
	return &Writer{st: st, snap: snap}
}

// Apply validates and flushes all decisions: one PatchCells batch for every
// staged patch, then one AppendRows for every staged insert. Any permission
// or integrity violation aborts before a single write reaches the backend.
func (w *Writer) Apply(ctx context.Context, decisions []Decision) error {
	var patches []store.CellUpdate
	var inserts []map[string]string

	for _, d := range decisions {
		switch d.Action {
		case ActionInsert:
			inserts = append(inserts, recordCells(d.Record))

		case ActionUpdated, ActionUnchanged:
			if d.Patch == nil {
				continue // folded into a staged insert earlier in the batch
			}
			rowNumber, ok := w.snap.RowNumber(d.JobID)
			if !ok {
				return &UnknownJobIDError{JobID: d.JobID}
			}
			if d.Row != rowNumber {
				return fmt.Errorf("stale row position for job %s: decision has %d, snapshot has %d", d.JobID, d.Row, rowNumber)
			}
			state, _ := w.snap.State(d.JobID)

			for _, col := range sortedColumns(d.Patch) {
				// Defense in depth: the engine already restricts patches to
				// the system whitelist; reject independently here.
				if err := schema.CheckWritable(col); err != nil {
					return err
				}
				if state.Locked {
					return &LockedRowError{JobID: d.JobID}
				}
				patches = append(patches, store.CellUpdate{
					Row:    rowNumber,
					Column: string(col),
					Value:  d.Patch[col],
				})
			}

		case ActionRejectedLocked, ActionInvalid:
			// No write of any kind.
		}
	}

	if len(patches) > 0 {
		if err := w.st.PatchCells(ctx, patches); err != nil {
			return fmt.Errorf("failed to flush patches: %w", err)
		}
	}
	if len(inserts) > 0 {
		if err := w.st.AppendRows(ctx, inserts); err != nil {
			return fmt.Errorf("failed to flush inserts: %w", err)
		}
	}
	return nil
}

func recordCells(r Record) map[string]string {
	cells := make(map[string]string, len(r))
	for col, v := range r {
		cells[string(col)] = v
	}
	return cells
}

// sortedColumns returns patch columns in a stable order so backend writes
// are deterministic across runs.
func sortedColumns(patch map[schema.Column]string) []schema.Column {
	cols := make([]schema.Column, 0, len(patch))
	for col := range patch {
		cols = append(cols, col)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })
	return cols
}
