// Package reconcile implements the sync engine: given a batch of freshly
// scraped raw jobs and a point-in-time snapshot of the backing table, it
// decides per job whether to insert, patch, skip, or refuse, and applies the
// staged outcome in a single flush at the end of the run.
package reconcile

import (
	"fmt"
	"time"

	"github.com/jonathan/job-radar/internal/identity"
	"github.com/jonathan/job-radar/internal/schema"
	"github.com/jonathan/job-radar/internal/snapshot"
	"github.com/jonathan/job-radar/internal/types"
)

// Action classifies the outcome of reconciling one raw job.
type Action string

const (
	// ActionInsert creates a new row for a never-seen identity.
	ActionInsert Action = "inserted"
	// ActionUpdated patched at least one content field on an existing row.
	ActionUpdated Action = "updated"
	// ActionUnchanged found no content diff; only the heartbeat is stamped.
	ActionUnchanged Action = "unchanged"
	// ActionRejectedLocked refused to touch a locked row. No write at all is
	// issued for locked rows, heartbeat included.
	ActionRejectedLocked Action = "rejected_locked"
	// ActionInvalid rejected a producer record whose identity fields are too
	// incomplete to hash meaningfully.
	ActionInvalid Action = "invalid"
)

// Record holds the cell values of a staged new row.
type Record map[schema.Column]string

// Decision is the terminal outcome for one raw job within a run.
type Decision struct {
	Action Action
	JobID  string

	// Record is set for ActionInsert: the full new row.
	Record Record

	// Row and Patch are set for ActionUpdated/ActionUnchanged: the snapshot
	// row number and the system-field cells to write (heartbeat included).
	Row   int
	Patch map[schema.Column]string
}

// InvalidJobError reports a raw job whose identity fields cannot form a
// meaningful identity. Per-job and non-fatal: the caller counts and skips it.
type InvalidJobError struct {
	Job types.RawJob
}

func (e *InvalidJobError) Error() string {
	return fmt.Sprintf("raw job from %q has no usable identity fields", e.Job.Source)
}

// Engine reconciles raw jobs against one snapshot. It stages inserted
// records in memory so a duplicate identity later in the same batch
// reconciles against the first occurrence instead of inserting twice.
type Engine struct {
	snap   *snapshot.Snapshot
	now    func() time.Time
	staged map[string]Record
	// pending tracks system-field values already patched onto existing rows
	// earlier in this run, so a repeated identity diffs against the fresh
	// values rather than the stale snapshot.
	pending map[string]map[schema.Column]string
}

// NewEngine creates an engine bound to a snapshot. now may be nil, in which
// case time.Now is used.
func NewEngine(snap *snapshot.Snapshot, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		snap:    snap,
		now:     now,
		staged:  make(map[string]Record),
		pending: make(map[string]map[schema.Column]string),
	}
}

// Decide computes the terminal action for one raw job. An InvalidJobError is
// returned alongside ActionInvalid; every other action returns a nil error.
func (e *Engine) Decide(raw types.RawJob) (Decision, error) {
	// A record missing both company and title would hash to a seemingly
	// valid but meaningless identity; refuse before hashing.
	if raw.Company == "" && raw.JobTitle == "" {
		return Decision{Action: ActionInvalid}, &InvalidJobError{Job: raw}
	}

	jobID := identity.JobID(raw.Company, raw.JobTitle, raw.Location)
	now := e.now().UTC().Format(time.RFC3339)

	// Same identity already staged for insert in this batch: fold the later
	// occurrence into the staged record.
	if staged, ok := e.staged[jobID]; ok {
		return e.reconcileStaged(jobID, staged, raw), nil
	}

	if !e.snap.Has(jobID) {
		record := e.newRecord(jobID, raw, now)
		e.staged[jobID] = record
		return Decision{Action: ActionInsert, JobID: jobID, Record: record}, nil
	}

	state, _ := e.snap.State(jobID)
	if state.Locked {
		return Decision{Action: ActionRejectedLocked, JobID: jobID}, nil
	}

	patch := make(map[schema.Column]string)
	for _, col := range schema.DiffColumns {
		incoming := systemValue(raw, col)
		if incoming != e.currentValue(jobID, col) {
			patch[col] = incoming
		}
	}

	action := ActionUnchanged
	if len(patch) > 0 {
		action = ActionUpdated
		pend := e.pending[jobID]
		if pend == nil {
			pend = make(map[schema.Column]string)
			e.pending[jobID] = pend
		}
		for col, v := range patch {
			pend[col] = v
		}
	}

	// Heartbeat: last_updated is stamped on every reconciliation of an
	// unlocked row, changed or not.
	patch[schema.ColLastUpdated] = now

	rowNumber, _ := e.snap.RowNumber(jobID)
	return Decision{Action: action, JobID: jobID, Row: rowNumber, Patch: patch}, nil
}

// currentValue returns the value a column will hold once this run's staged
// patches are flushed: the pending patch if one exists, else the snapshot.
func (e *Engine) currentValue(jobID string, col schema.Column) string {
	if pend, ok := e.pending[jobID]; ok {
		if v, ok := pend[col]; ok {
			return v
		}
	}
	return e.snap.Value(jobID, col)
}

// reconcileStaged diffs a raw job against a record staged earlier in the same
// batch and merges any changed system fields into it.
func (e *Engine) reconcileStaged(jobID string, staged Record, raw types.RawJob) Decision {
	changed := false
	for _, col := range schema.DiffColumns {
		incoming := systemValue(raw, col)
		if incoming != staged[col] {
			staged[col] = incoming
			changed = true
		}
	}

	action := ActionUnchanged
	if changed {
		action = ActionUpdated
	}
	return Decision{Action: action, JobID: jobID}
}

// newRecord synthesizes a full row for a first-seen identity. Identity
// fields are copied verbatim; applied/locked/archived start false;
// date_found and last_updated are stamped with the run clock.
func (e *Engine) newRecord(jobID string, raw types.RawJob, now string) Record {
	return Record{
		schema.ColJobID:          jobID,
		schema.ColJobTitle:       raw.JobTitle,
		schema.ColCompany:        raw.Company,
		schema.ColLocation:       raw.Location,
		schema.ColJobURL:         raw.JobURL,
		schema.ColSource:         raw.Source,
		schema.ColDatePosted:     raw.DatePosted,
		schema.ColRelevanceScore: raw.RelevanceScoreString(),
		schema.ColRoleType:       raw.RoleType,
		schema.ColConfidence:     raw.ConfidenceString(),
		schema.ColApplied:        schema.FormatBool(false),
		schema.ColLocked:         schema.FormatBool(false),
		schema.ColArchived:       schema.FormatBool(false),
		schema.ColDateFound:      now,
		schema.ColLastUpdated:    now,
	}
}

// systemValue stringifies the raw-job value carried in a system column.
func systemValue(raw types.RawJob, col schema.Column) string {
	switch col {
	case schema.ColJobURL:
		return raw.JobURL
	case schema.ColSource:
		return raw.Source
	case schema.ColDatePosted:
		return raw.DatePosted
	case schema.ColRelevanceScore:
		return raw.RelevanceScoreString()
	case schema.ColRoleType:
		return raw.RoleType
	case schema.ColConfidence:
		return raw.ConfidenceString()
	default:
		return ""
	}
}
