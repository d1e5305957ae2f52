package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/job-radar/internal/snapshot"
	"github.com/jonathan/job-radar/internal/store"
	"github.com/jonathan/job-radar/internal/types"
)

// Report aggregates per-outcome counts for one run, for operator auditing.
type Report struct {
	RunID          uuid.UUID `json:"run_id"`
	Inserted       int       `json:"inserted"`
	Updated        int       `json:"updated"`
	Unchanged      int       `json:"unchanged"`
	RejectedLocked int       `json:"rejected_locked"`
	Invalid        int       `json:"invalid"`
	Started        time.Time `json:"started"`
	Finished       time.Time `json:"finished"`
}

// Options tunes a run. The zero value is usable.
type Options struct {
	// Now overrides the run clock; nil means time.Now.
	Now func() time.Time
	// Log receives per-run reporting; nil disables logging.
	Log *logrus.Entry
}

// Run executes one full synchronous reconciliation pass: snapshot the table
// once, decide every raw job against it, then flush all staged writes in one
// patch batch followed by one bulk insert. Safe to run repeatedly on the
// same batch: the second pass inserts nothing and changes no content field.
// Any fatal error aborts the run before partial state is written.
func Run(ctx context.Context, st store.TableStore, rawJobs []types.RawJob, opts Options) (*Report, error) {
	report := &Report{
		RunID:   uuid.New(),
		Started: time.Now().UTC(),
	}

	snap, err := snapshot.Load(ctx, st)
	if err != nil {
		return nil, err
	}

	engine := NewEngine(snap, opts.Now)
	decisions := make([]Decision, 0, len(rawJobs))

	for _, raw := range rawJobs {
		decision, err := engine.Decide(raw)
		if err != nil {
			var invalid *InvalidJobError
			if errors.As(err, &invalid) {
				report.Invalid++
				if opts.Log != nil {
					opts.Log.WithField("source", raw.Source).Warn("skipping raw job without identity fields")
				}
				continue
			}
			return nil, err
		}
		decisions = append(decisions, decision)

		switch decision.Action {
		case ActionInsert:
			report.Inserted++
		case ActionUpdated:
			report.Updated++
		case ActionUnchanged:
			report.Unchanged++
		case ActionRejectedLocked:
			report.RejectedLocked++
		}
	}

	if err := NewWriter(st, snap).Apply(ctx, decisions); err != nil {
		return nil, err
	}

	report.Finished = time.Now().UTC()
	if opts.Log != nil {
		opts.Log.WithFields(logrus.Fields{
			"run_id":          report.RunID,
			"inserted":        report.Inserted,
			"updated":         report.Updated,
			"unchanged":       report.Unchanged,
			"rejected_locked": report.RejectedLocked,
			"invalid":         report.Invalid,
		}).Info("reconciliation run complete")
	}
	return report, nil
}
