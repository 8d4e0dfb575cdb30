package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cassprep/internal/faults"
	"cassprep/internal/ledger"
	"cassprep/internal/logging"
	"cassprep/internal/split"
)

// Result summarizes a finished pass.
type Result struct {
	RunID string
	Tally Tally
}

// run carries the ledger bookkeeping of one pass. Without a store the run
// still gets an identifier so log lines can be correlated. Opening and closing
// the ledger row ignore cancellation so an interrupted pass is still recorded.
type run struct {
	id      string
	store   *ledger.Store
	logger  *slog.Logger
	started time.Time
}

func beginRun(ctx context.Context, store *ledger.Store, logger *slog.Logger, info ledger.RunInfo) (context.Context, *run, error) {
	id := uuid.NewString()
	if store != nil {
		var err error
		id, err = store.BeginRun(context.WithoutCancel(ctx), info)
		if err != nil {
			return ctx, nil, faults.Wrap(faults.ErrIO, info.Command, "begin run", "", err)
		}
	}
	ctx = logging.WithRunID(ctx, id)
	r := &run{
		id:      id,
		store:   store,
		logger:  logging.WithContext(ctx, logging.NewComponentLogger(logger, info.Command)),
		started: time.Now(),
	}
	r.logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input_dir", info.InputDir),
		logging.String("output_dir", info.OutputDir),
	)
	return ctx, r, nil
}

func (r *run) recordDocument(ctx context.Context, doc ledger.DocumentOutcome) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.RecordDocument(ctx, r.id, doc); err != nil {
		return faults.Wrap(faults.ErrIO, "ledger", "record document", doc.DocID, err)
	}
	return nil
}

func (r *run) recordAssignments(ctx context.Context, assignments []split.Assignment) error {
	if r.store == nil || len(assignments) == 0 {
		return nil
	}
	if err := r.store.RecordAssignments(ctx, r.id, assignments); err != nil {
		return faults.Wrap(faults.ErrIO, "ledger", "record assignments", "", err)
	}
	return nil
}

// finish logs the outcome and stores it in the ledger.
func (r *run) finish(ctx context.Context, t Tally, runErr error) (Result, error) {
	result := Result{RunID: r.id, Tally: t}
	attrs := []logging.Attr{
		logging.Int("accepted", t.Accepted),
		logging.Int("rejected", t.Rejected()),
		logging.Int("overwritten", t.Overwritten),
		logging.Int("train", t.Split.Train),
		logging.Int("validation", t.Split.Validation),
		logging.Int("test", t.Split.Test),
		logging.Duration("elapsed", time.Since(r.started).Round(time.Millisecond)),
	}
	if runErr != nil {
		attrs = append(attrs, logging.String("status", faults.Kind(runErr)), logging.Error(runErr))
		r.logger.Error("run failed", logging.Args(attrs...)...)
	} else {
		r.logger.Info("run finished", logging.Args(attrs...)...)
	}

	if r.store == nil {
		return result, runErr
	}
	outcome := ledger.RunResult{
		Status:   faults.Kind(runErr),
		Accepted: t.Accepted,
		Rejected: t.Rejected(),
	}
	if runErr != nil {
		outcome.Error = runErr.Error()
	}
	if err := r.store.FinishRun(context.WithoutCancel(ctx), r.id, outcome); err != nil {
		if runErr != nil {
			r.logger.Warn("failed to close run in ledger", logging.Error(err))
			return result, runErr
		}
		return result, faults.Wrap(faults.ErrIO, "ledger", "finish run", r.id, err)
	}
	return result, runErr
}
