package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cassprep/internal/split"
)

// ErrRunNotFound is returned when no run matches an identifier.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when an identifier prefix matches several runs.
var ErrAmbiguousRun = errors.New("run identifier is ambiguous")

const runColumns = "id, command, input_dir, output_dir, language, layout, split_mode, seed, status, error_message, accepted, rejected, started_at, finished_at"

// BeginRun inserts a running row and returns its generated identifier.
func (s *Store) BeginRun(ctx context.Context, info RunInfo) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx,
		`INSERT INTO runs (
            id, command, input_dir, output_dir, language, layout, split_mode, seed,
            status, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		info.Command,
		nullableString(info.InputDir),
		nullableString(info.OutputDir),
		nullableString(info.Language),
		nullableString(info.Layout),
		nullableString(info.SplitMode),
		int64(info.Seed),
		StatusRunning,
		timestamp(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordDocument stores the outcome of one document. A document seen twice in
// the same run keeps its latest outcome.
func (s *Store) RecordDocument(ctx context.Context, runID string, doc DocumentOutcome) error {
	overwrote := 0
	if doc.Overwrote {
		overwrote = 1
	}
	err := s.exec(ctx,
		`INSERT INTO documents (run_id, doc_id, source_path, outcome, reason, overwrote, recorded_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (run_id, doc_id) DO UPDATE SET
            source_path = excluded.source_path,
            outcome = excluded.outcome,
            reason = excluded.reason,
            overwrote = excluded.overwrote,
            recorded_at = excluded.recorded_at`,
		runID,
		doc.DocID,
		nullableString(doc.SourcePath),
		doc.Outcome,
		nullableString(doc.Reason),
		overwrote,
		timestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("record document %s: %w", doc.DocID, err)
	}
	return nil
}

// RecordAssignments stores split assignments in one transaction. Assigning
// the same document twice within a run violates the unique constraint.
func (s *Store) RecordAssignments(ctx context.Context, runID string, assignments []split.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignments tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO assignments (run_id, doc_id, split) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare assignment insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.ExecContext(ctx, runID, a.ID, a.Set.String()); err != nil {
			return fmt.Errorf("record assignment %s: %w", a.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignments: %w", err)
	}
	return nil
}

// FinishRun stores the final status and counters.
func (s *Store) FinishRun(ctx context.Context, runID string, result RunResult) error {
	err := s.exec(ctx,
		`UPDATE runs SET status = ?, error_message = ?, accepted = ?, rejected = ?, finished_at = ?
        WHERE id = ?`,
		result.Status,
		nullableString(result.Error),
		result.Accepted,
		result.Rejected,
		timestamp(time.Now()),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run whose identifier equals or starts with idOrPrefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (Run, error) {
	if idOrPrefix == "" {
		return Run{}, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE substr(id, 1, ?) = ? ORDER BY id LIMIT 2",
		len(idOrPrefix), idOrPrefix,
	)
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}

// Detail returns a run together with its rejection and assignment counts.
func (s *Store) Detail(ctx context.Context, idOrPrefix string) (RunDetail, error) {
	run, err := s.GetRun(ctx, idOrPrefix)
	if err != nil {
		return RunDetail{}, err
	}
	rejections, err := s.countBy(ctx,
		"SELECT reason, COUNT(1) FROM documents WHERE run_id = ? AND outcome = ? GROUP BY reason",
		run.ID, OutcomeRejected)
	if err != nil {
		return RunDetail{}, fmt.Errorf("count rejections: %w", err)
	}
	assignments, err := s.countBy(ctx,
		"SELECT split, COUNT(1) FROM assignments WHERE run_id = ? GROUP BY split", run.ID)
	if err != nil {
		return RunDetail{}, fmt.Errorf("count assignments: %w", err)
	}
	return RunDetail{Run: run, Rejections: rejections, Assignments: assignments}, nil
}

// Documents returns the outcomes recorded for a run in document order.
func (s *Store) Documents(ctx context.Context, runID string) ([]DocumentOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc_id, source_path, outcome, reason, overwrote FROM documents WHERE run_id = ? ORDER BY doc_id",
		runID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentOutcome
	for rows.Next() {
		var (
			doc        DocumentOutcome
			sourcePath sql.NullString
			reason     sql.NullString
			overwrote  int
		)
		if err := rows.Scan(&doc.DocID, &sourcePath, &doc.Outcome, &reason, &overwrote); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.SourcePath = sourcePath.String
		doc.Reason = reason.String
		doc.Overwrote = overwrote != 0
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *Store) countBy(ctx context.Context, query string, args ...any) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			key   sql.NullString
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key.String] = count
	}
	return counts, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run          Run
		inputDir     sql.NullString
		outputDir    sql.NullString
		language     sql.NullString
		layout       sql.NullString
		splitMode    sql.NullString
		seed         sql.NullInt64
		errorMessage sql.NullString
		startedRaw   sql.NullString
		finishedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Command,
		&inputDir,
		&outputDir,
		&language,
		&layout,
		&splitMode,
		&seed,
		&run.Status,
		&errorMessage,
		&run.Accepted,
		&run.Rejected,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Run{}, err
	}
	run.InputDir = inputDir.String
	run.OutputDir = outputDir.String
	run.Language = language.String
	run.Layout = layout.String
	run.SplitMode = splitMode.String
	run.Seed = uint64(seed.Int64)
	run.ErrorMessage = errorMessage.String
	run.StartedAt = parseTimestamp(startedRaw)
	run.FinishedAt = parseTimestamp(finishedRaw)
	return run, nil
}
