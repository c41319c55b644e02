package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/simset-go/phgsim/internal/phg/sim"
)

// InsertRun records a new run's starting parameters and returns its
// assigned run ID.
func (s *Store) InsertRun(startedUnixNanos int64, cfg sim.RunConfig) (int64, error) {
	res, err := s.Exec(
		`INSERT INTO run (started_unix_nanos, random_seed, events_requested, scan_length_seconds, output_path)
		 VALUES (?, ?, ?, ?, ?)`,
		startedUnixNanos, cfg.RandomSeed, cfg.EventsToSimulate, cfg.ScanLengthSeconds, cfg.OutputPath,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: reading new run id: %w", err)
	}
	return id, nil
}

// FinishRun records a run's terminal counters. errMsg is empty on
// success.
func (s *Store) FinishRun(runID int64, finishedUnixNanos int64, decaysWritten, photonsWritten int64, errMsg string) error {
	var errVal sql.NullString
	if errMsg != "" {
		errVal = sql.NullString{String: errMsg, Valid: true}
	}
	_, err := s.Exec(
		`UPDATE run SET finished_unix_nanos = ?, decays_written = ?, photons_written = ?, error_message = ? WHERE run_id = ?`,
		finishedUnixNanos, decaysWritten, photonsWritten, errVal, runID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: finishing run %d: %w", runID, err)
	}
	return nil
}

// RunSummary is one persisted run's complete record.
type RunSummary struct {
	RunID              int64
	StartedUnixNanos   int64
	RandomSeed         int64
	EventsRequested    int64
	ScanLengthSeconds  float64
	OutputPath         string
	DecaysWritten      int64
	PhotonsWritten     int64
	FinishedUnixNanos  sql.NullInt64
	ErrorMessage       sql.NullString
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	rows, err := s.Query(
		`SELECT run_id, started_unix_nanos, random_seed, events_requested, scan_length_seconds,
		        output_path, decays_written, photons_written, finished_unix_nanos, error_message
		 FROM run ORDER BY run_id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.StartedUnixNanos, &r.RandomSeed, &r.EventsRequested,
			&r.ScanLengthSeconds, &r.OutputPath, &r.DecaysWritten, &r.PhotonsWritten,
			&r.FinishedUnixNanos, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("sqlite: scanning run row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
