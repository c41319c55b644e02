package sqlite

import "fmt"

// HistoryFile is one catalogued output file produced or consumed during
// a run's pipeline stages (raw tracking output, time-sorted, randoms
// added).
type HistoryFile struct {
	Path           string
	IsTimeSorted   bool
	IsRandomsAdded bool
	DecayCount     int64
}

// RegisterHistoryFile records (or updates) a catalogue entry for a
// history file produced under runID.
func (s *Store) RegisterHistoryFile(runID int64, f HistoryFile) error {
	_, err := s.Exec(
		`INSERT OR REPLACE INTO history_file (run_id, path, is_time_sorted, is_randoms_added, decay_count)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, f.Path, f.IsTimeSorted, f.IsRandomsAdded, f.DecayCount,
	)
	if err != nil {
		return fmt.Errorf("sqlite: registering history file %q for run %d: %w", f.Path, runID, err)
	}
	return nil
}

// ListHistoryFiles returns every catalogued history file for runID.
func (s *Store) ListHistoryFiles(runID int64) ([]HistoryFile, error) {
	rows, err := s.Query(
		`SELECT path, is_time_sorted, is_randoms_added, decay_count FROM history_file WHERE run_id = ?`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing history files for run %d: %w", runID, err)
	}
	defer rows.Close()

	var out []HistoryFile
	for rows.Next() {
		var f HistoryFile
		if err := rows.Scan(&f.Path, &f.IsTimeSorted, &f.IsRandomsAdded, &f.DecayCount); err != nil {
			return nil, fmt.Errorf("sqlite: scanning history file row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
