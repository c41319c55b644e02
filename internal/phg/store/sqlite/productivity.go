package sqlite

import (
	"fmt"

	"github.com/simset-go/phgsim/internal/phg/productivity"
)

// SaveProductivityTable persists every cell in table under runID,
// grounded on productivity.Table.Snapshot's read-only copy contract.
func (s *Store) SaveProductivityTable(runID int64, table *productivity.Table) error {
	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: starting productivity save transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO productivity_cell (run_id, slice, angle, primary_contribution, scatter_contribution)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite: preparing productivity insert: %w", err)
	}
	defer stmt.Close()

	for cell, entry := range table.Snapshot() {
		if _, err := stmt.Exec(runID, cell.Slice, cell.Angle, entry.Primary, entry.Scatter); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: inserting productivity cell (%d,%d): %w", cell.Slice, cell.Angle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing productivity save: %w", err)
	}
	return nil
}

// LoadProductivityTable rebuilds a productivity.Table from every cell
// persisted under runID, via productivity.Table.Set.
func (s *Store) LoadProductivityTable(runID int64) (*productivity.Table, error) {
	rows, err := s.Query(
		`SELECT slice, angle, primary_contribution, scatter_contribution FROM productivity_cell WHERE run_id = ?`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading productivity cells for run %d: %w", runID, err)
	}
	defer rows.Close()

	table := productivity.NewTable()
	for rows.Next() {
		var cell productivity.Cell
		var entry productivity.Entry
		if err := rows.Scan(&cell.Slice, &cell.Angle, &entry.Primary, &entry.Scatter); err != nil {
			return nil, fmt.Errorf("sqlite: scanning productivity cell: %w", err)
		}
		table.Set(cell, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
