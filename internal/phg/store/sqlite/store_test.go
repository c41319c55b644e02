package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simset-go/phgsim/internal/phg/productivity"
	"github.com/simset-go/phgsim/internal/phg/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "phgsim.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenAppliesMigrations(t *testing.T) {
	s := openTestStore(t)

	migFS, err := getMigrationsFS()
	require.NoError(t, err)
	version, dirty, err := s.MigrateVersion(migFS)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.EqualValues(t, 1, version)
}

func TestInsertAndFinishRunRoundTrips(t *testing.T) {
	s := openTestStore(t)

	cfg := sim.DefaultRunConfig().
		WithRandomSeed(42).
		WithEventsToSimulate(1000).
		WithScanLengthSeconds(10).
		WithOutputPath("run1.phg")

	runID, err := s.InsertRun(1000, cfg)
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(runID, 2000, 1000, 3000, ""))

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(42), runs[0].RandomSeed)
	assert.EqualValues(t, 1000, runs[0].DecaysWritten)
	assert.True(t, runs[0].FinishedUnixNanos.Valid)
	assert.False(t, runs[0].ErrorMessage.Valid)
}

func TestProductivityTableRoundTrips(t *testing.T) {
	s := openTestStore(t)

	cfg := sim.DefaultRunConfig().WithEventsToSimulate(1).WithScanLengthSeconds(1).WithOutputPath("r.phg")
	runID, err := s.InsertRun(0, cfg)
	require.NoError(t, err)

	table := productivity.NewTable()
	table.Accumulate(productivity.Cell{Slice: 1, Angle: 2}, 3.0, 4.0)
	table.Accumulate(productivity.Cell{Slice: 1, Angle: 2}, 1.0, 0.5)
	table.Accumulate(productivity.Cell{Slice: 5, Angle: 6}, 9.0, 0.0)

	require.NoError(t, s.SaveProductivityTable(runID, table))

	loaded, err := s.LoadProductivityTable(runID)
	require.NoError(t, err)
	assert.Equal(t, table.Len(), loaded.Len())

	got := loaded.Lookup(productivity.Cell{Slice: 1, Angle: 2})
	assert.Equal(t, 4.0, got.Primary)
	assert.Equal(t, 4.5, got.Scatter)
}

func TestHistoryFileCatalogueRoundTrips(t *testing.T) {
	s := openTestStore(t)

	cfg := sim.DefaultRunConfig().WithEventsToSimulate(1).WithScanLengthSeconds(1).WithOutputPath("r.phg")
	runID, err := s.InsertRun(0, cfg)
	require.NoError(t, err)

	require.NoError(t, s.RegisterHistoryFile(runID, HistoryFile{Path: "raw.phg", DecayCount: 500}))
	require.NoError(t, s.RegisterHistoryFile(runID, HistoryFile{Path: "sorted.phg", IsTimeSorted: true, DecayCount: 500}))

	files, err := s.ListHistoryFiles(runID)
	require.NoError(t, err)
	require.Len(t, files, 2)
}
