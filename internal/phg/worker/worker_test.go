package worker

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/detector"
	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/productivity"
	"github.com/simset-go/phgsim/internal/phg/sim"
)

type uniformVoxels struct{ idx int }

func (u uniformVoxels) MaterialIndexAt(geometry.VoxelIndex) int { return u.idx }

type fixedCell struct{ cell productivity.Cell }

func (f fixedCell) CellAt(geometry.VoxelIndex, geometry.Direction) productivity.Cell {
	return f.cell
}

type centerCrystal struct{}

func (centerCrystal) CrystalIndexAt(geometry.Vec3) int { return 0 }

// repeatingSource hands back the same immutable Sample forever, so it is
// inherently safe for concurrent Next calls without Synchronize.
type repeatingSource struct {
	sample decay.Sample
}

func (s repeatingSource) Next(context.Context) (decay.Sample, error) {
	return s.sample, nil
}

func testSimContext(t *testing.T) *sim.Context {
	t.Helper()
	water, err := material.DefaultWater(1)
	require.NoError(t, err)
	crystal, err := material.DefaultBone(2)
	require.NoError(t, err)
	mats := material.NewTable(water, crystal)

	grid := geometry.VoxelGrid{
		NX: 10, NY: 10, NZ: 10,
		DX: 1, DY: 1, DZ: 1,
		OriginX: -5, OriginY: -5, OriginZ: -5,
		Object: geometry.Cylinder{Radius: 4, ZMin: -5, ZMax: 5},
	}

	cfg := sim.DefaultRunConfig().
		WithEventsToSimulate(1).
		WithScanLengthSeconds(1).
		WithOutputPath("out.phg").
		WithDetectorCrystal(2, 1.0).
		WithDetectorConfig(detector.DefaultConfig())

	deps := sim.Dependencies{
		Materials:     mats,
		Grid:          grid,
		Target:        geometry.Cylinder{Radius: grid.Object.Radius + 5, ZMin: -10, ZMax: 10},
		Voxels:        uniformVoxels{idx: 1},
		Cells:         fixedCell{cell: productivity.Cell{Slice: 0, Angle: 0}},
		CrystalLayout: centerCrystal{},
	}

	simCtx, err := sim.NewContext(cfg, deps)
	require.NoError(t, err)
	return simCtx
}

func testWriter(t *testing.T) (*history.Writer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	w, err := history.Create(&buf, history.Header{})
	require.NoError(t, err)
	return w, &buf
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	w, _ := testWriter(t)
	_, err := New(testSimContext(t), Config{}, repeatingSource{}, w)
	require.Error(t, err)
}

func TestPoolRunProcessesExactlyEventsToSimulateDecays(t *testing.T) {
	simCtx := testSimContext(t)
	w, buf := testWriter(t)

	source := repeatingSource{sample: decay.Sample{
		Position:  geometry.Vec3{X: 0, Y: 0, Z: 0},
		Direction: geometry.NewDirection(1, 0, 0),
		Weight:    1,
		IsPET:     false,
		Energy:    140,
	}}

	cfg := DefaultConfig().WithNumWorkers(4).WithEventsToSimulate(20).WithWriteBatchSize(3)
	pool, err := New(simCtx, cfg, source, w)
	require.NoError(t, err)

	stats, err := pool.Run(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 20, stats.DecaysWritten)
	assert.Greater(t, stats.PhotonsWritten, int64(0))
	assert.Greater(t, buf.Len(), history.HeaderSize)
}

func TestPoolRunRespectsContextCancellation(t *testing.T) {
	simCtx := testSimContext(t)
	w, _ := testWriter(t)

	source := repeatingSource{sample: decay.Sample{
		Position:  geometry.Vec3{X: 0, Y: 0, Z: 0},
		Direction: geometry.NewDirection(1, 0, 0),
		Weight:    1,
		Energy:    140,
	}}

	cfg := DefaultConfig().WithNumWorkers(2).WithEventsToSimulate(1000).WithWriteBatchSize(1)
	pool, err := New(simCtx, cfg, source, w)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := pool.Run(ctx)
	require.NoError(t, err) // cancellation before any work claims nothing, not an error
	assert.LessOrEqual(t, stats.DecaysWritten, int64(1000))
}
