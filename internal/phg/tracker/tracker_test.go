package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/prng"
	"github.com/simset-go/phgsim/internal/phg/productivity"
)

type uniformVoxels struct{ idx int }

func (u uniformVoxels) MaterialIndexAt(geometry.VoxelIndex) int { return u.idx }

type fixedCell struct{ cell productivity.Cell }

func (f fixedCell) CellAt(geometry.VoxelIndex, geometry.Direction) productivity.Cell { return f.cell }

func smallGrid(objectRadius float64) geometry.VoxelGrid {
	return geometry.VoxelGrid{
		NX: 10, NY: 10, NZ: 10,
		DX: 1, DY: 1, DZ: 1,
		OriginX: -5, OriginY: -5, OriginZ: -5,
		Object: geometry.Cylinder{Radius: objectRadius, ZMin: -5, ZMax: 5},
	}
}

func waterTable(t *testing.T) *material.Table {
	t.Helper()
	w, err := material.DefaultWater(1)
	require.NoError(t, err)
	return material.NewTable(w)
}

func voidTable(t *testing.T) *material.Table {
	t.Helper()
	return material.NewTable()
}

func newTestTracker(cfg Config, mats *material.Table, grid geometry.VoxelGrid, matIdx int) *Tracker {
	target := geometry.Cylinder{Radius: grid.Object.Radius + 5, ZMin: grid.Object.ZMin - 5, ZMax: grid.Object.ZMax + 5}
	return New(cfg, mats, grid, uniformVoxels{idx: matIdx}, fixedCell{cell: productivity.Cell{Slice: 0, Angle: 0}}, productivity.NewTable(), target)
}

func TestTrackerVoidMaterialReachesTarget(t *testing.T) {
	src := prng.New(1)
	grid := smallGrid(4)
	tk := newTestTracker(DefaultConfig(), voidTable(t), grid, material.Void)

	ph := Photon{
		Position:  geometry.Vec3{X: 0, Y: 0, Z: 0},
		Direction: geometry.NewDirection(1, 0, 0),
		Energy:    511,
		Weight:    1,
		Track:     RolePrimary,
	}
	ph.VoxelIndex = grid.IndexOf(ph.Position, ph.Direction)

	trace, err := tk.Track(src, ph)
	require.NoError(t, err)
	require.Len(t, trace.Detected, 1)
	assert.Empty(t, trace.Discarded)
	assert.Empty(t, trace.Interactions)
}

func TestTrackerAbsorptionInClassicalModeTerminates(t *testing.T) {
	src := prng.New(2)
	grid := smallGrid(1000) // object far larger than any path taken here

	cfg := DefaultConfig().WithForcedNonAbsorption(false)
	tk := newTestTracker(cfg, waterTable(t), grid, 1)

	detectedOrDiscarded := false
	for i := int64(3); i < 200 && !detectedOrDiscarded; i++ {
		s := prng.New(i)
		ph := Photon{
			Position:  geometry.Vec3{},
			Direction: geometry.NewDirection(1, 0, 0),
			Energy:    140,
			Weight:    1,
			Track:     RolePrimary,
		}
		ph.VoxelIndex = grid.IndexOf(ph.Position, ph.Direction)

		trace, err := tk.Track(s, ph)
		require.NoError(t, err)
		if len(trace.Discarded) > 0 || len(trace.Detected) > 0 {
			detectedOrDiscarded = true
		}
	}
	assert.True(t, detectedOrDiscarded, "expected at least one run to reach a terminal state")
}

func TestTrackerComptonPreservesUnitDirectionAndDotInvariant(t *testing.T) {
	src := prng.New(4)
	grid := smallGrid(2) // small object: forces an interaction quickly

	cfg := DefaultConfig().WithForcedNonAbsorption(true).WithCoherentScatter(false)
	tk := newTestTracker(cfg, waterTable(t), grid, 1)

	ph := Photon{
		Position:  geometry.Vec3{},
		Direction: geometry.NewDirection(1, 0, 0),
		Energy:    511,
		Weight:    1,
		Track:     RolePrimary,
	}
	ph.VoxelIndex = grid.IndexOf(ph.Position, ph.Direction)

	trace, err := tk.Track(src, ph)
	require.NoError(t, err)

	for _, d := range trace.Detected {
		assert.True(t, d.Direction.IsUnit())
	}
}

func TestTrackerForcedDetectionRecordsEntryContribution(t *testing.T) {
	src := prng.New(5)
	grid := smallGrid(4)
	cfg := DefaultConfig().WithForcedDetection(true)
	tk := newTestTracker(cfg, voidTable(t), grid, material.Void)

	ph := Photon{
		Position:  geometry.Vec3{X: 0, Y: 0, Z: 0},
		Direction: geometry.NewDirection(1, 0, 0),
		Energy:    511,
		Weight:    1,
		Track:     RolePrimary,
	}
	ph.VoxelIndex = grid.IndexOf(ph.Position, ph.Direction)

	trace, err := tk.Track(src, ph)
	require.NoError(t, err)
	require.Len(t, trace.ForcedDetections, 1)
	assert.Equal(t, 1.0, trace.ForcedDetections[0].Weight) // void material: no attenuation
	// The entry contribution is the photon's only recorded outcome: it must
	// not also reach a real detection or discard once forced detection fires.
	assert.Empty(t, trace.Detected)
	assert.Empty(t, trace.Discarded)
}

func TestTrackerScatterCountIncrementsAndStartsCapAtMaxStarts(t *testing.T) {
	src := prng.New(6)
	grid := smallGrid(3)
	cfg := DefaultConfig().WithForcedNonAbsorption(true)
	cfg.MaxStarts = 1
	tk := newTestTracker(cfg, waterTable(t), grid, 1)

	ph := Photon{
		Position:  geometry.Vec3{},
		Direction: geometry.NewDirection(1, 0, 0),
		Energy:    511,
		Weight:    1,
		Track:     RolePrimary,
	}
	ph.VoxelIndex = grid.IndexOf(ph.Position, ph.Direction)

	trace, err := tk.Track(src, ph)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(trace.Starts), 1)
}
