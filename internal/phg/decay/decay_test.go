package decay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/prng"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

type constIsotope struct{ meV float64 }

func (c constIsotope) SampleKineticEnergyMeV(u float64) float64 { return c.meV }

type uniformVoxels struct{ idx int }

func (u uniformVoxels) MaterialIndexAt(geometry.VoxelIndex) int { return u.idx }

func waterGrid() geometry.VoxelGrid {
	return geometry.VoxelGrid{
		NX: 40, NY: 40, NZ: 40,
		DX: 1, DY: 1, DZ: 1,
		OriginX: -20, OriginY: -20, OriginZ: -20,
		Object: geometry.Cylinder{Radius: 19, ZMin: -19, ZMax: 19},
	}
}

func waterTable(t *testing.T) *material.Table {
	t.Helper()
	w, err := material.DefaultWater(1)
	require.NoError(t, err)
	return material.NewTable(w)
}

type fixedSource struct {
	source   ActivitySource
	next     Sample
	err      error
	callsLog []bool
}

func (f *fixedSource) Next(ctx context.Context) (Sample, error) {
	return f.next, f.err
}

type sequenceSource struct {
	samples []Sample
	i       int
}

func (s *sequenceSource) Next(ctx context.Context) (Sample, error) {
	if s.i >= len(s.samples) {
		return Sample{}, errors.New("exhausted")
	}
	out := s.samples[s.i]
	s.i++
	return out, nil
}

func TestGeneratorSingleEmissionForSPECT(t *testing.T) {
	src := prng.New(1)
	gen := NewGenerator(Config{}, src)

	source := &fixedSource{next: Sample{
		Position:  geometry.Vec3{X: 0, Y: 0, Z: 0},
		Direction: geometry.NewDirection(0, 0, 1),
		Weight:    1,
		Time:      0.5,
		IsPET:     false,
		Energy:    140,
	}}

	d, em, err := gen.Next(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, TypeSingle, d.Type)
	assert.Nil(t, em.Pink)
	assert.True(t, em.Blue.IsBlue)
	assert.Equal(t, 140.0, em.Blue.Energy)
}

func TestGeneratorPETPairIsAntiParallelWithoutNonCollinearity(t *testing.T) {
	src := prng.New(2)
	gen := NewGenerator(Config{}, src)

	source := &fixedSource{next: Sample{
		Position:  geometry.Vec3{X: 1, Y: 2, Z: 3},
		Direction: geometry.NewDirection(1, 0, 0),
		Weight:    1,
		IsPET:     true,
		Energy:    511,
	}}

	d, em, err := gen.Next(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, TypePositronPair, d.Type)
	require.NotNil(t, em.Pink)

	dot := em.Blue.Direction.Dot(em.Pink.Direction)
	assert.InDelta(t, -1.0, dot, 1e-9)
}

func TestGeneratorNonCollinearityPerturbsExactlyOnePhoton(t *testing.T) {
	src := prng.New(3)
	gen := NewGenerator(Config{NonCollinearityAdjust: true}, src)

	source := &fixedSource{next: Sample{
		Position:  geometry.Vec3{},
		Direction: geometry.NewDirection(0, 0, 1),
		Weight:    1,
		IsPET:     true,
		Energy:    511,
	}}

	_, em, err := gen.Next(context.Background(), source)
	require.NoError(t, err)
	require.NotNil(t, em.Pink)

	dot := em.Blue.Direction.Dot(em.Pink.Direction)
	assert.Less(t, dot, -0.999)
	assert.NotEqual(t, -1.0, dot)
	assert.True(t, em.Blue.Direction.IsUnit())
	assert.True(t, em.Pink.Direction.IsUnit())
}

func TestGeneratorPositronRangeDiscardsOnCylinderExit(t *testing.T) {
	src := prng.New(4)
	grid := waterGrid()
	grid.Object.Radius = 0.01 // tiny object: positron immediately exits

	gen := NewGenerator(Config{
		PositronRangeAdjust: true,
		Materials:           waterTable(t),
		Grid:                grid,
		Voxels:              uniformVoxels{idx: 1},
		Isotope:             constIsotope{meV: 0.6},
		MaxResamples:        5,
	}, src)

	source := &sequenceSource{samples: []Sample{
		{Position: geometry.Vec3{}, Direction: geometry.NewDirection(0, 0, 1), Weight: 1, IsPET: true, Energy: 511},
		{Position: geometry.Vec3{}, Direction: geometry.NewDirection(0, 0, 1), Weight: 1, IsPET: true, Energy: 511},
		{Position: geometry.Vec3{}, Direction: geometry.NewDirection(0, 0, 1), Weight: 1, IsPET: true, Energy: 511},
		{Position: geometry.Vec3{}, Direction: geometry.NewDirection(0, 0, 1), Weight: 1, IsPET: true, Energy: 511},
		{Position: geometry.Vec3{}, Direction: geometry.NewDirection(0, 0, 1), Weight: 1, IsPET: true, Energy: 511},
	}}

	_, _, err := gen.Next(context.Background(), source)
	require.Error(t, err)
	assert.ErrorIs(t, err, simerr.ErrResampleExhausted)
}

func TestGeneratorResampleExhaustedWrapsSourceEndOfStream(t *testing.T) {
	src := prng.New(5)
	gen := NewGenerator(Config{}, src)

	source := &fixedSource{err: errors.New("no more activity")}

	_, _, err := gen.Next(context.Background(), source)
	require.Error(t, err)
	assert.ErrorIs(t, err, simerr.ErrResampleExhausted)
}

func TestGeneratorStartWeightCarriesStratificationWeight(t *testing.T) {
	src := prng.New(6)
	gen := NewGenerator(Config{}, src)

	source := &fixedSource{next: Sample{
		Position:  geometry.Vec3{X: 0, Y: 0, Z: 0},
		Direction: geometry.NewDirection(0, 0, 1),
		Weight:    0.125,
		IsPET:     false,
		Energy:    140,
	}}

	d, _, err := gen.Next(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, 0.125, d.StartWeight)
}

func TestGeneratorPolarizationVectorsArePerpendicularAndOpposed(t *testing.T) {
	src := prng.New(7)
	gen := NewGenerator(Config{Polarization: true}, src)

	source := &fixedSource{next: Sample{
		Position:  geometry.Vec3{},
		Direction: geometry.NewDirection(0, 0, 1),
		Weight:    1,
		IsPET:     true,
		Energy:    511,
	}}

	_, em, err := gen.Next(context.Background(), source)
	require.NoError(t, err)
	require.NotNil(t, em.Pink)

	assert.InDelta(t, 0, em.Blue.Polarization.Dot(em.Blue.Direction), 1e-6)
	opp := em.Blue.Polarization.Dot(em.Pink.Polarization)
	assert.InDelta(t, -1.0, opp, 1e-9)
}
