package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionRotateIsUnitAndPreservesCosine(t *testing.T) {
	cases := []Direction{
		NewDirection(0, 0, 1),
		NewDirection(0, 0, -1),
		NewDirection(1, 0, 0).Normalize(),
		NewDirection(0.3, 0.4, math.Sqrt(1-0.09-0.16)),
	}
	mus := []float64{-1, -0.5, 0, 0.5, 1}
	phis := []float64{0, math.Pi / 3, math.Pi, 1.9 * math.Pi}

	for _, d := range cases {
		for _, mu := range mus {
			for _, phi := range phis {
				out := d.Rotate(mu, phi)
				assert.True(t, out.IsUnit(), "rotated direction must stay unit: %+v", out)
				got := d.Dot(out)
				assert.InDelta(t, mu, got, 1e-6, "dot product must equal sampled mu")
			}
		}
	}
}

func TestClampCosinePreservesSign(t *testing.T) {
	assert.Equal(t, MinCosine, ClampCosine(1e-9))
	assert.Equal(t, -MinCosine, ClampCosine(-1e-9))
	assert.Equal(t, 0.5, ClampCosine(0.5))
}

func TestCylinderDistanceToSurfaceLateral(t *testing.T) {
	c := Cylinder{Radius: 10, ZMin: -50, ZMax: 50}
	pos := Vec3{X: 0, Y: 0, Z: 0}
	dir := NewDirection(1, 0, 0)
	dist, ok := c.DistanceToSurface(pos, dir)
	require.True(t, ok)
	assert.InDelta(t, 10, dist, 1e-9)
}

func TestCylinderDistanceToSurfaceCap(t *testing.T) {
	c := Cylinder{Radius: 10, ZMin: -50, ZMax: 50}
	pos := Vec3{X: 0, Y: 0, Z: 0}
	dir := NewDirection(0, 0, 1)
	dist, ok := c.DistanceToSurface(pos, dir)
	require.True(t, ok)
	assert.InDelta(t, 50, dist, 1e-9)
}

func TestVoxelGridNextBoundaryPicksMinimum(t *testing.T) {
	g := VoxelGrid{
		NX: 10, NY: 10, NZ: 10,
		DX: 1, DY: 1, DZ: 1,
		Object: Cylinder{Radius: 100, ZMin: -100, ZMax: 100},
	}
	pos := Vec3{X: 0.2, Y: 0.2, Z: 0.2}
	dir := NewDirection(1, 0, 0)
	idx := g.IndexOf(pos, dir)
	dist, axis := g.NextBoundary(pos, dir, idx)
	assert.Equal(t, AxisX, axis)
	assert.InDelta(t, 0.8, dist, 1e-9)
}

func TestDeriveSegmentsFillsGapsAndCovers(t *testing.T) {
	slats := []AxialSegment{
		{ZStart: 2, ZEnd: 4, Material: 1},
		{ZStart: 6, ZEnd: 8, Material: 2},
	}
	segs := DeriveSegments(slats, 0, 10)

	require.Len(t, segs, 5)
	cursor := 0.0
	for _, s := range segs {
		assert.Equal(t, cursor, s.ZStart)
		assert.Less(t, s.ZStart, s.ZEnd)
		cursor = s.ZEnd
	}
	assert.Equal(t, 10.0, cursor)

	assert.Equal(t, 0, segs[0].Material)
	assert.Equal(t, 1, segs[1].Material)
	assert.Equal(t, 0, segs[2].Material)
	assert.Equal(t, 2, segs[3].Material)
	assert.Equal(t, 0, segs[4].Material)
}

func TestSnapToFaceAcceptsSmallResidual(t *testing.T) {
	pos := Vec3{X: 5, Y: 0, Z: 0}
	dir := NewDirection(-1, 0, 0)
	slid, err := SnapToFace(pos, dir, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, slid.X)
}

func TestSnapToFaceRejectsLargeResidual(t *testing.T) {
	pos := Vec3{X: 5, Y: 0, Z: 0}
	dir := NewDirection(-1, 0, 0)
	// An under-shoot distance leaves a residual x far outside tolerance.
	_, err := SnapToFace(pos, dir, 4.9)
	assert.ErrorIs(t, err, ErrFaceSnap)
}
