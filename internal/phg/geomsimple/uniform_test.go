package geomsimple

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/productivity"
)

func TestUniformMaterialAlwaysReturnsConfiguredIndex(t *testing.T) {
	m := UniformMaterial{Index: 2}
	assert.Equal(t, 2, m.MaterialIndexAt(geometry.VoxelIndex{X: 5, Y: 5, Z: 5}))
	assert.Equal(t, 2, m.MaterialIndexAt(geometry.VoxelIndex{}))
}

func TestSingleCellAlwaysReturnsConfiguredCell(t *testing.T) {
	c := SingleCell{Cell: productivity.Cell{Slice: 3, Angle: 7}}
	got := c.CellAt(geometry.VoxelIndex{X: 1}, geometry.Direction{CZ: 1})
	assert.Equal(t, productivity.Cell{Slice: 3, Angle: 7}, got)
}

func TestSingleCrystalAlwaysReturnsConfiguredIndex(t *testing.T) {
	s := SingleCrystal{Index: 4}
	assert.Equal(t, 4, s.CrystalIndexAt(geometry.Vec3{X: 1, Y: 2, Z: 3}))
}

func TestFlatIsotopeTableScalesLinearly(t *testing.T) {
	tab := FlatIsotopeTable{MaxEnergyMeV: 2.0}
	assert.Equal(t, 0.0, tab.SampleKineticEnergyMeV(0))
	assert.Equal(t, 1.0, tab.SampleKineticEnergyMeV(0.5))
	assert.Equal(t, 2.0, tab.SampleKineticEnergyMeV(1))
}
