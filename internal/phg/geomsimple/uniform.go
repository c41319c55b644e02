package geomsimple

import (
	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/productivity"
)

// UniformMaterial reports the same declared material index for every
// voxel, satisfying both tracker.VoxelMaterials and decay.VoxelMaterials
// (they are structurally identical).
type UniformMaterial struct {
	Index int
}

func (m UniformMaterial) MaterialIndexAt(geometry.VoxelIndex) int { return m.Index }

// SingleCell maps every voxel/direction to the same productivity cell,
// for runs with no angular/axial binning.
type SingleCell struct {
	Cell productivity.Cell
}

func (c SingleCell) CellAt(geometry.VoxelIndex, geometry.Direction) productivity.Cell {
	return c.Cell
}

// SingleCrystal maps every position within the detector to the same
// crystal index, for a one-crystal detector block.
type SingleCrystal struct {
	Index int
}

func (s SingleCrystal) CrystalIndexAt(geometry.Vec3) int { return s.Index }

// FlatIsotopeTable samples the positron kinetic energy uniformly between
// 0 and MaxEnergyMeV, a flat stand-in for the 100-bin cumulative table
// spec.md §4.2 describes as isotope-specific external data.
type FlatIsotopeTable struct {
	MaxEnergyMeV float64
}

func (t FlatIsotopeTable) SampleKineticEnergyMeV(u float64) float64 {
	return u * t.MaxEnergyMeV
}
