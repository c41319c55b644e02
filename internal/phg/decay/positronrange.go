package decay

import (
	"math"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/prng"
)

// VoxelMaterials is the external attenuation-map collaborator (spec.md
// §1): given a voxel index it returns which declared material occupies
// that voxel.
type VoxelMaterials interface {
	MaterialIndexAt(idx geometry.VoxelIndex) int
}

// IsotopeEnergyTable is the external isotope-energy collaborator (spec.md
// §1, §4.2): an inverse-CDF sampler over a 100-bin cumulative positron
// kinetic-energy distribution.
type IsotopeEnergyTable interface {
	// SampleKineticEnergyMeV draws a positron kinetic energy (MeV) given
	// a uniform variate u in [0,1).
	SampleKineticEnergyMeV(u float64) float64
}

// ApplyPositronRange steps a positron from its creation point through the
// heterogeneous voxel grid along an isotropic direction, accumulating an
// equivalent-range-in-water distance, and returns the annihilation
// position where the accumulated equivalent range meets a target sampled
// from the Palmer–Brownell distribution (spec.md §4.2). If the positron's
// path reaches the object cylinder boundary before annihilating, ok is
// false and the caller must discard and resample the decay.
func ApplyPositronRange(
	grid geometry.VoxelGrid,
	voxels VoxelMaterials,
	materials *material.Table,
	isotope IsotopeEnergyTable,
	pos geometry.Vec3,
	src prng.Source,
) (annihilation geometry.Vec3, ok bool) {
	waterDensity := 1.0
	if w, err := materials.Lookup(1); err == nil && w.Density > 0 {
		waterDensity = w.Density
	}

	eMeV := isotope.SampleKineticEnergyMeV(src.Uniform())

	water, errW := materials.Lookup(1)
	sigmaWater := 0.1
	if errW == nil {
		sigmaWater = water.PositronRangeSigma(eMeV)
	}
	targetRange := math.Abs(src.Gaussian(0, sigmaWater))

	dir := isotropicDirection(src)

	const stepCM = 0.05
	traveled := 0.0
	equivalent := 0.0
	cur := pos

	for equivalent < targetRange {
		if !grid.Object.Contains(cur) {
			return cur, false
		}

		idx := grid.IndexOf(cur, dir)
		if !grid.InBounds(idx) {
			return cur, false
		}

		matIdx := voxels.MaterialIndexAt(idx)
		m, err := materials.Lookup(matIdx)
		density := waterDensity
		if err == nil && m.Density > 0 {
			density = m.Density
		}

		step := stepCM
		remaining := targetRange - equivalent
		// Convert the remaining water-equivalent budget into a physical
		// step in this voxel's material so we don't overshoot.
		physicalRemaining := remaining * waterDensity / density
		if physicalRemaining < step {
			step = physicalRemaining
		}

		cur = cur.Along(dir, step)
		traveled += step
		equivalent += step * density / waterDensity
	}

	if !grid.Object.Contains(cur) {
		return cur, false
	}
	return cur, true
}

// isotropicDirection samples a direction uniformly over the unit sphere.
func isotropicDirection(src prng.Source) geometry.Direction {
	u := 2*src.Uniform() - 1 // cos(theta), uniform in [-1,1]
	phi := 2 * math.Pi * src.Uniform()
	sinTheta := math.Sqrt(math.Max(0, 1-u*u))
	return geometry.NewDirection(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), u)
}
