package detector

import (
	"math"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/prng"
)

// fwhmToSigma converts a Gaussian's FWHM to its standard deviation.
const fwhmToSigma = 2.3548

// CrystalLayout is the external block-model geometric-lookup
// collaborator: given a position it returns the crystal index that
// position falls in.
type CrystalLayout interface {
	CrystalIndexAt(pos geometry.Vec3) int
}

// CrystalInteraction is one energy deposit within the detector crystal,
// contributed either by a single Monte Carlo absorption or by one step
// of a multi-interaction crystal trace.
type CrystalInteraction struct {
	Position        geometry.Vec3
	EnergyDeposited float64 // keV
}

// DetectedPhoton is the final, blurred detector-stage record.
type DetectedPhoton struct {
	Position    geometry.Vec3 // detLocation: energy-weighted centroid
	Energy      float64       // keV, after energy blur
	Time        float64       // seconds, after time blur
	CrystalIndex int
}

// Detector applies centroid, blur and crystal lookup to a photon's
// crystal interactions.
type Detector struct {
	cfg    Config
	layout CrystalLayout
}

// New builds a Detector.
func New(cfg Config, layout CrystalLayout) *Detector {
	return &Detector{cfg: cfg, layout: layout}
}

// Detect reduces interactions to a single detected-photon record: the
// energy-weighted centroid position, the crystal index at that
// centroid, and the blurred total energy and time (spec.md §4.5).
// Returns ok=false if interactions is empty (nothing was deposited).
func (d *Detector) Detect(src prng.Source, interactions []CrystalInteraction, timeSinceCreation float64) (DetectedPhoton, bool) {
	if len(interactions) == 0 {
		return DetectedPhoton{}, false
	}

	loc, total := Centroid(interactions)

	energy := total
	if d.cfg.EnergyResolutionPercentage >= 0 {
		energy = src.Gaussian(total, d.energySigma(total))
	}

	t := timeSinceCreation
	if d.cfg.PhotonTimeFWHM > 0 {
		t += src.Gaussian(0, d.cfg.PhotonTimeFWHM/fwhmToSigma)
	}

	return DetectedPhoton{
		Position:     loc,
		Energy:       energy,
		Time:         t,
		CrystalIndex: d.layout.CrystalIndexAt(loc),
	}, true
}

// Centroid returns the energy-weighted mean position and total deposited
// energy across interactions.
func Centroid(interactions []CrystalInteraction) (geometry.Vec3, float64) {
	var total float64
	var sum geometry.Vec3
	for _, it := range interactions {
		sum = sum.Add(it.Position.Scale(it.EnergyDeposited))
		total += it.EnergyDeposited
	}
	if total == 0 {
		return geometry.Vec3{}, 0
	}
	return sum.Scale(1 / total), total
}

// energySigma returns the Gaussian sigma at energy e (keV), given the
// resolution quoted at ReferenceEnergy, scaling as 1/√(E/ReferenceEnergy)
// (spec.md §4.5).
func (d *Detector) energySigma(e float64) float64 {
	if e <= 0 {
		return 0
	}
	fwhmAtRef := d.cfg.EnergyResolutionPercentage / 100 * d.cfg.ReferenceEnergy
	fwhmAtE := fwhmAtRef * math.Sqrt(d.cfg.ReferenceEnergy/e)
	return fwhmAtE / fwhmToSigma
}

// ForceInteraction samples a forced interaction depth within a crystal
// of the given thickness (cm) at energy e (keV), returning the sampled
// depth and the interaction-probability weight the caller must multiply
// into the photon's weight (spec.md §4.5 Forced interaction): instead of
// Monte Carlo free-path absorption possibly missing the crystal
// entirely, an interaction is forced to occur somewhere within
// thickness, and the result is weighted by the true absorption
// probability over that thickness.
func ForceInteraction(src prng.Source, mat *material.Material, thickness, e float64) (depth, weight float64) {
	mu := mat.MuAt(e)
	if mu <= 0 {
		return 0, 0
	}
	p := 1 - math.Exp(-mu*thickness)
	u := src.Uniform()
	depth = -math.Log(1-u*p) / mu
	return depth, p
}
