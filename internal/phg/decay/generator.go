package decay

import (
	"context"
	"fmt"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/prng"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// Sample is what the external stratified activity table (spec.md §1, §4.2
// step i) hands back for one emission: a voxel position, an emission
// direction sampled from the stratification, and the stratification
// weight that becomes the decay's start weight.
type Sample struct {
	Position geometry.Vec3
	Direction geometry.Direction
	Weight    float64
	Time      float64
	IsPET     bool
	Energy    float64 // keV; 511 for PET annihilation photons
}

// ActivitySource is the external decay-source collaborator. Next returns
// simerr.ErrResampleExhausted when the source has no more activity to
// sample.
type ActivitySource interface {
	Next(ctx context.Context) (Sample, error)
}

// Config controls the decay generator's optional physics.
type Config struct {
	PositronRangeAdjust   bool
	NonCollinearityAdjust bool
	Polarization          bool
	Materials             *material.Table
	Grid                  geometry.VoxelGrid
	Voxels                VoxelMaterials
	Isotope               IsotopeEnergyTable
	MaxResamples          int // safety bound on positron-range resample loop
}

// DefaultMaxResamples bounds the positron-range resample loop so a
// pathological source can't spin forever; exceeding it surfaces as
// ErrResampleExhausted, matching "fails only if the external decay source
// returns end-of-stream" in spirit (a source that always lands positrons
// outside the object is operationally exhausted).
const DefaultMaxResamples = 1000

// Generator produces decays with paired photon emissions, applying
// positron-range displacement and non-collinearity per spec.md §4.2.
type Generator struct {
	cfg Config
	src prng.Source
}

// NewGenerator builds a Generator. If cfg.MaxResamples is zero,
// DefaultMaxResamples is used.
func NewGenerator(cfg Config, src prng.Source) *Generator {
	if cfg.MaxResamples == 0 {
		cfg.MaxResamples = DefaultMaxResamples
	}
	return &Generator{cfg: cfg, src: src}
}

// Next produces the next decay and its emission(s), pulling fresh samples
// from source as needed to satisfy positron-range resampling.
func (g *Generator) Next(ctx context.Context, source ActivitySource) (Decay, Emission, error) {
	for attempt := 0; attempt < g.cfg.MaxResamples; attempt++ {
		s, err := source.Next(ctx)
		if err != nil {
			return Decay{}, Emission{}, fmt.Errorf("decay generator: %w", simerr.ErrResampleExhausted)
		}

		pos := s.Position
		if g.cfg.PositronRangeAdjust && s.IsPET {
			annihilation, ok := ApplyPositronRange(g.cfg.Grid, g.cfg.Voxels, g.cfg.Materials, g.cfg.Isotope, pos, g.src)
			if !ok {
				continue // positron exited the object boundary: discard and resample
			}
			pos = annihilation
		}

		d := Decay{
			Position:    pos,
			StartWeight: s.Weight,
			Time:        s.Time,
			Type:        decayTypeFor(s.IsPET),
		}

		em, err := g.emit(s, d)
		if err != nil {
			return Decay{}, Emission{}, err
		}
		return d, em, nil
	}

	return Decay{}, Emission{}, fmt.Errorf("decay generator: exceeded %d positron-range resamples: %w",
		g.cfg.MaxResamples, simerr.ErrResampleExhausted)
}

func decayTypeFor(isPET bool) Type {
	if isPET {
		return TypePositronPair
	}
	return TypeSingle
}

func (g *Generator) emit(s Sample, d Decay) (Emission, error) {
	blueDir := s.Direction

	if !s.IsPET {
		return Emission{Blue: EmittedPhoton{Direction: blueDir, Energy: s.Energy, IsBlue: true}}, nil
	}

	pinkDir := geometry.Direction{CX: -blueDir.CX, CY: -blueDir.CY, CZ: -blueDir.CZ}

	if g.cfg.NonCollinearityAdjust {
		blueDir, pinkDir = ApplyNonCollinearity(g.src, blueDir, pinkDir)
	}

	blue := EmittedPhoton{Direction: blueDir, Energy: s.Energy, IsBlue: true}
	pink := EmittedPhoton{Direction: pinkDir, Energy: s.Energy, IsBlue: false}

	if g.cfg.Polarization {
		phiPol := prng.SamplePolarizationAzimuth(g.src)
		blue.Polarization = perpendicular(blueDir, phiPol)
		pink.Polarization = geometry.Direction{
			CX: -blue.Polarization.CX,
			CY: -blue.Polarization.CY,
			CZ: -blue.Polarization.CZ,
		}
	}

	return Emission{Blue: blue, Pink: &pink}, nil
}

// perpendicular builds a unit vector perpendicular to dir at azimuth phi
// around dir, used as the blue photon's polarization vector; the pink
// vector is its negation (cross-product relationship collapses to a sign
// flip once one perpendicular basis vector is fixed), per spec.md §4.3.
func perpendicular(dir geometry.Direction, phi float64) geometry.Direction {
	// Any vector not parallel to dir, projected out and normalized, is a
	// valid perpendicular basis vector; rotate it by phi about dir using
	// the same Rotate primitive used for scattering, requesting mu=0
	// (purely transverse).
	return dir.Rotate(0, phi)
}
