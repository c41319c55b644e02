package sim

import (
	"context"
	"fmt"

	"github.com/simset-go/phgsim/internal/phg/collimator"
	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/detector"
	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/prng"
	"github.com/simset-go/phgsim/internal/phg/tracker"
)

// DetectedPhoton is one photon that survived tracking, collimation (if
// configured) and crystal detection, ready to be written to a history
// file by the caller.
type DetectedPhoton struct {
	Position          geometry.Vec3
	Direction         geometry.Direction // direction of travel on arrival at the crystal
	Energy            float64            // keV, after detector blur
	TimeSinceCreation float64            // seconds, after detector blur
	CrystalIndex      int
	IsBlue            bool
	Weight            float64
	ScatterCount      int
}

// DecayResult is one decay and every photon it produced that survived to
// the detector stage.
type DecayResult struct {
	Decay   decay.Decay
	Photons []DetectedPhoton
}

// ProcessDecay draws the next decay from source, tracks every photon it
// emits through the object, an optional collimator, and the detector
// crystal, and returns the decay plus its surviving detected photons.
// gen and src must belong to the same worker (gen wraps src internally
// for positron-range sampling; ctx itself holds no per-worker state).
func (c *Context) ProcessDecay(ctx context.Context, gen *decay.Generator, src prng.Source, source decay.ActivitySource) (DecayResult, error) {
	d, emission, err := gen.Next(ctx, source)
	if err != nil {
		return DecayResult{}, err
	}

	result := DecayResult{Decay: d}

	photons := []decay.EmittedPhoton{emission.Blue}
	if emission.Pink != nil {
		photons = append(photons, *emission.Pink)
	}

	for _, em := range photons {
		start := c.startPhoton(d, em)
		detected, err := c.trackOnePhoton(src, start)
		if err != nil {
			return DecayResult{}, err
		}
		result.Photons = append(result.Photons, detected...)
	}

	return result, nil
}

// startPhoton builds the tracker's initial Photon state for one emitted
// photon leaving decay d.
func (c *Context) startPhoton(d decay.Decay, em decay.EmittedPhoton) tracker.Photon {
	voxelIdx := c.Grid.IndexOf(d.Position, em.Direction)
	return tracker.Photon{
		Position:        d.Position,
		Direction:       em.Direction,
		Energy:          em.Energy,
		Weight:          d.StartWeight,
		VoxelIndex:      voxelIdx,
		OriginCell:      c.Cells.CellAt(voxelIdx, em.Direction),
		IsBlue:          em.IsBlue,
		Track:           tracker.RolePrimary,
		HasPolarization: em.Polarization != (geometry.Direction{}),
		Polarization:    em.Polarization,
	}
}

// trackOnePhoton drives one emitted photon (and every branch productivity
// splitting spawns from it) through the object tracker, the collimator
// if configured, and crystal detection.
func (c *Context) trackOnePhoton(src prng.Source, start tracker.Photon) ([]DetectedPhoton, error) {
	trace, err := c.Tracker.Track(src, start)
	if err != nil {
		return nil, fmt.Errorf("sim: tracking photon: %w", err)
	}

	var out []DetectedPhoton
	for _, ph := range trace.Detected {
		dp, ok, err := c.detectOne(src, ph)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, dp)
		}
	}
	return out, nil
}

// detectOne carries a photon that reached the object's target cylinder
// through an optional collimator pass and crystal detection, returning
// ok=false if it was rejected at either stage.
func (c *Context) detectOne(src prng.Source, ph tracker.Photon) (DetectedPhoton, bool, error) {
	pos, dir, energy, weight, timeVal := ph.Position, ph.Direction, ph.Energy, ph.Weight, ph.Time

	if c.Collimator != nil {
		res, err := c.Collimator.Track(src, collimator.Photon{
			Position: pos, Direction: dir, Energy: energy, Weight: weight, Time: timeVal,
		})
		if err != nil {
			return DetectedPhoton{}, false, fmt.Errorf("sim: collimator pass: %w", err)
		}
		if res.Outcome != collimator.OutcomeCollimated {
			return DetectedPhoton{}, false, nil
		}
		pos, dir, energy, weight, timeVal = res.Final.Position, res.Final.Direction, res.Final.Energy, res.Final.Weight, res.Final.Time
	}

	crystalMat, err := c.Materials.Lookup(c.cfg.DetectorCrystalMaterial)
	if err != nil {
		return DetectedPhoton{}, false, fmt.Errorf("sim: detector crystal material: %w", err)
	}

	depth, efficiency := detector.ForceInteraction(src, crystalMat, c.cfg.DetectorCrystalThickness, energy)
	if efficiency <= 0 {
		return DetectedPhoton{}, false, nil
	}
	weight *= efficiency

	interaction := detector.CrystalInteraction{
		Position:        pos.Along(dir, depth),
		EnergyDeposited: energy,
	}

	dp, ok := c.Detector.Detect(src, []detector.CrystalInteraction{interaction}, timeVal)
	if !ok {
		return DetectedPhoton{}, false, nil
	}

	return DetectedPhoton{
		Position:          dp.Position,
		Direction:         dir,
		Energy:            dp.Energy,
		TimeSinceCreation: dp.Time,
		CrystalIndex:      dp.CrystalIndex,
		IsBlue:            ph.IsBlue,
		Weight:            weight,
		ScatterCount:      ph.NumScatters,
	}, true, nil
}
