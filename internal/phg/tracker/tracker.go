package tracker

import (
	"fmt"
	"math"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/prng"
	"github.com/simset-go/phgsim/internal/phg/productivity"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// VoxelMaterials is the external attenuation-map collaborator: given a
// voxel index it returns which declared material occupies that voxel.
// Structurally identical to decay.VoxelMaterials so a single loader can
// satisfy both.
type VoxelMaterials interface {
	MaterialIndexAt(idx geometry.VoxelIndex) int
}

// CellLocator is the external binning-layout collaborator: it maps a
// voxel index and direction of travel to the (slice, angle) productivity
// cell that bin belongs to.
type CellLocator interface {
	CellAt(idx geometry.VoxelIndex, dir geometry.Direction) productivity.Cell
}

// Tracker advances photons through the object voxel grid to the target
// cylinder, per spec.md §4.3.
type Tracker struct {
	cfg          Config
	materials    *material.Table
	grid         geometry.VoxelGrid
	voxels       VoxelMaterials
	cells        CellLocator
	productivity *productivity.Table
	target       geometry.Cylinder
}

// New builds a Tracker. target is the outer cylinder a photon must reach
// to be handed to the collimator stage.
func New(cfg Config, materials *material.Table, grid geometry.VoxelGrid, voxels VoxelMaterials, cells CellLocator, productivityTable *productivity.Table, target geometry.Cylinder) *Tracker {
	return &Tracker{
		cfg:          cfg,
		materials:    materials,
		grid:         grid,
		voxels:       voxels,
		cells:        cells,
		productivity: productivityTable,
		target:       target,
	}
}

// Track advances the photon and every branch spawned from it by
// productivity-based splitting until every branch reaches a terminal
// state (detected, absorbed, low-energy or weight-limit discard).
func (t *Tracker) Track(src prng.Source, initial Photon) (*Trace, error) {
	trace := &Trace{}
	var queue []Photon

	if t.cfg.ForcedDetectionEnabled && initial.Track == RolePrimary {
		// A track-as-primary photon's deterministic entry contribution is
		// its only recorded outcome: it is terminated immediately rather
		// than also Monte Carlo tracked to a real detection.
		t.recordForcedDetection(trace, initial)
	} else {
		queue = append(queue, initial)
	}

	for len(queue) > 0 {
		ph := queue[0]
		queue = queue[1:]

		spawned, err := t.walk(src, &ph, trace)
		if err != nil {
			return trace, err
		}
		queue = append(queue, spawned...)
	}

	return trace, nil
}

// walk steps a single photon through free-path sampling and voxel
// boundaries until it interacts, is discarded, or reaches the target
// cylinder, appending any productivity-split continuations to be
// tracked next and recording every interaction/start/forced-detection
// encountered along the way.
func (t *Tracker) walk(src prng.Source, ph *Photon, trace *Trace) ([]Photon, error) {
	for {
		tau := -math.Log(src.Uniform())

		for {
			mat, err := t.materials.Lookup(t.voxels.MaterialIndexAt(ph.VoxelIndex))
			if err != nil {
				return nil, fmt.Errorf("tracker: %w", err)
			}
			mu := mat.MuAt(ph.Energy)

			boundaryDist, axis := t.grid.NextBoundary(ph.Position, ph.Direction, ph.VoxelIndex)
			var interactionDist float64
			if mu <= 0 {
				interactionDist = math.Inf(1)
			} else {
				interactionDist = tau / mu
			}

			if boundaryDist <= interactionDist {
				ph.Position = ph.Position.Along(ph.Direction, boundaryDist)
				tau -= boundaryDist * mu
				if axis == geometry.AxisCylinder {
					// Outside the object nothing attenuates, so the photon
					// travels straight on to the target cylinder.
					if d, ok := t.target.DistanceToSurface(ph.Position, ph.Direction); ok {
						ph.Position = ph.Position.Along(ph.Direction, d)
					}
					trace.Detected = append(trace.Detected, *ph)
					return nil, nil
				}
				ph.VoxelIndex = t.grid.Step(ph.VoxelIndex, axis, ph.Direction)
				continue
			}

			ph.Position = ph.Position.Along(ph.Direction, interactionDist)
			break
		}

		outcome, spawned, err := t.interact(src, ph, trace)
		if err != nil {
			return nil, err
		}
		if outcome != nil {
			trace.Discarded = append(trace.Discarded, DiscardedPhoton{Outcome: *outcome, Photon: *ph})
			return spawned, nil
		}
		if len(spawned) > 0 {
			return spawned, nil
		}
		// Neither discarded nor split (e.g. forced non-absorption with
		// coherent disabled and the draw missed Compton): keep walking
		// this same photon from its new position.
	}
}

// interact performs the scatter/absorption dispatch at an interaction
// point (spec.md §4.3 step 5), records the scatter start and recorded
// interaction, applies the productivity split, and reports a terminal
// outcome if the photon was absorbed or fell below thresholds.
func (t *Tracker) interact(src prng.Source, ph *Photon, trace *Trace) (*Outcome, []Photon, error) {
	mat, err := t.materials.Lookup(t.voxels.MaterialIndexAt(ph.VoxelIndex))
	if err != nil {
		return nil, nil, fmt.Errorf("tracker: %w", err)
	}

	scatterProb := mat.ScatterProbability.Value(ph.Energy)
	comptonRatio := mat.ComptonToScatterRatio.Value(ph.Energy)

	var didCompton, didCoherent bool

	if !t.cfg.NoForcedNonAbsorption {
		ph.Weight *= scatterProb
		if src.Uniform() < comptonRatio {
			didCompton = true
		} else if t.cfg.CoherentScatterEnabled {
			didCoherent = true
		}
	} else {
		r := src.Uniform()
		switch {
		case r > scatterProb:
			return outcomePtr(OutcomeAbsorbed), nil, nil
		case r > scatterProb*comptonRatio:
			didCoherent = true
		default:
			didCompton = true
		}
	}

	if !didCompton && !didCoherent {
		return nil, nil, nil
	}

	if didCompton {
		if err := t.applyCompton(src, ph); err != nil {
			return nil, nil, err
		}
	} else {
		t.applyCoherent(src, mat, ph)
	}

	ph.NumScatters++

	cell := t.cells.CellAt(ph.VoxelIndex, ph.Direction)
	if len(trace.Starts) < t.cfg.MaxStarts {
		trace.Starts = append(trace.Starts, cell)
	} else {
		trace.StartsOverflow++
	}

	if len(trace.Interactions) < t.cfg.MaxDetectorInteractions {
		trace.Interactions = append(trace.Interactions, Interaction{Position: ph.Position, Energy: ph.Energy, Weight: ph.Weight})
	} else {
		trace.InteractionsOverflow++
	}

	if t.cfg.ForcedDetectionEnabled && ph.Track == RolePrimary {
		// The real interaction above is still recorded (it happened), but
		// a track-as-primary photon continues Monte Carlo tracking as
		// scatter only: terminate it here instead of splitting/continuing.
		t.recordForcedDetection(trace, *ph)
		return outcomePtr(OutcomeForcedDetectionTerminated), nil, nil
	}

	if ph.Energy < t.cfg.PhgMinimumEnergy {
		return outcomePtr(OutcomeLowEnergy), nil, nil
	}
	if ph.Weight < t.cfg.WeightLimit {
		return outcomePtr(OutcomeWeightLimit), nil, nil
	}

	spawned := t.split(src, cell, *ph)
	if len(spawned) == 0 {
		// Both branches of the productivity split declined: this photon's
		// weight is lost under importance sampling.
		return outcomePtr(OutcomeWeightLimit), nil, nil
	}
	return nil, spawned, nil
}

// applyCompton samples an outgoing cosine/energy via Kahn's method,
// rotates the direction, and enforces the direction-cosine dot-product
// debug invariant (spec.md §4.3).
func (t *Tracker) applyCompton(src prng.Source, ph *Photon) error {
	cosTheta, eOut := prng.SampleCompton(src, ph.Energy)
	phi := src.Uniform() * 2 * math.Pi

	before := ph.Direction
	after := before.Rotate(cosTheta, phi)

	if math.Abs(after.Dot(before)-cosTheta) > 1e-7 {
		return fmt.Errorf("tracker: compton rotation dot product mismatch: %w", simerr.ErrInvariantViolated)
	}

	if t.cfg.PolarizationEnabled && ph.HasPolarization && !ph.FirstScatterDone {
		deltaPhi := phi - ph.PolAzimuth
		factor := prng.PolarizationFactor(ph.Energy, eOut, cosTheta, deltaPhi)
		ph.Weight *= factor
		ph.FirstScatterDone = true
	}

	ph.Energy = eOut
	ph.Direction = after
	return nil
}

// applyCoherent samples a scattering angle from the material's coherent
// angular CDF; coherent scattering does not change photon energy.
func (t *Tracker) applyCoherent(src prng.Source, mat *material.Material, ph *Photon) {
	mu := mat.Coherent.Sample(ph.Energy, src.Uniform())
	phi := src.Uniform() * 2 * math.Pi
	ph.Direction = ph.Direction.Rotate(mu, phi)
}

// split applies spec.md §4.3 step 7: compares the current cell's scatter
// productivity against the photon's origin cell's primary productivity
// and spawns up to two continuation photons. When neither cell has any
// recorded productivity (no productivity table loaded, or cells never
// observed during the estimation pass), tracking proceeds as a single
// unsplit continuation of the photon's current track.
func (t *Tracker) split(src prng.Source, cell productivity.Cell, ph Photon) []Photon {
	origin := t.productivity.Lookup(ph.OriginCell)
	current := t.productivity.Lookup(cell)

	if origin.Primary <= 0 && current.Scatter <= 0 {
		return []Photon{ph}
	}

	decision := productivity.Split(origin.Primary, current.Scatter)

	var out []Photon
	if branch := decision.Primary; branch.Certain || (branch.Probability > 0 && src.Uniform() < branch.Probability) {
		p := ph
		p.Track = RolePrimary
		p.Weight *= weightScaleOf(branch)
		out = append(out, p)
	}
	if branch := decision.Scatter; branch.Certain || (branch.Probability > 0 && src.Uniform() < branch.Probability) {
		s := ph
		s.Track = RoleScatter
		s.Weight *= weightScaleOf(branch)
		out = append(out, s)
	}
	return out
}

func weightScaleOf(b productivity.Branch) float64 {
	if b.WeightScale == 0 {
		return 1
	}
	return b.WeightScale
}

// recordForcedDetection deterministically projects a track-as-primary
// photon to the target cylinder along its current direction, weighting
// the contribution by the current voxel material's attenuation over the
// straight-line distance (spec.md §4.3 Forced detection).
func (t *Tracker) recordForcedDetection(trace *Trace, ph Photon) {
	dist, ok := t.target.DistanceToSurface(ph.Position, ph.Direction)
	if !ok {
		return
	}

	mat, err := t.materials.Lookup(t.voxels.MaterialIndexAt(ph.VoxelIndex))
	if err != nil {
		return
	}
	mu := mat.MuAt(ph.Energy)
	atten := math.Exp(-mu * dist)

	trace.ForcedDetections = append(trace.ForcedDetections, ForcedDetection{
		Position:  ph.Position.Along(ph.Direction, dist),
		Direction: ph.Direction,
		Energy:    ph.Energy,
		Weight:    ph.Weight * atten,
		Time:      ph.Time,
	})
}

func outcomePtr(o Outcome) *Outcome {
	return &o
}
