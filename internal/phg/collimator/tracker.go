package collimator

import (
	"fmt"
	"math"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/prng"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// Outcome classifies how a photon's pass through the collimator ended.
type Outcome int

const (
	OutcomeCollimated Outcome = iota
	OutcomeRejectedFront
	OutcomeDiscarded
	OutcomeAbsorbed
	OutcomeLowEnergy
)

// Result is the terminal state of one photon's collimator pass.
type Result struct {
	Outcome Outcome
	Final   Photon
}

// Tracker steps photons through a collimator's slat-model layer stack,
// per spec.md §4.4.
type Tracker struct {
	cfg       Config
	materials *material.Table
	geo       Geometry
}

// New builds a Tracker.
func New(cfg Config, materials *material.Table, geo Geometry) *Tracker {
	return &Tracker{cfg: cfg, materials: materials, geo: geo}
}

// Track rotates ph into collimator-local coordinates, slides it onto the
// entry face, and tracks it layer by layer to success, rejection or
// absorption.
func (tr *Tracker) Track(src prng.Source, ph Photon) (Result, error) {
	local := tr.toLocal(ph)

	if local.Direction.CX < 0 {
		return Result{Outcome: OutcomeDiscarded, Final: local}, nil
	}

	t := -local.Position.X / geometry.ClampCosine(local.Direction.CX)
	slid, err := geometry.SnapToFace(local.Position, local.Direction, t)
	if err != nil {
		return Result{}, fmt.Errorf("collimator: %w", simerr.ErrInvariantViolated)
	}
	local.Position = slid

	first := tr.geo.Layers[0]
	if local.Position.Z < first.ZMin || local.Position.Z > first.ZMax || math.Abs(local.Position.Y) > first.TransLimit {
		return Result{Outcome: OutcomeDiscarded, Final: local}, nil
	}

	curLayer := 0
	for {
		layer := tr.geo.Layers[curLayer]
		segIdx, ok := geometry.FindSegment(layer.Segments, local.Position.Z)
		if !ok {
			return Result{Outcome: OutcomeDiscarded, Final: local}, nil
		}

		tau := -math.Log(src.Uniform())

		for {
			seg := layer.Segments[segIdx]
			mat, err := tr.materials.Lookup(seg.Material)
			if err != nil {
				return Result{}, fmt.Errorf("collimator: %w", err)
			}
			mu := mat.MuAt(local.Energy)

			var interactionDist float64
			if mu <= 0 {
				interactionDist = math.Inf(1)
			} else {
				interactionDist = tau / mu
			}

			dBack := distToPlane(layer.BackX, local.Position.X, local.Direction.CX)
			dFront := distToPlane(layer.FrontX, local.Position.X, local.Direction.CX)
			dY := distToYLimit(local.Position.Y, local.Direction.CY, layer.TransLimit)
			dZ := distToZBoundary(local.Position.Z, local.Direction.CZ, seg)

			boundaryDist := math.Min(math.Min(dBack, dFront), math.Min(dY, dZ))

			if interactionDist < boundaryDist {
				local.Position = local.Position.Along(local.Direction, interactionDist)
				outcome, terminal := tr.interact(src, mat, &local)
				if terminal {
					return Result{Outcome: outcome, Final: local}, nil
				}
				tau = -math.Log(src.Uniform())
				continue
			}

			consumed := boundaryDist * mu
			tau -= consumed
			local.Position = local.Position.Along(local.Direction, boundaryDist)

			switch boundaryDist {
			case dBack:
				if curLayer == len(tr.geo.Layers)-1 {
					return Result{Outcome: OutcomeCollimated, Final: local}, nil
				}
				curLayer++
			case dFront:
				if curLayer == 0 {
					return Result{Outcome: OutcomeRejectedFront, Final: local}, nil
				}
				curLayer--
			case dY:
				return Result{Outcome: OutcomeDiscarded, Final: local}, nil
			default: // dZ: axial segment boundary, still within [ZMin, ZMax]
				nudge := geometry.AxialNudge
				if local.Direction.CZ < 0 {
					nudge = -nudge
				}
				local.Position.Z += nudge
				if local.Position.Z < layer.ZMin || local.Position.Z > layer.ZMax {
					return Result{Outcome: OutcomeDiscarded, Final: local}, nil
				}
				next, ok := geometry.FindSegment(layer.Segments, local.Position.Z)
				if !ok {
					return Result{Outcome: OutcomeDiscarded, Final: local}, nil
				}
				segIdx = next
				continue
			}
			break
		}
	}
}

// interact performs one Compton/coherent/absorption interaction at the
// photon's current position, mutating its direction and energy in
// place. It reports the outcome and whether it is terminal (absorbed or
// fell below the minimum energy).
func (tr *Tracker) interact(src prng.Source, mat *material.Material, ph *Photon) (Outcome, bool) {
	scatterProb := mat.ScatterProbability.Value(ph.Energy)
	comptonRatio := mat.ComptonToScatterRatio.Value(ph.Energy)

	r := src.Uniform()
	switch {
	case r > scatterProb:
		return OutcomeAbsorbed, true
	case r > scatterProb*comptonRatio && tr.cfg.CoherentScatterEnabled:
		mu := mat.Coherent.Sample(ph.Energy, src.Uniform())
		phi := src.Uniform() * 2 * math.Pi
		ph.Direction = ph.Direction.Rotate(mu, phi)
	default:
		cosTheta, eOut := prng.SampleCompton(src, ph.Energy)
		phi := src.Uniform() * 2 * math.Pi
		ph.Direction = ph.Direction.Rotate(cosTheta, phi)
		ph.Energy = eOut
	}

	if ph.Energy < tr.cfg.MinimumEnergy {
		return OutcomeLowEnergy, true
	}
	return 0, false
}

// toLocal rotates an object-space photon into collimator-local
// coordinates, aligned with the detector's azimuthal angle.
func (tr *Tracker) toLocal(ph Photon) Photon {
	ca, sa := math.Cos(-tr.geo.Azimuth), math.Sin(-tr.geo.Azimuth)
	pos := geometry.Vec3{
		X: ph.Position.X*ca - ph.Position.Y*sa,
		Y: ph.Position.X*sa + ph.Position.Y*ca,
		Z: ph.Position.Z,
	}
	dir := geometry.Direction{
		CX: ph.Direction.CX*ca - ph.Direction.CY*sa,
		CY: ph.Direction.CX*sa + ph.Direction.CY*ca,
		CZ: ph.Direction.CZ,
	}.Normalize()
	return Photon{Position: pos, Direction: dir, Energy: ph.Energy, Weight: ph.Weight, Time: ph.Time}
}

// distToPlane returns the positive distance along cosine from cur to
// plane, or +Inf if travelling away from or parallel to it.
func distToPlane(plane, cur, cosine float64) float64 {
	c := geometry.ClampCosine(cosine)
	d := (plane - cur) / c
	if d <= 1e-12 {
		return math.Inf(1)
	}
	return d
}

func distToYLimit(y, cosineY, transLimit float64) float64 {
	if cosineY > 0 {
		return distToPlane(transLimit, y, cosineY)
	}
	return distToPlane(-transLimit, y, cosineY)
}

func distToZBoundary(z, cosineZ float64, seg geometry.AxialSegment) float64 {
	if cosineZ > 0 {
		return distToPlane(seg.ZEnd, z, cosineZ)
	}
	return distToPlane(seg.ZStart, z, cosineZ)
}
