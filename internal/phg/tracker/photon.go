package tracker

import (
	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/productivity"
)

// Role distinguishes the two logical tracks a photon can split into when
// its current-cell scatter productivity and its origin cell's primary
// productivity disagree (spec.md §4.3 step 7).
type Role int

const (
	RolePrimary Role = iota
	RoleScatter
)

// Photon is a photon in flight through the object, collimator or
// detector stages. VoxelIndex is kept current by the tracker's boundary
// stepping (y increases downward, spec.md §4.3 step 4).
type Photon struct {
	Position  geometry.Vec3
	Direction geometry.Direction
	Energy    float64 // keV
	Weight    float64
	Time      float64 // seconds since creation

	VoxelIndex geometry.VoxelIndex
	OriginCell productivity.Cell // the (slice, angle) of the voxel the decay was created in

	IsBlue bool
	Track  Role

	NumScatters      int
	FirstScatterDone bool

	HasPolarization bool
	Polarization    geometry.Direction
	PolAzimuth      float64 // φ_pol sampled at emission, only meaningful if HasPolarization
}

// Outcome classifies how a photon's trace ended.
type Outcome int

const (
	OutcomeDetected Outcome = iota
	OutcomeLowEnergy
	OutcomeAbsorbed
	OutcomeWeightLimit
	OutcomeOutOfBounds
	OutcomeForcedDetectionTerminated
)

// Interaction is one scatter point recorded for diagnostics/history.
type Interaction struct {
	Position geometry.Vec3
	Energy   float64
	Weight   float64
}

// ForcedDetection is a deterministic copy of a track-as-primary photon,
// projected to the target cylinder at entry and at every scatter point,
// carrying its attenuation-weighted contribution (spec.md §4.3 Forced
// detection).
type ForcedDetection struct {
	Position  geometry.Vec3
	Direction geometry.Direction
	Energy    float64
	Weight    float64
	Time      float64
}

// Trace is the complete outcome of tracking one photon (and every branch
// spawned from it by productivity splitting) to its terminal states.
type Trace struct {
	Detected             []Photon
	Discarded            []DiscardedPhoton
	Starts               []productivity.Cell
	StartsOverflow       int
	Interactions         []Interaction
	InteractionsOverflow int
	ForcedDetections     []ForcedDetection
}

// DiscardedPhoton records a non-detected terminal state for statistics.
type DiscardedPhoton struct {
	Outcome Outcome
	Photon  Photon
}
