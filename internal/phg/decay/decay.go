package decay

import "github.com/simset-go/phgsim/internal/phg/geometry"

// Type classifies how a decay came to exist.
type Type int

const (
	TypeSingle Type = iota
	TypePositronPair
	TypePETRandom // artificial-random, synthesized by the coincidence engine
	TypeComplex
	TypeUnknown
)

// Decay is a single radioactive event. Position, StartWeight and Time are
// immutable once the decay is created (spec.md §3).
type Decay struct {
	Position    geometry.Vec3
	StartWeight float64
	Time        float64 // seconds since scan start
	Type        Type
}

// Emission is the direction and energy a decay emits, before any tracking
// happens. For PET decays, Blue and Pink are populated; for SPECT, only
// Blue.
type Emission struct {
	Blue EmittedPhoton
	Pink *EmittedPhoton // nil for SPECT singles
}

// EmittedPhoton is the starting state of one photon leaving a decay.
type EmittedPhoton struct {
	Direction  geometry.Direction
	Energy     float64 // keV
	IsBlue     bool
	Polarization geometry.Direction // only meaningful when polarization tracking is enabled
}
