package collimator

import "github.com/simset-go/phgsim/internal/phg/geometry"

// Layer is one collimator layer, stacked along the local x axis, with an
// axial (z) material sequence derived via geometry.DeriveSegments.
type Layer struct {
	FrontX, BackX float64
	ZMin, ZMax    float64
	TransLimit    float64 // y bound, symmetric [-TransLimit, TransLimit]
	Segments      []geometry.AxialSegment
}

// Geometry is a detector head's full collimator stack. Azimuth is the
// detector's azimuthal angle (radians) used to rotate an object-space
// photon into collimator-local coordinates, where layers are traversed
// along increasing x.
type Geometry struct {
	Azimuth float64
	Layers  []Layer
}

// Photon is a photon in the collimator stage, in whichever frame it was
// last expressed in (object-space on input to Track, collimator-local
// internally).
type Photon struct {
	Position  geometry.Vec3
	Direction geometry.Direction
	Energy    float64
	Weight    float64
	Time      float64
}
