package geometry

import "errors"

// errFaceSnap is wrapped by callers with simerr.ErrInvariantViolated;
// kept local to avoid an import cycle with the simerr package.
var errFaceSnap = errors.New("geometry: face-snap residual exceeds tolerance")

// ErrFaceSnap is the exported sentinel tests and callers can match on.
var ErrFaceSnap = errFaceSnap
