// Package collimator implements the slat-model collimator tracker:
// local-frame entry, per-layer free-path stepping through axial
// segments, and layer transition/rejection/absorption, per spec.md
// §4.4.
package collimator
