// Package detector applies energy blur, time blur, energy-weighted
// centroid and crystal-index lookup to photons that reach the detector
// stage, per spec.md §4.5.
package detector
