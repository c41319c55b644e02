// Package decay samples decays (position, time, direction) from a
// stratified activity table, applies PET pairing, non-collinearity and
// positron-range displacement, per spec.md §4.2.
package decay
