// Package productivity implements the per-(slice, angle) primary/scatter
// productivity table used by the object tracker for importance-sampling
// track splitting (spec.md §4.3 step 7).
package productivity
