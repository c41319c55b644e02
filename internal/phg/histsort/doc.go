// Package histsort implements the two-phase external sort that orders
// an arbitrarily large history file by decay_time (spec.md §4.7):
// Phase I (Sorter) generates increasing-time runs bounded by a
// caller-supplied memory budget using replacement selection; Phase II
// (Merger) repeatedly k-way-merges up to 33 runs at a time until one
// file remains.
//
// The unit the sort moves is a decayGroup: one decay record and every
// photon record that follows it up to (but not including) the next
// decay record. Splitting a decay from its photons would break the
// history format, so the two always travel together.
package histsort
