// Package sim owns the per-run wiring that turns the independently
// testable decay/tracker/collimator/detector packages into one
// tracking pipeline: a single Context built once per run and threaded
// through every worker, rather than the teacher's handful of
// package-level registries (l3grid.GetBackgroundManager and friends).
package sim
