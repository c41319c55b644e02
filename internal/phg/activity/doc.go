// Package activity provides concrete decay.ActivitySource
// implementations. Voxel-file-backed activity loading is an external
// collaborator per spec.md §1's Non-goals; PointSource is the one
// concrete source this rework ships, for single-point calibration runs
// and for exercising the tracking pipeline end-to-end from the CLIs.
package activity
