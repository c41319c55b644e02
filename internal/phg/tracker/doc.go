// Package tracker advances a photon through the heterogeneous object
// voxel grid: free-path sampling, voxel stepping, Compton/coherent
// interaction, productivity-based track splitting and optional forced
// detection, per spec.md §4.3.
package tracker
