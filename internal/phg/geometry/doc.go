// Package geometry provides the cylinder, voxel-grid and collimator-layer
// primitives shared by the object and collimator trackers: boundary
// distances, projection onto faces, and axial segment lookup.
package geometry
