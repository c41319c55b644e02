// Package geomsimple provides homogeneous, single-material/single-cell
// implementations of the external geometry collaborators (tracker's
// VoxelMaterials/CellLocator, detector's CrystalLayout, decay's
// IsotopeEnergyTable). Voxel-map and isotope-table file loading are
// external collaborators per spec.md §1's Non-goals; these are the
// concrete defaults the CLIs wire in when no richer loader is
// configured.
package geomsimple
