package geometry

import "math"

// Axis identifies which voxel face a photon's next boundary crossing lies
// on, or that the object cylinder itself is reached first.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisCylinder
)

// VoxelGrid is the object-space voxel lattice the decay generator and
// object tracker step photons through. Y increases downward, matching the
// tracker's voxel-index convention (spec.md §4.3 step 4).
type VoxelGrid struct {
	NX, NY, NZ       int
	DX, DY, DZ       float64 // voxel side lengths (cm)
	OriginX, OriginY float64 // world coordinate of voxel (0,0)'s low corner
	OriginZ          float64
	Object           Cylinder // the outer object boundary
}

// VoxelIndex is the (x,y,z) integer index of a voxel in the grid.
type VoxelIndex struct {
	X, Y, Z int
}

// InBounds reports whether idx addresses a real voxel.
func (g VoxelGrid) InBounds(idx VoxelIndex) bool {
	return idx.X >= 0 && idx.X < g.NX &&
		idx.Y >= 0 && idx.Y < g.NY &&
		idx.Z >= 0 && idx.Z < g.NZ
}

// IndexOf returns the voxel index containing pos. A photon sitting exactly
// on a boundary is considered to be in the voxel it is about to enter,
// i.e. floor() semantics along the direction of travel.
func (g VoxelGrid) IndexOf(pos Vec3, dir Direction) VoxelIndex {
	x := (pos.X - g.OriginX) / g.DX
	y := (pos.Y - g.OriginY) / g.DY
	z := (pos.Z - g.OriginZ) / g.DZ

	return VoxelIndex{
		X: snapIndex(x, dir.CX),
		Y: snapIndex(y, dir.CY),
		Z: snapIndex(z, dir.CZ),
	}
}

func snapIndex(coord, cosine float64) int {
	fl := math.Floor(coord)
	if coord-fl < 1e-9 && cosine < 0 {
		// Sitting exactly on the lower boundary and moving toward negative:
		// we are in the voxel below.
		return int(fl) - 1
	}
	return int(fl)
}

// NextBoundary computes the distance from pos travelling along dir to the
// nearest of: the next x, y or z voxel face, or the outer object cylinder.
// It returns the axis that distance belongs to.
func (g VoxelGrid) NextBoundary(pos Vec3, dir Direction, idx VoxelIndex) (dist float64, axis Axis) {
	dx := faceDistance(pos.X-g.OriginX, g.DX, idx.X, dir.CX)
	dy := faceDistance(pos.Y-g.OriginY, g.DY, idx.Y, dir.CY)
	dz := faceDistance(pos.Z-g.OriginZ, g.DZ, idx.Z, dir.CZ)

	dist, axis = dx, AxisX
	if dy < dist {
		dist, axis = dy, AxisY
	}
	if dz < dist {
		dist, axis = dz, AxisZ
	}

	if cylDist, ok := g.Object.DistanceToSurface(pos, dir); ok && cylDist < dist {
		dist, axis = cylDist, AxisCylinder
	}

	return dist, axis
}

// faceDistance returns the distance along a single axis to the next voxel
// face, given the current coordinate (relative to grid origin), voxel
// size, voxel index on that axis, and direction cosine (already clamped
// by the caller via ClampCosine where needed).
func faceDistance(coord, size float64, idx int, cosine float64) float64 {
	c := ClampCosine(cosine)
	var faceCoord float64
	if c > 0 {
		faceCoord = float64(idx+1) * size
	} else {
		faceCoord = float64(idx) * size
	}
	d := (faceCoord - coord) / c
	if d < 0 {
		return math.Inf(1)
	}
	return d
}

// Step advances idx by one voxel along axis in the direction of travel.
func (g VoxelGrid) Step(idx VoxelIndex, axis Axis, dir Direction) VoxelIndex {
	switch axis {
	case AxisX:
		if dir.CX > 0 {
			idx.X++
		} else {
			idx.X--
		}
	case AxisY:
		if dir.CY > 0 {
			idx.Y++
		} else {
			idx.Y--
		}
	case AxisZ:
		if dir.CZ > 0 {
			idx.Z++
		} else {
			idx.Z--
		}
	}
	return idx
}
