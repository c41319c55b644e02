package geometry

import "math"

// Cylinder is a right circular cylinder aligned with the z axis, used for
// the target, object, critical-zone and limit geometries named in the
// history-file header.
type Cylinder struct {
	Radius   float64
	ZMin     float64
	ZMax     float64
	CenterX  float64
	CenterY  float64
}

// DistanceToSurface returns the distance along dir from pos to the nearer
// of the cylinder's lateral surface and its end caps. ok is false if the
// ray never reaches the cylinder (travelling away from it).
func (c Cylinder) DistanceToSurface(pos Vec3, dir Direction) (dist float64, ok bool) {
	lateral, lateralOK := c.distanceToLateral(pos, dir)
	cap, capOK := c.distanceToCap(pos, dir)

	switch {
	case lateralOK && capOK:
		return math.Min(lateral, cap), true
	case lateralOK:
		return lateral, true
	case capOK:
		return cap, true
	default:
		return 0, false
	}
}

// distanceToLateral solves |pos+t*dir - center|_xy = Radius for the
// smallest positive t.
func (c Cylinder) distanceToLateral(pos Vec3, dir Direction) (float64, bool) {
	dx := pos.X - c.CenterX
	dy := pos.Y - c.CenterY

	a := dir.CX*dir.CX + dir.CY*dir.CY
	b := 2 * (dx*dir.CX + dy*dir.CY)
	cc := dx*dx + dy*dy - c.Radius*c.Radius

	if a < 1e-12 {
		// Travelling parallel to the axis: already inside or never hits.
		return 0, false
	}

	disc := b*b - 4*a*cc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / (2 * a)
	t2 := (-b - sq) / (2 * a)

	t := math.Inf(1)
	found := false
	for _, cand := range []float64{t1, t2} {
		if cand > 1e-9 {
			z := pos.Z + cand*dir.CZ
			if z >= c.ZMin && z <= c.ZMax && cand < t {
				t = cand
				found = true
			}
		}
	}
	return t, found
}

// distanceToCap returns the distance to whichever end cap the ray is
// travelling toward, provided the intersection point falls within the
// cylinder's radius.
func (c Cylinder) distanceToCap(pos Vec3, dir Direction) (float64, bool) {
	cz := ClampCosine(dir.CZ)

	var targetZ float64
	if cz > 0 {
		targetZ = c.ZMax
	} else {
		targetZ = c.ZMin
	}

	t := (targetZ - pos.Z) / cz
	if t <= 1e-9 {
		return 0, false
	}

	x := pos.X + t*dir.CX - c.CenterX
	y := pos.Y + t*dir.CY - c.CenterY
	if x*x+y*y > c.Radius*c.Radius {
		return 0, false
	}
	return t, true
}

// Contains reports whether pos lies within the cylinder's radial and axial
// bounds.
func (c Cylinder) Contains(pos Vec3) bool {
	dx := pos.X - c.CenterX
	dy := pos.Y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius && pos.Z >= c.ZMin && pos.Z <= c.ZMax
}
