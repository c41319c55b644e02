package geometry

import "math"

// AxialNudge is the offset applied to z when sliding across an axial
// segment boundary, to avoid immediately re-entering the segment just
// left.
const AxialNudge = 1e-6

// FaceSnapTolerance is the maximum acceptable round-off in x after
// projecting onto a collimator layer face; exceeding it is a fatal
// invariant violation (spec.md §4.1 edge-case policy).
const FaceSnapTolerance = 1e-3

// AxialSegment is one contiguous run of a single material along a
// collimator layer's axial (z) extent.
type AxialSegment struct {
	ZStart, ZEnd float64
	Material     int
}

// FindSegment returns the index of the segment in segs (sorted, abutting,
// covering [zMin,zMax] with no gaps per the derivation invariant) that
// contains z, and whether z fell within the covered range at all.
func FindSegment(segs []AxialSegment, z float64) (int, bool) {
	for i, s := range segs {
		if z >= s.ZStart && z < s.ZEnd {
			return i, true
		}
	}
	// z may land exactly on the final segment's upper edge.
	if n := len(segs); n > 0 && math.Abs(z-segs[n-1].ZEnd) < 1e-9 {
		return n - 1, true
	}
	return -1, false
}

// DeriveSegments scans a layer's declared slats (each with Start, End,
// Material, not necessarily contiguous or sorted) and produces the dense,
// abutting segment list covering [zMin, zMax], materializing any holes as
// material-0 (gap) segments. Declared slats must not overlap; the result
// satisfies start < end per segment and full coverage of [zMin, zMax].
func DeriveSegments(slats []AxialSegment, zMin, zMax float64) []AxialSegment {
	sorted := append([]AxialSegment(nil), slats...)
	insertionSort(sorted)

	result := make([]AxialSegment, 0, len(sorted)*2+1)
	cursor := zMin

	for _, s := range sorted {
		if s.ZEnd <= cursor || s.ZStart >= zMax {
			continue
		}
		start := math.Max(s.ZStart, cursor)
		end := math.Min(s.ZEnd, zMax)
		if start > cursor {
			result = append(result, AxialSegment{ZStart: cursor, ZEnd: start, Material: 0})
		}
		if end > start {
			result = append(result, AxialSegment{ZStart: start, ZEnd: end, Material: s.Material})
		}
		cursor = end
	}

	if cursor < zMax {
		result = append(result, AxialSegment{ZStart: cursor, ZEnd: zMax, Material: 0})
	}

	return result
}

// insertionSort sorts segments by ZStart; slat lists are small (tens of
// entries per layer) so a simple in-place sort is preferred over pulling
// in sort.Slice for this hot-path-adjacent, size-bounded case.
func insertionSort(segs []AxialSegment) {
	for i := 1; i < len(segs); i++ {
		for j := i; j > 0 && segs[j].ZStart < segs[j-1].ZStart; j-- {
			segs[j], segs[j-1] = segs[j-1], segs[j]
		}
	}
}

// SnapToFace moves pos by the already-computed distance t along dir (the
// distance the caller derived to reach the collimator entry face, x=0 in
// collimator-local coordinates) and forces the resulting x to exactly 0.
// A residual |x| beyond FaceSnapTolerance before snapping indicates the
// caller's distance computation was wrong and is a fatal invariant
// violation.
func SnapToFace(pos Vec3, dir Direction, t float64) (Vec3, error) {
	slid := pos.Along(dir, t)
	if math.Abs(slid.X) > FaceSnapTolerance {
		return slid, errFaceSnap
	}
	slid.X = 0
	return slid, nil
}
