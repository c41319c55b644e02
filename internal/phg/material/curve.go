package material

import "sort"

// Curve is a piecewise-linear function of photon energy (keV), used for
// µ(E), scatter probability(E) and Compton-to-scatter ratio(E). Points
// must be supplied in increasing energy order; Value clamps to the first
// or last point outside the table's range.
type Curve struct {
	Energies []float64
	Values   []float64
}

// NewCurve builds a Curve from parallel energy/value slices, sorting by
// energy if the caller didn't already.
func NewCurve(energies, values []float64) Curve {
	idx := make([]int, len(energies))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return energies[idx[a]] < energies[idx[b]] })

	c := Curve{Energies: make([]float64, len(energies)), Values: make([]float64, len(values))}
	for i, j := range idx {
		c.Energies[i] = energies[j]
		c.Values[i] = values[j]
	}
	return c
}

// Value returns the linearly-interpolated value at energy e (keV).
func (c Curve) Value(e float64) float64 {
	n := len(c.Energies)
	if n == 0 {
		return 0
	}
	if e <= c.Energies[0] {
		return c.Values[0]
	}
	if e >= c.Energies[n-1] {
		return c.Values[n-1]
	}

	i := sort.SearchFloat64s(c.Energies, e)
	if c.Energies[i] == e {
		return c.Values[i]
	}
	lo, hi := i-1, i
	frac := (e - c.Energies[lo]) / (c.Energies[hi] - c.Energies[lo])
	return c.Values[lo] + frac*(c.Values[hi]-c.Values[lo])
}
