package binner

import "fmt"

// Histogram accumulates weighted counts over a Layout's bins. Weights,
// not bare counts, accumulate here since importance-sampled photons
// carry fractional statistical weight (spec.md §3).
type Histogram struct {
	layout Layout
	counts []float64
	total  float64
}

// NewHistogram allocates a zeroed histogram over layout.
func NewHistogram(layout Layout) (*Histogram, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Histogram{layout: layout, counts: make([]float64, layout.NumBins())}, nil
}

// Add accumulates weight into the bin named by coords.
func (h *Histogram) Add(coords []int, weight float64) error {
	idx, err := h.layout.flatten(coords)
	if err != nil {
		return err
	}
	h.counts[idx] += weight
	h.total += weight
	return nil
}

// At returns the accumulated weight in the bin named by coords.
func (h *Histogram) At(coords []int) (float64, error) {
	idx, err := h.layout.flatten(coords)
	if err != nil {
		return 0, err
	}
	return h.counts[idx], nil
}

// Total returns the sum of every bin's weight.
func (h *Histogram) Total() float64 {
	return h.total
}

// Layout returns the histogram's binning layout.
func (h *Histogram) Layout() Layout {
	return h.layout
}

// Counts returns a copy of the flat bin array, row-major in dimension
// order.
func (h *Histogram) Counts() []float64 {
	out := make([]float64, len(h.counts))
	copy(out, h.counts)
	return out
}

// Project sums out every dimension except keep, returning a 1-D slice
// indexed by keep's bin. Used for spectrum-style plots of a single
// dimension out of a multi-dimensional histogram.
func (h *Histogram) Project(keep int) ([]float64, error) {
	if keep < 0 || keep >= len(h.layout.Dimensions) {
		return nil, fmt.Errorf("binner: dimension index %d out of range [0, %d)", keep, len(h.layout.Dimensions))
	}
	out := make([]float64, h.layout.Dimensions[keep].NumBins)
	coords := make([]int, len(h.layout.Dimensions))
	h.walk(coords, 0, func(c []int, idx int) {
		out[c[keep]] += h.counts[idx]
	})
	return out, nil
}

// Project2D sums out every dimension except dimX and dimY, returning a
// dimX-major, dimY-minor grid for heatmap-style plots.
func (h *Histogram) Project2D(dimX, dimY int) ([][]float64, error) {
	dims := h.layout.Dimensions
	if dimX < 0 || dimX >= len(dims) || dimY < 0 || dimY >= len(dims) || dimX == dimY {
		return nil, fmt.Errorf("binner: invalid 2-D projection dimensions (%d, %d) for %d-dimensional layout", dimX, dimY, len(dims))
	}
	grid := make([][]float64, dims[dimX].NumBins)
	for i := range grid {
		grid[i] = make([]float64, dims[dimY].NumBins)
	}
	coords := make([]int, len(dims))
	h.walk(coords, 0, func(c []int, idx int) {
		grid[c[dimX]][c[dimY]] += h.counts[idx]
	})
	return grid, nil
}

// walk visits every coordinate tuple in row-major order, calling visit
// with the tuple and its flat index.
func (h *Histogram) walk(coords []int, dim int, visit func(coords []int, idx int)) {
	if dim == len(h.layout.Dimensions) {
		idx, _ := h.layout.flatten(coords)
		visit(coords, idx)
		return
	}
	for i := 0; i < h.layout.Dimensions[dim].NumBins; i++ {
		coords[dim] = i
		h.walk(coords, dim+1, visit)
	}
}
