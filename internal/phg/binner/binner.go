package binner

import "github.com/simset-go/phgsim/internal/phg/geometry"

// Event is the generic detected event a Locator maps to bin
// coordinates: a PET/SPECT coincidence or single, stripped to the
// fields a binning layout might key on.
type Event struct {
	Position      geometry.Vec3
	Energy        float64
	Time          float64
	CrystalIndex  int
	AzimuthalBin  int
	TransaxialPos float64
}

// Locator is the external binning-layout collaborator (spec.md §1's
// "binning layout" out-of-scope contract): it knows how to map a
// detected event to a coordinate in some Layout, or reports the event
// doesn't belong in any bin (e.g. outside the energy window).
type Locator interface {
	Locate(e Event) (coords []int, ok bool)
}

// Binner accumulates events into a Histogram via a Locator.
type Binner struct {
	hist    *Histogram
	locator Locator

	accepted int64
	rejected int64
}

// New builds a Binner over layout, using locator to place events.
func New(layout Layout, locator Locator) (*Binner, error) {
	hist, err := NewHistogram(layout)
	if err != nil {
		return nil, err
	}
	return &Binner{hist: hist, locator: locator}, nil
}

// Record locates e and, if it falls within the layout, accumulates
// weight into its bin. It reports whether the event was accepted.
func (b *Binner) Record(e Event, weight float64) (bool, error) {
	coords, ok := b.locator.Locate(e)
	if !ok {
		b.rejected++
		return false, nil
	}
	if err := b.hist.Add(coords, weight); err != nil {
		return false, err
	}
	b.accepted++
	return true, nil
}

// Histogram returns the underlying accumulated histogram.
func (b *Binner) Histogram() *Histogram {
	return b.hist
}

// Accepted returns how many recorded events fell within the layout.
func (b *Binner) Accepted() int64 {
	return b.accepted
}

// Rejected returns how many recorded events the locator placed outside
// every bin.
func (b *Binner) Rejected() int64 {
	return b.rejected
}
