package material

import (
	"errors"
	"fmt"
)

// ErrMaterialOutOfRange is returned by Table.Lookup when a voxel or
// collimator segment references a material index that was never
// declared — a fatal condition per spec.md §7.
var ErrMaterialOutOfRange = errors.New("material: index out of range")

// Material holds the attenuation, scatter and positron-range properties
// for one tissue/collimator material.
type Material struct {
	Index    int
	Name     string
	Density  float64 // g/cm³

	Attenuation           Curve // µ(E), 1/cm
	ScatterProbability    Curve // probability an interaction is not absorption
	ComptonToScatterRatio Curve // P(Compton | not absorbed)
	Coherent              CoherentTable

	// Palmer–Brownell positron-range constants (spec.md §4.2):
	// Rex = 0.1·b1·E²/(b2+E), E in MeV.
	PositronB1 float64
	PositronB2 float64
}

// Void is the reserved index denoting gap/vacuum; it has zero attenuation
// everywhere so free-path stepping through it never interacts.
const Void = 0

// MuAt returns µ at energy e (keV). Material 0 (void) always returns 0.
func (m *Material) MuAt(e float64) float64 {
	if m.Index == Void {
		return 0
	}
	return m.Attenuation.Value(e)
}

// PositronRangeSigma returns the Palmer–Brownell standard deviation
// (cm) of the positron range displacement in this material for a
// positron kinetic energy eMeV (MeV).
func (m *Material) PositronRangeSigma(eMeV float64) float64 {
	rex := 0.1 * m.PositronB1 * eMeV * eMeV / (m.PositronB2 + eMeV)
	if m.Density <= 0 {
		return 0
	}
	return rex / (2 * m.Density)
}

// Table is the run's full material-index → Material mapping, immutable
// after construction (spec.md §5 "read-only after initialization").
type Table struct {
	materials map[int]*Material
}

// NewTable builds a Table from a set of materials. Index 0 (void) is
// added automatically if not supplied.
func NewTable(materials ...*Material) *Table {
	t := &Table{materials: make(map[int]*Material, len(materials)+1)}
	for _, m := range materials {
		t.materials[m.Index] = m
	}
	if _, ok := t.materials[Void]; !ok {
		t.materials[Void] = &Material{Index: Void, Name: "void"}
	}
	return t
}

// Lookup returns the material at idx, or ErrMaterialOutOfRange if it was
// never declared.
func (t *Table) Lookup(idx int) (*Material, error) {
	m, ok := t.materials[idx]
	if !ok {
		return nil, fmt.Errorf("material index %d: %w", idx, ErrMaterialOutOfRange)
	}
	return m, nil
}

// Len returns the number of declared materials, including void.
func (t *Table) Len() int {
	return len(t.materials)
}
