package history

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// Field names a per-photon value a custom layout may select (spec.md
// §6's "fixed enumerated order").
type Field int

const (
	FieldDecayTime Field = iota
	FieldDecayType
	FieldPositionX
	FieldPositionY
	FieldPositionZ
	FieldDirectionCX
	FieldDirectionCY
	FieldDirectionCZ
	FieldEnergy
	FieldWeight
	FieldTimeSinceCreation
	FieldTravelDistance
	FieldCrystalNumber
)

// RangeFilter drops a photon whose field value falls outside
// [Min, Max]. A nil bound is unconstrained on that side.
type RangeFilter struct {
	Min *float64
	Max *float64
}

func (f RangeFilter) allows(v float64) bool {
	if f.Min != nil && v < *f.Min {
		return false
	}
	if f.Max != nil && v > *f.Max {
		return false
	}
	return true
}

// FieldSpec is one entry of a custom layout: the field to write and
// its optional filter.
type FieldSpec struct {
	Field  Field
	Filter *RangeFilter
}

// CustomLayout is a user-specified subset of fields, in a fixed order,
// optionally filtering out-of-range photons entirely (spec.md §6).
type CustomLayout struct {
	Fields []FieldSpec
}

// requiredForRandomsAndSorting lists the fields the randoms tool and
// sort engine require regardless of what layout the user requested
// (spec.md §6).
var requiredForRandomsAndSorting = []Field{FieldDecayTime, FieldDecayType, FieldTravelDistance}

// Validate checks that every field required by randoms processing and
// sorting is present in the layout.
func (l CustomLayout) Validate() error {
	have := make(map[Field]bool, len(l.Fields))
	for _, fs := range l.Fields {
		have[fs.Field] = true
	}
	for _, req := range requiredForRandomsAndSorting {
		if !have[req] {
			return fmt.Errorf("history: custom layout omits required field %v: %w", req, simerr.ErrPreconditionFailed)
		}
	}
	return nil
}

// WriteFiltered writes values (keyed by Field) to w in layout order, as
// float64s, skipping the photon entirely (writing nothing and returning
// wrote=false) if any filtered field falls out of range.
func WriteFiltered(w io.Writer, layout CustomLayout, values map[Field]float64) (wrote bool, err error) {
	for _, fs := range layout.Fields {
		v, ok := values[fs.Field]
		if !ok {
			return false, fmt.Errorf("history: custom layout references field %v with no value supplied", fs.Field)
		}
		if fs.Filter != nil && !fs.Filter.allows(v) {
			return false, nil
		}
	}
	for _, fs := range layout.Fields {
		if err := binary.Write(w, binary.LittleEndian, values[fs.Field]); err != nil {
			return false, fmt.Errorf("history: writing custom-layout field %v: %w", fs.Field, simerr.ErrIOError)
		}
	}
	return true, nil
}
