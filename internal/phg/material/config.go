package material

import "fmt"

// Builder assembles a Material with sensible defaults, mirroring the
// teacher's WithX-chained, Validate()-checked configuration pattern.
type Builder struct {
	m *Material
}

// NewBuilder starts a Material builder for the given index and name.
func NewBuilder(index int, name string) *Builder {
	return &Builder{m: &Material{Index: index, Name: name, Density: 1.0}}
}

// WithDensity sets the material density in g/cm³.
func (b *Builder) WithDensity(d float64) *Builder {
	b.m.Density = d
	return b
}

// WithAttenuation sets µ(E) as parallel energy(keV)/value(1/cm) slices.
func (b *Builder) WithAttenuation(energies, values []float64) *Builder {
	b.m.Attenuation = NewCurve(energies, values)
	return b
}

// WithScatterProbability sets the not-absorbed probability curve.
func (b *Builder) WithScatterProbability(energies, values []float64) *Builder {
	b.m.ScatterProbability = NewCurve(energies, values)
	return b
}

// WithComptonToScatterRatio sets P(Compton | not absorbed) curve.
func (b *Builder) WithComptonToScatterRatio(energies, values []float64) *Builder {
	b.m.ComptonToScatterRatio = NewCurve(energies, values)
	return b
}

// WithCoherentTable sets the coherent angular-CDF table.
func (b *Builder) WithCoherentTable(t CoherentTable) *Builder {
	b.m.Coherent = t
	return b
}

// WithPositronRange sets the Palmer–Brownell b1, b2 constants.
func (b *Builder) WithPositronRange(b1, b2 float64) *Builder {
	b.m.PositronB1 = b1
	b.m.PositronB2 = b2
	return b
}

// Validate checks the assembled material for internal consistency.
func (b *Builder) Validate() error {
	if b.m.Index < 0 {
		return fmt.Errorf("material %q: index must be non-negative, got %d", b.m.Name, b.m.Index)
	}
	if b.m.Index != Void && b.m.Density <= 0 {
		return fmt.Errorf("material %q: density must be positive, got %f", b.m.Name, b.m.Density)
	}
	if len(b.m.Attenuation.Energies) == 0 && b.m.Index != Void {
		return fmt.Errorf("material %q: attenuation curve must not be empty", b.m.Name)
	}
	return nil
}

// Build finalizes the material, returning an error if Validate fails.
func (b *Builder) Build() (*Material, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.m, nil
}

// DefaultWater returns a representative soft-tissue-equivalent material
// (index 1) with a coarse NIST-XCOM-style attenuation table spanning the
// 100–700 keV range relevant to PET/SPECT, and the standard Palmer–
// Brownell positron-range constants used for water/soft tissue.
func DefaultWater(index int) (*Material, error) {
	energies := []float64{100, 140, 200, 300, 400, 511, 600, 700}
	mu := []float64{0.1707, 0.1505, 0.1370, 0.1186, 0.1061, 0.0968, 0.0895, 0.0833}
	scatterProb := []float64{0.85, 0.83, 0.82, 0.80, 0.79, 0.78, 0.77, 0.76}
	comptonRatio := []float64{0.85, 0.90, 0.95, 0.97, 0.98, 0.99, 0.99, 0.99}

	return NewBuilder(index, "water").
		WithDensity(1.0).
		WithAttenuation(energies, mu).
		WithScatterProbability(energies, scatterProb).
		WithComptonToScatterRatio(energies, comptonRatio).
		WithPositronRange(0.098, 0.176). // water-equivalent soft tissue constants
		Build()
}

// DefaultBone returns a bone-equivalent material (index 2).
func DefaultBone(index int) (*Material, error) {
	energies := []float64{100, 140, 200, 300, 400, 511, 600, 700}
	mu := []float64{0.3306, 0.2573, 0.2177, 0.1827, 0.1589, 0.1421, 0.1301, 0.1204}
	scatterProb := []float64{0.70, 0.72, 0.75, 0.78, 0.79, 0.80, 0.81, 0.81}
	comptonRatio := []float64{0.70, 0.78, 0.88, 0.94, 0.96, 0.97, 0.98, 0.98}

	return NewBuilder(index, "bone").
		WithDensity(1.85).
		WithAttenuation(energies, mu).
		WithScatterProbability(energies, scatterProb).
		WithComptonToScatterRatio(energies, comptonRatio).
		WithPositronRange(0.078, 0.242).
		Build()
}

// DefaultLead returns a lead collimator/shielding material (index 3),
// effectively opaque across PET/SPECT energies.
func DefaultLead(index int) (*Material, error) {
	energies := []float64{100, 140, 200, 300, 400, 511, 600, 700}
	mu := []float64{59.99, 24.83, 10.04, 3.052, 2.358, 1.722, 1.389, 1.157}
	scatterProb := []float64{0.15, 0.22, 0.35, 0.48, 0.55, 0.60, 0.63, 0.65}
	comptonRatio := []float64{0.08, 0.20, 0.45, 0.70, 0.80, 0.85, 0.88, 0.90}

	return NewBuilder(index, "lead").
		WithDensity(11.35).
		WithAttenuation(energies, mu).
		WithScatterProbability(energies, scatterProb).
		WithComptonToScatterRatio(energies, comptonRatio).
		Build()
}
