package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveInterpolatesLinearly(t *testing.T) {
	c := NewCurve([]float64{100, 200}, []float64{1.0, 2.0})
	assert.InDelta(t, 1.5, c.Value(150), 1e-9)
	assert.Equal(t, 1.0, c.Value(50))
	assert.Equal(t, 2.0, c.Value(500))
}

func TestTableLookupOutOfRange(t *testing.T) {
	water, err := DefaultWater(1)
	require.NoError(t, err)
	table := NewTable(water)

	_, err = table.Lookup(99)
	assert.ErrorIs(t, err, ErrMaterialOutOfRange)

	m, err := table.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "water", m.Name)
}

func TestVoidMaterialHasZeroAttenuation(t *testing.T) {
	table := NewTable()
	void, err := table.Lookup(Void)
	require.NoError(t, err)
	assert.Equal(t, 0.0, void.MuAt(511))
}

func TestPositronRangeSigmaPositive(t *testing.T) {
	water, err := DefaultWater(1)
	require.NoError(t, err)
	sigma := water.PositronRangeSigma(0.5)
	assert.Greater(t, sigma, 0.0)
}

func TestBuilderValidateRejectsMissingAttenuation(t *testing.T) {
	b := NewBuilder(5, "mystery")
	err := b.Validate()
	assert.Error(t, err)
}

func TestCoherentTableSampleNearestEnergy(t *testing.T) {
	cdf := []CoherentCDFPoint{
		{CosTheta: 1.0, CumulProb: 0.2},
		{CosTheta: 0.5, CumulProb: 0.6},
		{CosTheta: -1.0, CumulProb: 1.0},
	}
	ct := NewCoherentTable([]float64{150}, [][]CoherentCDFPoint{cdf})

	got := ct.Sample(150, 0.1)
	assert.InDelta(t, 1.0, got, 1e-9)

	got = ct.Sample(150, 1.0)
	assert.InDelta(t, -1.0, got, 1e-9)
}
