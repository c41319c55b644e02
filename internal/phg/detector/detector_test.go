package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/prng"
)

type blockLayout struct{ crystalSize float64 }

func (b blockLayout) CrystalIndexAt(pos geometry.Vec3) int {
	return int(pos.X / b.crystalSize)
}

func TestCentroidIsEnergyWeightedMean(t *testing.T) {
	interactions := []CrystalInteraction{
		{Position: geometry.Vec3{X: 0}, EnergyDeposited: 100},
		{Position: geometry.Vec3{X: 10}, EnergyDeposited: 300},
	}
	loc, total := Centroid(interactions)
	assert.Equal(t, 400.0, total)
	assert.InDelta(t, 7.5, loc.X, 1e-9)
}

func TestCentroidEmptyInteractionsReturnsZero(t *testing.T) {
	loc, total := Centroid(nil)
	assert.Equal(t, geometry.Vec3{}, loc)
	assert.Equal(t, 0.0, total)
}

func TestDetectNoBlurReturnsExactEnergyAndTime(t *testing.T) {
	src := prng.New(1)
	d := New(Config{EnergyResolutionPercentage: -1, PhotonTimeFWHM: 0}, blockLayout{crystalSize: 1})

	det, ok := d.Detect(src, []CrystalInteraction{{Position: geometry.Vec3{X: 2.5}, EnergyDeposited: 511}}, 1.0)
	require.True(t, ok)
	assert.Equal(t, 511.0, det.Energy)
	assert.Equal(t, 1.0, det.Time)
	assert.Equal(t, 2, det.CrystalIndex)
}

func TestDetectEmptyInteractionsReturnsNotOK(t *testing.T) {
	src := prng.New(2)
	d := New(DefaultConfig(), blockLayout{crystalSize: 1})
	_, ok := d.Detect(src, nil, 0)
	assert.False(t, ok)
}

func TestEnergySigmaScalesWithInverseSqrtEnergy(t *testing.T) {
	d := New(DefaultConfig().WithEnergyResolution(10, 511), blockLayout{crystalSize: 1})
	sigmaAtRef := d.energySigma(511)
	sigmaAtQuarter := d.energySigma(511.0 / 4)
	assert.InDelta(t, sigmaAtRef*2, sigmaAtQuarter, 1e-9)
}

func TestForceInteractionWeightIsAbsorptionProbability(t *testing.T) {
	src := prng.New(3)
	lead, err := material.DefaultLead(1)
	require.NoError(t, err)

	depth, weight := ForceInteraction(src, lead, 1.0, 511)
	assert.Greater(t, depth, 0.0)
	assert.Greater(t, weight, 0.0)
	assert.LessOrEqual(t, weight, 1.0)
}
