package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHeaderCarriesRunConfigAndModes(t *testing.T) {
	cfg := validRunConfig().WithPositronRangeAdjust(true).WithRandomSeed(99)
	deps := testDeps(t)

	h := NewHeader(cfg, deps, 1, 511, true)

	assert.EqualValues(t, cfg.EventsToSimulate, h.EventsRequested)
	assert.EqualValues(t, 99, h.RandomSeed)
	assert.Equal(t, 511.0, h.PhotonEnergyKeV)
	assert.True(t, h.Modes.PETCoincidencesPlusSingles)
	assert.False(t, h.Modes.SPECT)
	assert.True(t, h.Modes.PositronRangeAdjust)
	assert.True(t, h.Detector.ForcedInteractionEnabled)
	assert.Equal(t, deps.Target, h.Target)
}
