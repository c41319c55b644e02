package tracker

import "fmt"

// MaxStarts is PHG_MAXIMUM_STARTS from spec.md §4.3 step 6: the fixed
// capacity of the per-trace starts array. The counter keeps incrementing
// past this limit; only the array stops growing.
const MaxStarts = 20

// MaxDetectorInteractions is the fixed capacity of the per-trace
// detector-interaction array (spec.md §4.3).
const MaxDetectorInteractions = 30

// Config controls the object tracker's optional physics, mirroring the
// teacher's builder+Validate configuration pattern.
type Config struct {
	PhgMinimumEnergy        float64 // keV; below this a photon is discarded
	NoForcedNonAbsorption   bool    // false (the default) enables forced non-absorption
	CoherentScatterEnabled  bool
	PolarizationEnabled     bool
	ForcedDetectionEnabled  bool
	WeightLimit             float64 // minimum weight before a trace is abandoned as below importance
	MaxStarts               int
	MaxDetectorInteractions int
}

// DefaultConfig returns the tracker defaults used across the testable
// scenarios: forced non-absorption on, coherent scatter on, polarization
// and forced detection off, a 1 keV minimum energy and a 1e-4 weight
// floor.
func DefaultConfig() Config {
	return Config{
		PhgMinimumEnergy:        1.0,
		NoForcedNonAbsorption:   false,
		CoherentScatterEnabled:  true,
		PolarizationEnabled:     false,
		ForcedDetectionEnabled:  false,
		WeightLimit:             1e-4,
		MaxStarts:               MaxStarts,
		MaxDetectorInteractions: MaxDetectorInteractions,
	}
}

// WithMinimumEnergy sets the low-energy discard threshold (keV).
func (c Config) WithMinimumEnergy(keV float64) Config {
	c.PhgMinimumEnergy = keV
	return c
}

// WithForcedNonAbsorption enables or disables forced non-absorption.
func (c Config) WithForcedNonAbsorption(enabled bool) Config {
	c.NoForcedNonAbsorption = !enabled
	return c
}

// WithCoherentScatter enables or disables coherent (Rayleigh) scattering.
func (c Config) WithCoherentScatter(enabled bool) Config {
	c.CoherentScatterEnabled = enabled
	return c
}

// WithPolarization enables or disables polarization-weighted Compton
// scattering.
func (c Config) WithPolarization(enabled bool) Config {
	c.PolarizationEnabled = enabled
	return c
}

// WithForcedDetection enables or disables forced detection.
func (c Config) WithForcedDetection(enabled bool) Config {
	c.ForcedDetectionEnabled = enabled
	return c
}

// WithWeightLimit sets the minimum photon weight before a trace is
// abandoned as below the importance threshold.
func (c Config) WithWeightLimit(w float64) Config {
	c.WeightLimit = w
	return c
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.PhgMinimumEnergy < 0 {
		return fmt.Errorf("tracker: minimum energy must be non-negative, got %f", c.PhgMinimumEnergy)
	}
	if c.WeightLimit < 0 {
		return fmt.Errorf("tracker: weight limit must be non-negative, got %f", c.WeightLimit)
	}
	if c.MaxStarts <= 0 || c.MaxDetectorInteractions <= 0 {
		return fmt.Errorf("tracker: array capacities must be positive")
	}
	return nil
}
