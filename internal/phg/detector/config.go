package detector

import "fmt"

// Config controls the detector's blur and forced-interaction behavior.
type Config struct {
	// EnergyResolutionPercentage is the energy resolution quoted at
	// ReferenceEnergy, e.g. 10 for a 10% FWHM/E detector. Negative
	// disables energy blur entirely.
	EnergyResolutionPercentage float64
	ReferenceEnergy            float64 // keV
	PhotonTimeFWHM             float64 // seconds; 0 disables time blur
	ForcedInteractionEnabled   bool
}

// DefaultConfig returns a detector with a typical PET-scale 15% FWHM at
// 511 keV and a 3 ns timing FWHM.
func DefaultConfig() Config {
	return Config{
		EnergyResolutionPercentage: 15,
		ReferenceEnergy:            511,
		PhotonTimeFWHM:             3e-9,
		ForcedInteractionEnabled:   false,
	}
}

// WithEnergyResolution sets the quoted resolution (%) at refEnergy (keV).
// A negative pct disables energy blur.
func (c Config) WithEnergyResolution(pct, refEnergy float64) Config {
	c.EnergyResolutionPercentage = pct
	c.ReferenceEnergy = refEnergy
	return c
}

// WithTimeFWHM sets the timing resolution FWHM in seconds; 0 disables
// time blur.
func (c Config) WithTimeFWHM(fwhm float64) Config {
	c.PhotonTimeFWHM = fwhm
	return c
}

// WithForcedInteraction enables or disables forced crystal interaction.
func (c Config) WithForcedInteraction(enabled bool) Config {
	c.ForcedInteractionEnabled = enabled
	return c
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.EnergyResolutionPercentage >= 0 && c.ReferenceEnergy <= 0 {
		return fmt.Errorf("detector: reference energy must be positive when energy blur is enabled, got %f", c.ReferenceEnergy)
	}
	if c.PhotonTimeFWHM < 0 {
		return fmt.Errorf("detector: time FWHM must be non-negative, got %f", c.PhotonTimeFWHM)
	}
	return nil
}
