package sim

import (
	"fmt"

	"github.com/simset-go/phgsim/internal/phg/collimator"
	"github.com/simset-go/phgsim/internal/phg/detector"
	"github.com/simset-go/phgsim/internal/phg/tracker"
)

// RunConfig aggregates every sub-package's Config plus the top-level
// parameters a phgsim invocation needs, following the teacher's
// Default*Config/With*/Validate builder pattern applied one level up.
type RunConfig struct {
	EventsToSimulate  int
	RandomSeed        int64
	ScanLengthSeconds float64
	OutputPath        string

	PositronRangeAdjust   bool
	NonCollinearityAdjust bool
	PolarizationEnabled   bool
	DecayMaxResamples     int

	// DetectorCrystalMaterial is the material table index of the
	// detector crystal (e.g. NaI, BGO, LSO), used to force an
	// interaction depth/efficiency for every photon that reaches the
	// detector face.
	DetectorCrystalMaterial  int
	DetectorCrystalThickness float64 // cm

	Tracker    tracker.Config
	Collimator collimator.Config
	Detector   detector.Config
}

// DefaultRunConfig returns a PET-scale default: forced non-absorption and
// coherent scatter on, no collimator physics overrides, a 1 cm LSO-scale
// crystal, and the decay generator's default resample bound.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		RandomSeed:               1,
		DecayMaxResamples:        0, // decay.NewGenerator substitutes DefaultMaxResamples
		DetectorCrystalThickness: 1.0,
		Tracker:                  tracker.DefaultConfig(),
		Collimator:               collimator.DefaultConfig(),
		Detector:                 detector.DefaultConfig(),
	}
}

// WithEventsToSimulate sets how many decays the run should produce.
func (c RunConfig) WithEventsToSimulate(n int) RunConfig {
	c.EventsToSimulate = n
	return c
}

// WithRandomSeed sets the run-level seed every worker sub-stream is
// deterministically derived from.
func (c RunConfig) WithRandomSeed(seed int64) RunConfig {
	c.RandomSeed = seed
	return c
}

// WithScanLengthSeconds sets the simulated acquisition duration.
func (c RunConfig) WithScanLengthSeconds(s float64) RunConfig {
	c.ScanLengthSeconds = s
	return c
}

// WithOutputPath sets the history file the run writes to.
func (c RunConfig) WithOutputPath(path string) RunConfig {
	c.OutputPath = path
	return c
}

// WithPositronRangeAdjust enables or disables positron-range blurring.
func (c RunConfig) WithPositronRangeAdjust(enabled bool) RunConfig {
	c.PositronRangeAdjust = enabled
	return c
}

// WithNonCollinearityAdjust enables or disables annihilation
// non-collinearity.
func (c RunConfig) WithNonCollinearityAdjust(enabled bool) RunConfig {
	c.NonCollinearityAdjust = enabled
	return c
}

// WithPolarization enables or disables polarization-weighted Compton
// scattering.
func (c RunConfig) WithPolarization(enabled bool) RunConfig {
	c.PolarizationEnabled = enabled
	return c
}

// WithDecayMaxResamples bounds the positron-range resample loop; 0 keeps
// decay.DefaultMaxResamples.
func (c RunConfig) WithDecayMaxResamples(n int) RunConfig {
	c.DecayMaxResamples = n
	return c
}

// WithDetectorCrystal sets the crystal material index and thickness (cm)
// used to force an interaction for every photon reaching the detector.
func (c RunConfig) WithDetectorCrystal(materialIndex int, thicknessCM float64) RunConfig {
	c.DetectorCrystalMaterial = materialIndex
	c.DetectorCrystalThickness = thicknessCM
	return c
}

// WithTrackerConfig installs an object-tracker configuration.
func (c RunConfig) WithTrackerConfig(cfg tracker.Config) RunConfig {
	c.Tracker = cfg
	return c
}

// WithCollimatorConfig installs a collimator configuration.
func (c RunConfig) WithCollimatorConfig(cfg collimator.Config) RunConfig {
	c.Collimator = cfg
	return c
}

// WithDetectorConfig installs a detector configuration.
func (c RunConfig) WithDetectorConfig(cfg detector.Config) RunConfig {
	c.Detector = cfg
	return c
}

// Validate checks the run configuration, including every nested
// sub-package Config, for internal consistency.
func (c RunConfig) Validate() error {
	if c.EventsToSimulate <= 0 {
		return fmt.Errorf("sim: events to simulate must be positive, got %d", c.EventsToSimulate)
	}
	if c.ScanLengthSeconds <= 0 {
		return fmt.Errorf("sim: scan length must be positive, got %f", c.ScanLengthSeconds)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("sim: output path must not be empty")
	}
	if c.DetectorCrystalThickness <= 0 {
		return fmt.Errorf("sim: detector crystal thickness must be positive, got %f", c.DetectorCrystalThickness)
	}
	if err := c.Tracker.Validate(); err != nil {
		return err
	}
	if err := c.Collimator.Validate(); err != nil {
		return err
	}
	if err := c.Detector.Validate(); err != nil {
		return err
	}
	return nil
}
