package coincidence

import "fmt"

// Config controls the coincidence engine's timing window and pluggable
// behavior.
type Config struct {
	WindowNS  float64 // CoincidenceTimingWindowNS
	Callbacks Callbacks
	Triples   TriplesPolicy
}

// DefaultConfig returns a 10 ns window with no-op callbacks and the
// drop-all triples policy (spec.md §9's stated default).
func DefaultConfig() Config {
	return Config{WindowNS: 10, Callbacks: NoopCallbacks{}, Triples: DropAllPolicy{}}
}

// WithWindowNS sets the coincidence timing window in nanoseconds.
func (c Config) WithWindowNS(ns float64) Config {
	c.WindowNS = ns
	return c
}

// WithCallbacks installs a pluggable callback set.
func (c Config) WithCallbacks(cb Callbacks) Config {
	c.Callbacks = cb
	return c
}

// WithTriplesPolicy installs a pluggable triples policy.
func (c Config) WithTriplesPolicy(p TriplesPolicy) Config {
	c.Triples = p
	return c
}

// windowSeconds converts WindowNS to seconds, the unit decay and photon
// times are expressed in throughout this package.
func (c Config) windowSeconds() float64 {
	return c.WindowNS * 1e-9
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.WindowNS < 0 {
		return fmt.Errorf("coincidence: window must be non-negative, got %f ns", c.WindowNS)
	}
	if c.Callbacks == nil {
		return fmt.Errorf("coincidence: callbacks must not be nil")
	}
	if c.Triples == nil {
		return fmt.Errorf("coincidence: triples policy must not be nil")
	}
	return nil
}
