package histsort

import (
	"fmt"

	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// DefaultMaxMergeWidth is the number of phase-I run files merged
// together at once (spec.md §4.7: "open up to 33 phase-I files
// concurrently").
const DefaultMaxMergeWidth = 33

// DefaultSpilloverFraction is the trailing fraction of the Phase I
// buffer held back from the initial fill target: the fill stops once the
// remaining (1 - fraction) of BufferBytes is used, and the group that
// crosses that mark spills into the reserve. Decay groups are not sorted
// into per-photon-count slot classes.
const DefaultSpilloverFraction = 0.03

// minBufferBytes is the smallest buffer that can hold even one decay
// (spec.md §5: "minimum ≈ 200 kB"); below it Validate rejects the
// configuration as ErrResourceExhausted.
const minBufferBytes = 200_000

// Config controls the sort engine's memory budget and merge fan-in.
type Config struct {
	BufferBytes       int64
	SpilloverFraction float64
	MaxMergeWidth     int
	DeleteInputAfter  bool // CLI -r
}

// DefaultConfig returns a 64 MB buffer with a 3% spillover reserve and
// 33-way merge fan-in.
func DefaultConfig() Config {
	return Config{
		BufferBytes:       64 << 20,
		SpilloverFraction: DefaultSpilloverFraction,
		MaxMergeWidth:     DefaultMaxMergeWidth,
	}
}

// WithBufferBytes sets the Phase I memory budget in bytes.
func (c Config) WithBufferBytes(n int64) Config {
	c.BufferBytes = n
	return c
}

// WithSpilloverFraction sets the trailing reserve fraction.
func (c Config) WithSpilloverFraction(f float64) Config {
	c.SpilloverFraction = f
	return c
}

// WithMaxMergeWidth sets how many runs are merged together at once.
func (c Config) WithMaxMergeWidth(n int) Config {
	c.MaxMergeWidth = n
	return c
}

// WithDeleteInputAfter sets whether the input file is removed once
// sorting completes successfully (CLI flag `-r`).
func (c Config) WithDeleteInputAfter(del bool) Config {
	c.DeleteInputAfter = del
	return c
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.BufferBytes < minBufferBytes {
		return fmt.Errorf("histsort: buffer of %d bytes is below the %d-byte minimum: %w", c.BufferBytes, minBufferBytes, simerr.ErrResourceExhausted)
	}
	if c.SpilloverFraction < 0 || c.SpilloverFraction >= 1 {
		return fmt.Errorf("histsort: spillover fraction %f must be in [0, 1)", c.SpilloverFraction)
	}
	if c.MaxMergeWidth < 2 {
		return fmt.Errorf("histsort: max merge width %d must be at least 2", c.MaxMergeWidth)
	}
	return nil
}

// mainBufferBytes is the portion of BufferBytes available for the
// primary run-building buffer, after setting aside the spillover
// reserve.
func (c Config) mainBufferBytes() int64 {
	return c.BufferBytes - int64(float64(c.BufferBytes)*c.SpilloverFraction)
}
