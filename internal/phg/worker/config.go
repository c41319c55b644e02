package worker

import (
	"fmt"
	"runtime"
)

// Config controls the worker pool's parallelism and write batching.
type Config struct {
	NumWorkers       int
	EventsToSimulate int
	WriteBatchSize   int
}

// DefaultConfig returns one worker per logical CPU and a 64-decay write
// batch.
func DefaultConfig() Config {
	return Config{
		NumWorkers:     runtime.GOMAXPROCS(0),
		WriteBatchSize: 64,
	}
}

// WithNumWorkers sets how many goroutines process decays concurrently.
func (c Config) WithNumWorkers(n int) Config {
	c.NumWorkers = n
	return c
}

// WithEventsToSimulate sets the total decay count the pool stops at.
func (c Config) WithEventsToSimulate(n int) Config {
	c.EventsToSimulate = n
	return c
}

// WithWriteBatchSize sets how many decays a worker accumulates in its
// private buffer before flushing to the shared history.Writer.
func (c Config) WithWriteBatchSize(n int) Config {
	c.WriteBatchSize = n
	return c
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.NumWorkers <= 0 {
		return fmt.Errorf("worker: NumWorkers must be positive, got %d", c.NumWorkers)
	}
	if c.EventsToSimulate <= 0 {
		return fmt.Errorf("worker: EventsToSimulate must be positive, got %d", c.EventsToSimulate)
	}
	if c.WriteBatchSize <= 0 {
		return fmt.Errorf("worker: WriteBatchSize must be positive, got %d", c.WriteBatchSize)
	}
	return nil
}
