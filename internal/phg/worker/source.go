package worker

import (
	"context"
	"sync"

	"github.com/simset-go/phgsim/internal/phg/decay"
)

// SynchronizedSource wraps an ActivitySource that is not already safe
// for concurrent use behind a mutex, so every worker goroutine can share
// one source instance without each needing its own locking. A source
// that is already concurrency-safe (e.g. one backed by an atomic
// decay-index counter) can be handed to the pool directly instead.
type SynchronizedSource struct {
	mu     sync.Mutex
	source decay.ActivitySource
}

// Synchronize wraps source with a mutex.
func Synchronize(source decay.ActivitySource) *SynchronizedSource {
	return &SynchronizedSource{source: source}
}

// Next locks, delegates to the wrapped source, and unlocks.
func (s *SynchronizedSource) Next(ctx context.Context) (decay.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.Next(ctx)
}
