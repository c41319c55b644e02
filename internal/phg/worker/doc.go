// Package worker fans a run's decays out across a goroutine pool,
// matching spec.md §5's parallel-decay model: each worker owns a
// private prng.Source sub-stream and decay.Generator split from the
// run's sim.Context, and batches its detected events into a private
// buffer flushed to the shared history.Writer under a mutex.
package worker
