package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/prng"
	"github.com/simset-go/phgsim/internal/phg/sim"
)

// Stats tallies one pool run's outcome.
type Stats struct {
	DecaysWritten  int64
	PhotonsWritten int64
}

// Pool fans Config.EventsToSimulate decays out across Config.NumWorkers
// goroutines, sharing one sim.Context and history.Writer.
type Pool struct {
	simCtx *sim.Context
	cfg    Config
	source decay.ActivitySource
	writer *history.Writer

	writerMu sync.Mutex
}

// New builds a Pool. source must be safe for concurrent Next calls from
// every worker goroutine; wrap it with Synchronize if it is not.
func New(simCtx *sim.Context, cfg Config, source decay.ActivitySource, writer *history.Writer) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if simCtx == nil {
		return nil, fmt.Errorf("worker: sim.Context must not be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("worker: ActivitySource must not be nil")
	}
	if writer == nil {
		return nil, fmt.Errorf("worker: history.Writer must not be nil")
	}
	return &Pool{simCtx: simCtx, cfg: cfg, source: source, writer: writer}, nil
}

// Run drives every worker until EventsToSimulate decays have been
// claimed, the context is cancelled, or a worker hits a fatal error;
// whichever happens first stops every other worker via a derived
// context. It returns the Stats accumulated before the stop and the
// first fatal error observed, if any.
func (p *Pool) Run(ctx context.Context) (Stats, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootSrc := p.simCtx.NewRootSource()

	var stats Stats
	remaining := int64(p.cfg.EventsToSimulate)

	var errOnce sync.Once
	var firstErr error
	recordErr := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.NumWorkers; i++ {
		workerSrc := rootSrc.Split()
		gen := p.simCtx.NewGenerator(workerSrc)
		wg.Add(1)
		go func(src prng.Source, gen *decay.Generator) {
			defer wg.Done()
			p.runWorker(runCtx, src, gen, &remaining, &stats, recordErr)
		}(workerSrc, gen)
	}
	wg.Wait()

	if firstErr != nil {
		return stats, firstErr
	}
	if err := p.writer.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// runWorker repeatedly claims one decay slot and processes it, batching
// detected events into a private buffer flushed to the shared writer
// every WriteBatchSize decays (and once more before the worker exits),
// per spec.md §5.
func (p *Pool) runWorker(ctx context.Context, src prng.Source, gen *decay.Generator, remaining *int64, stats *Stats, recordErr func(error)) {
	buf := make([]history.EventRecord, 0, p.cfg.WriteBatchSize*4)
	decaysInBatch := 0

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		p.writerMu.Lock()
		defer p.writerMu.Unlock()
		for _, evt := range buf {
			if err := p.writer.WriteEvent(evt); err != nil {
				return err
			}
		}
		buf = buf[:0]
		decaysInBatch = 0
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			if err := flush(); err != nil {
				recordErr(err)
			}
			return
		default:
		}

		if atomic.AddInt64(remaining, -1) < 0 {
			if err := flush(); err != nil {
				recordErr(err)
			}
			return
		}

		result, err := p.simCtx.ProcessDecay(ctx, gen, src, p.source)
		if err != nil {
			_ = flush()
			recordErr(fmt.Errorf("worker: processing decay: %w", err))
			return
		}

		buf = append(buf, history.EventRecord{Decay: decayRecordPtr(result.Decay)})
		for _, ph := range result.Photons {
			buf = append(buf, history.EventRecord{Photon: photonRecordPtr(ph)})
		}
		atomic.AddInt64(&stats.DecaysWritten, 1)
		atomic.AddInt64(&stats.PhotonsWritten, int64(len(result.Photons)))

		decaysInBatch++
		if decaysInBatch >= p.cfg.WriteBatchSize {
			if err := flush(); err != nil {
				recordErr(err)
				return
			}
		}
	}
}
