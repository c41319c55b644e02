package histsort

import (
	"container/heap"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// heapEntry is one buffered decayGroup tagged with the run it belongs
// to. Replacement selection keeps the current run's entries and the
// next run's entries in the same tree, ordered so the current run
// always drains first (spec.md §4.7).
type heapEntry struct {
	group      decayGroup
	generation int
}

type runHeap []*heapEntry

func (h runHeap) Len() int { return len(h) }
func (h runHeap) Less(i, j int) bool {
	if h[i].generation != h[j].generation {
		return h[i].generation < h[j].generation
	}
	return h[i].group.time() < h[j].group.time()
}
func (h runHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *runHeap) Push(x interface{}) { *h = append(*h, x.(*heapEntry)) }
func (h *runHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// RunFileOpener returns a fresh writable file for the run-th Phase I
// run (0-indexed).
type RunFileOpener func(run int) (io.WriteCloser, error)

// Sorter performs Phase I run generation: replacement selection bounded
// by cfg's buffer, emitting numbered increasing-time run files.
type Sorter struct {
	cfg Config
}

// NewSorter builds a Sorter.
func NewSorter(cfg Config) *Sorter {
	return &Sorter{cfg: cfg}
}

// Run drains src, writing one or more sorted runs via openRun, and
// returns how many runs were produced. header is copied bit-exact into
// every run file (spec.md §4.7).
func (s *Sorter) Run(src *groupSource, header history.Header, openRun RunFileOpener) (int, error) {
	budget := s.cfg.mainBufferBytes()

	var h runHeap
	var filled int64
	for filled < budget {
		g, err := src.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("histsort: reading initial buffer: %w", err)
		}
		if g.encodedSize() > s.cfg.BufferBytes {
			return 0, fmt.Errorf("histsort: a single decay group of %d bytes exceeds the %d-byte sort buffer: %w", g.encodedSize(), s.cfg.BufferBytes, simerr.ErrResourceExhausted)
		}
		heap.Push(&h, &heapEntry{group: g})
		filled += g.encodedSize()
	}

	if h.Len() == 0 {
		return 0, nil
	}

	runIndex := 0
	currentGen := 0
	lastEmitted := math.Inf(-1)
	eofReached := false

	openWriter := func(run int) (*history.Writer, io.Closer, error) {
		f, err := openRun(run)
		if err != nil {
			return nil, nil, fmt.Errorf("histsort: opening run %d: %w", run, simerr.ErrIOError)
		}
		w, err := history.Create(f, header)
		if err != nil {
			return nil, nil, err
		}
		return w, f, nil
	}

	w, closer, err := openWriter(runIndex)
	if err != nil {
		return 0, err
	}
	runIndex++

	closeRun := func() error {
		if err := w.Flush(); err != nil {
			return err
		}
		if err := closer.Close(); err != nil {
			return fmt.Errorf("histsort: closing run file: %w", simerr.ErrIOError)
		}
		return nil
	}

	for h.Len() > 0 {
		top := heap.Pop(&h).(*heapEntry)

		if top.generation != currentGen {
			if err := closeRun(); err != nil {
				return 0, err
			}
			w, closer, err = openWriter(runIndex)
			if err != nil {
				return 0, err
			}
			runIndex++
			currentGen = top.generation
			lastEmitted = math.Inf(-1)
		}

		if err := top.group.writeTo(w); err != nil {
			return 0, err
		}
		lastEmitted = top.group.time()

		if !eofReached {
			g, err := src.next()
			if errors.Is(err, io.EOF) {
				eofReached = true
			} else if err != nil {
				return 0, fmt.Errorf("histsort: reading next decay group: %w", err)
			} else {
				if g.encodedSize() > s.cfg.BufferBytes {
					return 0, fmt.Errorf("histsort: a single decay group of %d bytes exceeds the %d-byte sort buffer: %w", g.encodedSize(), s.cfg.BufferBytes, simerr.ErrResourceExhausted)
				}
				gen := currentGen
				if g.time() < lastEmitted {
					gen = currentGen + 1
				}
				heap.Push(&h, &heapEntry{group: g, generation: gen})
			}
		}
	}

	if err := closeRun(); err != nil {
		return 0, err
	}
	return runIndex, nil
}
