package histsort

import (
	"container/heap"
	"errors"
	"fmt"
	"io"

	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

type mergeEntry struct {
	group decayGroup
	src   int
}

type mergeHeap []mergeEntry

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) Less(i, j int) bool  { return h[i].group.time() < h[j].group.time() }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(mergeEntry)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Merger performs Phase II: a k-way merge of already-sorted runs
// (spec.md §4.7).
type Merger struct {
	cfg Config
}

// NewMerger builds a Merger.
func NewMerger(cfg Config) *Merger {
	return &Merger{cfg: cfg}
}

// MergeOnce merges every run in runs (each already internally sorted
// by decay_time) into out, writing header as out's header. It returns
// how many decay groups were written. len(runs) must not exceed
// cfg.MaxMergeWidth.
func (m *Merger) MergeOnce(runs []io.Reader, header history.Header, out io.Writer) (int64, error) {
	if len(runs) > m.cfg.MaxMergeWidth {
		return 0, fmt.Errorf("histsort: merging %d runs exceeds the %d-way fan-in limit", len(runs), m.cfg.MaxMergeWidth)
	}

	sources := make([]*groupSource, len(runs))
	for i, r := range runs {
		rd, err := history.Open(r)
		if err != nil {
			return 0, fmt.Errorf("histsort: opening run %d for merge: %w", i, err)
		}
		sources[i] = newGroupSource(rd)
	}

	w, err := history.Create(out, header)
	if err != nil {
		return 0, err
	}

	var h mergeHeap
	for i, src := range sources {
		g, err := src.next()
		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("histsort: reading run %d: %w", i, err)
		}
		heap.Push(&h, mergeEntry{group: g, src: i})
	}

	var written int64
	for h.Len() > 0 {
		top := heap.Pop(&h).(mergeEntry)
		if err := top.group.writeTo(w); err != nil {
			return written, err
		}
		written++

		g, err := sources[top.src].next()
		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("histsort: reading run %d: %w", top.src, err)
		}
		heap.Push(&h, mergeEntry{group: g, src: top.src})
	}

	if err := w.Flush(); err != nil {
		return written, fmt.Errorf("histsort: flushing merged output: %w", simerr.ErrIOError)
	}
	return written, nil
}
