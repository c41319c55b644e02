package histsort

import (
	"errors"
	"fmt"
	"io"

	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// decayGroup is one decay record and every photon record belonging to
// it, the indivisible unit the sort reorders.
type decayGroup struct {
	Decay   history.DecayRecord
	Photons []history.PhotonRecord
}

// time is the sort key (spec.md §4.7: "sorts ... by decay_time").
func (g decayGroup) time() float64 { return g.Decay.Time }

// encodedSize estimates the on-disk footprint of the group, used to
// account against the Phase I memory budget.
func (g decayGroup) encodedSize() int64 {
	n := int64(history.RecordSize(true))
	for range g.Photons {
		n += int64(history.RecordSize(false))
	}
	return n
}

func (g decayGroup) writeTo(w *history.Writer) error {
	d := g.Decay
	if err := w.WriteEvent(history.EventRecord{Decay: &d}); err != nil {
		return err
	}
	for i := range g.Photons {
		p := g.Photons[i]
		if err := w.WriteEvent(history.EventRecord{Photon: &p}); err != nil {
			return err
		}
	}
	return nil
}

// groupSource reads decayGroups out of an underlying event stream,
// pairing each decay with the photon records that trail it.
type groupSource struct {
	rd      *history.Reader
	pending *history.EventRecord // a decay event read ahead of time
	done    bool
}

func newGroupSource(rd *history.Reader) *groupSource {
	return &groupSource{rd: rd}
}

// next returns the next decayGroup, or io.EOF once the stream is
// exhausted.
func (s *groupSource) next() (decayGroup, error) {
	if s.done {
		return decayGroup{}, io.EOF
	}

	var head history.EventRecord
	if s.pending != nil {
		head = *s.pending
		s.pending = nil
	} else {
		evt, err := s.rd.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.done = true
				return decayGroup{}, io.EOF
			}
			return decayGroup{}, err
		}
		head = evt
	}

	if head.Decay == nil {
		return decayGroup{}, fmt.Errorf("histsort: expected a decay record to start a group, got a bare photon: %w", simerr.ErrFileFormatMismatch)
	}
	g := decayGroup{Decay: *head.Decay}

	for {
		evt, err := s.rd.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.done = true
				return g, nil
			}
			return decayGroup{}, err
		}
		if evt.Decay != nil {
			s.pending = &evt
			return g, nil
		}
		g.Photons = append(g.Photons, *evt.Photon)
	}
}
