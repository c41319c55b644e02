package coincidence

import (
	"fmt"
	"math"

	"github.com/simset-go/phgsim/internal/phg/decay"
)

// Counters tallies every window outcome (spec.md §4.6).
type Counters struct {
	Written             int
	Unchanged           int
	Random              int
	Dropped             int
	RejectedByCallback  int
	LostToCorrectWindow int
	LostToTriples       int
	DecaysRead          int
}

// Source is the external history-stream collaborator: a time-sorted
// sequence of detected singles. ok is false once the stream is
// exhausted.
type Source interface {
	Next() (event SingleEvent, ok bool, err error)
}

// Sink is the external collaborator that persists an accepted
// coincidence (unchanged true coincidence or synthetic random) to the
// output history stream.
type Sink interface {
	Write(SingleEvent) error
}

// Engine runs the time-window coincidence classification loop.
type Engine struct {
	cfg  Config
	hist Histogram
	ctr  Counters
}

// New builds an Engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Run drives src to exhaustion, classifying each closed window and
// writing accepted coincidences to sink. It returns the final counters
// and histogram.
func (e *Engine) Run(src Source, sink Sink) (Counters, Histogram, error) {
	e.cfg.Callbacks.Initialize()
	defer e.cfg.Callbacks.Terminate()

	var window *WindowGroup
	windowSec := e.cfg.windowSeconds()

	for {
		evt, ok, err := src.Next()
		if err != nil {
			return e.ctr, e.hist, fmt.Errorf("coincidence: reading next single: %w", err)
		}
		if !ok {
			break
		}
		e.ctr.DecaysRead++

		if window == nil {
			w := WindowGroup{Events: []SingleEvent{evt}, LastDetectionTime: evt.latestDetectionTime()}
			window = &w
			continue
		}

		if evt.Decay.Time > window.LastDetectionTime+windowSec {
			if err := e.classify(*window, sink); err != nil {
				return e.ctr, e.hist, err
			}
			w := WindowGroup{Events: []SingleEvent{evt}, LastDetectionTime: evt.latestDetectionTime()}
			window = &w
			continue
		}

		window.Events = append(window.Events, evt)
		if lt := evt.latestDetectionTime(); lt > window.LastDetectionTime {
			window.LastDetectionTime = lt
		}
	}

	if window != nil {
		if err := e.classify(*window, sink); err != nil {
			return e.ctr, e.hist, err
		}
	}

	return e.ctr, e.hist, nil
}

// classify applies the pre-window hook, records the histogram, and
// dispatches to the appropriate classification case (spec.md §4.6).
func (e *Engine) classify(window WindowGroup, sink Sink) error {
	e.cfg.Callbacks.PreWindowModify(&window)
	e.hist.Record(len(window.Events))

	switch {
	case len(window.Events) == 1:
		return e.classifySingle(window, sink)
	case len(window.Events) == 2 && window.PhotonCount() == 2:
		return e.classifyRandom(window, sink)
	default:
		written, lost := e.cfg.Triples.HandleTriples(window.Events)
		e.ctr.LostToTriples += lost
		for _, w := range written {
			if err := e.writeIfAccepted(w, window, sink); err != nil {
				return err
			}
		}
		return nil
	}
}

func (e *Engine) classifySingle(window WindowGroup, sink Sink) error {
	evt := window.Events[0]
	hasBlue, hasPink := false, false
	for _, p := range evt.Photons {
		if p.IsBlue {
			hasBlue = true
		} else {
			hasPink = true
		}
	}
	if !hasBlue || !hasPink {
		e.ctr.Dropped++
		return nil
	}

	if !e.cfg.Callbacks.Accept(window) {
		e.ctr.RejectedByCallback++
		return nil
	}
	if err := sink.Write(evt); err != nil {
		return fmt.Errorf("coincidence: writing true coincidence: %w", err)
	}
	e.ctr.Written++
	e.ctr.Unchanged++
	return nil
}

func (e *Engine) classifyRandom(window WindowGroup, sink Sink) error {
	synthetic, ok := buildRandomWithinWindow(window.Events[0], window.Events[1], e.cfg.windowSeconds())
	if !ok {
		e.ctr.LostToCorrectWindow++
		return nil
	}
	return e.writeIfAccepted(synthetic, window, sink)
}

func (e *Engine) writeIfAccepted(evt SingleEvent, window WindowGroup, sink Sink) error {
	if !e.cfg.Callbacks.Accept(window) {
		e.ctr.RejectedByCallback++
		return nil
	}
	if err := sink.Write(evt); err != nil {
		return fmt.Errorf("coincidence: writing coincidence: %w", err)
	}
	e.ctr.Written++
	e.ctr.Random++
	return nil
}

// buildRandom constructs a synthetic PETRandom decay from two decays
// with exactly one photon each, without reverifying the window (used by
// AcceptAllPairsPolicy, which has no single window boundary to check
// against).
func buildRandom(a, b SingleEvent) SingleEvent {
	evt, _ := buildRandomWithinWindow(a, b, math.Inf(1))
	return evt
}

// buildRandomWithinWindow implements spec.md §4.6's random-coincidence
// construction: the synthetic decay takes decay A's (meaningless)
// location, one photon is arbitrarily called blue and the other pink,
// and B's photon's time-since-creation is shifted by (B.Time - A.Time)
// so its absolute detection time is unchanged under the new decay time.
// ok is false if the two photons' detection times no longer lie within
// windowSec of each other once re-based onto the synthetic decay.
func buildRandomWithinWindow(a, b SingleEvent, windowSec float64) (SingleEvent, bool) {
	phA, phB := a.Photons[0], b.Photons[0]

	synthetic := decay.Decay{
		Position:    a.Decay.Position,
		StartWeight: a.Decay.StartWeight,
		Time:        a.Decay.Time,
		Type:        decay.TypePETRandom,
	}

	shift := b.Decay.Time - a.Decay.Time
	shiftedB := DetectedPhoton{
		IsBlue:            false,
		TimeSinceCreation: phB.TimeSinceCreation + shift,
		Energy:            phB.Energy,
		Weight:            phB.Weight,
	}
	blueA := DetectedPhoton{
		IsBlue:            true,
		TimeSinceCreation: phA.TimeSinceCreation,
		Energy:            phA.Energy,
		Weight:            phA.Weight,
	}

	detA := blueA.DetectionTime(synthetic)
	detB := shiftedB.DetectionTime(synthetic)

	ok := math.Abs(detB-detA) <= windowSec

	return SingleEvent{Decay: synthetic, Photons: []DetectedPhoton{blueA, shiftedB}}, ok
}
