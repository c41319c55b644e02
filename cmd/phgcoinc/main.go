// Command phgcoinc classifies a time-sorted stream of detected singles
// into true, random and rejected coincidences, writing accepted events
// to a new history file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/simset-go/phgsim/internal/phg/coincidence"
	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/sim"
	"github.com/simset-go/phgsim/internal/version"
)

func main() {
	var (
		inPath      string
		outPath     string
		windowNS    float64
		testOnly    bool
		deleteInput bool
		versionFlag bool
	)

	flag.BoolVar(&versionFlag, "version", false, "print version and exit")
	flag.StringVar(&inPath, "i", "", "time-sorted input history file")
	flag.StringVar(&outPath, "o", "", "output history file for accepted coincidences")
	flag.Float64Var(&windowNS, "window-ns", 10, "coincidence timing window, nanoseconds")
	flag.BoolVar(&testOnly, "t", false, "classify and report counters only; write nothing")
	flag.BoolVar(&deleteInput, "r", false, "delete the input file after processing succeeds")
	flag.Parse()

	if versionFlag {
		fmt.Printf("phgcoinc v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		os.Exit(0)
	}

	if inPath == "" {
		log.Fatalf("phgcoinc: -i input path is required")
	}
	if !testOnly && outPath == "" {
		log.Fatalf("phgcoinc: -o output path is required unless -t is given")
	}

	in, err := os.Open(inPath)
	if err != nil {
		log.Fatalf("phgcoinc: opening %s: %v", inPath, err)
	}
	defer in.Close()

	rd, err := history.Open(in)
	if err != nil {
		log.Printf("phgcoinc: %v", err)
		os.Exit(sim.ExitCode(err))
	}

	if err := preconditionsFromHeader(rd.Header).Check(); err != nil {
		log.Printf("phgcoinc: %v", err)
		os.Exit(sim.ExitCode(err))
	}

	cfg := coincidence.DefaultConfig().WithWindowNS(windowNS)
	engine := coincidence.New(cfg)

	src := &historySource{rd: rd}

	var sink coincidence.Sink
	var out *os.File
	var writer *history.Writer
	if !testOnly {
		out, err = os.Create(outPath)
		if err != nil {
			log.Fatalf("phgcoinc: creating %s: %v", outPath, err)
		}
		defer out.Close()

		header := rd.Header
		header.IsRandomsAdded = true
		writer, err = history.Create(out, header)
		if err != nil {
			log.Fatalf("phgcoinc: writing output header: %v", err)
		}
		sink = &historySink{w: writer}
	} else {
		sink = &discardSink{}
	}

	counters, hist, err := engine.Run(src, sink)
	if err != nil {
		log.Printf("phgcoinc: %v", err)
		os.Exit(sim.ExitCode(err))
	}

	if writer != nil {
		if err := writer.Flush(); err != nil {
			log.Printf("phgcoinc: %v", err)
			os.Exit(sim.ExitCode(err))
		}
	}

	fmt.Printf("phgcoinc: read %d decays across %d windows, wrote %d (unchanged %d, random %d), dropped %d, rejected %d, lost-to-window %d, lost-to-triples %d\n",
		counters.DecaysRead, hist.TotalWindows(), counters.Written, counters.Unchanged, counters.Random,
		counters.Dropped, counters.RejectedByCallback, counters.LostToCorrectWindow,
		counters.LostToTriples)

	if deleteInput {
		in.Close()
		if err := os.Remove(inPath); err != nil {
			log.Fatalf("phgcoinc: removing input after processing: %v", err)
		}
	}
}

// preconditionsFromHeader reads the subset of h the coincidence engine
// requires (spec.md §4.6) into a coincidence.Preconditions value.
func preconditionsFromHeader(h history.Header) coincidence.Preconditions {
	return coincidence.Preconditions{
		IsTimeSorted:             h.IsTimeSorted,
		IsPETCoincPlusSingles:    h.Modes.PETCoincidencesPlusSingles,
		ForcedDetection:          h.Modes.ForcedDetection,
		Stratification:           h.Modes.Stratification,
		ForcedNonAbsorption:      h.Modes.NonAbsorption,
		ForcedInteraction:        h.Detector.ForcedInteractionEnabled,
		EventsToSimulateComputed: true,
	}
}

// historySource groups a history.Reader's flat decay/photon stream into
// coincidence.SingleEvents, one per decay record and the photon records
// that follow it up to (not including) the next decay record.
type historySource struct {
	rd      *history.Reader
	pending *history.DecayRecord
}

func (s *historySource) Next() (coincidence.SingleEvent, bool, error) {
	if s.pending == nil {
		d, ok, err := s.nextDecay()
		if err != nil || !ok {
			return coincidence.SingleEvent{}, ok, err
		}
		s.pending = d
	}

	evt := coincidence.SingleEvent{Decay: decay.Decay{
		Position:    s.pending.Position,
		StartWeight: s.pending.StartWeight,
		Time:        s.pending.Time,
		Type:        s.pending.Type,
	}}
	s.pending = nil

	for {
		rec, err := s.rd.Next()
		if errors.Is(err, io.EOF) {
			return evt, true, nil
		}
		if err != nil {
			return coincidence.SingleEvent{}, false, err
		}
		if rec.Photon != nil {
			evt.Photons = append(evt.Photons, coincidence.DetectedPhoton{
				IsBlue:            rec.Photon.IsBlue,
				TimeSinceCreation: rec.Photon.TimeSinceCreation,
				Energy:            rec.Photon.Energy,
				Weight:            rec.Photon.Weight,
			})
			continue
		}
		s.pending = rec.Decay
		return evt, true, nil
	}
}

func (s *historySource) nextDecay() (*history.DecayRecord, bool, error) {
	for {
		rec, err := s.rd.Next()
		if errors.Is(err, io.EOF) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if rec.Decay != nil {
			return rec.Decay, true, nil
		}
		// A photon with no preceding pending decay can't happen from a
		// well-formed history file; skip defensively rather than fail.
	}
}

// historySink writes an accepted coincidence back out as a decay record
// followed by its photon records. The photon's detector position,
// direction and crystal number are not carried by coincidence.
// DetectedPhoton's minimal view, so they are written as zero; a
// consumer needing full detector geometry on coincidence output would
// need a richer Source/Sink pair than this CLI builds.
type historySink struct {
	w *history.Writer
}

func (s *historySink) Write(evt coincidence.SingleEvent) error {
	if err := s.w.WriteEvent(history.EventRecord{Decay: &history.DecayRecord{
		Position:    evt.Decay.Position,
		StartWeight: evt.Decay.StartWeight,
		Time:        evt.Decay.Time,
		Type:        evt.Decay.Type,
	}}); err != nil {
		return err
	}
	for _, ph := range evt.Photons {
		if err := s.w.WriteEvent(history.EventRecord{Photon: &history.PhotonRecord{
			IsBlue:            ph.IsBlue,
			Weight:            ph.Weight,
			Energy:            ph.Energy,
			TimeSinceCreation: ph.TimeSinceCreation,
		}}); err != nil {
			return err
		}
	}
	return nil
}

// discardSink is used under -t: classification runs and counters are
// collected, but nothing is written.
type discardSink struct{}

func (discardSink) Write(coincidence.SingleEvent) error { return nil }
