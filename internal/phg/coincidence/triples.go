package coincidence

// TriplesPolicy decides what happens to a window classified as triples
// (spec.md §4.6: "policy is pluggable via user hook"). It returns the
// events to write as coincidences (possibly none) and the number of
// decays to count as lost-to-triples.
type TriplesPolicy interface {
	HandleTriples(events []SingleEvent) (written []SingleEvent, lost int)
}

// DropAllPolicy is the spec's stated default: every decay in a triples
// window is counted lost and nothing is written.
type DropAllPolicy struct{}

func (DropAllPolicy) HandleTriples(events []SingleEvent) ([]SingleEvent, int) {
	return nil, len(events)
}

// AcceptAllPairsPolicy is an example alternative policy, grounded on
// SimSET's addrandUsr_procTriples.c sample: it synthesizes a random
// coincidence (spec.md §4.6's 2-decay random construction) from every
// distinct pair of decays in the window, writing all of them rather than
// dropping the window outright. No photon-detection-time reverification
// is performed here since a triples window has no single well-defined
// window boundary per pair; every constructed pair is written.
type AcceptAllPairsPolicy struct{}

func (AcceptAllPairsPolicy) HandleTriples(events []SingleEvent) ([]SingleEvent, int) {
	var written []SingleEvent
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			if len(events[i].Photons) == 0 || len(events[j].Photons) == 0 {
				continue
			}
			written = append(written, buildRandom(events[i], events[j]))
		}
	}
	return written, len(events)
}
