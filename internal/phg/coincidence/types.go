package coincidence

import "github.com/simset-go/phgsim/internal/phg/decay"

// DetectedPhoton is the coincidence engine's view of one detected
// photon: just enough to classify and, for randoms, re-time it.
type DetectedPhoton struct {
	IsBlue            bool
	TimeSinceCreation float64 // seconds after the owning decay's Time
	Energy            float64
	Weight            float64
}

// DetectionTime returns the photon's absolute detection time given its
// owning decay.
func (p DetectedPhoton) DetectionTime(d decay.Decay) float64 {
	return d.Time + p.TimeSinceCreation
}

// SingleEvent is one decay as read from the time-sorted detected-singles
// stream, with every photon of it that reached the detector.
type SingleEvent struct {
	Decay   decay.Decay
	Photons []DetectedPhoton
}

// latestDetectionTime returns the maximum photon detection time in e, or
// e.Decay.Time if it has no detected photons.
func (e SingleEvent) latestDetectionTime() float64 {
	t := e.Decay.Time
	for _, p := range e.Photons {
		if dt := p.DetectionTime(e.Decay); dt > t {
			t = dt
		}
	}
	return t
}

// WindowGroup is the open time-window group being accumulated (spec.md
// §3, §4.6).
type WindowGroup struct {
	Events            []SingleEvent
	LastDetectionTime float64
}

// PhotonCount returns the total number of detected photons across every
// event in the group.
func (g WindowGroup) PhotonCount() int {
	n := 0
	for _, e := range g.Events {
		n += len(e.Photons)
	}
	return n
}
