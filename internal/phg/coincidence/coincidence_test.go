package coincidence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

type sliceSource struct {
	events []SingleEvent
	i      int
}

func (s *sliceSource) Next() (SingleEvent, bool, error) {
	if s.i >= len(s.events) {
		return SingleEvent{}, false, nil
	}
	e := s.events[s.i]
	s.i++
	return e, true, nil
}

type recordingSink struct {
	written []SingleEvent
}

func (r *recordingSink) Write(e SingleEvent) error {
	r.written = append(r.written, e)
	return nil
}

func singleDecay(t float64, photons ...DetectedPhoton) SingleEvent {
	return SingleEvent{Decay: decay.Decay{Time: t}, Photons: photons}
}

func blue(dt float64) DetectedPhoton  { return DetectedPhoton{IsBlue: true, TimeSinceCreation: dt} }
func pink(dt float64) DetectedPhoton  { return DetectedPhoton{IsBlue: false, TimeSinceCreation: dt} }

func TestTrueCoincidenceWrittenUnchanged(t *testing.T) {
	src := &sliceSource{events: []SingleEvent{
		singleDecay(0, blue(1e-9), pink(2e-9)),
	}}
	sink := &recordingSink{}

	eng := New(DefaultConfig().WithWindowNS(10))
	ctr, hist, err := eng.Run(src, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, ctr.Written)
	assert.Equal(t, 1, ctr.Unchanged)
	assert.Equal(t, 0, ctr.Dropped)
	require.Len(t, sink.written, 1)
	assert.Equal(t, 1, hist.TotalDecays())
}

func TestSingleDecayWithoutBluePinkPairIsDropped(t *testing.T) {
	src := &sliceSource{events: []SingleEvent{
		singleDecay(0, blue(1e-9), blue(2e-9)),
	}}
	sink := &recordingSink{}

	eng := New(DefaultConfig().WithWindowNS(10))
	ctr, _, err := eng.Run(src, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, ctr.Dropped)
	assert.Equal(t, 0, ctr.Written)
	assert.Empty(t, sink.written)
}

func TestTwoDecaysTwoPhotonsClassifiedAsRandom(t *testing.T) {
	src := &sliceSource{events: []SingleEvent{
		singleDecay(0, blue(1e-9)),
		singleDecay(2e-9, pink(1e-9)),
	}}
	sink := &recordingSink{}

	eng := New(DefaultConfig().WithWindowNS(10))
	ctr, _, err := eng.Run(src, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, ctr.Written)
	assert.Equal(t, 1, ctr.Random)
	require.Len(t, sink.written, 1)
	assert.Equal(t, decay.TypePETRandom, sink.written[0].Decay.Type)
}

func TestRandomLostWhenReverifiedWindowFails(t *testing.T) {
	// Decay A is detected instantly (time-since-creation 0). Decay B's
	// decay_time is close enough to A's last detection time for the
	// window to extend and group them, but B's photon has a long
	// time-since-creation; the rebased absolute detection times end up
	// further apart than the window once reverified.
	src := &sliceSource{events: []SingleEvent{
		singleDecay(0, blue(0)),
		singleDecay(0.5e-9, pink(5e-9)),
	}}
	sink := &recordingSink{}

	eng := New(DefaultConfig().WithWindowNS(1)) // 1 ns window: 1e-9 s
	ctr, _, err := eng.Run(src, sink)
	require.NoError(t, err)

	assert.Equal(t, 0, ctr.Written)
	assert.Equal(t, 1, ctr.LostToCorrectWindow)
}

func TestTriplesDroppedByDefaultPolicy(t *testing.T) {
	src := &sliceSource{events: []SingleEvent{
		singleDecay(0, blue(0)),
		singleDecay(1e-10, pink(0)),
		singleDecay(2e-10, blue(0)),
	}}
	sink := &recordingSink{}

	eng := New(DefaultConfig().WithWindowNS(10))
	ctr, _, err := eng.Run(src, sink)
	require.NoError(t, err)

	assert.Equal(t, 0, ctr.Written)
	assert.Equal(t, 3, ctr.LostToTriples)
	assert.Empty(t, sink.written)
}

func TestHistogramTotalDecaysMatchesDecaysRead(t *testing.T) {
	src := &sliceSource{events: []SingleEvent{
		singleDecay(0, blue(1e-9), pink(2e-9)),
		singleDecay(100, blue(1e-9), blue(2e-9)),
		singleDecay(200, blue(0)),
		singleDecay(200 + 1e-10, pink(0)),
	}}
	sink := &recordingSink{}

	eng := New(DefaultConfig().WithWindowNS(10))
	ctr, hist, err := eng.Run(src, sink)
	require.NoError(t, err)
	assert.Equal(t, ctr.DecaysRead, hist.TotalDecays())
}

func TestPreconditionsCheckNamesFirstFailure(t *testing.T) {
	p := Preconditions{IsTimeSorted: false}
	err := p.Check()
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerr.ErrPreconditionFailed))
}
