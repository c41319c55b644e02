package history

import (
	"bufio"
	"fmt"
	"io"

	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// Writer appends events to a history file, after the header has been
// written.
type Writer struct {
	w *bufio.Writer
}

// Create writes h to w and returns a Writer positioned to append
// events.
func Create(w io.Writer, h Header) (*Writer, error) {
	if err := h.Encode(w); err != nil {
		return nil, err
	}
	return &Writer{w: bufio.NewWriter(w)}, nil
}

// WriteEvent appends one event. Exactly one of evt.Decay or evt.Photon
// must be set.
func (wr *Writer) WriteEvent(evt EventRecord) error {
	switch {
	case evt.Decay != nil:
		return WriteDecay(wr.w, *evt.Decay)
	case evt.Photon != nil:
		return WritePhoton(wr.w, *evt.Photon)
	default:
		return fmt.Errorf("history: event has neither decay nor photon set")
	}
}

// Flush flushes buffered writes to the underlying writer.
func (wr *Writer) Flush() error {
	if err := wr.w.Flush(); err != nil {
		return fmt.Errorf("history: flushing writer: %w", simerr.ErrIOError)
	}
	return nil
}
