package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// Reader streams EventRecords out of a history file, having already
// consumed the fixed header.
type Reader struct {
	Header Header
	r      *bufio.Reader
}

// Open reads the header from r and returns a Reader positioned at the
// first event.
func Open(r io.Reader) (*Reader, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{Header: h, r: bufio.NewReader(r)}, nil
}

// Next reads the next event, or returns io.EOF once the stream is
// exhausted.
func (rd *Reader) Next() (EventRecord, error) {
	flag, err := rd.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return EventRecord{}, io.EOF
		}
		return EventRecord{}, fmt.Errorf("history: reading event flag: %w", simerr.ErrIOError)
	}

	switch {
	case flag&flagDecay != 0:
		d, err := ReadDecay(rd.r)
		if err != nil {
			return EventRecord{}, err
		}
		return EventRecord{Decay: &d}, nil
	case flag&flagPhoton != 0:
		p, err := ReadPhoton(rd.r, flag)
		if err != nil {
			return EventRecord{}, err
		}
		return EventRecord{Photon: &p}, nil
	default:
		return EventRecord{}, fmt.Errorf("history: event flag 0x%02x sets neither decay nor photon bit: %w", flag, simerr.ErrFileFormatMismatch)
	}
}

// ReadAll drains rd into a slice, for small files and tests.
func ReadAll(rd *Reader) ([]EventRecord, error) {
	var events []EventRecord
	for {
		evt, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
}
