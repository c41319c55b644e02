package history

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// flag bits for the 1-byte record tag (spec.md §6).
const (
	flagDecay     = 1 << 0
	flagPhoton    = 1 << 1
	scatterShift  = 2
	scatterMask   = 0x3F // bits 2-7
	maxScatter    = 63
)

// DecayRecord is the on-disk form of a decay event.
type DecayRecord struct {
	Position    geometry.Vec3
	StartWeight float64
	Time        float64
	Type        decay.Type
}

// PhotonRecord is the on-disk form of a detected photon, spelled out
// field-for-field per spec.md §6: float position, float direction,
// flags byte, current weight as double, energy as float,
// time-since-creation as double, transaxial position as float,
// azimuthal-angle index as 2-byte int, detector angle as float,
// crystal number as 4-byte int.
type PhotonRecord struct {
	Position          geometry.Vec3 // stored as float32 triplet
	Direction         geometry.Direction // stored as float32 triplet
	IsBlue            bool
	ScatterCount      int // 0-63, carried in the flag byte alongside the photon bit
	Weight            float64
	Energy            float64 // stored as float32
	TimeSinceCreation float64
	TransaxialPos     float64 // stored as float32
	AzimuthalBin      int16
	DetectorAngle     float64 // stored as float32
	CrystalNumber     int32
}

// EventRecord is exactly one of Decay or Photon, as produced by Reader
// and consumed by Writer.
type EventRecord struct {
	Decay  *DecayRecord
	Photon *PhotonRecord
}

func writeFixed(w io.Writer, v interface{}) error {
	if err := binary.Write(w, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("history: writing record field: %w", simerr.ErrIOError)
	}
	return nil
}

func readFixed(r io.Reader, v interface{}) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("history: reading record field: %w", simerr.ErrIOError)
	}
	return nil
}

// WriteDecay encodes a decay record: flag byte then the fixed fields.
func WriteDecay(w io.Writer, d DecayRecord) error {
	if _, err := w.Write([]byte{flagDecay}); err != nil {
		return fmt.Errorf("history: writing decay flag: %w", simerr.ErrIOError)
	}
	for _, f := range []float64{d.Position.X, d.Position.Y, d.Position.Z, d.StartWeight, d.Time} {
		if err := writeFixed(w, f); err != nil {
			return err
		}
	}
	return writeFixed(w, int32(d.Type))
}

// ReadDecay decodes a decay record's fixed fields; flag is already
// consumed by the caller.
func ReadDecay(r io.Reader) (DecayRecord, error) {
	var d DecayRecord
	floats := []*float64{&d.Position.X, &d.Position.Y, &d.Position.Z, &d.StartWeight, &d.Time}
	for _, f := range floats {
		if err := readFixed(r, f); err != nil {
			return DecayRecord{}, err
		}
	}
	var typ int32
	if err := readFixed(r, &typ); err != nil {
		return DecayRecord{}, err
	}
	d.Type = decay.Type(typ)
	return d, nil
}

// WritePhoton encodes a photon record: flag byte (bit1 set, bits2-7
// the scatter count) then the fixed fields in spec order.
func WritePhoton(w io.Writer, p PhotonRecord) error {
	if p.ScatterCount < 0 || p.ScatterCount > maxScatter {
		return fmt.Errorf("history: scatter count %d exceeds %d-bit field: %w", p.ScatterCount, 6, simerr.ErrResourceExhausted)
	}
	flag := byte(flagPhoton) | byte(p.ScatterCount<<scatterShift)
	if _, err := w.Write([]byte{flag}); err != nil {
		return fmt.Errorf("history: writing photon flag: %w", simerr.ErrIOError)
	}

	for _, f := range []float32{
		float32(p.Position.X), float32(p.Position.Y), float32(p.Position.Z),
		float32(p.Direction.CX), float32(p.Direction.CY), float32(p.Direction.CZ),
	} {
		if err := writeFixed(w, f); err != nil {
			return err
		}
	}
	if err := writeFixed(w, boolToByte(p.IsBlue)); err != nil {
		return err
	}
	if err := writeFixed(w, p.Weight); err != nil {
		return err
	}
	if err := writeFixed(w, float32(p.Energy)); err != nil {
		return err
	}
	if err := writeFixed(w, p.TimeSinceCreation); err != nil {
		return err
	}
	if err := writeFixed(w, float32(p.TransaxialPos)); err != nil {
		return err
	}
	if err := writeFixed(w, p.AzimuthalBin); err != nil {
		return err
	}
	if err := writeFixed(w, float32(p.DetectorAngle)); err != nil {
		return err
	}
	return writeFixed(w, p.CrystalNumber)
}

// ReadPhoton decodes a photon record's fixed fields given the already
// consumed flag byte.
func ReadPhoton(r io.Reader, flag byte) (PhotonRecord, error) {
	var p PhotonRecord
	p.ScatterCount = int((flag >> scatterShift) & scatterMask)

	var x, y, z, cx, cy, cz float32
	for _, f := range []*float32{&x, &y, &z, &cx, &cy, &cz} {
		if err := readFixed(r, f); err != nil {
			return PhotonRecord{}, err
		}
	}
	p.Position = geometry.Vec3{X: float64(x), Y: float64(y), Z: float64(z)}
	p.Direction = geometry.Direction{CX: float64(cx), CY: float64(cy), CZ: float64(cz)}

	var blueByte byte
	if err := readFixed(r, &blueByte); err != nil {
		return PhotonRecord{}, err
	}
	p.IsBlue = blueByte != 0

	if err := readFixed(r, &p.Weight); err != nil {
		return PhotonRecord{}, err
	}
	var energy float32
	if err := readFixed(r, &energy); err != nil {
		return PhotonRecord{}, err
	}
	p.Energy = float64(energy)

	if err := readFixed(r, &p.TimeSinceCreation); err != nil {
		return PhotonRecord{}, err
	}
	var transaxial float32
	if err := readFixed(r, &transaxial); err != nil {
		return PhotonRecord{}, err
	}
	p.TransaxialPos = float64(transaxial)

	if err := readFixed(r, &p.AzimuthalBin); err != nil {
		return PhotonRecord{}, err
	}
	var detAngle float32
	if err := readFixed(r, &detAngle); err != nil {
		return PhotonRecord{}, err
	}
	p.DetectorAngle = float64(detAngle)

	if err := readFixed(r, &p.CrystalNumber); err != nil {
		return PhotonRecord{}, err
	}
	return p, nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// RecordSize returns the fixed on-disk size in bytes of a decay record
// or a photon record, flag byte included (a photon's scatter count costs
// no extra bytes, it is packed into the flag).
func RecordSize(isDecay bool) int {
	if isDecay {
		return 1 + 8*5 + 4
	}
	return 1 + 4*6 + 1 + 8 + 4 + 8 + 4 + 2 + 4 + 4
}
