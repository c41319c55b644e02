package history

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// HeaderSize is the fixed on-disk size of every history file header
// (spec.md §6).
const HeaderSize = 32768

// magic identifies a phgsim history file and lets Decode reject files
// from an unrelated format (spec.md §7 FileFormatMismatch).
const magic = "PHGH"

// headerVersion bumps whenever a field is added to the fixed layout
// below. Decode rejects a version it does not understand.
const headerVersion = uint32(1)

// Each header field has a stable tag: its position in the fixed
// encoding order below. New fields are appended, never inserted, so
// existing fields keep their offsets; DecodeHeader still rejects a header
// whose version differs from headerVersion. The tag constants below
// document the order for anyone adding a field.
const (
	tagEventsRequested = iota
	tagRandomSeed
	tagScanLengthSeconds
	tagAcceptanceAngleDegrees
	tagSineAcceptanceAngle
	tagMinimumPhotonEnergyKeV
	tagWeightWindowRatioLow
	tagWeightWindowRatioHigh
	tagIsotope
	tagPhotonEnergyKeV
	tagModes
	tagIsTimeSorted
	tagIsRandomsAdded
	tagIsAttenuationCorrected
	tagCollimator
	tagDetector
	tagBinning
	tagTarget
	tagObject
	tagCriticalZone
	tagLimit
)

// RunModes captures every boolean run mode a history file records
// (spec.md §6).
type RunModes struct {
	SPECT                     bool
	PETCoincidencesOnly       bool
	PETCoincidencesPlusSingles bool
	ForcedDetection           bool
	Stratification            bool
	NonAbsorption             bool
	HistoryOutput             bool
	PositronRangeAdjust       bool
	NonCollinearityAdjust     bool
	ComputedProductivityTable bool
	PointSourceVoxels         bool
	LineSourceVoxels          bool
	Polarization              bool
	MultiEmission              bool
}

// CollimatorParams is the nested collimator parameter block persisted
// in the header.
type CollimatorParams struct {
	AzimuthDegrees         float64
	MinimumEnergyKeV       float64
	CoherentScatterEnabled bool
}

// DetectorParams is the nested detector parameter block persisted in
// the header.
type DetectorParams struct {
	EnergyResolutionPercentage float64
	ReferenceEnergyKeV         float64
	PhotonTimeFWHMSeconds      float64
	ForcedInteractionEnabled   bool
}

// BinningParams is the nested binning parameter block persisted in the
// header.
type BinningParams struct {
	NumAngularBins int32
	NumRadialBins  int32
	NumAxialBins   int32
}

// Header is the decoded form of a history file's 32768-byte preamble.
type Header struct {
	EventsRequested        uint64
	RandomSeed             uint64
	ScanLengthSeconds      float64
	AcceptanceAngleDegrees float64
	SineAcceptanceAngle    float64
	MinimumPhotonEnergyKeV float64
	WeightWindowRatioLow   float64
	WeightWindowRatioHigh  float64
	Isotope                int32
	PhotonEnergyKeV        float64
	Modes                  RunModes
	IsTimeSorted           bool
	IsRandomsAdded         bool
	IsAttenuationCorrected bool
	Collimator             CollimatorParams
	Detector               DetectorParams
	Binning                BinningParams
	Target                 geometry.Cylinder
	Object                 geometry.Cylinder
	CriticalZone           geometry.Cylinder
	Limit                  geometry.Cylinder
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func writeCylinder(buf *bytes.Buffer, c geometry.Cylinder) error {
	fields := []float64{c.Radius, c.ZMin, c.ZMax, c.CenterX, c.CenterY}
	for _, f := range fields {
		if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readCylinder(r io.Reader) (geometry.Cylinder, error) {
	var fields [5]float64
	for i := range fields {
		if err := binary.Read(r, binary.LittleEndian, &fields[i]); err != nil {
			return geometry.Cylinder{}, err
		}
	}
	return geometry.Cylinder{Radius: fields[0], ZMin: fields[1], ZMax: fields[2], CenterX: fields[3], CenterY: fields[4]}, nil
}

// Encode writes h as the fixed 32768-byte header. It returns
// ErrResourceExhausted if the encoded fields (plus the magic/version
// preamble) do not fit.
func (h Header) Encode(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString(magic)
	if err := binary.Write(&buf, binary.LittleEndian, headerVersion); err != nil {
		return fmt.Errorf("history: encoding header version: %w", err)
	}

	if err := binary.Write(&buf, binary.LittleEndian, h.EventsRequested); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, h.RandomSeed); err != nil {
		return err
	}
	for _, f := range []float64{
		h.ScanLengthSeconds, h.AcceptanceAngleDegrees, h.SineAcceptanceAngle,
		h.MinimumPhotonEnergyKeV, h.WeightWindowRatioLow, h.WeightWindowRatioHigh,
	} {
		if err := binary.Write(&buf, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, h.Isotope); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, h.PhotonEnergyKeV); err != nil {
		return err
	}

	modes := []bool{
		h.Modes.SPECT, h.Modes.PETCoincidencesOnly, h.Modes.PETCoincidencesPlusSingles,
		h.Modes.ForcedDetection, h.Modes.Stratification, h.Modes.NonAbsorption,
		h.Modes.HistoryOutput, h.Modes.PositronRangeAdjust, h.Modes.NonCollinearityAdjust,
		h.Modes.ComputedProductivityTable, h.Modes.PointSourceVoxels, h.Modes.LineSourceVoxels,
		h.Modes.Polarization, h.Modes.MultiEmission,
		h.IsTimeSorted, h.IsRandomsAdded, h.IsAttenuationCorrected,
		h.Collimator.CoherentScatterEnabled, h.Detector.ForcedInteractionEnabled,
	}
	for _, b := range modes {
		writeBool(&buf, b)
	}

	for _, f := range []float64{
		h.Collimator.AzimuthDegrees, h.Collimator.MinimumEnergyKeV,
		h.Detector.EnergyResolutionPercentage, h.Detector.ReferenceEnergyKeV, h.Detector.PhotonTimeFWHMSeconds,
	} {
		if err := binary.Write(&buf, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	for _, n := range []int32{h.Binning.NumAngularBins, h.Binning.NumRadialBins, h.Binning.NumAxialBins} {
		if err := binary.Write(&buf, binary.LittleEndian, n); err != nil {
			return err
		}
	}

	for _, c := range []geometry.Cylinder{h.Target, h.Object, h.CriticalZone, h.Limit} {
		if err := writeCylinder(&buf, c); err != nil {
			return err
		}
	}

	if buf.Len() > HeaderSize {
		return fmt.Errorf("history: encoded header is %d bytes, exceeds fixed %d-byte layout: %w", buf.Len(), HeaderSize, simerr.ErrResourceExhausted)
	}
	padding := make([]byte, HeaderSize-buf.Len())
	buf.Write(padding)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("history: writing header: %w", simerr.ErrIOError)
	}
	return nil
}

// DecodeHeader reads a fixed 32768-byte header from r.
func DecodeHeader(r io.Reader) (Header, error) {
	block := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, block); err != nil {
		return Header{}, fmt.Errorf("history: reading header: %w", simerr.ErrIOError)
	}
	br := bytes.NewReader(block)

	gotMagic := make([]byte, len(magic))
	if _, err := io.ReadFull(br, gotMagic); err != nil || string(gotMagic) != magic {
		return Header{}, fmt.Errorf("history: not a phgsim history file: %w", simerr.ErrFileFormatMismatch)
	}
	var version uint32
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return Header{}, fmt.Errorf("history: reading header version: %w", simerr.ErrIOError)
	}
	if version != headerVersion {
		return Header{}, fmt.Errorf("history: header version %d, expected %d: %w", version, headerVersion, simerr.ErrFileFormatMismatch)
	}

	var h Header
	if err := binary.Read(br, binary.LittleEndian, &h.EventsRequested); err != nil {
		return Header{}, err
	}
	if err := binary.Read(br, binary.LittleEndian, &h.RandomSeed); err != nil {
		return Header{}, err
	}
	floats := make([]*float64, 0, 6)
	floats = append(floats, &h.ScanLengthSeconds, &h.AcceptanceAngleDegrees, &h.SineAcceptanceAngle,
		&h.MinimumPhotonEnergyKeV, &h.WeightWindowRatioLow, &h.WeightWindowRatioHigh)
	for _, f := range floats {
		if err := binary.Read(br, binary.LittleEndian, f); err != nil {
			return Header{}, err
		}
	}
	if err := binary.Read(br, binary.LittleEndian, &h.Isotope); err != nil {
		return Header{}, err
	}
	if err := binary.Read(br, binary.LittleEndian, &h.PhotonEnergyKeV); err != nil {
		return Header{}, err
	}

	boolTargets := []*bool{
		&h.Modes.SPECT, &h.Modes.PETCoincidencesOnly, &h.Modes.PETCoincidencesPlusSingles,
		&h.Modes.ForcedDetection, &h.Modes.Stratification, &h.Modes.NonAbsorption,
		&h.Modes.HistoryOutput, &h.Modes.PositronRangeAdjust, &h.Modes.NonCollinearityAdjust,
		&h.Modes.ComputedProductivityTable, &h.Modes.PointSourceVoxels, &h.Modes.LineSourceVoxels,
		&h.Modes.Polarization, &h.Modes.MultiEmission,
		&h.IsTimeSorted, &h.IsRandomsAdded, &h.IsAttenuationCorrected,
		&h.Collimator.CoherentScatterEnabled, &h.Detector.ForcedInteractionEnabled,
	}
	for _, b := range boolTargets {
		v, err := readBool(br)
		if err != nil {
			return Header{}, err
		}
		*b = v
	}

	moreFloats := []*float64{
		&h.Collimator.AzimuthDegrees, &h.Collimator.MinimumEnergyKeV,
		&h.Detector.EnergyResolutionPercentage, &h.Detector.ReferenceEnergyKeV, &h.Detector.PhotonTimeFWHMSeconds,
	}
	for _, f := range moreFloats {
		if err := binary.Read(br, binary.LittleEndian, f); err != nil {
			return Header{}, err
		}
	}
	for _, n := range []*int32{&h.Binning.NumAngularBins, &h.Binning.NumRadialBins, &h.Binning.NumAxialBins} {
		if err := binary.Read(br, binary.LittleEndian, n); err != nil {
			return Header{}, err
		}
	}

	cylinders := []*geometry.Cylinder{&h.Target, &h.Object, &h.CriticalZone, &h.Limit}
	for _, c := range cylinders {
		got, err := readCylinder(br)
		if err != nil {
			return Header{}, err
		}
		*c = got
	}

	return h, nil
}
