package history

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/geometry"
)

func sampleHeader() Header {
	return Header{
		EventsRequested:        1_000_000,
		RandomSeed:             42,
		ScanLengthSeconds:      60,
		AcceptanceAngleDegrees: 30,
		SineAcceptanceAngle:    0.5,
		MinimumPhotonEnergyKeV: 50,
		PhotonEnergyKeV:        511,
		Isotope:                1,
		Modes: RunModes{
			PETCoincidencesPlusSingles: true,
			PositronRangeAdjust:        true,
		},
		IsTimeSorted: false,
		Target:       geometry.Cylinder{Radius: 30, ZMin: -15, ZMax: 15},
		Object:       geometry.Cylinder{Radius: 10, ZMin: -10, ZMax: 10},
		CriticalZone: geometry.Cylinder{Radius: 29, ZMin: -14, ZMax: 14},
		Limit:        geometry.Cylinder{Radius: 40, ZMin: -20, ZMax: 20},
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	h := sampleHeader()
	require.NoError(t, h.Encode(&buf))
	assert.Equal(t, HeaderSize, buf.Len())

	got, err := DecodeHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	block := make([]byte, HeaderSize)
	copy(block, []byte("NOPE"))
	_, err := DecodeHeader(bytes.NewReader(block))
	require.Error(t, err)
}

func TestWriterReaderRoundTripsDecayAndPhoton(t *testing.T) {
	var buf bytes.Buffer
	h := sampleHeader()
	w, err := Create(&buf, h)
	require.NoError(t, err)

	d := DecayRecord{Position: geometry.Vec3{X: 1, Y: 2, Z: 3}, StartWeight: 1, Time: 0.001, Type: decay.TypePositronPair}
	require.NoError(t, w.WriteEvent(EventRecord{Decay: &d}))

	p := PhotonRecord{
		Position: geometry.Vec3{X: 1.5, Y: -2.5, Z: 0.25}, Direction: geometry.Direction{CX: 0, CY: 0, CZ: 1},
		IsBlue: true, ScatterCount: 2, Weight: 0.875, Energy: 480, TimeSinceCreation: 2e-9,
		TransaxialPos: 3.2, AzimuthalBin: 17, DetectorAngle: 44.5, CrystalNumber: 909,
	}
	require.NoError(t, w.WriteEvent(EventRecord{Photon: &p}))
	require.NoError(t, w.Flush())

	rd, err := Open(&buf)
	require.NoError(t, err)
	assert.Equal(t, h, rd.Header)

	events, err := ReadAll(rd)
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.NotNil(t, events[0].Decay)
	assert.Equal(t, d, *events[0].Decay)

	require.NotNil(t, events[1].Photon)
	got := *events[1].Photon
	assert.Equal(t, p.IsBlue, got.IsBlue)
	assert.Equal(t, p.ScatterCount, got.ScatterCount)
	assert.Equal(t, p.Weight, got.Weight)
	assert.InDelta(t, p.Energy, got.Energy, 1e-3)
	assert.Equal(t, p.TimeSinceCreation, got.TimeSinceCreation)
	assert.Equal(t, p.AzimuthalBin, got.AzimuthalBin)
	assert.Equal(t, p.CrystalNumber, got.CrystalNumber)
}

func TestReaderNextReturnsEOFAtEndOfStream(t *testing.T) {
	var buf bytes.Buffer
	w, err := Create(&buf, sampleHeader())
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	rd, err := Open(&buf)
	require.NoError(t, err)
	_, err = rd.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestPhotonFlagByteEncodesScatterCount(t *testing.T) {
	var buf bytes.Buffer
	p := PhotonRecord{ScatterCount: 5, Direction: geometry.Direction{CZ: 1}}
	require.NoError(t, WritePhoton(&buf, p))

	flag, err := buf.ReadByte()
	require.NoError(t, err)
	assert.NotZero(t, flag&flagPhoton)
	assert.Equal(t, 5, int((flag>>scatterShift)&scatterMask))

	got, err := ReadPhoton(&buf, flag)
	require.NoError(t, err)
	assert.Equal(t, 5, got.ScatterCount)
}

func TestWritePhotonRejectsScatterCountOverflow(t *testing.T) {
	var buf bytes.Buffer
	err := WritePhoton(&buf, PhotonRecord{ScatterCount: 64})
	require.Error(t, err)
}

func TestCustomLayoutValidateRequiresDecayTimeTypeAndTravelDistance(t *testing.T) {
	l := CustomLayout{Fields: []FieldSpec{{Field: FieldEnergy}}}
	require.Error(t, l.Validate())

	l.Fields = append(l.Fields, FieldSpec{Field: FieldDecayTime}, FieldSpec{Field: FieldDecayType}, FieldSpec{Field: FieldTravelDistance})
	require.NoError(t, l.Validate())
}

func TestWriteFilteredSkipsOutOfRangePhoton(t *testing.T) {
	min := 100.0
	layout := CustomLayout{Fields: []FieldSpec{
		{Field: FieldDecayTime}, {Field: FieldDecayType}, {Field: FieldTravelDistance},
		{Field: FieldEnergy, Filter: &RangeFilter{Min: &min}},
	}}
	values := map[Field]float64{FieldDecayTime: 0, FieldDecayType: 0, FieldTravelDistance: 5, FieldEnergy: 50}

	var buf bytes.Buffer
	wrote, err := WriteFiltered(&buf, layout, values)
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.Zero(t, buf.Len())

	values[FieldEnergy] = 200
	wrote, err = WriteFiltered(&buf, layout, values)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.NotZero(t, buf.Len())
}
