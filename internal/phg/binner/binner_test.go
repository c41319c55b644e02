package binner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoDLayout() Layout {
	return Layout{Dimensions: []Dimension{{Name: "angular", NumBins: 4}, {Name: "radial", NumBins: 3}}}
}

func TestLayoutNumBinsIsProductOfDimensions(t *testing.T) {
	assert.Equal(t, 12, twoDLayout().NumBins())
}

func TestLayoutValidateRejectsZeroBinDimension(t *testing.T) {
	l := Layout{Dimensions: []Dimension{{Name: "x", NumBins: 0}}}
	require.Error(t, l.Validate())
}

func TestHistogramAddAccumulatesAndTotals(t *testing.T) {
	h, err := NewHistogram(twoDLayout())
	require.NoError(t, err)

	require.NoError(t, h.Add([]int{0, 0}, 1.5))
	require.NoError(t, h.Add([]int{0, 0}, 0.5))
	require.NoError(t, h.Add([]int{1, 2}, 2.0))

	got, err := h.At([]int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	assert.Equal(t, 4.0, h.Total())
}

func TestHistogramAddRejectsOutOfRangeCoordinate(t *testing.T) {
	h, err := NewHistogram(twoDLayout())
	require.NoError(t, err)
	err = h.Add([]int{4, 0}, 1)
	require.Error(t, err)
}

func TestHistogramProjectSumsOutOtherDimensions(t *testing.T) {
	h, err := NewHistogram(twoDLayout())
	require.NoError(t, err)
	require.NoError(t, h.Add([]int{0, 0}, 1))
	require.NoError(t, h.Add([]int{0, 1}, 1))
	require.NoError(t, h.Add([]int{0, 2}, 1))
	require.NoError(t, h.Add([]int{1, 0}, 5))

	proj, err := h.Project(0) // angular
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5, 0, 0}, proj)
}

func TestHistogramProject2DPreservesTotal(t *testing.T) {
	h, err := NewHistogram(Layout{Dimensions: []Dimension{
		{Name: "angular", NumBins: 2}, {Name: "radial", NumBins: 2}, {Name: "axial", NumBins: 2},
	}})
	require.NoError(t, err)
	for a := 0; a < 2; a++ {
		for r := 0; r < 2; r++ {
			for z := 0; z < 2; z++ {
				require.NoError(t, h.Add([]int{a, r, z}, 1))
			}
		}
	}

	grid, err := h.Project2D(0, 1)
	require.NoError(t, err)
	var sum float64
	for _, row := range grid {
		for _, v := range row {
			sum += v
		}
	}
	assert.Equal(t, h.Total(), sum)
}

type fixedLocator struct {
	coords []int
	accept bool
}

func (f fixedLocator) Locate(Event) ([]int, bool) { return f.coords, f.accept }

func TestBinnerRecordTallyiesAcceptedAndRejected(t *testing.T) {
	b, err := New(twoDLayout(), fixedLocator{coords: []int{1, 1}, accept: true})
	require.NoError(t, err)

	ok, err := b.Record(Event{Energy: 511}, 1.0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 1, b.Accepted())

	b2, err := New(twoDLayout(), fixedLocator{accept: false})
	require.NoError(t, err)
	ok, err = b2.Record(Event{}, 1.0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 1, b2.Rejected())
}

func TestConfigValidateRequiresOutputDirWhenPlottingEnabled(t *testing.T) {
	c := DefaultConfig().WithEnergySpectrumPlot(0)
	err := c.Validate(twoDLayout())
	require.Error(t, err)

	c = c.WithOutputDir(t.TempDir())
	require.NoError(t, c.Validate(twoDLayout()))
}

func TestSaveProjectionPlotWritesAFile(t *testing.T) {
	h, err := NewHistogram(twoDLayout())
	require.NoError(t, err)
	require.NoError(t, h.Add([]int{0, 0}, 1))
	require.NoError(t, h.Add([]int{2, 1}, 3))

	path := filepath.Join(t.TempDir(), "spectrum.png")
	require.NoError(t, h.SaveProjectionPlot(path, 0, "angular projection"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveHeatmapPlotWritesAFile(t *testing.T) {
	h, err := NewHistogram(twoDLayout())
	require.NoError(t, err)
	require.NoError(t, h.Add([]int{0, 0}, 1))
	require.NoError(t, h.Add([]int{2, 1}, 3))

	path := filepath.Join(t.TempDir(), "sinogram.png")
	require.NoError(t, h.SaveHeatmapPlot(path, 0, 1, "sinogram"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
