package binner

import "fmt"

// Config controls what a binner run produces besides the raw
// histogram.
type Config struct {
	PlotEnergySpectrum bool
	EnergyDimension    int
	PlotHeatmap        bool
	HeatmapDimX        int
	HeatmapDimY        int
	OutputDir          string
}

// DefaultConfig disables plot export; a run that only needs the raw
// histogram pays no gonum/plot cost.
func DefaultConfig() Config {
	return Config{}
}

// WithEnergySpectrumPlot enables a 1-D projection plot of dim to
// outputDir.
func (c Config) WithEnergySpectrumPlot(dim int) Config {
	c.PlotEnergySpectrum = true
	c.EnergyDimension = dim
	return c
}

// WithHeatmapPlot enables a 2-D projection plot of dimX/dimY.
func (c Config) WithHeatmapPlot(dimX, dimY int) Config {
	c.PlotHeatmap = true
	c.HeatmapDimX = dimX
	c.HeatmapDimY = dimY
	return c
}

// WithOutputDir sets the directory plots are written to.
func (c Config) WithOutputDir(dir string) Config {
	c.OutputDir = dir
	return c
}

// Validate checks the configuration is internally consistent given a
// layout's dimension count.
func (c Config) Validate(layout Layout) error {
	n := len(layout.Dimensions)
	if c.PlotEnergySpectrum && (c.EnergyDimension < 0 || c.EnergyDimension >= n) {
		return fmt.Errorf("binner: energy spectrum dimension %d out of range [0, %d)", c.EnergyDimension, n)
	}
	if c.PlotHeatmap {
		if c.HeatmapDimX < 0 || c.HeatmapDimX >= n || c.HeatmapDimY < 0 || c.HeatmapDimY >= n {
			return fmt.Errorf("binner: heatmap dimensions (%d, %d) out of range [0, %d)", c.HeatmapDimX, c.HeatmapDimY, n)
		}
	}
	if (c.PlotEnergySpectrum || c.PlotHeatmap) && c.OutputDir == "" {
		return fmt.Errorf("binner: plot output requested with no OutputDir set")
	}
	return nil
}
