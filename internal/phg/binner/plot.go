package binner

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotWidth and plotHeight match the teacher's gridplotter.go export
// dimensions.
const (
	plotWidth  = 14 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// SaveProjectionPlot renders the 1-D projection of the histogram onto
// dimension dimIndex (e.g. an energy spectrum) as a line plot PNG.
func (h *Histogram) SaveProjectionPlot(path string, dimIndex int, title string) error {
	counts, err := h.Project(dimIndex)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = h.layout.Dimensions[dimIndex].Name
	p.Y.Label.Text = "weighted counts"

	pts := make(plotter.XYs, len(counts))
	for i, c := range counts {
		pts[i] = plotter.XY{X: float64(i), Y: c}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("binner: building projection line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("binner: saving projection plot: %w", err)
	}
	return nil
}

// projectionGrid adapts a 2-D projection to plotter.GridXYZ.
type projectionGrid struct {
	grid [][]float64
}

func (g projectionGrid) Dims() (c, r int) {
	if len(g.grid) == 0 {
		return 0, 0
	}
	return len(g.grid), len(g.grid[0])
}

func (g projectionGrid) X(c int) float64 { return float64(c) }
func (g projectionGrid) Y(r int) float64 { return float64(r) }
func (g projectionGrid) Z(c, r int) float64 {
	return g.grid[c][r]
}

// SaveHeatmapPlot renders the 2-D projection onto dimX/dimY (e.g. a
// sinogram's angular/radial plane) as a heatmap PNG.
func (h *Histogram) SaveHeatmapPlot(path string, dimX, dimY int, title string) error {
	grid, err := h.Project2D(dimX, dimY)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = h.layout.Dimensions[dimX].Name
	p.Y.Label.Text = h.layout.Dimensions[dimY].Name

	heat := plotter.NewHeatMap(projectionGrid{grid: grid}, moreland.SmoothBlueRed())
	p.Add(heat)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("binner: saving heatmap plot: %w", err)
	}
	return nil
}
