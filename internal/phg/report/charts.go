package report

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/simset-go/phgsim/internal/phg/productivity"
	"github.com/simset-go/phgsim/internal/phg/store/sqlite"
)

const echartsAssetsPrefix = "/assets/"

// productivityChart renders one scatter point per occupied (slice,
// angle) cell, colored by total (primary+scatter) contribution —
// the same polar-grid-as-scatter technique the teacher uses for its
// background heatmap, with slice/angle standing in for range/azimuth.
func productivityChart(runID int64, table *productivity.Table) *charts.Scatter {
	snapshot := table.Snapshot()

	points := make([]opts.ScatterData, 0, len(snapshot))
	maxTotal := 0.0
	for cell, entry := range snapshot {
		total := entry.Primary + entry.Scatter
		if total > maxTotal {
			maxTotal = total
		}
		points = append(points, opts.ScatterData{
			Value: []interface{}{cell.Slice, cell.Angle, total},
		})
	}
	if maxTotal == 0 {
		maxTotal = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Run Productivity", Theme: "dark", Width: "900px", Height: "700px", AssetsHost: echartsAssetsPrefix,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Productivity Table",
			Subtitle: fmt.Sprintf("run=%d cells=%d", runID, len(points)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "slice", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "angle", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxTotal),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("productivity", points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter
}

// runSummaryBar renders one grouped bar per recent run: decays
// written vs photons written.
func runSummaryBar(runs []sqlite.RunSummary) *charts.Bar {
	labels := make([]string, 0, len(runs))
	decays := make([]opts.BarData, 0, len(runs))
	photons := make([]opts.BarData, 0, len(runs))
	for _, r := range runs {
		labels = append(labels, fmt.Sprintf("run %d", r.RunID))
		decays = append(decays, opts.BarData{Value: r.DecaysWritten})
		photons = append(photons, opts.BarData{Value: r.PhotonsWritten})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Recent Runs"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("decays written", decays).
		AddSeries("photons written", photons,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}
