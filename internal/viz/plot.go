package viz

import (
	"fmt"
	"math"
	"sort"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/quadbench/internal/bench"
	"github.com/san-kum/quadbench/internal/engine"
)

var seriesColors = []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green}

// PlotTimings draws mean wall time in milliseconds against the n index, one
// series per mode. An empty string means there was nothing to plot.
func PlotTimings(r *bench.Report) string {
	byMode := r.ByMode()
	if len(byMode) == 0 {
		return ""
	}

	modes := make([]engine.Mode, 0, len(byMode))
	for m := range byMode {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })

	series := make([][]float64, 0, len(modes))
	colors := make([]asciigraph.AnsiColor, 0, len(modes))
	legends := make([]string, 0, len(modes))
	for i, mode := range modes {
		ms := byMode[mode]
		data := make([]float64, len(ms))
		for j, m := range ms {
			data[j] = float64(m.Mean) / 1e6
		}
		series = append(series, data)
		colors = append(colors, seriesColors[i%len(seriesColors)])
		legends = append(legends, string(mode))
	}

	// asciigraph needs at least two points to draw a line.
	for i := range series {
		if len(series[i]) == 1 {
			series[i] = append(series[i], series[i][0])
		}
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(fmt.Sprintf("%s: mean ms per call, by n step", r.Function)),
	)
}

// PlotConvergence draws log10 of the absolute error against the doubling
// step. Exact results are clamped to 1e-16.
func PlotConvergence(points []bench.Point) string {
	if len(points) == 0 {
		return ""
	}
	data := make([]float64, 0, len(points)+1)
	for _, p := range points {
		data = append(data, math.Log10(math.Max(p.Error, 1e-16)))
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}
	return asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(fmt.Sprintf("log10 |error|, n = %d .. %d", points[0].N, points[len(points)-1].N)),
	)
}
