// Package export renders benchmark data to files outside the terminal.
package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/quadbench/internal/bench"
	"github.com/san-kum/quadbench/internal/engine"
)

type Point struct{ X, Y float64 }

type Series struct {
	Name  string
	Color string
	Pts   []Point
}

var modeColors = map[engine.Mode]string{
	engine.Sequential: "#00ffff",
	engine.Threads:    "#ff00ff",
	engine.Processes:  "#ffff00",
}

// TimingsSVG plots mean milliseconds per call against log10(n), one line
// per mode.
func TimingsSVG(r *bench.Report, width, height int) string {
	byMode := r.ByMode()
	modes := make([]engine.Mode, 0, len(byMode))
	for m := range byMode {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })

	series := make([]Series, 0, len(modes))
	for _, mode := range modes {
		s := Series{Name: string(mode), Color: modeColors[mode]}
		if s.Color == "" {
			s.Color = "#00ff00"
		}
		for _, m := range byMode[mode] {
			s.Pts = append(s.Pts, Point{X: math.Log10(float64(m.NIter)), Y: float64(m.Mean) / 1e6})
		}
		series = append(series, s)
	}
	return LinesToSVG(series, width, height)
}

// ConvergenceSVG plots log10 |error| against log10(n). Exact results are
// clamped to 1e-16.
func ConvergenceSVG(points []bench.Point, width, height int) string {
	s := Series{Name: "abs error", Color: "#00ff88"}
	for _, p := range points {
		s.Pts = append(s.Pts, Point{X: math.Log10(float64(p.N)), Y: math.Log10(math.Max(p.Error, 1e-16))})
	}
	return LinesToSVG([]Series{s}, width, height)
}

// LinesToSVG draws every series on shared axes with a legend in the top
// left corner. Series with fewer than two points are drawn as dots.
func LinesToSVG(series []Series, width, height int) string {
	var all []Point
	for _, s := range series {
		all = append(all, s.Pts...)
	}
	if len(all) == 0 {
		return ""
	}

	minX, maxX := all[0].X, all[0].X
	minY, maxY := all[0].Y, all[0].Y
	for _, p := range all {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	project := func(p Point) (float64, float64) {
		return (p.X - minX) / rangeX * float64(width),
			float64(height) - (p.Y-minY)/rangeY*float64(height)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, s := range series {
		if len(s.Pts) == 0 {
			continue
		}
		if len(s.Pts) == 1 {
			x, y := project(s.Pts[0])
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, s.Color)
		} else {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color)
			for j, p := range s.Pts {
				x, y := project(p)
				if j == 0 {
					fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}
		fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16*(i+1), s.Color, s.Name)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
