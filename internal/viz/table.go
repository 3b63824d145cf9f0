package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/quadbench/internal/bench"
)

var tableHeaders = []string{"N_ITER", "MODE", "SAMPLES", "MEAN", "STDDEV", "MIN", "SPEEDUP", "VALUE", "ABS ERR"}

// Table renders every measurement of r, grouped by n in the order they were
// taken.
func Table(r *bench.Report, theme Theme) string {
	rows := make([][]string, 0, len(r.Measurements))
	for _, m := range r.Measurements {
		speedup := "-"
		if m.Speedup > 0 {
			speedup = fmt.Sprintf("%.2fx", m.Speedup)
		}
		absErr := "-"
		if m.HasExact {
			absErr = fmt.Sprintf("%.3e", m.AbsError)
		}
		rows = append(rows, []string{
			fmt.Sprint(m.NIter),
			string(m.Mode),
			fmt.Sprint(m.Samples),
			formatDuration(m.Mean),
			formatDuration(m.Stddev),
			formatDuration(m.Min),
			speedup,
			fmt.Sprintf("%.9f", m.Value),
			absErr,
		})
	}

	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	head := lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)
	modeStyle := lipgloss.NewStyle().Foreground(theme.Primary)
	fast := lipgloss.NewStyle().Foreground(theme.Success)
	slow := lipgloss.NewStyle().Foreground(theme.Warning)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n",
		titleStyle(theme).Render(fmt.Sprintf("%s over [%g, %g]", r.Function, r.A, r.B)),
		muted.Render(fmt.Sprintf("jobs=%d split=%s repeats=%d warmup=%d", r.Jobs, r.Split, r.Repeats, r.Warmup)))

	b.WriteString(renderRow(tableHeaders, widths, func(int, string) lipgloss.Style { return head }))
	prev := -1
	for i, row := range rows {
		m := r.Measurements[i]
		if prev != -1 && m.NIter != prev {
			b.WriteString("\n")
		}
		prev = m.NIter
		b.WriteString(renderRow(row, widths, func(col int, _ string) lipgloss.Style {
			switch col {
			case 1:
				return modeStyle
			case 6:
				if m.Speedup >= 1 {
					return fast
				} else if m.Speedup > 0 {
					return slow
				}
			}
			return lipgloss.NewStyle()
		}))
	}
	return Panel.BorderForeground(theme.Muted).Render(strings.TrimRight(b.String(), "\n"))
}

func renderRow(cells []string, widths []int, style func(int, string) lipgloss.Style) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		padded := c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
		parts[i] = style(i, c).Render(padded)
	}
	return strings.Join(parts, "  ") + "\n"
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.3fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	}
}
