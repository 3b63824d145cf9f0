// Package viz renders benchmark results in the terminal.
//
//   - [Table]: lipgloss-styled results table, one row per (n, mode)
//   - [PlotTimings], [PlotConvergence]: asciigraph line charts
//   - [NewProgressModel]: Bubble Tea view that follows a running benchmark
//
// # Key Bindings
//
//	q, ctrl+c - Abort the benchmark view
//	t, T      - Cycle color themes
package viz
