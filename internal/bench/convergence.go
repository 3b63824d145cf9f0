package bench

import (
	"fmt"
	"math"

	"github.com/san-kum/quadbench/internal/quad"
)

type Point struct {
	N     int     `json:"n"`
	Value float64 `json:"value"`
	Error float64 `json:"error"`
	// Ratio is the previous point's error over this one; about 2 when n doubles.
	Ratio float64 `json:"ratio"`
}

// Convergence integrates f for every n and reports the error against exact.
func Convergence(f quad.Func, exact, a, b float64, ns []int) ([]Point, error) {
	points := make([]Point, 0, len(ns))
	for i, n := range ns {
		v, err := quad.Integrate(f, a, b, n)
		if err != nil {
			return nil, fmt.Errorf("n=%d: %w", n, err)
		}
		p := Point{N: n, Value: v, Error: math.Abs(v - exact)}
		if i > 0 && p.Error > 0 {
			p.Ratio = points[i-1].Error / p.Error
		}
		points = append(points, p)
	}
	return points, nil
}

// Doubling returns start, 2*start, 4*start, ... with steps entries.
func Doubling(start, steps int) []int {
	ns := make([]int, 0, steps)
	for n, i := start, 0; i < steps; n, i = n*2, i+1 {
		ns = append(ns, n)
	}
	return ns
}
