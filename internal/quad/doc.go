// Package quad provides the numerical integration kernel.
//
// The package computes left Riemann sums over a closed interval and knows
// how to decompose an interval into independent jobs that can run on any
// [Executor]:
//
//   - [Integrate]: sequential left-endpoint rule
//   - [Split]: interval decomposition into [Job] values
//   - [IntegrateParallel]: split, execute, reduce
//   - [Threads]: goroutine executor
//   - [Serial]: in-caller executor
//
// # Example
//
//	v, err := quad.Integrate(math.Cos, 0, math.Pi/2, 10000)
//
//	fn := quad.Function{Name: "cos", Eval: math.Cos}
//	v, err = quad.IntegrateParallel(ctx, quad.Threads{}, fn, 0, math.Pi/2, 4, 10000)
//
// # Thread Safety
//
// Every function in this package is safe for concurrent use as long as the
// integrand itself is. Integrands are assumed to be pure.
package quad
