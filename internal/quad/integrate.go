package quad

import (
	"context"
	"fmt"
)

// ctx is polled once per block of samples.
const checkEvery = 4096

// Integrate approximates the integral of f over [a, b] with the left Riemann
// sum on n equal sub-intervals.
func Integrate(f Func, a, b float64, n int) (float64, error) {
	return IntegrateContext(context.Background(), f, a, b, n)
}

// IntegrateContext is Integrate with cancellation. ctx is polled between
// blocks of samples.
func IntegrateContext(ctx context.Context, f Func, a, b float64, n int) (float64, error) {
	if err := validate(a, b, n); err != nil {
		return 0, err
	}
	return leftSum(ctx, f, a, b, n)
}

// RunJob integrates f over a single job. It is the unit of work every
// executor performs.
func RunJob(ctx context.Context, f Func, j Job) (float64, error) {
	if err := validate(j.A, j.B, j.N); err != nil {
		return 0, err
	}
	return leftSum(ctx, f, j.A, j.B, j.N)
}

func validate(a, b float64, n int) error {
	if !(b > a) {
		return fmt.Errorf("%w: a=%g b=%g", ErrInvalidBounds, a, b)
	}
	if n <= 0 {
		return fmt.Errorf("%w: n=%d", ErrInvalidPartition, n)
	}
	return nil
}

func leftSum(ctx context.Context, f Func, a, b float64, n int) (acc float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			acc = 0
			err = fmt.Errorf("%w: %v", ErrFunctionPanicked, r)
		}
	}()

	step := (b - a) / float64(n)
	for i := 0; i < n; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		acc += f(a+float64(i)*step) * step
	}
	return acc, nil
}
