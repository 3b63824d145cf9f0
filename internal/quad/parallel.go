package quad

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// IntegrateParallel splits [a, b] into k jobs, runs them on exec and sums
// the partial results. Any job failure fails the whole call.
func IntegrateParallel(ctx context.Context, exec Executor, fn Function, a, b float64, k, n int, opts ...Option) (float64, error) {
	o := options{policy: SplitTruncate}
	for _, opt := range opts {
		opt(&o)
	}

	jobs, err := Split(a, b, n, k, o.policy)
	if err != nil {
		return 0, err
	}

	parts, err := exec.Execute(ctx, fn, jobs)
	if err != nil {
		return 0, err
	}
	if len(parts) != len(jobs) {
		return 0, fmt.Errorf("%w: got %d partial sums for %d jobs", ErrWorkerFailed, len(parts), len(jobs))
	}

	total := 0.0
	for _, p := range parts {
		total += p
	}
	return total, nil
}

// Threads runs every job on its own goroutine. Limit caps the number of
// goroutines running at once; zero means one per job.
type Threads struct {
	Limit int
}

func (t Threads) Execute(ctx context.Context, fn Function, jobs []Job) ([]float64, error) {
	if fn.Eval == nil {
		return nil, ErrNoEvaluator
	}

	parts := make([]float64, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if t.Limit > 0 {
		g.SetLimit(t.Limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			v, err := RunJob(gctx, fn.Eval, job)
			if err != nil {
				return &JobError{Job: job.Index, Wrapped: err}
			}
			parts[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, err
	}
	return parts, nil
}

// Serial runs jobs one after another on the calling goroutine.
type Serial struct{}

func (Serial) Execute(ctx context.Context, fn Function, jobs []Job) ([]float64, error) {
	if fn.Eval == nil {
		return nil, ErrNoEvaluator
	}

	parts := make([]float64, len(jobs))
	for i, job := range jobs {
		v, err := RunJob(ctx, fn.Eval, job)
		if err != nil {
			return nil, &JobError{Job: job.Index, Wrapped: err}
		}
		parts[i] = v
	}
	return parts, nil
}
