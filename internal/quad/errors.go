package quad

import (
	"errors"
	"fmt"
)

// Domain errors for integration calls.
var (
	// ErrInvalidBounds indicates an interval whose upper bound is not above the lower one.
	ErrInvalidBounds = errors.New("quad: invalid bounds (b must be greater than a)")

	// ErrInvalidPartition indicates a non-positive partition or worker count.
	ErrInvalidPartition = errors.New("quad: invalid partition (n and jobs must be positive)")

	// ErrWorkerFailed indicates that at least one job of a parallel call failed.
	ErrWorkerFailed = errors.New("quad: worker failed")

	// ErrFunctionPanicked indicates the integrand panicked while being evaluated.
	ErrFunctionPanicked = errors.New("quad: integrand panicked")

	// ErrNoEvaluator indicates an in-process executor was handed a function without a body.
	ErrNoEvaluator = errors.New("quad: function has no evaluator")
)

// JobError wraps the failure of a single job.
type JobError struct {
	Job     int
	Wrapped error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %d: %v", e.Job, e.Wrapped)
}

func (e *JobError) Unwrap() []error {
	return []error{ErrWorkerFailed, e.Wrapped}
}
