package quad

import (
	"context"
	"fmt"
)

// Func is an integrand. It must be pure: no shared state, no side effects.
type Func func(x float64) float64

// Function pairs an integrand with the registry name it is known by.
// Executors that cross a process boundary only ever see the name.
type Function struct {
	Name string
	Eval Func
}

func (f Function) String() string {
	if f.Name == "" {
		return "<anonymous>"
	}
	return f.Name
}

// Job is one contiguous slice of the integration interval.
type Job struct {
	Index int     `json:"job"`
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	N     int     `json:"n"`
}

func (j Job) String() string {
	return fmt.Sprintf("job %d [%g, %g) n=%d", j.Index, j.A, j.B, j.N)
}

// SplitPolicy decides how the partition count is shared between jobs.
type SplitPolicy string

const (
	// SplitTruncate gives every job floor(n/k) samples; up to k-1 samples are dropped.
	SplitTruncate SplitPolicy = "truncate"
	// SplitDistribute hands the remainder of n/k to the first jobs, one sample each.
	SplitDistribute SplitPolicy = "distribute"
)

// ParseSplitPolicy maps a policy name to its value. The empty string means truncate.
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch SplitPolicy(s) {
	case "", SplitTruncate:
		return SplitTruncate, nil
	case SplitDistribute:
		return SplitDistribute, nil
	default:
		return "", fmt.Errorf("unknown split policy: %s", s)
	}
}

// Executor runs a batch of jobs and returns one partial sum per job, in job order.
type Executor interface {
	Execute(ctx context.Context, fn Function, jobs []Job) ([]float64, error)
}

type options struct {
	policy SplitPolicy
}

// Option configures IntegrateParallel.
type Option func(*options)

// WithSplitPolicy selects the remainder policy. The default is SplitTruncate.
func WithSplitPolicy(p SplitPolicy) Option {
	return func(o *options) {
		if p != "" {
			o.policy = p
		}
	}
}
