package procpool

import (
	"errors"
	"fmt"

	"github.com/san-kum/quadbench/internal/quad"
)

// Request is one job sent to a worker process, one JSON object per line.
type Request struct {
	Func string `json:"func"`
	quad.Job
}

// Response carries either a partial sum or a failure. Kind lets the parent
// map a remote failure back onto the kernel's sentinel errors.
type Response struct {
	Job   int     `json:"job"`
	Value float64 `json:"value"`
	Error string  `json:"error,omitempty"`
	Kind  string  `json:"kind,omitempty"`
}

const (
	kindInvalidBounds    = "invalid_bounds"
	kindInvalidPartition = "invalid_partition"
	kindPanic            = "panic"
	kindUnresolved       = "unresolved"
	kindCanceled         = "canceled"
	kindOther            = "other"
)

func kindOf(err error) string {
	switch {
	case errors.Is(err, quad.ErrInvalidBounds):
		return kindInvalidBounds
	case errors.Is(err, quad.ErrInvalidPartition):
		return kindInvalidPartition
	case errors.Is(err, quad.ErrFunctionPanicked):
		return kindPanic
	case errors.Is(err, ErrUnresolvedFunction):
		return kindUnresolved
	case errors.Is(err, errCanceled):
		return kindCanceled
	default:
		return kindOther
	}
}

// remoteError rebuilds a worker-side failure in the parent process.
func remoteError(kind, msg string) error {
	var base error
	switch kind {
	case kindInvalidBounds:
		base = quad.ErrInvalidBounds
	case kindInvalidPartition:
		base = quad.ErrInvalidPartition
	case kindPanic:
		base = quad.ErrFunctionPanicked
	case kindUnresolved:
		base = ErrUnresolvedFunction
	default:
		base = ErrRemote
	}
	return fmt.Errorf("%w (worker: %s)", base, msg)
}
