package procpool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/quadbench/internal/quad"
)

// Resolver maps a function name to its body inside the worker process.
type Resolver interface {
	Resolve(name string) (quad.Func, error)
}

// Serve answers requests read from r until EOF. A failing job is reported in
// its response; only I/O and decoding problems end the loop with an error.
func Serve(ctx context.Context, r io.Reader, w io.Writer, resolve Resolver) error {
	dec := json.NewDecoder(r)
	enc := json.NewEncoder(w)

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("procpool: decode request: %w", err)
		}

		resp := handle(ctx, req, resolve)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("procpool: encode response: %w", err)
		}
	}
}

func handle(ctx context.Context, req Request, resolve Resolver) Response {
	resp := Response{Job: req.Index}

	f, err := resolve.Resolve(req.Func)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrUnresolvedFunction, err)
		resp.Error, resp.Kind = err.Error(), kindOf(err)
		return resp
	}

	v, err := quad.RunJob(ctx, f, req.Job)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", errCanceled, err)
		}
		resp.Error, resp.Kind = err.Error(), kindOf(err)
		return resp
	}
	resp.Value = v
	return resp
}
