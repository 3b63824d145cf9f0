// Package procpool runs integration jobs in isolated worker processes.
//
// The parent re-executes a binary (by default the running one) once per job.
// The child reads a single Request from stdin, evaluates it with the
// integration kernel and writes a Response to stdout. Functions travel by
// name; the child resolves them against its own registry.
package procpool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/quadbench/internal/quad"
)

var (
	ErrUnnamedFunction    = errors.New("procpool: function has no registry name")
	ErrUnresolvedFunction = errors.New("procpool: worker cannot resolve function")
	ErrRemote             = errors.New("procpool: worker reported an error")
	ErrBadResponse        = errors.New("procpool: malformed worker response")

	errCanceled = errors.New("procpool: worker canceled")
)

// DefaultArgs makes the child enter worker mode.
var DefaultArgs = []string{"worker"}

type Config struct {
	// Executable is the worker binary. Empty means os.Executable().
	Executable string
	Args       []string
	// Env is appended to the parent's environment.
	Env []string
	// MaxProcs caps concurrently running children; zero means one per job.
	MaxProcs int
}

type Pool struct {
	cfg Config
}

func New(cfg Config) *Pool {
	if cfg.Args == nil {
		cfg.Args = DefaultArgs
	}
	return &Pool{cfg: cfg}
}

func (p *Pool) executable() (string, error) {
	if p.cfg.Executable != "" {
		return p.cfg.Executable, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("procpool: locate executable: %w", err)
	}
	return exe, nil
}

// Execute runs each job in its own child process. The first failure kills
// the remaining children.
func (p *Pool) Execute(ctx context.Context, fn quad.Function, jobs []quad.Job) ([]float64, error) {
	if fn.Name == "" {
		return nil, ErrUnnamedFunction
	}
	exe, err := p.executable()
	if err != nil {
		return nil, err
	}

	parts := make([]float64, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.MaxProcs > 0 {
		g.SetLimit(p.cfg.MaxProcs)
	}

	for i, job := range jobs {
		g.Go(func() error {
			v, err := p.runOne(gctx, exe, Request{Func: fn.Name, Job: job})
			if err != nil {
				return &quad.JobError{Job: job.Index, Wrapped: err}
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

func (p *Pool) runOne(ctx context.Context, exe string, req Request) (float64, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, exe, p.cfg.Args...)
	cmd.Env = append(os.Environ(), p.cfg.Env...)
	cmd.Stdin = bytes.NewReader(append(payload, '\n'))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return 0, fmt.Errorf("worker exited: %w", err)
		}
		return 0, fmt.Errorf("worker exited: %w: %s", err, msg)
	}

	var resp Response
	if err := json.NewDecoder(&stdout).Decode(&resp); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if resp.Job != req.Index {
		return 0, fmt.Errorf("%w: answer for job %d, expected %d", ErrBadResponse, resp.Job, req.Index)
	}
	if resp.Error != "" {
		return 0, remoteError(resp.Kind, resp.Error)
	}
	return resp.Value, nil
}
