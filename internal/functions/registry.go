// Package functions holds the named integrands that can cross a process
// boundary. A process worker receives a name and resolves it here.
package functions

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/quadbench/internal/quad"
)

var ErrUnknownFunction = errors.New("functions: unknown function")

// Entry is a registered integrand. Antiderivative may be nil when no closed
// form is known.
type Entry struct {
	Name           string
	Description    string
	F              quad.Func
	Antiderivative func(x float64) float64
}

// Exact returns the analytic value of the integral over [a, b], if known.
func (e Entry) Exact(a, b float64) (float64, bool) {
	if e.Antiderivative == nil {
		return 0, false
	}
	return e.Antiderivative(b) - e.Antiderivative(a), true
}

// Function returns the entry as a kernel function reference.
func (e Entry) Function() quad.Function {
	return quad.Function{Name: e.Name, Eval: e.F}
}

type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

func (r *Registry) Register(e Entry) error {
	if e.Name == "" || e.F == nil {
		return fmt.Errorf("functions: entry needs a name and a body")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.Name]; ok {
		return fmt.Errorf("functions: %s already registered", e.Name)
	}
	r.entries[e.Name] = e
	return nil
}

func (r *Registry) Get(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return e, nil
}

// Resolve satisfies procpool.Resolver.
func (r *Registry) Resolve(name string) (quad.Func, error) {
	e, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return e.F, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry with the built-in integrands.
func Default() *Registry {
	r := NewRegistry()
	for _, e := range builtins() {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

func builtins() []Entry {
	return []Entry{
		{
			Name: "cos", Description: "cos(x)",
			F: math.Cos, Antiderivative: math.Sin,
		},
		{
			Name: "sin", Description: "sin(x)",
			F: math.Sin, Antiderivative: func(x float64) float64 { return -math.Cos(x) },
		},
		{
			Name: "exp", Description: "e^x",
			F: math.Exp, Antiderivative: math.Exp,
		},
		{
			Name: "square", Description: "x^2",
			F:              func(x float64) float64 { return x * x },
			Antiderivative: func(x float64) float64 { return x * x * x / 3 },
		},
		{
			Name: "cube", Description: "x^3",
			F:              func(x float64) float64 { return x * x * x },
			Antiderivative: func(x float64) float64 { return x * x * x * x / 4 },
		},
		{
			Name: "one", Description: "constant 1",
			F:              func(float64) float64 { return 1 },
			Antiderivative: func(x float64) float64 { return x },
		},
		{
			Name: "quadratic", Description: "x^2 + 2x + 1",
			F:              func(x float64) float64 { return x*x + 2*x + 1 },
			Antiderivative: func(x float64) float64 { return x*x*x/3 + x*x + x },
		},
		{
			Name: "sqrt", Description: "sqrt(x), x >= 0",
			F:              math.Sqrt,
			Antiderivative: func(x float64) float64 { return 2 * x * math.Sqrt(x) / 3 },
		},
		{
			Name: "gauss", Description: "e^(-x^2)",
			F:              func(x float64) float64 { return math.Exp(-x * x) },
			Antiderivative: func(x float64) float64 { return math.Sqrt(math.Pi) / 2 * math.Erf(x) },
		},
		{
			Name: "heavy_cos", Description: "cos(x) with extra CPU work per sample",
			F: heavyCos, Antiderivative: math.Sin,
		},
	}
}

// heavyCos returns cos(x) after burning a fixed amount of CPU, so that
// per-sample cost dominates dispatch overhead in benchmarks.
func heavyCos(x float64) float64 {
	acc := x
	for i := 0; i < 64; i++ {
		acc = math.Sin(acc) + x
	}
	return math.Cos(x) + 0*acc
}
