package procpool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/quadbench/internal/functions"
	"github.com/san-kum/quadbench/internal/quad"
)

const helperEnv = "QUADBENCH_PROCPOOL_HELPER"

// testResolver extends the default registry with integrands that fail in
// the two ways a worker can: a panic inside the job, or the process dying.
type testResolver struct {
	reg *functions.Registry
}

func (r testResolver) Resolve(name string) (quad.Func, error) {
	switch name {
	case "explode":
		return func(float64) float64 { panic("explode") }, nil
	case "crash":
		return func(float64) float64 {
			os.Exit(3)
			return 0
		}, nil
	}
	return r.reg.Resolve(name)
}

// The test binary doubles as the worker executable.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		if err := Serve(context.Background(), os.Stdin, os.Stdout, testResolver{reg: functions.Default()}); err != nil {
			os.Stderr.WriteString(err.Error())
			os.Exit(2)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func helperPool(maxProcs int) *Pool {
	return New(Config{
		Executable: os.Args[0],
		Args:       []string{},
		Env:        []string{helperEnv + "=1"},
		MaxProcs:   maxProcs,
	})
}

func TestPoolAgreesWithSequential(t *testing.T) {
	ctx := context.Background()
	seq, err := quad.Integrate(math.Cos, 0, math.Pi/2, 8000)
	require.NoError(t, err)

	for _, maxProcs := range []int{0, 2} {
		fn := quad.Function{Name: "cos"}
		got, err := quad.IntegrateParallel(ctx, helperPool(maxProcs), fn, 0, math.Pi/2, 4, 8000)
		require.NoError(t, err)
		assert.InDelta(t, seq, got, 1e-9)
	}
}

func TestPoolTruncatedRemainder(t *testing.T) {
	got, err := quad.IntegrateParallel(context.Background(), helperPool(0), quad.Function{Name: "square"}, 0, 1, 3, 1000)
	require.NoError(t, err)
	effective := quad.EffectiveSamples(1000, 3, quad.SplitTruncate)
	assert.InDelta(t, 1.0/3.0, got, 1.0/float64(effective))
}

func TestPoolRequiresName(t *testing.T) {
	_, err := helperPool(0).Execute(context.Background(), quad.Function{Eval: math.Cos}, []quad.Job{{N: 1, B: 1}})
	assert.ErrorIs(t, err, ErrUnnamedFunction)
}

func TestPoolWorkerFailures(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		want error
	}{
		{"panic in job", "explode", quad.ErrFunctionPanicked},
		{"unknown function", "tan", ErrUnresolvedFunction},
		{"process exit", "crash", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := quad.IntegrateParallel(context.Background(), helperPool(0), quad.Function{Name: tt.fn}, 0, 1, 2, 100)
			require.Error(t, err)
			assert.Zero(t, v)
			assert.ErrorIs(t, err, quad.ErrWorkerFailed)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}

			var jobErr *quad.JobError
			assert.True(t, errors.As(err, &jobErr))
		})
	}
}

func TestPoolCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := quad.IntegrateParallel(ctx, helperPool(0), quad.Function{Name: "cos"}, 0, 1, 2, 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServe(t *testing.T) {
	var in bytes.Buffer
	enc := json.NewEncoder(&in)
	require.NoError(t, enc.Encode(Request{Func: "one", Job: quad.Job{Index: 0, A: 0, B: 2, N: 100}}))
	require.NoError(t, enc.Encode(Request{Func: "nope", Job: quad.Job{Index: 1, A: 0, B: 1, N: 10}}))
	require.NoError(t, enc.Encode(Request{Func: "one", Job: quad.Job{Index: 2, A: 1, B: 0, N: 10}}))
	require.NoError(t, enc.Encode(Request{Func: "one", Job: quad.Job{Index: 3, A: 0, B: 1, N: 0}}))

	var out bytes.Buffer
	require.NoError(t, Serve(context.Background(), &in, &out, functions.Default()))

	dec := json.NewDecoder(&out)
	var resps []Response
	for dec.More() {
		var r Response
		require.NoError(t, dec.Decode(&r))
		resps = append(resps, r)
	}
	require.Len(t, resps, 4)

	assert.Equal(t, 0, resps[0].Job)
	assert.InDelta(t, 2.0, resps[0].Value, 1e-9)
	assert.Empty(t, resps[0].Error)

	assert.Equal(t, kindUnresolved, resps[1].Kind)
	assert.Equal(t, kindInvalidBounds, resps[2].Kind)
	assert.Equal(t, kindInvalidPartition, resps[3].Kind)
}

func TestServeMalformedInput(t *testing.T) {
	err := Serve(context.Background(), strings.NewReader("{not json"), &bytes.Buffer{}, functions.Default())
	assert.Error(t, err)
}

func TestRemoteErrorKeepsSentinel(t *testing.T) {
	err := remoteError(kindInvalidBounds, "a=1 b=0")
	assert.ErrorIs(t, err, quad.ErrInvalidBounds)
	assert.Contains(t, err.Error(), "a=1 b=0")
	assert.ErrorIs(t, remoteError("mystery", "x"), ErrRemote)
}
