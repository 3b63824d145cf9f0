package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()
	errv := 1e-4
	base := time.Unix(1700000000, 0)

	require.NoError(t, l.Record(ctx,
		Entry{RunID: "r1", RecordedAt: base, Func: "cos", Mode: "sequential", B: 3.14, NIter: 1000, Jobs: 1, Mean: time.Millisecond, Value: 0.001, AbsError: &errv},
		Entry{RunID: "r1", RecordedAt: base.Add(time.Second), Func: "cos", Mode: "threads", B: 3.14, NIter: 1000, Jobs: 4, Mean: 300 * time.Microsecond, Value: 0.001},
	))

	recent, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "threads", recent[0].Mode)
	assert.Nil(t, recent[0].AbsError)
	require.NotNil(t, recent[1].AbsError)
	assert.InDelta(t, 1e-4, *recent[1].AbsError, 1e-12)
	assert.Equal(t, time.Millisecond, recent[1].Mean)
	assert.True(t, recent[1].RecordedAt.Equal(base))

	limited, err := l.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestBest(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx,
		Entry{RunID: "a", Func: "cos", Mode: "threads", NIter: 1000, Mean: 5 * time.Millisecond},
		Entry{RunID: "b", Func: "cos", Mode: "threads", NIter: 1000, Mean: 2 * time.Millisecond},
		Entry{RunID: "c", Func: "cos", Mode: "sequential", NIter: 1000, Mean: 4 * time.Millisecond},
		Entry{RunID: "d", Func: "cos", Mode: "threads", NIter: 10000, Mean: 9 * time.Millisecond},
		Entry{RunID: "e", Func: "sin", Mode: "threads", NIter: 1000, Mean: time.Microsecond},
	))

	best, err := l.Best(ctx, "cos")
	require.NoError(t, err)
	require.Len(t, best, 3)

	assert.Equal(t, "sequential", best[0].Mode)
	assert.Equal(t, "threads", best[1].Mode)
	assert.Equal(t, "b", best[1].RunID)
	assert.Equal(t, 10000, best[2].NIter)

	none, err := l.Best(ctx, "tan")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Record(context.Background(), Entry{Func: "one", Mode: "sequential", NIter: 10, Mean: time.Microsecond}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	recent, err := l.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
