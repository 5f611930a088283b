package parallel

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/listkit"
)

func arrayOf(t *testing.T, n int) *listkit.ArrayList[int] {
	t.Helper()
	l := listkit.NewArrayList[int]()
	for i := 0; i < n; i++ {
		require.NoError(t, l.Add(i))
	}
	return l
}

func linkedOf(n int) *listkit.LinkedList[int] {
	l := listkit.NewLinkedList[int]()
	for i := 0; i < n; i++ {
		l.AddLast(i)
	}
	return l
}

func TestSplitPieces(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		n     int
		sizes []int
	}{
		{"four ways", 8, 4, []int{2, 2, 2, 2}},
		{"three ways", 8, 3, []int{2, 2, 4}},
		{"one way", 8, 1, []int{8}},
		{"too small", 1, 4, []int{1}},
		{"empty", 0, 4, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pieces := Split(arrayOf(t, tt.size).SplitCursor(), tt.n)
			var sizes []int
			var order []int
			for _, p := range pieces {
				sizes = append(sizes, p.EstimateSize())
				require.NoError(t, p.ForEachRemaining(func(v int) { order = append(order, v) }))
			}
			assert.Equal(t, tt.sizes, sizes)
			for i, v := range order {
				assert.Equal(t, i, v, "pieces keep encounter order")
			}
			assert.Len(t, order, tt.size)
		})
	}
}

func TestForEachVisitsEverything(t *testing.T) {
	const n = 10_000
	for name, sc := range map[string]listkit.SplitCursor[int]{
		"array":  arrayOf(t, n).SplitCursor(),
		"linked": linkedOf(n).SplitCursor(),
	} {
		t.Run(name, func(t *testing.T) {
			var sum, count atomic.Int64
			err := ForEach(context.Background(), sc, Options{Workers: 4}, func(v int) {
				sum.Add(int64(v))
				count.Add(1)
			})
			require.NoError(t, err)
			assert.Equal(t, int64(n), count.Load())
			assert.Equal(t, int64(n*(n-1)/2), sum.Load())
		})
	}
}

func TestForEachOverWindows(t *testing.T) {
	const n = 5_000
	array, err := arrayOf(t, n).SubList(10, 4000)
	require.NoError(t, err)
	linked, err := linkedOf(n).SubList(10, 4000)
	require.NoError(t, err)

	for name, v := range map[string]*listkit.View[int]{"array": array, "linked": linked} {
		t.Run(name, func(t *testing.T) {
			var sum, count atomic.Int64
			err := ForEach(context.Background(), v.SplitCursor(), Options{Workers: 8}, func(x int) {
				sum.Add(int64(x))
				count.Add(1)
			})
			require.NoError(t, err)
			if got := count.Load(); got != 3990 {
				t.Errorf("visited %d elements, want 3990", got)
			}
			if got, want := sum.Load(), int64((10+3999)*3990/2); got != want {
				t.Errorf("sum = %d, want %d", got, want)
			}
		})
	}
}

func TestReduceMergesInOrder(t *testing.T) {
	const n = 5000
	for name, sc := range map[string]listkit.SplitCursor[int]{
		"array":  arrayOf(t, n).SplitCursor(),
		"linked": linkedOf(n).SplitCursor(),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Reduce(context.Background(), sc, Options{Workers: 8},
				func() []int { return nil },
				func(acc []int, v int) []int { return append(acc, v) },
				func(a, b []int) []int { return append(a, b...) },
			)
			require.NoError(t, err)
			require.Len(t, got, n)
			for i, v := range got {
				if v != i {
					t.Fatalf("element %d is %d", i, v)
				}
			}
		})
	}
}

func TestForEachCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := ForEach(ctx, arrayOf(t, 100).SplitCursor(), Options{Workers: 1}, func(int) { calls++ })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestReportsStaleCursor(t *testing.T) {
	l := arrayOf(t, 100)
	sc := l.SplitCursor()
	require.Equal(t, 100, sc.EstimateSize())
	require.NoError(t, l.Add(100))

	err := ForEach(context.Background(), sc, Options{Workers: 2}, func(int) {})
	assert.ErrorIs(t, err, listkit.ErrConcurrentModification)

	_, err = Reduce(context.Background(), l.SplitCursor(), Options{},
		func() int { return 0 },
		func(a, v int) int { return a + v },
		func(a, b int) int { return a + b },
	)
	assert.NoError(t, err, "a fresh cursor is fine")
}

func TestLogsSplit(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	err := ForEach(context.Background(), arrayOf(t, 16).SplitCursor(), Options{Workers: 2, Logger: log}, func(int) {})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "parallel foreach")
	assert.Contains(t, buf.String(), "pieces=2")
}
