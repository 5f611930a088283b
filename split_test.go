package listkit

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainSplit(t *testing.T, s SplitCursor[int]) []int {
	t.Helper()
	var out []int
	require.NoError(t, s.ForEachRemaining(func(v int) { out = append(out, v) }))
	return out
}

func seq(n int) []int {
	vs := make([]int, n)
	for i := range vs {
		vs[i] = i
	}
	return vs
}

func TestSplitHalves(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(seq(8)...)
		s := l.SplitCursor()
		assert.Equal(t, 8, s.EstimateSize())

		prefix := s.TrySplit()
		require.NotNil(t, prefix)
		if _, linked := s.(*linkedSplit[int]); !linked {
			assert.Equal(t, 4, prefix.EstimateSize())
			assert.Equal(t, 4, s.EstimateSize())
			assert.Equal(t, []int{0, 1, 2, 3}, drainSplit(t, prefix))
			assert.Equal(t, []int{4, 5, 6, 7}, drainSplit(t, s))
			return
		}
		// a linked chain hands off its whole (short) range as one batch
		assert.Equal(t, 8, prefix.EstimateSize())
		assert.Equal(t, 0, s.EstimateSize())
		assert.Equal(t, seq(8), drainSplit(t, prefix))
	})
}

func TestSplitSingleElementDoesNotSplit(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		s := mk(42).SplitCursor()
		assert.Nil(t, s.TrySplit())

		ok, err := s.TryAdvance(func(v int) { assert.Equal(t, 42, v) })
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = s.TryAdvance(func(int) { t.Fatal("advanced past the end") })
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, s.TrySplit())
	})
}

func TestSplitCoversEverythingOnce(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		for _, n := range []int{0, 1, 2, 3, 7, 100, 3000} {
			l := mk(seq(n)...)
			pending := []SplitCursor[int]{l.SplitCursor()}
			var parts []SplitCursor[int]
			for len(pending) > 0 {
				s := pending[len(pending)-1]
				pending = pending[:len(pending)-1]
				if p := s.TrySplit(); p != nil {
					// keep encounter order: the prefix goes before s
					pending = append(pending, s, p)
					continue
				}
				parts = append(parts, s)
			}
			var got []int
			for _, p := range parts {
				got = append(got, drainSplit(t, p)...)
			}
			if n == 0 {
				assert.Empty(t, got)
				continue
			}
			assert.Equal(t, seq(n), got, "n=%d", n)
		}
	})
}

func TestSplitIsLateBinding(t *testing.T) {
	for _, r := range roots() {
		t.Run(r.name, func(t *testing.T) {
			l := r.make(1, 2)
			s := l.SplitCursor()
			require.NoError(t, l.Add(3))
			assert.Equal(t, []int{1, 2, 3}, drainSplit(t, s))
		})
	}
}

func TestSplitDetectsChange(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2, 3, 4)
		s := l.SplitCursor()
		ok, err := s.TryAdvance(func(int) {})
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, l.Add(5))
		_, err = s.TryAdvance(func(int) {})
		assert.ErrorIs(t, err, ErrConcurrentModification)
		assert.ErrorIs(t, s.ForEachRemaining(func(int) {}), ErrConcurrentModification)
	})
}

func TestSplitDetectsChangeDuringTraversal(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2, 3)
		s := l.SplitCursor()
		calls := 0
		err := s.ForEachRemaining(func(int) {
			calls++
			if calls == 1 {
				_, _ = l.RemoveAt(0)
			}
		})
		assert.ErrorIs(t, err, ErrConcurrentModification)
	})
}

func TestLinkedSplitBatchesGrow(t *testing.T) {
	n := 5000
	l := newLinkedOf(seq(n)...)
	s := l.SplitCursor()

	var sizes []int
	next := 0
	for {
		p := s.TrySplit()
		if p == nil {
			break
		}
		sizes = append(sizes, p.EstimateSize())
		got := drainSplit(t, p)
		require.Equal(t, seq(n)[next:next+len(got)], got)
		next += len(got)
	}
	assert.Equal(t, []int{1024, 2048, 1928}, sizes)
	assert.Equal(t, n, next)
	assert.Equal(t, 0, s.EstimateSize())
}

func TestLinkedSplitStaleDoesNotSplit(t *testing.T) {
	l := newLinkedOf(seq(10)...)
	s := l.SplitCursor()
	assert.Equal(t, 10, s.EstimateSize())
	l.AddLast(10)
	assert.Nil(t, s.TrySplit())
	_, err := s.TryAdvance(func(int) {})
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestViewOverArrayListSplitsStorage(t *testing.T) {
	l := newArrayOf(seq(10)...)
	v, err := l.SubList(2, 8)
	require.NoError(t, err)
	s := v.SplitCursor()
	_, direct := s.(*arraySplit[int])
	assert.True(t, direct)

	p := s.TrySplit()
	require.NotNil(t, p)
	assert.Equal(t, []int{2, 3, 4}, drainSplit(t, p))
	assert.Equal(t, []int{5, 6, 7}, drainSplit(t, s))

	w, err := newLinkedOf(seq(10)...).SubList(2, 8)
	require.NoError(t, err)
	_, batched := w.SplitCursor().(*linkedSplit[int])
	assert.True(t, batched)
}

func TestLinkedViewSplitBatches(t *testing.T) {
	l := newLinkedOf(seq(5000)...)
	outer, err := l.SubList(50, 4150)
	require.NoError(t, err)
	v, err := outer.SubList(50, 4050)
	require.NoError(t, err)

	s := v.SplitCursor()
	var sizes []int
	var got []int
	for p := s.TrySplit(); p != nil; p = s.TrySplit() {
		sizes = append(sizes, p.EstimateSize())
		got = append(got, drainSplit(t, p)...)
	}
	got = append(got, drainSplit(t, s)...)

	if want := []int{1024, 2048, 928}; !slices.Equal(sizes, want) {
		t.Errorf("batch sizes = %v, want %v", sizes, want)
	}
	assert.Equal(t, seq(5000)[100:4100], got)
}

func TestStaleLinkedViewSplit(t *testing.T) {
	l := newLinkedOf(seq(10)...)
	v, err := l.SubList(5, 10)
	require.NoError(t, err)
	l.Clear()

	s := v.SplitCursor()
	assert.Nil(t, s.TrySplit())
	_, err = s.TryAdvance(func(int) { t.Fatal("advanced over a stale window") })
	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.ErrorIs(t, s.ForEachRemaining(func(int) {}), ErrConcurrentModification)
}

func TestSplitNilFunction(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		s := mk(1).SplitCursor()
		_, err := s.TryAdvance(nil)
		assert.ErrorIs(t, err, ErrNilArgument)
		assert.ErrorIs(t, s.ForEachRemaining(nil), ErrNilArgument)
	})
}
