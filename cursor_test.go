package listkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, c Cursor[int]) []int {
	t.Helper()
	var out []int
	for c.HasNext() {
		v, err := c.Next()
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestCursorTraversal(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2, 3)
		c := l.Cursor()
		assert.False(t, c.HasPrevious())
		assert.Equal(t, -1, c.PreviousIndex())
		assert.Equal(t, []int{1, 2, 3}, collect(t, c))

		_, err := c.Next()
		assert.ErrorIs(t, err, ErrNoSuchElement)
		assert.NoError(t, c.Err(), "running off the end is not a conflict")

		var back []int
		for c.HasPrevious() {
			v, err := c.Previous()
			require.NoError(t, err)
			back = append(back, v)
		}
		assert.Equal(t, []int{3, 2, 1}, back)
		_, err = c.Previous()
		assert.ErrorIs(t, err, ErrNoSuchElement)
	})
}

func TestCursorAt(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2, 3, 4)
		c, err := l.CursorAt(2)
		require.NoError(t, err)
		assert.Equal(t, 2, c.NextIndex())
		assert.Equal(t, 1, c.PreviousIndex())
		v, err := c.Previous()
		require.NoError(t, err)
		assert.Equal(t, 2, v)

		end, err := l.CursorAt(4)
		require.NoError(t, err)
		assert.False(t, end.HasNext())
		v, err = end.Previous()
		require.NoError(t, err)
		assert.Equal(t, 4, v)
	})
}

func TestCursorGoesStale(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2, 3)
		c := l.Cursor()
		_, err := c.Next()
		require.NoError(t, err)

		require.NoError(t, l.Add(4))

		_, err = c.Next()
		assert.ErrorIs(t, err, ErrConcurrentModification)
		assert.ErrorIs(t, c.Err(), ErrConcurrentModification)
		assert.ErrorIs(t, c.Remove(), ErrConcurrentModification)
		assert.ErrorIs(t, c.Set(0), ErrConcurrentModification)
		assert.ErrorIs(t, c.Add(0), ErrConcurrentModification)
		_, err = c.Previous()
		assert.ErrorIs(t, err, ErrConcurrentModification)
		assert.ErrorIs(t, c.ForEachRemaining(func(int) {}), ErrConcurrentModification)
	})
}

func TestCursorMutationsKeepItLive(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2, 3, 4)
		c := l.Cursor()
		for c.HasNext() {
			v, err := c.Next()
			require.NoError(t, err)
			switch {
			case v%2 == 0:
				require.NoError(t, c.Remove())
			case v == 3:
				require.NoError(t, c.Set(30))
				require.NoError(t, c.Add(35))
			}
		}
		require.NoError(t, c.Err())
		assert.Equal(t, []int{1, 30, 35}, l.Values())

		// the cursor still walks backward over the result
		v, err := c.Previous()
		require.NoError(t, err)
		assert.Equal(t, 35, v)
	})
}

func TestCursorIllegalState(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2)
		c := l.Cursor()
		assert.ErrorIs(t, c.Remove(), ErrIllegalState)
		assert.ErrorIs(t, c.Set(5), ErrIllegalState)

		_, err := c.Next()
		require.NoError(t, err)
		require.NoError(t, c.Remove())
		assert.ErrorIs(t, c.Remove(), ErrIllegalState, "one Remove per step")

		_, err = c.Next()
		require.NoError(t, err)
		require.NoError(t, c.Add(7))
		assert.ErrorIs(t, c.Set(8), ErrIllegalState, "Add resets the last returned element")
		assert.Equal(t, []int{2, 7}, l.Values())
		assert.NoError(t, c.Err())
	})
}

func TestCursorRemoveAfterPrevious(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2, 3)
		c, err := l.CursorAt(2)
		require.NoError(t, err)
		v, err := c.Previous()
		require.NoError(t, err)
		assert.Equal(t, 2, v)
		require.NoError(t, c.Remove())
		assert.Equal(t, 1, c.NextIndex())

		v, err = c.Next()
		require.NoError(t, err)
		assert.Equal(t, 3, v)
		assert.Equal(t, []int{1, 3}, l.Values())
	})
}

func TestCursorForEachRemaining(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2, 3, 4)
		c := l.Cursor()
		_, err := c.Next()
		require.NoError(t, err)

		var rest []int
		require.NoError(t, c.ForEachRemaining(func(v int) { rest = append(rest, v) }))
		assert.Equal(t, []int{2, 3, 4}, rest)
		assert.False(t, c.HasNext())

		// the last element seen may be removed afterwards
		require.NoError(t, c.Remove())
		assert.Equal(t, []int{1, 2, 3}, l.Values())

		assert.ErrorIs(t, c.ForEachRemaining(nil), ErrNilArgument)
	})
}

func TestCursorForEachRemainingDetectsChange(t *testing.T) {
	forEachImpl(t, func(t *testing.T, mk func(vs ...int) List[int]) {
		l := mk(1, 2, 3)
		c := l.Cursor()
		calls := 0
		err := c.ForEachRemaining(func(int) {
			calls++
			_ = l.Add(0)
		})
		assert.ErrorIs(t, err, ErrConcurrentModification)
		assert.Equal(t, 1, calls)
	})
}

func TestDescendingCursor(t *testing.T) {
	l := newLinkedOf(1, 2, 3, 4)
	d := l.DescendingCursor()
	assert.Equal(t, []int{4, 3, 2, 1}, collect(t, d))
	_, err := d.Next()
	assert.ErrorIs(t, err, ErrNoSuchElement)

	d = l.DescendingCursor()
	for d.HasNext() {
		v, err := d.Next()
		require.NoError(t, err)
		if v%2 == 1 {
			require.NoError(t, d.Remove())
		}
	}
	assert.Equal(t, []int{2, 4}, l.Values())

	d = l.DescendingCursor()
	var seen []int
	require.NoError(t, d.ForEachRemaining(func(v int) { seen = append(seen, v) }))
	assert.Equal(t, []int{4, 2}, seen)

	d = l.DescendingCursor()
	l.Push(0)
	_, err = d.Next()
	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.ErrorIs(t, d.Err(), ErrConcurrentModification)
}
