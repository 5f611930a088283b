package listkit

import (
	"errors"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowCapacity(t *testing.T) {
	tests := []struct {
		name     string
		old      int
		required int
		limit    int
		want     int
		wantErr  bool
	}{
		{"from empty", 0, 1, MaxCapacity, 1, false},
		{"by half", 10, 11, MaxCapacity, 15, false},
		{"required wins", 10, 40, MaxCapacity, 40, false},
		{"clamped to limit", 19, 20, 20, 20, false},
		{"near max", MaxCapacity - 10, MaxCapacity - 9, MaxCapacity, MaxCapacity, false},
		{"beyond limit", 20, 21, 20, 0, true},
		{"overflowed required", 10, -5, MaxCapacity, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := growCapacity(tt.old, tt.required, tt.limit)
			if tt.wantErr {
				if !errors.Is(err, ErrCapacityExceeded) {
					t.Errorf("growCapacity(%d, %d) error = %v, want ErrCapacityExceeded", tt.old, tt.required, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("growCapacity(%d, %d) error = %v", tt.old, tt.required, err)
			}
			if got != tt.want {
				t.Errorf("growCapacity(%d, %d) = %d, want %d", tt.old, tt.required, got, tt.want)
			}
		})
	}
}

func TestGrowthSequenceUpToLimit(t *testing.T) {
	l, err := NewArrayListWithCapacity[int](0)
	require.NoError(t, err)
	l.limit = 20

	var caps []int
	last := l.Capacity()
	for i := 0; i < 20; i++ {
		require.NoError(t, l.Add(i))
		if c := l.Capacity(); c != last {
			caps = append(caps, c)
			last = c
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4, 6, 9, 13, 19, 20}, caps)

	gen := l.Generation()
	assert.ErrorIs(t, l.Add(20), ErrCapacityExceeded)
	assert.ErrorIs(t, l.Insert(0, 20), ErrCapacityExceeded)
	assert.Equal(t, 20, l.Size())
	assert.Equal(t, gen, l.Generation(), "a failed growth changes nothing")
}

func TestDefaultCapacityFloor(t *testing.T) {
	l := NewArrayList[int]()
	_, err := l.AddAll(Of(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, l.Capacity())

	m := NewArrayList[int]()
	vs := make([]int, DefaultCapacity+5)
	for i := range vs {
		vs[i] = i
	}
	_, err = m.AddAll(Of(vs...))
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity+5, m.Capacity())
}

func TestCapacityCoversSize(t *testing.T) {
	prop := func(n uint8) bool {
		l := NewArrayList[int]()
		for i := 0; i < int(n); i++ {
			if l.Add(i) != nil {
				return false
			}
			if l.Capacity() < l.Size() {
				return false
			}
		}
		return l.Size() == int(n)
	}
	require.NoError(t, quick.Check(prop, nil))
}
