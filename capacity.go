package listkit

import (
	"fmt"
	"math"
)

const (
	// DefaultCapacity is the size of the first allocation of an ArrayList
	// created without an explicit capacity.
	DefaultCapacity = 10

	// MaxCapacity bounds the storage of an ArrayList. A few slots below the
	// 32-bit limit are kept free so indexes and sizes stay representable on
	// every platform.
	MaxCapacity = math.MaxInt32 - 8
)

// growCapacity computes the next storage size for a buffer of old slots that
// must hold at least required elements. The buffer grows by half, or to
// required when that is larger, clamped to limit. It fails when required
// itself is beyond limit or overflowed.
func growCapacity(old, required, limit int) (int, error) {
	if required < 0 || required > limit {
		return 0, fmt.Errorf("listkit: need %d slots, limit %d: %w", required, limit, ErrCapacityExceeded)
	}
	newCap := old + old>>1
	if newCap < 0 || newCap > limit {
		newCap = limit
	}
	if newCap < required {
		newCap = required
	}
	return newCap, nil
}
