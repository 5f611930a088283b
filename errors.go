// Package listkit provides generic sequence containers, a growable
// array-backed list and an arena-backed doubly linked list/deque, together
// with live sublist views and fail-fast cursors for traversing them.
package listkit

import (
	"errors"
	"fmt"
)

// Index errors
var (
	// ErrIndexOutOfRange indicates an index or position outside the valid range.
	// Errors carrying the offending index are of type *IndexError.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrIllegalArgument indicates an argument with an invalid value, such as a
	// negative capacity or a range whose start is after its end.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrNilArgument indicates that a required collection, predicate,
	// comparator or function was nil.
	ErrNilArgument = errors.New("nil argument")
)

// Element errors
var (
	// ErrNoSuchElement indicates a read or removal on an empty sequence, or a
	// cursor step past either end.
	ErrNoSuchElement = errors.New("no such element")
)

// Traversal errors
var (
	// ErrConcurrentModification indicates that the structure was modified
	// other than through the cursor or view that detected it.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrIllegalState indicates a cursor mutation without a preceding
	// successful Next or Previous.
	ErrIllegalState = errors.New("illegal cursor state")
)

// Capacity errors
var (
	// ErrCapacityExceeded indicates that storage cannot grow to the requested size.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// IndexError reports an index outside the range accepted by an operation.
type IndexError struct {
	Op    string
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("listkit: %s: index %d out of range (size %d)", e.Op, e.Index, e.Size)
}

// Unwrap makes errors.Is(err, ErrIndexOutOfRange) hold.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// checkElementIndex accepts 0 <= i < size.
func checkElementIndex(op string, i, size int) error {
	if i < 0 || i >= size {
		return &IndexError{Op: op, Index: i, Size: size}
	}
	return nil
}

// checkPositionIndex accepts 0 <= i <= size.
func checkPositionIndex(op string, i, size int) error {
	if i < 0 || i > size {
		return &IndexError{Op: op, Index: i, Size: size}
	}
	return nil
}

// checkRange validates a half-open range [from, to) against size.
func checkRange(op string, from, to, size int) error {
	if from < 0 {
		return &IndexError{Op: op, Index: from, Size: size}
	}
	if to > size {
		return &IndexError{Op: op, Index: to, Size: size}
	}
	if from > to {
		return fmt.Errorf("listkit: %s: from %d > to %d: %w", op, from, to, ErrIllegalArgument)
	}
	return nil
}

func nilArgument(op, what string) error {
	return fmt.Errorf("listkit: %s: %s is nil: %w", op, what, ErrNilArgument)
}
