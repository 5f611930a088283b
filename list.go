package listkit

import (
	"log/slog"

	"github.com/bits-and-blooms/bitset"
)

// Collection is the read-only surface consumed by bulk operations.
// Every List is a Collection; Of builds one from literal values.
type Collection[T comparable] interface {
	Size() int
	Contains(v T) bool
	Values() []T
}

// List is the positional sequence surface shared by ArrayList, LinkedList
// and View.
//
// Structural mutations (anything that changes the number or order of
// elements) advance the root container's generation. Cursors, split cursors
// and views created before such a change, and not involved in it, report
// ErrConcurrentModification on their next use.
type List[T comparable] interface {
	Collection[T]

	Empty() bool
	IndexOf(v T) int
	LastIndexOf(v T) int

	// Get returns the element at i, or an *IndexError unless 0 <= i < Size().
	Get(i int) (T, error)
	// Set replaces the element at i and returns the previous one.
	Set(i int, v T) (T, error)

	Add(v T) error
	// Insert places v at position i, 0 <= i <= Size(), shifting later
	// elements up by one.
	Insert(i int, v T) error
	RemoveAt(i int) (T, error)
	// Remove removes the first element equal to v and reports whether one was found.
	Remove(v T) bool
	// RemoveRange removes the elements in [from, to).
	RemoveRange(from, to int) error
	Clear()

	AddAll(c Collection[T]) (bool, error)
	InsertAll(i int, c Collection[T]) (bool, error)
	RemoveAll(c Collection[T]) (bool, error)
	RetainAll(c Collection[T]) (bool, error)
	RemoveIf(pred func(T) bool) (bool, error)
	ReplaceAll(fn func(T) T) error
	Sort(cmp func(a, b T) int) error
	ForEach(fn func(T)) error

	Cursor() ListCursor[T]
	CursorAt(i int) (ListCursor[T], error)
	SubList(from, to int) (*View[T], error)
	SplitCursor() SplitCursor[T]

	// Generation returns the root container's structural mutation count.
	Generation() uint64
}

// Deque is the double-ended queue surface of LinkedList.
//
// Peek and Poll variants report absence with a false second result; Get,
// Remove, Element and Pop variants report it as ErrNoSuchElement.
type Deque[T comparable] interface {
	AddFirst(v T)
	AddLast(v T)
	OfferFirst(v T) bool
	OfferLast(v T) bool
	Offer(v T) bool
	Push(v T)

	GetFirst() (T, error)
	GetLast() (T, error)
	Element() (T, error)
	PeekFirst() (T, bool)
	PeekLast() (T, bool)
	Peek() (T, bool)

	RemoveFirst() (T, error)
	RemoveLast() (T, error)
	RemoveHead() (T, error)
	Pop() (T, error)
	PollFirst() (T, bool)
	PollLast() (T, bool)
	Poll() (T, bool)

	RemoveFirstOccurrence(v T) bool
	RemoveLastOccurrence(v T) bool
	DescendingCursor() Cursor[T]
}

// sequence is the capability a View delegates to. It is implemented by the
// root containers and by View itself, so views can be chained.
type sequence[T comparable] interface {
	List[T]

	insertValues(op string, i int, vs []T) error
	values(from, to int) []T
	setRange(from int, vs []T)
	// removeMarked removes the elements from+i for every i < n set in marks,
	// as one structural change, and returns how many it removed.
	removeMarked(from, n int, marks *bitset.BitSet) int
	touch()
	logger() *slog.Logger
}

// setOf is the Collection returned by Of.
type setOf[T comparable] struct {
	vals []T
	set  map[T]struct{}
}

// Of returns a Collection holding vs in order, with constant-time Contains.
func Of[T comparable](vs ...T) Collection[T] {
	s := &setOf[T]{
		vals: append([]T(nil), vs...),
		set:  make(map[T]struct{}, len(vs)),
	}
	for _, v := range vs {
		s.set[v] = struct{}{}
	}
	return s
}

func (s *setOf[T]) Size() int { return len(s.vals) }

func (s *setOf[T]) Contains(v T) bool {
	_, ok := s.set[v]
	return ok
}

func (s *setOf[T]) Values() []T {
	out := make([]T, len(s.vals))
	copy(out, s.vals)
	return out
}

// collectionValues validates c and returns its elements.
func collectionValues[T comparable](op string, c Collection[T]) ([]T, error) {
	if c == nil {
		return nil, nilArgument(op, "collection")
	}
	return c.Values(), nil
}
