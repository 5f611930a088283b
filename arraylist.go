package listkit

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// ArrayList is a growable list backed by a contiguous buffer. Appends are
// amortized O(1), positional access is O(1), and insertion or removal in the
// middle moves the tail of the buffer in a single block copy.
//
// The zero value is an empty list ready to use; its first growth allocates
// DefaultCapacity slots. An ArrayList is not safe for concurrent use.
type ArrayList[T comparable] struct {
	storage []T // len(storage) is the capacity
	size    int
	gen     generation

	// explicit is set once the capacity was chosen by the caller (or by a
	// trim), which disables the DefaultCapacity floor on the first growth.
	explicit bool
	limit    int // 0 means MaxCapacity
	log      *slog.Logger
}

// NewArrayList returns an empty list that allocates DefaultCapacity slots on
// its first insertion.
func NewArrayList[T comparable](opts ...Option) *ArrayList[T] {
	o := buildOptions(opts)
	return &ArrayList[T]{log: o.logger}
}

// NewArrayListWithCapacity returns an empty list with exactly capacity slots.
// A capacity of zero allocates nothing until the first insertion.
func NewArrayListWithCapacity[T comparable](capacity int, opts ...Option) (*ArrayList[T], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("listkit: NewArrayListWithCapacity: capacity %d: %w", capacity, ErrIllegalArgument)
	}
	if capacity > MaxCapacity {
		return nil, fmt.Errorf("listkit: NewArrayListWithCapacity: capacity %d: %w", capacity, ErrCapacityExceeded)
	}
	o := buildOptions(opts)
	return &ArrayList[T]{
		storage:  make([]T, capacity),
		explicit: true,
		log:      o.logger,
	}, nil
}

// NewArrayListFrom returns a list holding the elements of c in order, with a
// capacity equal to their number.
func NewArrayListFrom[T comparable](c Collection[T], opts ...Option) (*ArrayList[T], error) {
	vs, err := collectionValues("NewArrayListFrom", c)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &ArrayList[T]{
		storage:  vs,
		size:     len(vs),
		explicit: true,
		log:      o.logger,
	}, nil
}

func (l *ArrayList[T]) logger() *slog.Logger {
	return loggerOr(l.log)
}

func (l *ArrayList[T]) maxCapacity() int {
	if l.limit > 0 {
		return l.limit
	}
	return MaxCapacity
}

// Size returns the number of elements.
func (l *ArrayList[T]) Size() int {
	return l.size
}

// Empty reports whether the list holds no elements.
func (l *ArrayList[T]) Empty() bool {
	return l.size == 0
}

// Capacity returns the number of allocated slots.
func (l *ArrayList[T]) Capacity() int {
	return len(l.storage)
}

// Generation returns the number of structural mutations so far.
func (l *ArrayList[T]) Generation() uint64 {
	return l.gen.current()
}

func (l *ArrayList[T]) touch() {
	l.gen.bump()
}

// reserve makes room for at least required elements.
func (l *ArrayList[T]) reserve(required int) error {
	if !l.explicit && len(l.storage) == 0 {
		required = max(DefaultCapacity, required)
	}
	if required <= len(l.storage) && required >= 0 {
		return nil
	}
	return l.grow(required)
}

func (l *ArrayList[T]) grow(required int) error {
	old := len(l.storage)
	newCap, err := growCapacity(old, required, l.maxCapacity())
	if err != nil {
		return err
	}
	storage := make([]T, newCap)
	copy(storage, l.storage[:l.size])
	l.storage = storage
	l.logger().Debug("arraylist grow",
		slog.Int("from", old),
		slog.Int("to", newCap),
		slog.Int("size", l.size))
	return nil
}

// EnsureCapacity grows the buffer, if needed, so it holds at least n
// elements without further allocation. It does not advance the generation.
func (l *ArrayList[T]) EnsureCapacity(n int) error {
	floor := 0
	if !l.explicit && len(l.storage) == 0 {
		floor = DefaultCapacity
	}
	if n <= floor || n <= len(l.storage) {
		return nil
	}
	return l.grow(n)
}

// TrimToSize shrinks the buffer to exactly Size() slots.
func (l *ArrayList[T]) TrimToSize() {
	if l.size >= len(l.storage) {
		return
	}
	old := len(l.storage)
	storage := make([]T, l.size)
	copy(storage, l.storage[:l.size])
	l.storage = storage
	l.explicit = true
	l.logger().Debug("arraylist trim", slog.Int("from", old), slog.Int("to", l.size))
}

// Get returns the element at i.
func (l *ArrayList[T]) Get(i int) (T, error) {
	if err := checkElementIndex("Get", i, l.size); err != nil {
		var zero T
		return zero, err
	}
	return l.storage[i], nil
}

// Set replaces the element at i and returns the previous value.
func (l *ArrayList[T]) Set(i int, v T) (T, error) {
	if err := checkElementIndex("Set", i, l.size); err != nil {
		var zero T
		return zero, err
	}
	old := l.storage[i]
	l.storage[i] = v
	return old, nil
}

// Add appends v.
func (l *ArrayList[T]) Add(v T) error {
	if err := l.reserve(l.size + 1); err != nil {
		return err
	}
	l.storage[l.size] = v
	l.size++
	l.gen.bump()
	return nil
}

// Insert places v at position i, moving [i, Size()) one slot up.
func (l *ArrayList[T]) Insert(i int, v T) error {
	if err := checkPositionIndex("Insert", i, l.size); err != nil {
		return err
	}
	if err := l.reserve(l.size + 1); err != nil {
		return err
	}
	copy(l.storage[i+1:l.size+1], l.storage[i:l.size])
	l.storage[i] = v
	l.size++
	l.gen.bump()
	return nil
}

// RemoveAt removes and returns the element at i.
func (l *ArrayList[T]) RemoveAt(i int) (T, error) {
	if err := checkElementIndex("RemoveAt", i, l.size); err != nil {
		var zero T
		return zero, err
	}
	old := l.storage[i]
	l.fastRemove(i)
	return old, nil
}

func (l *ArrayList[T]) fastRemove(i int) {
	copy(l.storage[i:], l.storage[i+1:l.size])
	l.size--
	var zero T
	l.storage[l.size] = zero
	l.gen.bump()
}

// Remove removes the first element equal to v.
func (l *ArrayList[T]) Remove(v T) bool {
	for i := 0; i < l.size; i++ {
		if l.storage[i] == v {
			l.fastRemove(i)
			return true
		}
	}
	return false
}

// RemoveRange removes the elements in [from, to).
func (l *ArrayList[T]) RemoveRange(from, to int) error {
	if err := checkRange("RemoveRange", from, to, l.size); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	copy(l.storage[from:], l.storage[to:l.size])
	newSize := l.size - (to - from)
	clear(l.storage[newSize:l.size])
	l.size = newSize
	l.gen.bump()
	return nil
}

// Clear removes every element. The capacity is kept.
func (l *ArrayList[T]) Clear() {
	clear(l.storage[:l.size])
	l.size = 0
	l.gen.bump()
}

// Contains reports whether some element equals v.
func (l *ArrayList[T]) Contains(v T) bool {
	return l.IndexOf(v) >= 0
}

// IndexOf returns the position of the first element equal to v, or -1.
func (l *ArrayList[T]) IndexOf(v T) int {
	return slices.Index(l.storage[:l.size], v)
}

// LastIndexOf returns the position of the last element equal to v, or -1.
func (l *ArrayList[T]) LastIndexOf(v T) int {
	for i := l.size - 1; i >= 0; i-- {
		if l.storage[i] == v {
			return i
		}
	}
	return -1
}

// Values returns a copy of the elements in order.
func (l *ArrayList[T]) Values() []T {
	return l.values(0, l.size)
}

func (l *ArrayList[T]) values(from, to int) []T {
	out := make([]T, to-from)
	copy(out, l.storage[from:to])
	return out
}

func (l *ArrayList[T]) setRange(from int, vs []T) {
	copy(l.storage[from:from+len(vs)], vs)
}

// AddAll appends the elements of c in order.
func (l *ArrayList[T]) AddAll(c Collection[T]) (bool, error) {
	vs, err := collectionValues("AddAll", c)
	if err != nil {
		return false, err
	}
	if err := l.insertValues("AddAll", l.size, vs); err != nil {
		return false, err
	}
	return len(vs) > 0, nil
}

// InsertAll inserts the elements of c at position i with one block move.
func (l *ArrayList[T]) InsertAll(i int, c Collection[T]) (bool, error) {
	if err := checkPositionIndex("InsertAll", i, l.size); err != nil {
		return false, err
	}
	vs, err := collectionValues("InsertAll", c)
	if err != nil {
		return false, err
	}
	if err := l.insertValues("InsertAll", i, vs); err != nil {
		return false, err
	}
	return len(vs) > 0, nil
}

func (l *ArrayList[T]) insertValues(op string, i int, vs []T) error {
	if err := checkPositionIndex(op, i, l.size); err != nil {
		return err
	}
	n := len(vs)
	if n == 0 {
		return nil
	}
	if err := l.reserve(l.size + n); err != nil {
		return err
	}
	copy(l.storage[i+n:l.size+n], l.storage[i:l.size])
	copy(l.storage[i:], vs)
	l.size += n
	l.gen.bump()
	return nil
}

// RemoveAll removes every element contained in c.
func (l *ArrayList[T]) RemoveAll(c Collection[T]) (bool, error) {
	if c == nil {
		return false, nilArgument("RemoveAll", "collection")
	}
	return l.batchRemove(c, false), nil
}

// RetainAll removes every element not contained in c.
func (l *ArrayList[T]) RetainAll(c Collection[T]) (bool, error) {
	if c == nil {
		return false, nilArgument("RetainAll", "collection")
	}
	return l.batchRemove(c, true), nil
}

// batchRemove keeps the elements whose membership in c equals keep,
// compacting survivors toward the front in a single pass. If c.Contains
// panics, the compaction done so far is committed before the panic
// continues: the unscanned tail is moved down behind the survivors.
func (l *ArrayList[T]) batchRemove(c Collection[T], keep bool) (modified bool) {
	data := l.storage
	size := l.size
	r, w := 0, 0
	defer func() {
		if r != size {
			copy(data[w:], data[r:size])
			w += size - r
		}
		if w != size {
			clear(data[w:size])
			l.size = w
			l.gen.bump()
			modified = true
		}
	}()
	for ; r < size; r++ {
		if c.Contains(data[r]) == keep {
			data[w] = data[r]
			w++
		}
	}
	return false
}

// RemoveIf removes every element for which pred returns true. The predicate
// sees every element before anything is removed, so a panicking predicate
// leaves the list unchanged.
func (l *ArrayList[T]) RemoveIf(pred func(T) bool) (bool, error) {
	if pred == nil {
		return false, nilArgument("RemoveIf", "predicate")
	}
	expected := l.gen.current()
	size := l.size
	removed := bitset.New(uint(size))
	for i := 0; l.gen.current() == expected && i < size; i++ {
		if pred(l.storage[i]) {
			removed.Set(uint(i))
		}
	}
	if err := l.checkGeneration("RemoveIf", expected); err != nil {
		return false, err
	}
	if removed.None() {
		return false, nil
	}

	l.removeMarked(0, size, removed)
	return true, nil
}

func (l *ArrayList[T]) removeMarked(from, n int, marks *bitset.BitSet) int {
	count := int(marks.Count())
	if count == 0 {
		return 0
	}
	data := l.storage
	w := from
	un := uint(n)
	for i := uint(0); i < un; {
		start, ok := marks.NextClear(i)
		if !ok || start >= un {
			break
		}
		end, ok := marks.NextSet(start)
		if !ok || end > un {
			end = un
		}
		copy(data[w:], data[from+int(start):from+int(end)])
		w += int(end - start)
		i = end
	}
	copy(data[w:], data[from+n:l.size])
	newSize := l.size - count
	clear(data[newSize:l.size])
	l.size = newSize
	l.gen.bump()
	return count
}

// ReplaceAll replaces each element with fn applied to it.
func (l *ArrayList[T]) ReplaceAll(fn func(T) T) error {
	if fn == nil {
		return nilArgument("ReplaceAll", "function")
	}
	expected := l.gen.current()
	for i := 0; l.gen.current() == expected && i < l.size; i++ {
		l.storage[i] = fn(l.storage[i])
	}
	if err := l.checkGeneration("ReplaceAll", expected); err != nil {
		return err
	}
	l.gen.bump()
	return nil
}

// Sort orders the elements by cmp. The sort is stable.
func (l *ArrayList[T]) Sort(cmp func(a, b T) int) error {
	if cmp == nil {
		return nilArgument("Sort", "comparator")
	}
	expected := l.gen.current()
	slices.SortStableFunc(l.storage[:l.size], cmp)
	if err := l.checkGeneration("Sort", expected); err != nil {
		return err
	}
	l.gen.bump()
	return nil
}

// ForEach calls fn for each element in order. It stops with
// ErrConcurrentModification if fn changes the list's structure.
func (l *ArrayList[T]) ForEach(fn func(T)) error {
	if fn == nil {
		return nilArgument("ForEach", "function")
	}
	expected := l.gen.current()
	for i := 0; l.gen.current() == expected && i < l.size; i++ {
		fn(l.storage[i])
	}
	return l.checkGeneration("ForEach", expected)
}

func (l *ArrayList[T]) checkGeneration(who string, expected uint64) error {
	live := l.gen.current()
	if err := checkGeneration(expected, live); err != nil {
		logConflict(l.logger(), who, expected, live)
		return err
	}
	return nil
}

// Cursor returns a cursor positioned before the first element.
func (l *ArrayList[T]) Cursor() ListCursor[T] {
	return newIndexCursor[T](l, 0, l.gen.current())
}

// CursorAt returns a cursor whose first Next returns the element at i.
func (l *ArrayList[T]) CursorAt(i int) (ListCursor[T], error) {
	if err := checkPositionIndex("CursorAt", i, l.size); err != nil {
		return nil, err
	}
	return newIndexCursor[T](l, i, l.gen.current()), nil
}

// SubList returns a live view of the elements in [from, to).
func (l *ArrayList[T]) SubList(from, to int) (*View[T], error) {
	if err := checkRange("SubList", from, to, l.size); err != nil {
		return nil, err
	}
	return newView[T](l, from, to), nil
}

// SplitCursor returns a split cursor over the whole list. Its range and
// generation snapshot are bound on first use.
func (l *ArrayList[T]) SplitCursor() SplitCursor[T] {
	return &arraySplit[T]{list: l, fence: -1}
}

// Clone returns a copy of the list with capacity equal to its size and a
// fresh generation.
func (l *ArrayList[T]) Clone() *ArrayList[T] {
	return &ArrayList[T]{
		storage:  l.Values(),
		size:     l.size,
		explicit: true,
		limit:    l.limit,
		log:      l.log,
	}
}
