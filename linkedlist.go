package listkit

import (
	"log/slog"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// LinkedList is a doubly linked list that also serves as a deque. Operations
// at either end are O(1); positional access walks from whichever end is
// closer, so it costs at most Size()/2 link traversals.
//
// Nodes live in an arena owned by the list and are linked by ID. The zero
// value is an empty list ready to use. A LinkedList is not safe for
// concurrent use.
type LinkedList[T comparable] struct {
	nodes arena[T]
	head  nodeID
	tail  nodeID
	size  int
	gen   generation
	log   *slog.Logger
}

// NewLinkedList returns an empty list.
func NewLinkedList[T comparable](opts ...Option) *LinkedList[T] {
	o := buildOptions(opts)
	return &LinkedList[T]{log: o.logger}
}

// NewLinkedListFrom returns a list holding the elements of c in order.
func NewLinkedListFrom[T comparable](c Collection[T], opts ...Option) (*LinkedList[T], error) {
	vs, err := collectionValues("NewLinkedListFrom", c)
	if err != nil {
		return nil, err
	}
	l := NewLinkedList[T](opts...)
	if err := l.insertValues("NewLinkedListFrom", 0, vs); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *LinkedList[T]) logger() *slog.Logger {
	return loggerOr(l.log)
}

// Size returns the number of elements.
func (l *LinkedList[T]) Size() int {
	return l.size
}

// Empty reports whether the list holds no elements.
func (l *LinkedList[T]) Empty() bool {
	return l.size == 0
}

// Generation returns the number of structural mutations so far.
func (l *LinkedList[T]) Generation() uint64 {
	return l.gen.current()
}

func (l *LinkedList[T]) touch() {
	l.gen.bump()
}

func (l *LinkedList[T]) linkFirst(v T) {
	f := l.head
	id := l.nodes.alloc(v, 0, f)
	l.head = id
	if f == 0 {
		l.tail = id
	} else {
		l.nodes.at(f).prev = id
	}
	l.size++
	l.gen.bump()
}

func (l *LinkedList[T]) linkLast(v T) {
	t := l.tail
	id := l.nodes.alloc(v, t, 0)
	l.tail = id
	if t == 0 {
		l.head = id
	} else {
		l.nodes.at(t).next = id
	}
	l.size++
	l.gen.bump()
}

// linkBefore inserts v immediately before succ, which must be live.
func (l *LinkedList[T]) linkBefore(v T, succ nodeID) {
	pred := l.nodes.at(succ).prev
	id := l.nodes.alloc(v, pred, succ)
	l.nodes.at(succ).prev = id
	if pred == 0 {
		l.head = id
	} else {
		l.nodes.at(pred).next = id
	}
	l.size++
	l.gen.bump()
}

// detach unlinks x and releases it without advancing the generation.
func (l *LinkedList[T]) detach(x nodeID) T {
	n := l.nodes.at(x)
	v, next, prev := n.value, n.next, n.prev
	if prev == 0 {
		l.head = next
	} else {
		l.nodes.at(prev).next = next
	}
	if next == 0 {
		l.tail = prev
	} else {
		l.nodes.at(next).prev = prev
	}
	l.nodes.release(x)
	l.size--
	return v
}

func (l *LinkedList[T]) unlink(x nodeID) T {
	v := l.detach(x)
	l.gen.bump()
	return v
}

// node returns the ID of the element at i, which must be a valid element
// index.
func (l *LinkedList[T]) node(i int) nodeID {
	x, _ := l.walk(i)
	return x
}

// walk finds the element at i, walking forward from the head for the first
// half of the list and backward from the tail for the second. It also
// returns the number of links followed. It only reads the list.
func (l *LinkedList[T]) walk(i int) (nodeID, int) {
	if i < l.size>>1 {
		x := l.head
		for k := 0; k < i; k++ {
			x = l.nodes.at(x).next
		}
		return x, i
	}
	x := l.tail
	for k := l.size - 1; k > i; k-- {
		x = l.nodes.at(x).prev
	}
	return x, l.size - 1 - i
}

// first and last are the outcome primitives behind the peek and get
// variants; takeFirst and takeLast back the poll and remove variants.
func (l *LinkedList[T]) first() (T, error) {
	if l.head == 0 {
		var zero T
		return zero, ErrNoSuchElement
	}
	return l.nodes.at(l.head).value, nil
}

func (l *LinkedList[T]) last() (T, error) {
	if l.tail == 0 {
		var zero T
		return zero, ErrNoSuchElement
	}
	return l.nodes.at(l.tail).value, nil
}

func (l *LinkedList[T]) takeFirst() (T, error) {
	if l.head == 0 {
		var zero T
		return zero, ErrNoSuchElement
	}
	return l.unlink(l.head), nil
}

func (l *LinkedList[T]) takeLast() (T, error) {
	if l.tail == 0 {
		var zero T
		return zero, ErrNoSuchElement
	}
	return l.unlink(l.tail), nil
}

// AddFirst inserts v at the front.
func (l *LinkedList[T]) AddFirst(v T) { l.linkFirst(v) }

// AddLast appends v.
func (l *LinkedList[T]) AddLast(v T) { l.linkLast(v) }

// OfferFirst inserts v at the front and reports true.
func (l *LinkedList[T]) OfferFirst(v T) bool {
	l.linkFirst(v)
	return true
}

// OfferLast appends v and reports true.
func (l *LinkedList[T]) OfferLast(v T) bool {
	l.linkLast(v)
	return true
}

// Offer appends v and reports true.
func (l *LinkedList[T]) Offer(v T) bool { return l.OfferLast(v) }

// Push inserts v at the front, the top of the stack.
func (l *LinkedList[T]) Push(v T) { l.linkFirst(v) }

// GetFirst returns the first element, or ErrNoSuchElement.
func (l *LinkedList[T]) GetFirst() (T, error) { return l.first() }

// GetLast returns the last element, or ErrNoSuchElement.
func (l *LinkedList[T]) GetLast() (T, error) { return l.last() }

// Element returns the head of the queue, or ErrNoSuchElement.
func (l *LinkedList[T]) Element() (T, error) { return l.first() }

// PeekFirst returns the first element, if any.
func (l *LinkedList[T]) PeekFirst() (T, bool) {
	v, err := l.first()
	return v, err == nil
}

// PeekLast returns the last element, if any.
func (l *LinkedList[T]) PeekLast() (T, bool) {
	v, err := l.last()
	return v, err == nil
}

// Peek returns the head of the queue, if any.
func (l *LinkedList[T]) Peek() (T, bool) { return l.PeekFirst() }

// RemoveFirst removes and returns the first element, or ErrNoSuchElement.
func (l *LinkedList[T]) RemoveFirst() (T, error) { return l.takeFirst() }

// RemoveLast removes and returns the last element, or ErrNoSuchElement.
func (l *LinkedList[T]) RemoveLast() (T, error) { return l.takeLast() }

// RemoveHead removes and returns the head of the queue, or ErrNoSuchElement.
func (l *LinkedList[T]) RemoveHead() (T, error) { return l.takeFirst() }

// Pop removes and returns the top of the stack, or ErrNoSuchElement.
func (l *LinkedList[T]) Pop() (T, error) { return l.takeFirst() }

// PollFirst removes and returns the first element, if any.
func (l *LinkedList[T]) PollFirst() (T, bool) {
	v, err := l.takeFirst()
	return v, err == nil
}

// PollLast removes and returns the last element, if any.
func (l *LinkedList[T]) PollLast() (T, bool) {
	v, err := l.takeLast()
	return v, err == nil
}

// Poll removes and returns the head of the queue, if any.
func (l *LinkedList[T]) Poll() (T, bool) { return l.PollFirst() }

// RemoveFirstOccurrence removes the first element equal to v.
func (l *LinkedList[T]) RemoveFirstOccurrence(v T) bool {
	for x := l.head; x != 0; x = l.nodes.at(x).next {
		if l.nodes.at(x).value == v {
			l.unlink(x)
			return true
		}
	}
	return false
}

// RemoveLastOccurrence removes the last element equal to v.
func (l *LinkedList[T]) RemoveLastOccurrence(v T) bool {
	for x := l.tail; x != 0; x = l.nodes.at(x).prev {
		if l.nodes.at(x).value == v {
			l.unlink(x)
			return true
		}
	}
	return false
}

// DescendingCursor returns a cursor that walks from the last element to
// the first.
func (l *LinkedList[T]) DescendingCursor() Cursor[T] {
	return &descendingCursor[T]{inner: newLinkedCursor(l, l.size)}
}

// Get returns the element at i.
func (l *LinkedList[T]) Get(i int) (T, error) {
	if err := checkElementIndex("Get", i, l.size); err != nil {
		var zero T
		return zero, err
	}
	return l.nodes.at(l.node(i)).value, nil
}

// Set replaces the element at i and returns the previous value.
func (l *LinkedList[T]) Set(i int, v T) (T, error) {
	if err := checkElementIndex("Set", i, l.size); err != nil {
		var zero T
		return zero, err
	}
	n := l.nodes.at(l.node(i))
	old := n.value
	n.value = v
	return old, nil
}

// Add appends v. It never fails.
func (l *LinkedList[T]) Add(v T) error {
	l.linkLast(v)
	return nil
}

// Insert places v at position i.
func (l *LinkedList[T]) Insert(i int, v T) error {
	if err := checkPositionIndex("Insert", i, l.size); err != nil {
		return err
	}
	if i == l.size {
		l.linkLast(v)
	} else {
		l.linkBefore(v, l.node(i))
	}
	return nil
}

// RemoveAt removes and returns the element at i.
func (l *LinkedList[T]) RemoveAt(i int) (T, error) {
	if err := checkElementIndex("RemoveAt", i, l.size); err != nil {
		var zero T
		return zero, err
	}
	return l.unlink(l.node(i)), nil
}

// Remove removes the first element equal to v.
func (l *LinkedList[T]) Remove(v T) bool {
	return l.RemoveFirstOccurrence(v)
}

// RemoveRange removes the elements in [from, to).
func (l *LinkedList[T]) RemoveRange(from, to int) error {
	if err := checkRange("RemoveRange", from, to, l.size); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	x := l.node(from)
	for k := from; k < to; k++ {
		next := l.nodes.at(x).next
		l.detach(x)
		x = next
	}
	l.gen.bump()
	return nil
}

// Clear removes every element and releases the node arena.
func (l *LinkedList[T]) Clear() {
	l.nodes.reset()
	l.head, l.tail = 0, 0
	l.size = 0
	l.gen.bump()
}

// Contains reports whether some element equals v.
func (l *LinkedList[T]) Contains(v T) bool {
	return l.IndexOf(v) >= 0
}

// IndexOf returns the position of the first element equal to v, or -1.
func (l *LinkedList[T]) IndexOf(v T) int {
	i := 0
	for x := l.head; x != 0; x = l.nodes.at(x).next {
		if l.nodes.at(x).value == v {
			return i
		}
		i++
	}
	return -1
}

// LastIndexOf returns the position of the last element equal to v, or -1.
func (l *LinkedList[T]) LastIndexOf(v T) int {
	i := l.size - 1
	for x := l.tail; x != 0; x = l.nodes.at(x).prev {
		if l.nodes.at(x).value == v {
			return i
		}
		i--
	}
	return -1
}

// Values returns the elements in order.
func (l *LinkedList[T]) Values() []T {
	return l.values(0, l.size)
}

func (l *LinkedList[T]) values(from, to int) []T {
	out := make([]T, 0, to-from)
	if from == to {
		return out
	}
	x := l.node(from)
	for k := from; k < to; k++ {
		n := l.nodes.at(x)
		out = append(out, n.value)
		x = n.next
	}
	return out
}

func (l *LinkedList[T]) setRange(from int, vs []T) {
	if len(vs) == 0 {
		return
	}
	x := l.node(from)
	for _, v := range vs {
		n := l.nodes.at(x)
		n.value = v
		x = n.next
	}
}

// AddAll appends the elements of c in order.
func (l *LinkedList[T]) AddAll(c Collection[T]) (bool, error) {
	return l.InsertAll(l.size, c)
}

// InsertAll splices the elements of c in at position i.
func (l *LinkedList[T]) InsertAll(i int, c Collection[T]) (bool, error) {
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

func (l *LinkedList[T]) insertValues(op string, i int, vs []T) error {
	if err := checkPositionIndex(op, i, l.size); err != nil {
		return err
	}
	if len(vs) == 0 {
		return nil
	}
	var pred, succ nodeID
	if i == l.size {
		pred = l.tail
	} else {
		succ = l.node(i)
		pred = l.nodes.at(succ).prev
	}
	for _, v := range vs {
		id := l.nodes.alloc(v, pred, 0)
		if pred == 0 {
			l.head = id
		} else {
			l.nodes.at(pred).next = id
		}
		pred = id
	}
	if succ == 0 {
		l.tail = pred
	} else {
		l.nodes.at(pred).next = succ
		l.nodes.at(succ).prev = pred
	}
	l.size += len(vs)
	l.gen.bump()
	return nil
}

// RemoveAll removes every element contained in c.
func (l *LinkedList[T]) RemoveAll(c Collection[T]) (bool, error) {
	if c == nil {
		return false, nilArgument("RemoveAll", "collection")
	}
	return l.batchRemove(c, false), nil
}

// RetainAll removes every element not contained in c.
func (l *LinkedList[T]) RetainAll(c Collection[T]) (bool, error) {
	if c == nil {
		return false, nilArgument("RetainAll", "collection")
	}
	return l.batchRemove(c, true), nil
}

// batchRemove unlinks the elements whose membership in c differs from keep.
// Removals made before a panic in c.Contains stay in effect.
func (l *LinkedList[T]) batchRemove(c Collection[T], keep bool) (modified bool) {
	removed := 0
	defer func() {
		if removed > 0 {
			l.gen.bump()
			modified = true
		}
	}()
	for x := l.head; x != 0; {
		n := l.nodes.at(x)
		v, next := n.value, n.next
		if c.Contains(v) != keep {
			l.detach(x)
			removed++
		}
		x = next
	}
	return false
}

// RemoveIf removes every element for which pred returns true. Matches are
// marked first, so a panicking predicate leaves the list unchanged.
func (l *LinkedList[T]) RemoveIf(pred func(T) bool) (bool, error) {
	if pred == nil {
		return false, nilArgument("RemoveIf", "predicate")
	}
	expected := l.gen.current()
	size := l.size
	marks := bitset.New(uint(size))
	i := uint(0)
	for x := l.head; x != 0 && l.gen.current() == expected; i++ {
		n := l.nodes.at(x)
		v, next := n.value, n.next
		if pred(v) {
			marks.Set(i)
		}
		x = next
	}
	if err := l.checkGeneration("RemoveIf", expected); err != nil {
		return false, err
	}
	return l.removeMarked(0, size, marks) > 0, nil
}

func (l *LinkedList[T]) removeMarked(from, n int, marks *bitset.BitSet) int {
	if marks.None() {
		return 0
	}
	removed := 0
	x := l.node(from)
	for i := 0; i < n && x != 0; i++ {
		next := l.nodes.at(x).next
		if marks.Test(uint(i)) {
			l.detach(x)
			removed++
		}
		x = next
	}
	l.gen.bump()
	return removed
}

// ReplaceAll replaces each element with fn applied to it.
func (l *LinkedList[T]) ReplaceAll(fn func(T) T) error {
	if fn == nil {
		return nilArgument("ReplaceAll", "function")
	}
	expected := l.gen.current()
	for x := l.head; x != 0 && l.gen.current() == expected; {
		v := fn(l.nodes.at(x).value)
		if l.gen.current() != expected {
			break
		}
		n := l.nodes.at(x)
		n.value = v
		x = n.next
	}
	if err := l.checkGeneration("ReplaceAll", expected); err != nil {
		return err
	}
	l.gen.bump()
	return nil
}

// Sort orders the elements by cmp. The sort is stable.
func (l *LinkedList[T]) Sort(cmp func(a, b T) int) error {
	if cmp == nil {
		return nilArgument("Sort", "comparator")
	}
	expected := l.gen.current()
	vs := l.Values()
	slices.SortStableFunc(vs, cmp)
	if err := l.checkGeneration("Sort", expected); err != nil {
		return err
	}
	l.setRange(0, vs)
	l.gen.bump()
	return nil
}

// ForEach calls fn for each element in order. It stops with
// ErrConcurrentModification if fn changes the list's structure.
func (l *LinkedList[T]) ForEach(fn func(T)) error {
	if fn == nil {
		return nilArgument("ForEach", "function")
	}
	expected := l.gen.current()
	for x := l.head; x != 0 && l.gen.current() == expected; {
		n := l.nodes.at(x)
		v, next := n.value, n.next
		fn(v)
		x = next
	}
	return l.checkGeneration("ForEach", expected)
}

func (l *LinkedList[T]) checkGeneration(who string, expected uint64) error {
	live := l.gen.current()
	if err := checkGeneration(expected, live); err != nil {
		logConflict(l.logger(), who, expected, live)
		return err
	}
	return nil
}

// Cursor returns a cursor positioned before the first element.
func (l *LinkedList[T]) Cursor() ListCursor[T] {
	return newLinkedCursor(l, 0)
}

// CursorAt returns a cursor whose first Next returns the element at i.
func (l *LinkedList[T]) CursorAt(i int) (ListCursor[T], error) {
	if err := checkPositionIndex("CursorAt", i, l.size); err != nil {
		return nil, err
	}
	return newLinkedCursor(l, i), nil
}

// SubList returns a live view of the elements in [from, to).
func (l *LinkedList[T]) SubList(from, to int) (*View[T], error) {
	if err := checkRange("SubList", from, to, l.size); err != nil {
		return nil, err
	}
	return newView[T](l, from, to), nil
}

// SplitCursor returns a split cursor over the whole list. Splits hand off
// batches of values copied out of the chain.
func (l *LinkedList[T]) SplitCursor() SplitCursor[T] {
	return &linkedSplit[T]{list: l, est: -1}
}

// windowSplit returns a split cursor over the n elements starting at from,
// bound to the generation a view last saw. A window that no longer fits
// the list gets a cursor that reports the conflict on first use.
func (l *LinkedList[T]) windowSplit(from, n int, expected uint64) *linkedSplit[T] {
	s := &linkedSplit[T]{list: l, est: n, expected: expected}
	if n > 0 && expected == l.gen.current() && from+n <= l.size {
		s.current = l.node(from)
	}
	return s
}

// Clone returns a copy of the list.
func (l *LinkedList[T]) Clone() *LinkedList[T] {
	c := &LinkedList[T]{log: l.log}
	for x := l.head; x != 0; x = l.nodes.at(x).next {
		c.linkLast(l.nodes.at(x).value)
	}
	return c
}
