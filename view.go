package listkit

import (
	"log/slog"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// View is a live window onto a contiguous range of a parent list. It stores
// no elements: reads and writes go through to the parent at an offset, so a
// change made through the view is visible in the parent and the other way
// round.
//
// A view is valid only while every structural change to the underlying root
// container is made through it (or through views and cursors derived from
// it). Any other structural change makes it stale; its operations then
// report ErrConcurrentModification.
//
// Methods whose signature has no error result (Contains, IndexOf,
// LastIndexOf, Values, Remove, Clear, String) return their zero result on a
// stale view and record the conflict for Err.
type View[T comparable] struct {
	parent   sequence[T]
	offset   int
	size     int
	expected uint64
	err      error
}

func newView[T comparable](parent sequence[T], from, to int) *View[T] {
	return &View[T]{
		parent:   parent,
		offset:   from,
		size:     to - from,
		expected: parent.Generation(),
	}
}

// Err returns the conflict recorded by the latest failed generation check,
// or nil if the view has never been found stale.
func (v *View[T]) Err() error {
	return v.err
}

func (v *View[T]) check(op string) error {
	live := v.parent.Generation()
	if err := checkGeneration(v.expected, live); err != nil {
		logConflict(v.logger(), "view."+op, v.expected, live)
		v.err = err
		return err
	}
	return nil
}

// resync adopts the root generation after a structural change made through
// the view and adjusts the window length by delta.
func (v *View[T]) resync(delta int) {
	v.expected = v.parent.Generation()
	v.size += delta
}

func (v *View[T]) logger() *slog.Logger {
	return v.parent.logger()
}

func (v *View[T]) touch() {
	v.parent.touch()
	v.expected = v.parent.Generation()
}

// Size returns the window length as of the view's last operation.
func (v *View[T]) Size() int {
	return v.size
}

// Empty reports whether the window is empty.
func (v *View[T]) Empty() bool {
	return v.size == 0
}

// Generation returns the root container's generation.
func (v *View[T]) Generation() uint64 {
	return v.parent.Generation()
}

// Contains reports whether some element of the window equals x.
func (v *View[T]) Contains(x T) bool {
	return v.IndexOf(x) >= 0
}

// IndexOf returns the window position of the first element equal to x, or -1.
func (v *View[T]) IndexOf(x T) int {
	if v.check("IndexOf") != nil {
		return -1
	}
	return slices.Index(v.values(0, v.size), x)
}

// LastIndexOf returns the window position of the last element equal to x, or -1.
func (v *View[T]) LastIndexOf(x T) int {
	if v.check("LastIndexOf") != nil {
		return -1
	}
	vs := v.values(0, v.size)
	for i := len(vs) - 1; i >= 0; i-- {
		if vs[i] == x {
			return i
		}
	}
	return -1
}

// Values returns the elements of the window in order.
func (v *View[T]) Values() []T {
	if v.check("Values") != nil {
		return nil
	}
	return v.values(0, v.size)
}

func (v *View[T]) values(from, to int) []T {
	return v.parent.values(v.offset+from, v.offset+to)
}

func (v *View[T]) setRange(from int, vs []T) {
	v.parent.setRange(v.offset+from, vs)
}

// Get returns the element at window position i.
func (v *View[T]) Get(i int) (T, error) {
	var zero T
	if err := v.check("Get"); err != nil {
		return zero, err
	}
	if err := checkElementIndex("Get", i, v.size); err != nil {
		return zero, err
	}
	return v.parent.Get(v.offset + i)
}

// Set replaces the element at window position i and returns the previous value.
func (v *View[T]) Set(i int, x T) (T, error) {
	var zero T
	if err := v.check("Set"); err != nil {
		return zero, err
	}
	if err := checkElementIndex("Set", i, v.size); err != nil {
		return zero, err
	}
	return v.parent.Set(v.offset+i, x)
}

// Add appends x to the end of the window.
func (v *View[T]) Add(x T) error {
	return v.Insert(v.size, x)
}

// Insert places x at window position i.
func (v *View[T]) Insert(i int, x T) error {
	if err := v.check("Insert"); err != nil {
		return err
	}
	if err := checkPositionIndex("Insert", i, v.size); err != nil {
		return err
	}
	if err := v.parent.Insert(v.offset+i, x); err != nil {
		return err
	}
	v.resync(1)
	return nil
}

// RemoveAt removes and returns the element at window position i.
func (v *View[T]) RemoveAt(i int) (T, error) {
	var zero T
	if err := v.check("RemoveAt"); err != nil {
		return zero, err
	}
	if err := checkElementIndex("RemoveAt", i, v.size); err != nil {
		return zero, err
	}
	old, err := v.parent.RemoveAt(v.offset + i)
	if err != nil {
		return zero, err
	}
	v.resync(-1)
	return old, nil
}

// Remove removes the first element of the window equal to x.
func (v *View[T]) Remove(x T) bool {
	i := v.IndexOf(x)
	if i < 0 {
		return false
	}
	_, err := v.RemoveAt(i)
	return err == nil
}

// RemoveRange removes the window positions [from, to).
func (v *View[T]) RemoveRange(from, to int) error {
	if err := v.check("RemoveRange"); err != nil {
		return err
	}
	if err := checkRange("RemoveRange", from, to, v.size); err != nil {
		return err
	}
	if err := v.parent.RemoveRange(v.offset+from, v.offset+to); err != nil {
		return err
	}
	v.resync(from - to)
	return nil
}

// Clear removes every element of the window from the parent.
func (v *View[T]) Clear() {
	if v.check("Clear") != nil {
		return
	}
	if v.parent.RemoveRange(v.offset, v.offset+v.size) == nil {
		v.resync(-v.size)
	}
}

// AddAll appends the elements of c to the end of the window.
func (v *View[T]) AddAll(c Collection[T]) (bool, error) {
	return v.InsertAll(v.size, c)
}

// InsertAll inserts the elements of c at window position i.
func (v *View[T]) InsertAll(i int, c Collection[T]) (bool, error) {
	vs, err := collectionValues("InsertAll", c)
	if err != nil {
		return false, err
	}
	if err := v.insertValues("InsertAll", i, vs); err != nil {
		return false, err
	}
	return len(vs) > 0, nil
}

func (v *View[T]) insertValues(op string, i int, vs []T) error {
	if err := v.check(op); err != nil {
		return err
	}
	if err := checkPositionIndex(op, i, v.size); err != nil {
		return err
	}
	if len(vs) == 0 {
		return nil
	}
	if err := v.parent.insertValues(op, v.offset+i, vs); err != nil {
		return err
	}
	v.resync(len(vs))
	return nil
}

// RemoveAll removes every element of the window contained in c.
func (v *View[T]) RemoveAll(c Collection[T]) (bool, error) {
	if c == nil {
		return false, nilArgument("RemoveAll", "collection")
	}
	return v.batchRemove("RemoveAll", c, false)
}

// RetainAll removes every element of the window not contained in c.
func (v *View[T]) RetainAll(c Collection[T]) (bool, error) {
	if c == nil {
		return false, nilArgument("RetainAll", "collection")
	}
	return v.batchRemove("RetainAll", c, true)
}

// RemoveIf removes every element of the window for which pred returns true.
func (v *View[T]) RemoveIf(pred func(T) bool) (bool, error) {
	if pred == nil {
		return false, nilArgument("RemoveIf", "predicate")
	}
	return v.removeWhere("RemoveIf", pred)
}

// batchRemove removes the elements whose membership in c differs from keep.
// If c.Contains panics, the removals decided before the panic are still
// applied, as they are on the root containers.
func (v *View[T]) batchRemove(op string, c Collection[T], keep bool) (bool, error) {
	if err := v.check(op); err != nil {
		return false, err
	}
	vs := v.values(0, v.size)
	marks := bitset.New(uint(len(vs)))
	done := false
	defer func() {
		if !done && marks.Any() && v.Generation() == v.expected {
			v.removeMarked(0, len(vs), marks)
		}
	}()
	for i, x := range vs {
		if c.Contains(x) != keep {
			marks.Set(uint(i))
		}
	}
	done = true
	if err := v.check(op); err != nil {
		return false, err
	}
	return v.removeMarked(0, len(vs), marks) > 0, nil
}

// removeWhere tests every element first, then removes the marked ones in
// a single structural change of the root.
func (v *View[T]) removeWhere(op string, doomed func(T) bool) (bool, error) {
	if err := v.check(op); err != nil {
		return false, err
	}
	vs := v.values(0, v.size)
	marks := bitset.New(uint(len(vs)))
	for i, x := range vs {
		if doomed(x) {
			marks.Set(uint(i))
		}
	}
	if err := v.check(op); err != nil {
		return false, err
	}
	return v.removeMarked(0, len(vs), marks) > 0, nil
}

func (v *View[T]) removeMarked(from, n int, marks *bitset.BitSet) int {
	removed := v.parent.removeMarked(v.offset+from, n, marks)
	if removed > 0 {
		v.resync(-removed)
	}
	return removed
}

// ReplaceAll replaces each element of the window with fn applied to it.
func (v *View[T]) ReplaceAll(fn func(T) T) error {
	if fn == nil {
		return nilArgument("ReplaceAll", "function")
	}
	if err := v.check("ReplaceAll"); err != nil {
		return err
	}
	vs := v.values(0, v.size)
	for i := range vs {
		vs[i] = fn(vs[i])
	}
	return v.rewrite("ReplaceAll", vs)
}

// Sort orders the window by cmp. The sort is stable.
func (v *View[T]) Sort(cmp func(a, b T) int) error {
	if cmp == nil {
		return nilArgument("Sort", "comparator")
	}
	if err := v.check("Sort"); err != nil {
		return err
	}
	vs := v.values(0, v.size)
	slices.SortStableFunc(vs, cmp)
	return v.rewrite("Sort", vs)
}

// rewrite stores vs over the window and advances the root generation once.
func (v *View[T]) rewrite(op string, vs []T) error {
	if err := v.check(op); err != nil {
		return err
	}
	v.setRange(0, vs)
	v.touch()
	return nil
}

// ForEach calls fn for each element of the window in order.
func (v *View[T]) ForEach(fn func(T)) error {
	if fn == nil {
		return nilArgument("ForEach", "function")
	}
	if err := v.check("ForEach"); err != nil {
		return err
	}
	expected := v.expected
	for _, x := range v.values(0, v.size) {
		fn(x)
		if live := v.parent.Generation(); live != expected {
			logConflict(v.logger(), "view.ForEach", expected, live)
			return checkGeneration(expected, live)
		}
	}
	return nil
}

// Cursor returns a cursor positioned before the first element of the window.
// A cursor taken from a stale view fails on its first step.
func (v *View[T]) Cursor() ListCursor[T] {
	return newIndexCursor[T](v, 0, v.expected)
}

// CursorAt returns a cursor whose first Next returns the element at window
// position i.
func (v *View[T]) CursorAt(i int) (ListCursor[T], error) {
	if err := v.check("CursorAt"); err != nil {
		return nil, err
	}
	if err := checkPositionIndex("CursorAt", i, v.size); err != nil {
		return nil, err
	}
	return newIndexCursor[T](v, i, v.expected), nil
}

// SubList returns a view of the window positions [from, to), chained to v.
func (v *View[T]) SubList(from, to int) (*View[T], error) {
	if err := v.check("SubList"); err != nil {
		return nil, err
	}
	if err := checkRange("SubList", from, to, v.size); err != nil {
		return nil, err
	}
	return newView[T](v, from, to), nil
}

// SplitCursor returns a split cursor over the window. Windows onto an
// ArrayList split over its storage directly; windows onto a LinkedList walk
// its chain in batches.
func (v *View[T]) SplitCursor() SplitCursor[T] {
	root, off := v.root()
	switch r := root.(type) {
	case *ArrayList[T]:
		return &arraySplit[T]{list: r, index: off, fence: off + v.size, expected: v.expected}
	case *LinkedList[T]:
		return r.windowSplit(off, v.size, v.expected)
	}
	return newSliceSplit(v.Values())
}

// root follows the parent chain to the container at its end and returns it
// with the window's absolute offset in it.
func (v *View[T]) root() (sequence[T], int) {
	off := v.offset
	p := v.parent
	for {
		w, ok := p.(*View[T])
		if !ok {
			return p, off
		}
		off += w.offset
		p = w.parent
	}
}
