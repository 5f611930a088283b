package listkit

// Cursor is a forward, fail-fast traversal of a sequence.
//
// A cursor keeps a snapshot of its container's generation. A structural
// change made other than through the cursor makes it stale: its next step
// or mutation reports ErrConcurrentModification, and so does every call
// after that.
type Cursor[T any] interface {
	HasNext() bool
	// Next returns the next element, or ErrNoSuchElement past the end.
	Next() (T, error)
	// Remove removes the element returned by the latest Next.
	Remove() error
	// ForEachRemaining calls fn for each element not yet returned.
	ForEachRemaining(fn func(T)) error
	// Err returns the conflict that made the cursor stale, if any.
	Err() error
}

// ListCursor is a bidirectional Cursor that can also replace and insert.
// It sits between elements: NextIndex is the position Next would return,
// PreviousIndex is NextIndex-1.
type ListCursor[T any] interface {
	Cursor[T]

	HasPrevious() bool
	Previous() (T, error)
	NextIndex() int
	PreviousIndex() int

	// Set replaces the element returned by the latest Next or Previous.
	Set(v T) error
	// Add inserts v before the element Next would return.
	Add(v T) error
}

// indexCursor is the ListCursor of ArrayList and View, addressing
// elements by position.
type indexCursor[T comparable] struct {
	seq      sequence[T]
	cursor   int
	lastRet  int // -1 when there is nothing to Remove or Set
	expected uint64
	err      error
}

func newIndexCursor[T comparable](seq sequence[T], i int, expected uint64) *indexCursor[T] {
	return &indexCursor[T]{seq: seq, cursor: i, lastRet: -1, expected: expected}
}

func (c *indexCursor[T]) check() error {
	if c.err != nil {
		return c.err
	}
	live := c.seq.Generation()
	if err := checkGeneration(c.expected, live); err != nil {
		logConflict(c.seq.logger(), "cursor", c.expected, live)
		c.err = err
	}
	return c.err
}

func (c *indexCursor[T]) Err() error {
	return c.err
}

func (c *indexCursor[T]) HasNext() bool {
	return c.cursor < c.seq.Size()
}

func (c *indexCursor[T]) HasPrevious() bool {
	return c.cursor > 0
}

func (c *indexCursor[T]) NextIndex() int {
	return c.cursor
}

func (c *indexCursor[T]) PreviousIndex() int {
	return c.cursor - 1
}

func (c *indexCursor[T]) Next() (T, error) {
	var zero T
	if err := c.check(); err != nil {
		return zero, err
	}
	i := c.cursor
	if i >= c.seq.Size() {
		return zero, ErrNoSuchElement
	}
	v, err := c.seq.Get(i)
	if err != nil {
		return zero, err
	}
	c.cursor = i + 1
	c.lastRet = i
	return v, nil
}

func (c *indexCursor[T]) Previous() (T, error) {
	var zero T
	if err := c.check(); err != nil {
		return zero, err
	}
	i := c.cursor - 1
	if i < 0 {
		return zero, ErrNoSuchElement
	}
	v, err := c.seq.Get(i)
	if err != nil {
		return zero, err
	}
	c.cursor = i
	c.lastRet = i
	return v, nil
}

func (c *indexCursor[T]) Remove() error {
	if err := c.check(); err != nil {
		return err
	}
	if c.lastRet < 0 {
		return ErrIllegalState
	}
	if _, err := c.seq.RemoveAt(c.lastRet); err != nil {
		return err
	}
	c.cursor = c.lastRet
	c.lastRet = -1
	c.expected = c.seq.Generation()
	return nil
}

func (c *indexCursor[T]) Set(v T) error {
	if err := c.check(); err != nil {
		return err
	}
	if c.lastRet < 0 {
		return ErrIllegalState
	}
	_, err := c.seq.Set(c.lastRet, v)
	return err
}

func (c *indexCursor[T]) Add(v T) error {
	if err := c.check(); err != nil {
		return err
	}
	i := c.cursor
	if err := c.seq.Insert(i, v); err != nil {
		return err
	}
	c.cursor = i + 1
	c.lastRet = -1
	c.expected = c.seq.Generation()
	return nil
}

func (c *indexCursor[T]) ForEachRemaining(fn func(T)) error {
	if fn == nil {
		return nilArgument("ForEachRemaining", "function")
	}
	if err := c.check(); err != nil {
		return err
	}
	size := c.seq.Size()
	i := c.cursor
	if i >= size {
		return nil
	}
	for ; i < size && c.seq.Generation() == c.expected; i++ {
		v, err := c.seq.Get(i)
		if err != nil {
			return err
		}
		fn(v)
	}
	c.cursor = i
	c.lastRet = i - 1
	return c.check()
}

// linkedCursor is the ListCursor of LinkedList. It holds the node Next
// would return, so stepping costs O(1).
type linkedCursor[T comparable] struct {
	list         *LinkedList[T]
	lastReturned nodeID
	next         nodeID
	nextIndex    int
	expected     uint64
	err          error
}

func newLinkedCursor[T comparable](l *LinkedList[T], i int) *linkedCursor[T] {
	c := &linkedCursor[T]{list: l, nextIndex: i, expected: l.gen.current()}
	if i < l.size {
		c.next = l.node(i)
	}
	return c
}

func (c *linkedCursor[T]) check() error {
	if c.err != nil {
		return c.err
	}
	live := c.list.gen.current()
	if err := checkGeneration(c.expected, live); err != nil {
		logConflict(c.list.logger(), "cursor", c.expected, live)
		c.err = err
	}
	return c.err
}

func (c *linkedCursor[T]) Err() error {
	return c.err
}

func (c *linkedCursor[T]) HasNext() bool {
	return c.nextIndex < c.list.size
}

func (c *linkedCursor[T]) HasPrevious() bool {
	return c.nextIndex > 0
}

func (c *linkedCursor[T]) NextIndex() int {
	return c.nextIndex
}

func (c *linkedCursor[T]) PreviousIndex() int {
	return c.nextIndex - 1
}

func (c *linkedCursor[T]) Next() (T, error) {
	var zero T
	if err := c.check(); err != nil {
		return zero, err
	}
	if !c.HasNext() {
		return zero, ErrNoSuchElement
	}
	c.lastReturned = c.next
	n := c.list.nodes.at(c.next)
	c.next = n.next
	c.nextIndex++
	return n.value, nil
}

func (c *linkedCursor[T]) Previous() (T, error) {
	var zero T
	if err := c.check(); err != nil {
		return zero, err
	}
	if !c.HasPrevious() {
		return zero, ErrNoSuchElement
	}
	if c.next == 0 {
		c.next = c.list.tail
	} else {
		c.next = c.list.nodes.at(c.next).prev
	}
	c.lastReturned = c.next
	c.nextIndex--
	return c.list.nodes.at(c.next).value, nil
}

func (c *linkedCursor[T]) Remove() error {
	if err := c.check(); err != nil {
		return err
	}
	if c.lastReturned == 0 {
		return ErrIllegalState
	}
	lastNext := c.list.nodes.at(c.lastReturned).next
	c.list.unlink(c.lastReturned)
	if c.next == c.lastReturned {
		// removed after Previous: the cursor now sits before lastNext
		c.next = lastNext
	} else {
		c.nextIndex--
	}
	c.lastReturned = 0
	c.expected = c.list.gen.current()
	return nil
}

func (c *linkedCursor[T]) Set(v T) error {
	if err := c.check(); err != nil {
		return err
	}
	if c.lastReturned == 0 {
		return ErrIllegalState
	}
	c.list.nodes.at(c.lastReturned).value = v
	return nil
}

func (c *linkedCursor[T]) Add(v T) error {
	if err := c.check(); err != nil {
		return err
	}
	c.lastReturned = 0
	if c.next == 0 {
		c.list.linkLast(v)
	} else {
		c.list.linkBefore(v, c.next)
	}
	c.nextIndex++
	c.expected = c.list.gen.current()
	return nil
}

func (c *linkedCursor[T]) ForEachRemaining(fn func(T)) error {
	if fn == nil {
		return nilArgument("ForEachRemaining", "function")
	}
	if err := c.check(); err != nil {
		return err
	}
	for c.list.gen.current() == c.expected && c.nextIndex < c.list.size {
		n := c.list.nodes.at(c.next)
		v := n.value
		c.lastReturned = c.next
		c.next = n.next
		c.nextIndex++
		fn(v)
	}
	return c.check()
}

// descendingCursor walks a LinkedList from the tail by driving a
// linkedCursor backward.
type descendingCursor[T comparable] struct {
	inner *linkedCursor[T]
}

func (d *descendingCursor[T]) HasNext() bool {
	return d.inner.HasPrevious()
}

func (d *descendingCursor[T]) Next() (T, error) {
	return d.inner.Previous()
}

func (d *descendingCursor[T]) Remove() error {
	return d.inner.Remove()
}

func (d *descendingCursor[T]) Err() error {
	return d.inner.Err()
}

func (d *descendingCursor[T]) ForEachRemaining(fn func(T)) error {
	if fn == nil {
		return nilArgument("ForEachRemaining", "function")
	}
	for d.HasNext() {
		v, err := d.Next()
		if err != nil {
			return err
		}
		fn(v)
	}
	return d.inner.check()
}
