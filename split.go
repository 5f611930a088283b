package listkit

// SplitCursor traverses a range of a sequence and can hand off a prefix of
// that range to a new SplitCursor, so the halves can be consumed
// independently (for example on separate goroutines).
//
// Split cursors over a container check its generation around each advance
// and report ErrConcurrentModification when the container was structurally
// changed after the cursor was bound.
type SplitCursor[T any] interface {
	// TryAdvance calls fn with the next element and reports whether there
	// was one.
	TryAdvance(fn func(T)) (bool, error)
	ForEachRemaining(fn func(T)) error
	// TrySplit moves a prefix of the remaining range into a new cursor and
	// returns it, or returns nil when the range is too small to split.
	TrySplit() SplitCursor[T]
	// EstimateSize returns the number of elements left.
	EstimateSize() int
}

const (
	// splitBatchUnit is how much each successive linked split grows.
	splitBatchUnit = 1 << 10
	// splitMaxBatch caps the number of values copied by one linked split.
	splitMaxBatch = 1 << 25
)

// arraySplit covers [index, fence) of an ArrayList's storage. A fence of -1
// is bound to the list size, along with the generation snapshot, on first
// use.
type arraySplit[T comparable] struct {
	list     *ArrayList[T]
	index    int
	fence    int
	expected uint64
}

func (s *arraySplit[T]) getFence() int {
	if s.fence < 0 {
		s.expected = s.list.gen.current()
		s.fence = s.list.size
	}
	return s.fence
}

func (s *arraySplit[T]) check() error {
	return s.list.checkGeneration("split", s.expected)
}

func (s *arraySplit[T]) TrySplit() SplitCursor[T] {
	hi := s.getFence()
	lo := s.index
	mid := (lo + hi) >> 1
	if lo >= mid {
		return nil
	}
	s.index = mid
	return &arraySplit[T]{list: s.list, index: lo, fence: mid, expected: s.expected}
}

func (s *arraySplit[T]) TryAdvance(fn func(T)) (bool, error) {
	if fn == nil {
		return false, nilArgument("TryAdvance", "function")
	}
	hi := s.getFence()
	i := s.index
	if i >= hi {
		return false, nil
	}
	if err := s.check(); err != nil {
		return false, err
	}
	s.index = i + 1
	fn(s.list.storage[i])
	return true, s.check()
}

func (s *arraySplit[T]) ForEachRemaining(fn func(T)) error {
	if fn == nil {
		return nilArgument("ForEachRemaining", "function")
	}
	hi := s.getFence()
	if err := s.check(); err != nil {
		return err
	}
	i := s.index
	for ; i < hi && s.list.gen.current() == s.expected; i++ {
		fn(s.list.storage[i])
	}
	s.index = i
	return s.check()
}

func (s *arraySplit[T]) EstimateSize() int {
	return s.getFence() - s.index
}

// sliceSplit covers values already copied out of a container. It has no
// generation to check.
type sliceSplit[T any] struct {
	vals  []T
	index int
	fence int
}

func newSliceSplit[T any](vals []T) *sliceSplit[T] {
	return &sliceSplit[T]{vals: vals, fence: len(vals)}
}

func (s *sliceSplit[T]) TrySplit() SplitCursor[T] {
	lo := s.index
	mid := (lo + s.fence) >> 1
	if lo >= mid {
		return nil
	}
	s.index = mid
	return &sliceSplit[T]{vals: s.vals, index: lo, fence: mid}
}

func (s *sliceSplit[T]) TryAdvance(fn func(T)) (bool, error) {
	if fn == nil {
		return false, nilArgument("TryAdvance", "function")
	}
	if s.index >= s.fence {
		return false, nil
	}
	v := s.vals[s.index]
	s.index++
	fn(v)
	return true, nil
}

func (s *sliceSplit[T]) ForEachRemaining(fn func(T)) error {
	if fn == nil {
		return nilArgument("ForEachRemaining", "function")
	}
	for ; s.index < s.fence; s.index++ {
		fn(s.vals[s.index])
	}
	return nil
}

func (s *sliceSplit[T]) EstimateSize() int {
	return s.fence - s.index
}

// linkedSplit walks up to est elements of a LinkedList from current. Splits
// copy a batch of values into a sliceSplit, each batch splitBatchUnit larger
// than the last. est of -1 means the cursor is not yet bound; cursors over a
// view are bound when they are made.
type linkedSplit[T comparable] struct {
	list     *LinkedList[T]
	current  nodeID
	est      int
	expected uint64
	batch    int
}

func (s *linkedSplit[T]) getEst() int {
	if s.est < 0 {
		s.expected = s.list.gen.current()
		s.current = s.list.head
		s.est = s.list.size
	}
	return s.est
}

func (s *linkedSplit[T]) check() error {
	return s.list.checkGeneration("split", s.expected)
}

func (s *linkedSplit[T]) TrySplit() SplitCursor[T] {
	est := s.getEst()
	if est <= 1 || s.current == 0 {
		return nil
	}
	if s.list.gen.current() != s.expected {
		// the chain may have been rewired; leave it to the next advance to report
		return nil
	}
	n := min(s.batch+splitBatchUnit, est, splitMaxBatch)
	vals := make([]T, 0, n)
	p := s.current
	for len(vals) < n && p != 0 {
		nd := s.list.nodes.at(p)
		vals = append(vals, nd.value)
		p = nd.next
	}
	s.current = p
	s.batch = len(vals)
	s.est = est - len(vals)
	return newSliceSplit(vals)
}

func (s *linkedSplit[T]) TryAdvance(fn func(T)) (bool, error) {
	if fn == nil {
		return false, nilArgument("TryAdvance", "function")
	}
	if s.getEst() <= 0 {
		return false, nil
	}
	if err := s.check(); err != nil {
		return false, err
	}
	if s.current == 0 {
		return false, nil
	}
	nd := s.list.nodes.at(s.current)
	v := nd.value
	s.current = nd.next
	s.est--
	fn(v)
	return true, s.check()
}

func (s *linkedSplit[T]) ForEachRemaining(fn func(T)) error {
	if fn == nil {
		return nilArgument("ForEachRemaining", "function")
	}
	n := s.getEst()
	if err := s.check(); err != nil {
		return err
	}
	p := s.current
	for n > 0 && p != 0 && s.list.gen.current() == s.expected {
		nd := s.list.nodes.at(p)
		v := nd.value
		p = nd.next
		n--
		fn(v)
	}
	s.current = 0
	s.est = 0
	return s.check()
}

func (s *linkedSplit[T]) EstimateSize() int {
	return s.getEst()
}
