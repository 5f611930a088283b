package listkit

// nodeID addresses a node inside an arena. IDs start at 1; the zero value
// is the absent reference.
type nodeID int

// node is one link of a LinkedList chain. Links are arena IDs, not pointers,
// so a node never aliases its neighbours.
type node[T any] struct {
	value T
	next  nodeID
	prev  nodeID
}

// arena stores the nodes of one LinkedList. Released slots are chained
// through their next field and reused by later allocations.
type arena[T any] struct {
	nodes []node[T] // nodes[0] is never used
	free  nodeID
	live  int
}

// at returns the node for id. The pointer is only valid until the next
// alloc, which may move the backing slice.
func (a *arena[T]) at(id nodeID) *node[T] {
	return &a.nodes[id]
}

func (a *arena[T]) alloc(v T, prev, next nodeID) nodeID {
	a.live++
	if a.free != 0 {
		id := a.free
		n := &a.nodes[id]
		a.free = n.next
		*n = node[T]{value: v, prev: prev, next: next}
		return id
	}
	if len(a.nodes) == 0 {
		a.nodes = make([]node[T], 1, 8)
	}
	a.nodes = append(a.nodes, node[T]{value: v, prev: prev, next: next})
	return nodeID(len(a.nodes) - 1)
}

// release clears the node's value and links and puts its slot on the free
// list.
func (a *arena[T]) release(id nodeID) {
	a.nodes[id] = node[T]{next: a.free}
	a.free = id
	a.live--
}

// reset drops every node.
func (a *arena[T]) reset() {
	a.nodes = nil
	a.free = 0
	a.live = 0
}
