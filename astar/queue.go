package astar

import "container/heap"

// NodeHeap is an indexed binary min-heap of arena nodes. Every node
// remembers its heap position, so DecreaseKey restores order in O(log n)
// after the caller lowers a node's ordering key in place.
type NodeHeap struct {
	items nodeItems
}

// nodeItems implements heap.Interface and keeps Node.index current.
type nodeItems struct {
	nodes []*Node
	less  func(a, b *Node) bool
	tag   queueTag
}

func (q nodeItems) Len() int           { return len(q.nodes) }
func (q nodeItems) Less(i, j int) bool { return q.less(q.nodes[i], q.nodes[j]) }
func (q nodeItems) Swap(i, j int) {
	q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i]
	q.nodes[i].index = i
	q.nodes[j].index = j
}

// Push adds x onto the heap. Called by heap.Push; x must be *Node.
func (q *nodeItems) Push(x interface{}) {
	n := x.(*Node)
	n.index = len(q.nodes)
	n.queue = q.tag
	q.nodes = append(q.nodes, n)
}

// Pop removes the last element. Called by heap.Pop.
func (q *nodeItems) Pop() interface{} {
	old := q.nodes
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	q.nodes = old[:last]
	n.index = -1
	n.queue = inNone
	return n
}

func newNodeHeap(less func(a, b *Node) bool, tag queueTag, capacity int) *NodeHeap {
	return &NodeHeap{items: nodeItems{
		nodes: make([]*Node, 0, capacity),
		less:  less,
		tag:   tag,
	}}
}

// NewOpenHeap returns a heap ordered by F, then Tie, OpFlow and
// VertexFlow, then larger G first.
func NewOpenHeap(capacity int) *NodeHeap {
	return newNodeHeap(openLess, inOpen, capacity)
}

// NewFocalHeap returns a heap ordered by congestion (OpFlow+VertexFlow)
// first and the open ordering after that.
func NewFocalHeap(capacity int) *NodeHeap {
	return newNodeHeap(focalLess, inFocal, capacity)
}

// Push inserts n. n must not be held by any heap.
// Complexity: O(log n).
func (h *NodeHeap) Push(n *Node) { heap.Push(&h.items, n) }

// PopMin removes and returns the minimum node, or nil when empty.
// Complexity: O(log n).
func (h *NodeHeap) PopMin() *Node {
	if len(h.items.nodes) == 0 {
		return nil
	}
	return heap.Pop(&h.items).(*Node)
}

// Top returns the minimum node without removing it, or nil when empty.
func (h *NodeHeap) Top() *Node {
	if len(h.items.nodes) == 0 {
		return nil
	}
	return h.items.nodes[0]
}

// DecreaseKey restores heap order after n's key was lowered in place.
// Nodes not held by this heap are ignored.
// Complexity: O(log n).
func (h *NodeHeap) DecreaseKey(n *Node) {
	if !h.Contains(n) {
		return
	}
	heap.Fix(&h.items, n.index)
}

// Contains reports whether n is currently held by this heap.
func (h *NodeHeap) Contains(n *Node) bool {
	return n.queue == h.items.tag && n.index >= 0 && n.index < len(h.items.nodes) && h.items.nodes[n.index] == n
}

// Len returns the number of queued nodes.
func (h *NodeHeap) Len() int { return len(h.items.nodes) }

// Empty reports whether the heap holds no nodes.
func (h *NodeHeap) Empty() bool { return len(h.items.nodes) == 0 }

// Clear drops every node, keeping the backing array.
func (h *NodeHeap) Clear() {
	for i, n := range h.items.nodes {
		n.index = -1
		n.queue = inNone
		h.items.nodes[i] = nil
	}
	h.items.nodes = h.items.nodes[:0]
}
