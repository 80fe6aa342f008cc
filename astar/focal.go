package astar

import "math"

// FocalQueue is the bounded-suboptimal frontier. It keeps an open heap
// ordered by F and a focal heap ordered by congestion that holds every
// known node whose F is within Bound × fMin, fMin being the smallest F
// in open when focal was last refilled from empty.
//
// The search always pops from focal; paths may cost up to Bound× the
// optimum, traded for the least congested of the near-optimal candidates.
type FocalQueue struct {
	open   *NodeHeap
	focal  *NodeHeap
	bound  float64
	fMin   int
	fBound int
}

// NewFocalQueue returns an empty focal frontier with admission ratio bound ≥ 1.
func NewFocalQueue(bound float64, capacity int) *FocalQueue {
	return &FocalQueue{
		open:  NewOpenHeap(capacity),
		focal: NewFocalHeap(capacity),
		bound: bound,
	}
}

// Start resets both heaps and sets the admission threshold from the root's F.
func (q *FocalQueue) Start(rootF int) {
	q.Clear()
	q.setMin(rootF)
}

// Clear drops every node from both heaps.
func (q *FocalQueue) Clear() {
	q.open.Clear()
	q.focal.Clear()
}

func (q *FocalQueue) setMin(f int) {
	q.fMin = f
	b := float64(f) * q.bound
	if b >= math.MaxInt {
		q.fBound = math.MaxInt
		return
	}
	q.fBound = int(b)
}

// Push admits n into focal when F ≤ FBound, otherwise into open.
func (q *FocalQueue) Push(n *Node) {
	if n.F() <= q.fBound {
		q.focal.Push(n)
		return
	}
	q.open.Push(n)
}

// Update refills focal before a pop: when focal is empty the threshold is
// recomputed from the current open minimum, then every open node with
// F ≤ FBound moves to focal. Reports whether the threshold changed.
func (q *FocalQueue) Update() bool {
	if q.open.Empty() {
		return false
	}
	changed := false
	if q.focal.Empty() {
		q.setMin(q.open.Top().F())
		changed = true
	}
	for !q.open.Empty() && q.open.Top().F() <= q.fBound {
		q.focal.Push(q.open.PopMin())
	}
	return changed
}

// PopMin removes the least congested admitted node, or nil when both heaps are empty.
// Update must be called first so focal is populated.
func (q *FocalQueue) PopMin() *Node {
	if q.focal.Empty() {
		return q.open.PopMin()
	}
	return q.focal.PopMin()
}

// DecreaseKey restores order in whichever heap holds n.
func (q *FocalQueue) DecreaseKey(n *Node) {
	switch n.queue {
	case inFocal:
		q.focal.DecreaseKey(n)
	case inOpen:
		q.open.DecreaseKey(n)
	}
}

// InFocal reports whether n has been admitted to focal.
func (q *FocalQueue) InFocal(n *Node) bool { return q.focal.Contains(n) }

// Len returns the number of nodes in open and focal together.
func (q *FocalQueue) Len() int { return q.open.Len() + q.focal.Len() }

// Empty reports whether both heaps are empty.
func (q *FocalQueue) Empty() bool { return q.Len() == 0 }

// FMin returns the F value the current threshold was derived from.
func (q *FocalQueue) FMin() int { return q.fMin }

// FBound returns the current admission threshold.
func (q *FocalQueue) FBound() int { return q.fBound }

// Bound returns the admission ratio.
func (q *FocalQueue) Bound() float64 { return q.bound }
