package astar

// NoParent is the Parent value of a root node.
const NoParent = -1

// queueTag records which priority queue currently holds a node.
type queueTag uint8

const (
	inNone queueTag = iota
	inOpen
	inFocal
)

// Node is the search state of one location within one search episode.
//
// Loc        – graph location.
// G, H       – accumulated cost and heuristic estimate; F() = G + H.
// OpFlow     – accumulated cross-flow (opposing traffic) penalty.
// VertexFlow – accumulated vertex-congestion penalty (focal objectives).
// Depth      – number of locations on the path from the root, root = 1.
// Tie        – secondary ordering key for equal-F nodes, lower first.
// Parent     – arena location of the predecessor, NoParent for the root.
//
// Nodes live in an Arena and are mutated in place on decrease-key.
type Node struct {
	Loc        int
	G          int
	H          int
	OpFlow     int
	VertexFlow int
	Depth      int
	Tie        float64
	Parent     int

	closed bool
	index  int // position inside the holding heap, -1 when not queued
	queue  queueTag
}

// F returns the total estimated path cost G + H.
func (n *Node) F() int { return n.G + n.H }

// Jam returns the congestion key ordering the focal queue.
func (n *Node) Jam() int { return n.OpFlow + n.VertexFlow }

// Closed reports whether the node has been expanded in this episode.
func (n *Node) Closed() bool { return n.closed }

// Close marks the node as expanded.
func (n *Node) Close() { n.closed = true }

// better is the replace-if-better comparator of the open ordering:
// lower F, then lower Tie, then lower OpFlow, then lower VertexFlow.
func better(a, b *Node) bool {
	if a.F() != b.F() {
		return a.F() < b.F()
	}
	if a.Tie != b.Tie {
		return a.Tie < b.Tie
	}
	if a.OpFlow != b.OpFlow {
		return a.OpFlow < b.OpFlow
	}
	return a.VertexFlow < b.VertexFlow
}

// betterJam is the replace-if-better comparator of the focal ordering:
// lower Jam, then lower F, then lower Tie.
func betterJam(a, b *Node) bool {
	if a.Jam() != b.Jam() {
		return a.Jam() < b.Jam()
	}
	if a.F() != b.F() {
		return a.F() < b.F()
	}
	return a.Tie < b.Tie
}

// openLess orders the open heap: the replace-if-better order, with deeper
// (larger G) nodes first among full ties so the search pushes toward the goal.
func openLess(a, b *Node) bool {
	if better(a, b) {
		return true
	}
	if better(b, a) {
		return false
	}
	return a.G > b.G
}

// focalLess orders the focal heap by congestion, then as openLess.
func focalLess(a, b *Node) bool {
	if betterJam(a, b) {
		return true
	}
	if betterJam(b, a) {
		return false
	}
	return openLess(a, b)
}

// assign copies the path-dependent fields of src into n.
func (n *Node) assign(src *Node) {
	n.G = src.G
	n.OpFlow = src.OpFlow
	n.VertexFlow = src.VertexFlow
	n.Depth = src.Depth
	n.Tie = src.Tie
	n.Parent = src.Parent
}
