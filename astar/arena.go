package astar

import (
	"fmt"
	"math"
)

// Arena supplies at most one live Node per location per search episode.
// Backing storage is allocated once; Reset starts a new episode in O(1)
// by advancing a generation counter instead of clearing the slots.
//
// Node pointers returned by Generate/Get stay valid for the Arena's
// lifetime, but their contents are only meaningful until the next Reset.
// Predecessors are stored as locations, never as pointers.
type Arena struct {
	nodes     []Node
	stamps    []uint32
	gen       uint32
	generated int
}

// NewArena allocates an arena for locations [0, size).
func NewArena(size int) *Arena {
	if size < 0 {
		size = 0
	}
	return &Arena{
		nodes:  make([]Node, size),
		stamps: make([]uint32, size),
		gen:    1,
	}
}

// Size returns the number of locations the arena can hold.
func (a *Arena) Size() int { return len(a.nodes) }

// Generated returns the number of nodes generated in the current episode.
func (a *Arena) Generated() int { return a.generated }

// Reset ends the current episode. Stamps are only cleared when the
// generation counter wraps around.
func (a *Arena) Reset() {
	a.generated = 0
	if a.gen == math.MaxUint32 {
		clear(a.stamps)
		a.gen = 0
	}
	a.gen++
}

// Has reports whether loc has a node in the current episode.
func (a *Arena) Has(loc int) bool {
	return loc >= 0 && loc < len(a.stamps) && a.stamps[loc] == a.gen
}

// Generate creates the node for loc in the current episode and returns it.
// Generating the same location twice in one episode is a programming
// error and panics with ErrDuplicateNode; so does an out-of-range loc.
func (a *Arena) Generate(loc, g, h, opFlow, vertexFlow, depth int) *Node {
	if loc < 0 || loc >= len(a.nodes) {
		panic(fmt.Sprintf("%s: %d", ErrInvalidLocation, loc))
	}
	if a.stamps[loc] == a.gen {
		panic(fmt.Sprintf("%s: %d", ErrDuplicateNode, loc))
	}
	a.stamps[loc] = a.gen
	a.generated++
	n := &a.nodes[loc]
	*n = Node{
		Loc:        loc,
		G:          g,
		H:          h,
		OpFlow:     opFlow,
		VertexFlow: vertexFlow,
		Depth:      depth,
		Parent:     NoParent,
		index:      -1,
	}
	return n
}

// Get returns the node of loc. The caller must have checked Has(loc).
func (a *Arena) Get(loc int) *Node {
	return &a.nodes[loc]
}

// Parent returns the predecessor of n, or nil for a root.
func (a *Arena) Parent(n *Node) *Node {
	if n.Parent == NoParent || !a.Has(n.Parent) {
		return nil
	}
	return &a.nodes[n.Parent]
}

// Path walks predecessor links from n back to the root and returns the
// locations in forward order. Depth of n sizes the result.
func (a *Arena) Path(n *Node) []int {
	path := make([]int, n.Depth)
	cur := n
	for i := n.Depth - 1; i >= 0 && cur != nil; i-- {
		path[i] = cur.Loc
		cur = a.Parent(cur)
	}
	return path
}
