package astar

// Result is the outcome of a successful search.
//
// Path      – locations from start to goal inclusive.
// Goal      – copy of the terminal node; G is the path cost with penalties.
// Expanded  – nodes expanded (goal excluded).
// Generated – nodes generated, root included.
type Result struct {
	Path      []int
	Goal      Node
	Expanded  int
	Generated int
}

// Cost returns the accumulated path cost of the goal node. For results of
// Greedy it is the number of moves, one less than Len.
func (r *Result) Cost() int { return r.Goal.G }

// Len returns the number of locations on the path.
func (r *Result) Len() int { return len(r.Path) }
