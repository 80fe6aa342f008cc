package astar

// Greedy follows a precomputed heuristic table from start to goal,
// stepping each time to the neighbor with the lowest table value (first in
// direction order on ties). It does no cost accounting and is only
// meaningful when the table already encodes optimal next hops, such as a
// BFS distance table to goal.
//
// traffic is validated like in Search but does not restrict the walk:
// every non-obstructed neighbor is a candidate, so a table that already
// routes around a leader is followed as is.
//
// The returned terminal node summarises the path: G is the number of
// moves (not the number of locations), Depth the number of locations.
//
// Errors (as *SearchError): ErrEmptyHeuristic for a nil or empty table,
// ErrInvalidLocation for bad endpoints, ErrUnreachable when the walk
// gets stuck or would revisit more cells than the map holds.
func (s *Searcher) Greedy(start, goal int, h Heuristic, traffic []int) (*Result, error) {
	if h == nil || h.Empty() {
		return nil, &SearchError{Start: start, Goal: goal, Err: ErrEmptyHeuristic}
	}
	if traffic != nil && len(traffic) != s.env.Size() {
		return nil, &SearchError{Start: start, Goal: goal, Err: ErrBadTraffic}
	}
	if !s.env.IsFree(start) || !s.env.IsFree(goal) {
		return nil, &SearchError{Start: start, Goal: goal, Err: ErrInvalidLocation}
	}
	r := &runner{s: s, start: start, goal: goal, h: h, traffic: traffic}

	path := []int{start}
	limit := s.env.Size()
	for cur := start; cur != goal; {
		if len(path) > limit {
			return nil, r.fail(ErrUnreachable)
		}
		best, next := 0, -1
		for _, nb := range s.env.Neighbors(cur) {
			if nb < 0 {
				continue
			}
			if v := h.At(nb); next < 0 || v < best {
				best, next = v, nb
			}
		}
		if next < 0 {
			return nil, r.fail(ErrUnreachable)
		}
		path = append(path, next)
		r.expanded++
		cur = next
	}

	goalNode := Node{
		Loc:    goal,
		G:      len(path) - 1,
		Depth:  len(path),
		Parent: NoParent,
		index:  -1,
	}
	if len(path) > 1 {
		goalNode.Parent = path[len(path)-2]
	}
	return &Result{Path: path, Goal: goalNode, Expanded: r.expanded, Generated: len(path)}, nil
}
