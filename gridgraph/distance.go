package gridgraph

// DistanceTable computes BFS hop distances from every free location to
// goal over 4-connected free cells. Locations that cannot reach goal, and
// obstacles, hold Unreachable. Returns ErrLocation if goal is invalid.
//
// The table is an exact, consistent heuristic for unit-cost moves; the
// greedy single-path routine relies on every reachable non-goal cell
// having a neighbor with a strictly smaller value.
//
// Time:   O(W·H·4).
// Memory: O(W·H).
func (g *Grid) DistanceTable(goal int) (DistanceTable, error) {
	if !g.IsFree(goal) {
		return nil, ErrLocation
	}
	dist := make(DistanceTable, g.Size())
	for i := range dist {
		dist[i] = Unreachable
	}
	dist[goal] = 0
	queue := make([]int, 1, g.Size())
	queue[0] = goal
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, v := range g.Neighbors(u) {
			if v == NoCell || dist[v] != Unreachable {
				continue
			}
			dist[v] = dist[u] + 1
			queue = append(queue, v)
		}
	}
	return dist, nil
}

// Empty reports whether the table carries no distances.
func (t DistanceTable) Empty() bool { return len(t) == 0 }

// At returns the distance stored for loc, or Unreachable when loc is out of range.
func (t DistanceTable) At(loc int) int {
	if loc < 0 || loc >= len(t) {
		return Unreachable
	}
	return t[loc]
}
