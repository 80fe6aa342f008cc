package gridgraph

// ConnectedComponents finds all 4-connected regions of free cells.
// Returns a slice of components; each component is a slice of locations
// in BFS order, components ordered by their smallest location.
//
// Two locations can reach each other iff they share a component, which
// lets callers reject unreachable goals before searching.
//
// Time:   O(W·H·4).
// Memory: O(W·H) for visited flags and output.
func (g *Grid) ConnectedComponents() [][]int {
	labels := g.label()
	n := 0
	for _, c := range labels {
		if c >= n {
			n = c + 1
		}
	}
	comps := make([][]int, n)
	seen := make([]bool, g.Size())
	for loc := range labels {
		if labels[loc] < 0 || seen[loc] {
			continue
		}
		c := labels[loc]
		queue := []int{loc}
		seen[loc] = true
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			comps[c] = append(comps[c], u)
			for _, v := range g.Neighbors(u) {
				if v != NoCell && !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
	}
	return comps
}

// Components returns a component label per location (-1 for obstacles),
// numbered in order of each component's smallest location.
// Complexity: O(W·H·4).
func (g *Grid) Components() []int {
	return g.label()
}

// Connected reports whether free locations u and v lie in one component.
func (g *Grid) Connected(u, v int) bool {
	if !g.IsFree(u) || !g.IsFree(v) {
		return false
	}
	labels := g.label()
	return labels[u] == labels[v]
}

func (g *Grid) label() []int {
	labels := make([]int, g.Size())
	for i := range labels {
		labels[i] = -1
	}
	next := 0
	queue := make([]int, 0, 64)
	for loc := range labels {
		if labels[loc] >= 0 || !g.IsFree(loc) {
			continue
		}
		queue = append(queue[:0], loc)
		labels[loc] = next
		for qi := 0; qi < len(queue); qi++ {
			for _, v := range g.Neighbors(queue[qi]) {
				if v != NoCell && labels[v] < 0 {
					labels[v] = next
					queue = append(queue, v)
				}
			}
		}
		next++
	}
	return labels
}
