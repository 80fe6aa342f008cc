package gridgraph

import "strings"

// NewGrid constructs a Grid of the given dimensions. obstacles may be nil
// (fully open grid) or a row-major mask of length width*height, where
// true marks a blocked cell. The mask is copied.
// Returns ErrEmptyGrid for non-positive dimensions and ErrBadMask for a
// mask of the wrong length.
// Complexity: O(W×H).
func NewGrid(width, height int, obstacles []bool) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	mask := make([]bool, width*height)
	if obstacles != nil {
		if len(obstacles) != width*height {
			return nil, ErrBadMask
		}
		copy(mask, obstacles)
	}

	return &Grid{
		Width:     width,
		Height:    height,
		obstacles: mask,
		offsets:   [NumDirections]int{1, width, -1, -width},
	}, nil
}

// FromRows builds a Grid from textual rows where '.', 'G' and 'S' are free
// and every other symbol ('@', 'T', '#', ...) is an obstacle.
// Returns ErrEmptyGrid or ErrNonRectangular for malformed input.
func FromRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyGrid
	}
	w := len(strings.TrimRight(rows[0], "\r"))
	if w == 0 {
		return nil, ErrEmptyGrid
	}
	mask := make([]bool, 0, w*len(rows))
	for _, row := range rows {
		row = strings.TrimRight(row, "\r")
		if len(row) != w {
			return nil, ErrNonRectangular
		}
		for i := 0; i < w; i++ {
			mask = append(mask, !isFreeSymbol(row[i]))
		}
	}

	return NewGrid(w, len(rows), mask)
}

func isFreeSymbol(c byte) bool {
	return c == freeCell || c == freeGround || c == freeSwamp
}

// Size returns the number of locations, Width×Height.
func (g *Grid) Size() int { return len(g.obstacles) }

// Cols returns the row stride of location indices.
func (g *Grid) Cols() int { return g.Width }

// InBounds reports whether (x,y) lies within the grid boundaries.
// Complexity: O(1).
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Index maps (x,y) to a row-major location: y*Width + x.
func (g *Grid) Index(x, y int) int {
	return y*g.Width + x
}

// Coordinate converts a row-major location back to (x,y).
// Complexity: O(1).
func (g *Grid) Coordinate(loc int) (x, y int) {
	return loc % g.Width, loc / g.Width
}

// IsFree reports whether loc is inside the grid and not an obstacle.
func (g *Grid) IsFree(loc int) bool {
	return loc >= 0 && loc < len(g.obstacles) && !g.obstacles[loc]
}

// FreeCount returns the number of non-obstacle cells.
func (g *Grid) FreeCount() int {
	n := 0
	for _, blocked := range g.obstacles {
		if !blocked {
			n++
		}
	}
	return n
}

// Move returns the location one step from loc in direction d, or NoCell
// when loc is invalid, d is not a direction, the step leaves the grid,
// or the target is an obstacle.
// Complexity: O(1).
func (g *Grid) Move(loc, d int) int {
	if d < 0 || d >= NumDirections || !g.IsFree(loc) {
		return NoCell
	}
	x, y := g.Coordinate(loc)
	switch d {
	case East:
		x++
	case South:
		y++
	case West:
		x--
	case North:
		y--
	}
	if !g.InBounds(x, y) {
		return NoCell
	}
	next := loc + g.offsets[d]
	if g.obstacles[next] {
		return NoCell
	}
	return next
}

// Neighbors returns the four neighbors of loc in direction order
// (east, south, west, north); invalid or obstructed entries are NoCell.
func (g *Grid) Neighbors(loc int) [NumDirections]int {
	var out [NumDirections]int
	for d := 0; d < NumDirections; d++ {
		out[d] = g.Move(loc, d)
	}
	return out
}

// Direction returns the direction index of the single step u→v, or -1 if
// the two locations are not 4-adjacent inside the grid (row wrap is not
// adjacency). Obstacles are not considered.
func (g *Grid) Direction(u, v int) int {
	if u < 0 || v < 0 || u >= len(g.obstacles) || v >= len(g.obstacles) {
		return -1
	}
	ux, uy := g.Coordinate(u)
	vx, vy := g.Coordinate(v)
	switch {
	case vy == uy && vx == ux+1:
		return East
	case vx == ux && vy == uy+1:
		return South
	case vy == uy && vx == ux-1:
		return West
	case vx == ux && vy == uy-1:
		return North
	}
	return -1
}

// Manhattan returns |dx|+|dy| between two locations.
func (g *Grid) Manhattan(u, v int) int {
	ux, uy := g.Coordinate(u)
	vx, vy := g.Coordinate(v)
	return abs(ux-vx) + abs(uy-vy)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
