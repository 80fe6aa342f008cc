package gridgraph

// Direction indices shared with the flow state. Direction d and (d+2)%4
// are mutually reverse.
const (
	East  = 0
	South = 1
	West  = 2
	North = 3
)

// NumDirections is the number of moves out of a cell under 4-connectivity.
const NumDirections = 4

// NoCell marks an invalid or obstructed neighbor.
const NoCell = -1

// Unreachable is the DistanceTable value of cells that cannot reach the goal.
const Unreachable = int(^uint32(0) >> 1)

// Cell symbols understood by FromRows and ReadMap. Any other symbol is an obstacle.
const (
	freeCell   = '.'
	freeGround = 'G'
	freeSwamp  = 'S'
)

// Grid is an immutable 4-connected grid map. Locations are row-major
// indices y*Width + x; a location is valid when it lies inside the grid
// and is not an obstacle.
//
// offsets[d] is the index delta of one step in direction d; moves that
// would wrap around a row edge are rejected by Move.
type Grid struct {
	Width, Height int
	obstacles     []bool
	offsets       [NumDirections]int
}

// DistanceTable holds BFS hop distances from every location to one goal.
// A nil table is empty and makes searches fall back to Manhattan distance.
type DistanceTable []int
