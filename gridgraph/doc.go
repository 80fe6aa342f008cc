// Package gridgraph treats a 2D occupancy grid as a 4-connected graph and
// serves as the environment collaborator of the congestion-aware search.
//
// What:
//
//   - Grid wraps a rectangular obstacle mask; locations are row-major ints.
//   - Neighbors/Move enumerate the four compass moves (east, south, west,
//     north), returning NoCell for invalid or obstructed targets.
//   - Direction maps a step u→v to its direction index; d and (d+2)%4 are reverse.
//   - ConnectedComponents labels free regions, so unreachable goals can be
//     detected before a search.
//   - DistanceTable is a BFS hop-distance heuristic to one goal.
//   - ReadMap loads the MovingAI ".map" format.
//
// Complexity:
//
//   - Move, Direction, Manhattan:       O(1).
//   - ConnectedComponents, DistanceTable: O(W×H×4), Memory: O(W×H).
//
// Errors:
//
//   - ErrEmptyGrid: grid has no rows or no columns.
//   - ErrNonRectangular: rows have differing lengths.
//   - ErrBadMask: obstacle mask of the wrong length.
//   - ErrBadMapHeader: malformed ".map" header.
//   - ErrLocation: goal location out of range or obstructed.
package gridgraph
