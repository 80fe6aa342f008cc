// Package flow maintains the traffic-flow state that congestion-aware
// searches run on, and the Bureau-of-Public-Roads cost derived from it.
//
// What:
//
//   - Counts: exact number of agents assigned to each directed edge
//     (location × {east, south, west, north}).
//   - Estimates: an exponential moving average of each count, updated with
//     est' = (1-η)·est + η·count every time the count changes.
//   - Commit / Retract add or remove one agent's trajectory; Retract is the
//     exact inverse of Commit on the counts and refuses to go negative.
//   - EdgeCost(u, v) applies the BPR curve t0·(1+α·(f/C_eff)⁴) to the
//     co-directional estimate, with capacity reduced by reverse traffic.
//
// Why:
//
//   - Many equal-length grid paths exist; pricing edges by live traffic
//     spreads agents out and avoids head-on conflicts in corridors.
//
// Complexity:
//
//   - Commit, Retract: O(len(trajectory)).
//   - EdgeCost, Count, Estimate: O(1).
//   - Memory: O(N) for N map locations.
//
// Concurrency:
//
//   - State has no internal locking. Cost lookups are pure reads, so any
//     number of searches may share a State as long as Commit/Retract run
//     only between search episodes.
//
// Errors:
//
//   - ErrNotAdjacent: trajectory step between non-adjacent cells.
//   - ErrNegativeCount: retract of a trajectory that was not committed.
//   - ErrNilTopology, ErrBadParams: construction errors.
package flow
