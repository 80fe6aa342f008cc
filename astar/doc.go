// Package astar implements the congestion-aware single-agent search used
// to route many agents over a shared grid: a generalized A* whose edge
// costs and tie-breaking read a live traffic-flow state.
//
// What:
//
//   - Arena: generation-stamped storage with one Node per location per
//     search; Reset is O(1) and nothing is allocated per node.
//   - NodeHeap: indexed min-heap with DecreaseKey (container/heap + Fix).
//   - FocalQueue: bounded-suboptimal frontier; nodes within FocalBound×fMin
//     are reordered by congestion (OpFlow + VertexFlow).
//   - Searcher.Search: A* with unit or BPR costs, Manhattan or table
//     heuristics, selectable congestion objectives, traffic-direction
//     constraints, and typed failures.
//   - Searcher.Greedy: follows a precomputed optimal-next-hop table.
//   - PlanBatch: independent searches in parallel, one arena per worker.
//
// Objectives (per move into cell v along direction d):
//
//   - vertex = Σ out-counts of v; cross = (count[u][d]+1)·count[v][rev d].
//   - VC adds vertex/2; OVC also accumulates cross into OpFlow; SumOVC adds
//     vertex/2 + cross. Plain A* adds penalties to G, focal search to VertexFlow.
//   - SUITG sets Tie from vertex and reverse flow; SUITC accumulates it.
//
// Failures:
//
//   - ErrUnreachable: frontier exhausted; an expected outcome.
//   - ErrClosedReopen: a closed node became strictly cheaper; a defect.
//   - ErrExpansionLimit: runaway search stopped at the ceiling.
//   - ErrInvalidLocation, ErrBadTraffic, ErrEmptyHeuristic: bad input.
//
// Complexity:
//
//   - Time:  O(E log V) per search for V generated nodes.
//   - Space: O(N) arena per Searcher for an N-cell map, allocated once.
//
// Concurrency:
//
//   - A Searcher is single-goroutine. Several Searchers may share one flow
//     state for reading; flow mutations must happen between searches.
package astar
