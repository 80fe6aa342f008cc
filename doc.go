// Package lvtraffic is a congestion-aware route planner for many agents
// sharing a 4-connected grid map.
//
// What is lvtraffic?
//
//	A library plus a small CLI that brings together:
//		• Grid maps: obstacle masks, MovingAI .map parsing, BFS distance tables
//		• Traffic flow: per-edge agent counts, EMA estimates, BPR edge costs
//		• Search: A* and focal search with congestion objectives
//		• Planning: parallel initial batch, then iterated replanning rounds
//		• Diagnostics: traffic statistics, Prometheus metrics, structured logs
//
// Why?
//
//   - Shortest paths for many agents pile up in the same corridors; pricing
//     each edge by the traffic already assigned to it spreads them out.
//   - Every search owns its own node arena, so independent searches run in
//     parallel over one read-only flow state.
//   - Failures are typed errors (unreachable goal, runaway search, broken
//     invariant), never process exits.
//
// Packages:
//
//	gridgraph/  Grid, map parsing, connectivity, distance tables
//	flow/       flow State, BPR Cost, EMA
//	astar/      Arena, NodeHeap, FocalQueue, Searcher, PlanBatch
//	plan/       Planner: initial batch + replanning rounds, agent files
//	stats/      distribution summary of edge traffic
//	metrics/    Prometheus Collector for search and flow events
//	config/     YAML configuration with environment overrides
//	cmd/lvtraffic  command-line driver
//
// Quick example:
//
//	g, _ := gridgraph.FromRows([]string{".....", ".....", "....."})
//	st, _ := flow.NewState(g)
//	p, _ := plan.New(g, st, agents,
//		plan.WithSearchOptions(astar.WithCostMode(astar.CongestionCost)))
//	reports, err := p.Run(ctx, 3)
package lvtraffic
