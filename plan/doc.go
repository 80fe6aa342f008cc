// Package plan drives multi-agent route planning on top of the astar,
// flow and gridgraph packages.
//
// What:
//
//   - ReadAgents: start/goal pairs from a plain list or a MovingAI .scen file.
//   - Planner.Initial: every agent planned independently and in parallel
//     (astar.PlanBatch), then all trajectories committed to the flow state.
//   - Planner.Round: each agent in turn is retracted, replanned against the
//     traffic of all other agents and committed again.
//   - Planner.Run: Initial plus rounds until no path changes.
//
// Why:
//
//	Planning agents one by one against a shared congestion model spreads
//	traffic over alternative corridors; repeating the pass lets early
//	agents react to the traffic of later ones.
//
// Errors:
//
//   - ErrNoAgents, ErrBadAgentsFile: bad input.
//   - *AgentError wrapping ErrBadAgent, ErrDisconnected or a search error.
//
// Every Planner carries a random run ID (github.com/google/uuid) that is
// attached to all of its log lines.
package plan
