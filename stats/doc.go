// Package stats summarises how traffic is spread over the directed edges
// of a flow state: how many edges carry agents, how skewed the load is
// (percentiles, Gini coefficient, coefficient of variation) and how many
// edges pass fixed congestion thresholds.
//
// Use it after planning to compare objectives: a congestion-aware
// objective should lower Max, Gini and the Over counts relative to plain
// shortest paths on the same instance.
//
// Moments come from github.com/montanaflynn/stats. Percentiles are
// nearest-rank at index n·p/100 of the ascending counts, no interpolation.
package stats
