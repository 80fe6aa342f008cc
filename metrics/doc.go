// Package metrics exports planner activity to Prometheus.
//
// A Collector is both an astar.Observer and a flow.Observer: install it
// with astar.WithObserver and flow.WithObserver and it counts searches by
// outcome, nodes expanded and generated, the focal threshold, trajectory
// commits and retracts, and congested edge lookups.
//
// Collectors register on the Registerer passed to NewCollector, so tests
// and embedded uses can keep them off the global default registry.
package metrics
