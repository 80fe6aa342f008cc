// Package config loads planner settings from YAML.
//
// Values are layered: Default, then the YAML file, then the LVTRAFFIC_*
// environment variables. The result converts to flow.Params and to a
// list of astar options, so the libraries themselves never read files.
//
// Example file:
//
//	flow:
//	  t0: 1000
//	  alpha: 0.15
//	search:
//	  objective: ovc
//	  cost_mode: congestion
//	  focal_bound: 1.2
//	plan:
//	  rounds: 5
package config
