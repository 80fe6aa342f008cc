package plan

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/lvtraffic/astar"
)

// Sentinel errors for planning.
var (
	// ErrNoAgents indicates an empty agent list.
	ErrNoAgents = errors.New("plan: no agents")

	// ErrBadAgent indicates an agent whose start or goal is not a free cell.
	ErrBadAgent = errors.New("plan: agent endpoint out of range or obstructed")

	// ErrDisconnected indicates an agent whose goal lies in another component.
	ErrDisconnected = errors.New("plan: goal not reachable from start")

	// ErrBadAgentsFile indicates a malformed agents or scenario file.
	ErrBadAgentsFile = errors.New("plan: malformed agents file")

	// ErrNotInitialised indicates Round was called before Initial.
	ErrNotInitialised = errors.New("plan: initial paths not planned")
)

// Agent is one start/goal pair. ID is the agent's position in the input.
type Agent struct {
	ID    int
	Start int
	Goal  int
}

// AgentError ties a planning failure to one agent.
type AgentError struct {
	Agent int
	Err   error
}

func (e *AgentError) Error() string { return fmt.Sprintf("agent %d: %v", e.Agent, e.Err) }

func (e *AgentError) Unwrap() error { return e.Err }

// Report summarises one planning pass.
//
// Round    – 0 for the initial batch, then 1, 2, ...
// Changed  – agents whose path differs from the previous pass.
// SoC      – sum of path lengths in moves.
// Cost     – sum of search costs, penalties included.
// Expanded – nodes expanded by all searches of the pass.
type Report struct {
	Round    int
	Changed  int
	SoC      int
	Cost     int
	Expanded int
}

// Options configures a Planner.
type Options struct {
	Workers       int
	DistanceTable bool
	Search        []astar.Option
	Logger        *log.Logger
}

// Option represents a functional option for configuring a Planner.
type Option func(*Options)

// WithWorkers sets the parallelism of the initial batch; ≤ 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithDistanceTables precomputes a BFS table per distinct goal and uses it
// as the search heuristic instead of Manhattan distance.
func WithDistanceTables(on bool) Option {
	return func(o *Options) { o.DistanceTable = on }
}

// WithSearchOptions appends options for every searcher the planner builds.
func WithSearchOptions(opts ...astar.Option) Option {
	return func(o *Options) { o.Search = append(o.Search, opts...) }
}

// WithLogger installs a structured logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
