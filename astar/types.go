package astar

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/lvtraffic/flow"
)

// Sentinel errors returned by the search engine.
var (
	// ErrInvalidLocation indicates a start or goal that is out of range or obstructed.
	ErrInvalidLocation = errors.New("astar: location out of range or obstructed")

	// ErrUnreachable indicates that the frontier emptied before the goal was popped.
	ErrUnreachable = errors.New("astar: goal unreachable")

	// ErrClosedReopen indicates that a candidate the replace-if-better
	// comparator prefers (lower F, then Tie, OpFlow, VertexFlow) reached an
	// already expanded node under the standard ordering. It signals an
	// inconsistent heuristic, a non-monotone tie-breaker or a cost defect.
	ErrClosedReopen = errors.New("astar: closed node would need re-expansion")

	// ErrExpansionLimit indicates the expansion ceiling was hit.
	ErrExpansionLimit = errors.New("astar: expansion limit exceeded")

	// ErrEmptyHeuristic indicates the greedy routine was called without a table.
	ErrEmptyHeuristic = errors.New("astar: greedy search needs a non-empty heuristic table")

	// ErrBadTraffic indicates a traffic-direction array whose length does not match the map.
	ErrBadTraffic = errors.New("astar: traffic array length must equal map size")

	// ErrBadFocalBound indicates a focal admission ratio below 1.
	ErrBadFocalBound = errors.New("astar: focal bound must be at least 1")

	// ErrBadExpansionLimit indicates a non-positive expansion ceiling.
	ErrBadExpansionLimit = errors.New("astar: expansion limit must be positive")

	// ErrBadTieBreakNorm indicates non-positive tie-breaker normalisers.
	ErrBadTieBreakNorm = errors.New("astar: tie-break normalisers must be positive")

	// ErrDuplicateNode indicates a second Generate for one location in one episode.
	ErrDuplicateNode = errors.New("astar: node generated twice in one episode")

	// ErrNilEnvironment indicates NewSearcher was called without an environment.
	ErrNilEnvironment = errors.New("astar: environment is nil")
)

// SearchError carries the endpoints of a failed search and unwraps to one
// of the sentinel errors above.
type SearchError struct {
	Start, Goal int
	Expanded    int
	Err         error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%v (start=%d goal=%d expanded=%d)", e.Err, e.Start, e.Goal, e.Expanded)
}

func (e *SearchError) Unwrap() error { return e.Err }

// NoTraffic marks a location without a cooperative-following constraint
// in the traffic-direction array.
const NoTraffic = -1

// DefaultExpansionLimit is the runaway-search ceiling.
const DefaultExpansionLimit = 10_000_000

// progressEvery is the expansion interval between debug progress lines.
const progressEvery = 100_000

// Environment is the map collaborator. Neighbors lists the four moves in
// direction order (east, south, west, north) with -1 for invalid ones;
// Move returns the single neighbor in direction d or -1.
type Environment interface {
	Size() int
	IsFree(loc int) bool
	Neighbors(loc int) [4]int
	Move(loc, d int) int
	Manhattan(u, v int) int
}

// FlowView is the read-only face of the flow state used during expansion.
type FlowView interface {
	Counts(loc int) flow.Counts
	EdgeCost(u, v int) int
	Params() flow.Params
}

// Heuristic is a precomputed distance-to-goal table. An empty table makes
// the search fall back to Manhattan distance.
type Heuristic interface {
	Empty() bool
	At(loc int) int
}

// Objective selects how congestion accumulates into a node.
type Objective int

const (
	// ObjNone uses path cost only.
	ObjNone Objective = iota
	// ObjVC adds half the vertex visitation count of each entered cell.
	ObjVC
	// ObjOVC is ObjVC plus accumulated opposing cross-flow in OpFlow.
	ObjOVC
	// ObjSumOVC folds both vertex and cross-flow penalties into the cost.
	ObjSumOVC
	// ObjSUITG orders equal-cost nodes by the congestion of the entered cell.
	ObjSUITG
	// ObjSUITC accumulates that congestion into the tie-breaker along the path.
	ObjSUITC
)

var objectiveNames = [...]string{"none", "vc", "ovc", "sum_ovc", "sui_tg", "sui_tc"}

func (o Objective) String() string {
	if o >= 0 && int(o) < len(objectiveNames) {
		return objectiveNames[o]
	}
	return fmt.Sprintf("Objective(%d)", int(o))
}

// ParseObjective maps a name produced by String back to its Objective.
func ParseObjective(s string) (Objective, error) {
	for i, name := range objectiveNames {
		if name == s {
			return Objective(i), nil
		}
	}
	return ObjNone, fmt.Errorf("astar: unknown objective %q", s)
}

// CostMode selects the per-move cost.
type CostMode int

const (
	// UnitCost charges 1 per move.
	UnitCost CostMode = iota
	// CongestionCost charges the flow state's BPR edge cost per move.
	CongestionCost
)

func (m CostMode) String() string {
	switch m {
	case UnitCost:
		return "unit"
	case CongestionCost:
		return "congestion"
	}
	return fmt.Sprintf("CostMode(%d)", int(m))
}

// ParseCostMode maps "unit" or "congestion" to a CostMode.
func ParseCostMode(s string) (CostMode, error) {
	switch s {
	case "unit":
		return UnitCost, nil
	case "congestion":
		return CongestionCost, nil
	}
	return UnitCost, fmt.Errorf("astar: unknown cost mode %q", s)
}

// Observer receives search events. OnExpand runs in the hot loop.
type Observer interface {
	OnExpand(loc, g, f int)
	OnFocalBound(fMin, fBound int)
	OnSearchDone(expanded, generated int, err error)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnExpand(int, int, int)       {}
func (NoopObserver) OnFocalBound(int, int)        {}
func (NoopObserver) OnSearchDone(int, int, error) {}

// Options configures a Searcher.
//
// Objective      – congestion accumulation rule (default ObjNone).
// CostMode       – UnitCost or CongestionCost (default UnitCost).
// ScaleHeuristic – in CongestionCost mode, multiply heuristics by T0 (default true).
// FocalBound     – 0 for plain A*, otherwise the focal admission ratio ≥ 1.
// ExpansionLimit – runaway ceiling (default DefaultExpansionLimit).
// Agents, MaxH   – normalisers of the SUI tie-breakers.
// Logger         – optional structured logger; nil disables logging.
// Observer       – event sink (default NoopObserver).
type Options struct {
	Objective      Objective
	CostMode       CostMode
	ScaleHeuristic bool
	FocalBound     float64
	ExpansionLimit int
	Agents         int
	MaxH           int
	Logger         *log.Logger
	Observer       Observer
}

// Option represents a functional option for configuring a Searcher.
type Option func(*Options)

// DefaultOptions returns plain unit-cost A* with no congestion objective.
func DefaultOptions() Options {
	return Options{
		Objective:      ObjNone,
		CostMode:       UnitCost,
		ScaleHeuristic: true,
		ExpansionLimit: DefaultExpansionLimit,
		Agents:         1,
		Observer:       NoopObserver{},
	}
}

// WithObjective selects the congestion objective.
func WithObjective(o Objective) Option {
	return func(opts *Options) { opts.Objective = o }
}

// WithCostMode selects unit or congestion edge costs.
func WithCostMode(m CostMode) Option {
	return func(opts *Options) { opts.CostMode = m }
}

// WithScaleHeuristic toggles heuristic scaling in congestion mode.
func WithScaleHeuristic(scale bool) Option {
	return func(opts *Options) { opts.ScaleHeuristic = scale }
}

// WithFocal enables bounded-suboptimal focal search with the given ratio.
// Panics with ErrBadFocalBound if bound < 1.
func WithFocal(bound float64) Option {
	if bound < 1 {
		panic(ErrBadFocalBound.Error())
	}
	return func(opts *Options) { opts.FocalBound = bound }
}

// WithExpansionLimit overrides the runaway ceiling.
// Panics with ErrBadExpansionLimit if limit ≤ 0.
func WithExpansionLimit(limit int) Option {
	if limit <= 0 {
		panic(ErrBadExpansionLimit.Error())
	}
	return func(opts *Options) { opts.ExpansionLimit = limit }
}

// WithTieBreakNorm sets the agent count and maximum heuristic value that
// normalise the SUI tie-breakers. Panics with ErrBadTieBreakNorm on
// non-positive values.
func WithTieBreakNorm(agents, maxH int) Option {
	if agents <= 0 || maxH <= 0 {
		panic(ErrBadTieBreakNorm.Error())
	}
	return func(opts *Options) {
		opts.Agents = agents
		opts.MaxH = maxH
	}
}

// WithLogger installs a structured logger.
func WithLogger(l *log.Logger) Option {
	return func(opts *Options) { opts.Logger = l }
}

// WithObserver installs an event observer.
func WithObserver(o Observer) Option {
	return func(opts *Options) {
		if o != nil {
			opts.Observer = o
		}
	}
}
