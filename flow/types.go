package flow

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the flow state.
var (
	// ErrNegativeCount indicates a retract that would drive a directional count
	// below zero, i.e. retracting a trajectory that was never committed.
	ErrNegativeCount = errors.New("flow: directional count would become negative")

	// ErrNotAdjacent indicates a trajectory step between two distinct,
	// in-range locations that are not 4-adjacent.
	ErrNotAdjacent = errors.New("flow: trajectory step is not between adjacent cells")

	// ErrNilTopology indicates NewState was called without a topology.
	ErrNilTopology = errors.New("flow: topology is nil")

	// ErrBadParams indicates cost or smoothing parameters outside their domain.
	ErrBadParams = errors.New("flow: invalid parameters")
)

// Direction is a compass direction encoded 0–3. d and (d+2)%4 are mutually reverse.
type Direction int

const (
	East Direction = iota
	South
	West
	North
)

// NumDirections is the number of directed edges leaving a location.
const NumDirections = 4

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction { return (d + 2) % NumDirections }

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool { return d >= East && d <= North }

func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	case North:
		return "north"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Counts holds the exact number of agents assigned to each directed edge
// leaving one location.
type Counts [NumDirections]int32

// Sum returns the total outgoing count, i.e. the number of visits to the location.
func (c Counts) Sum() int {
	s := 0
	for _, n := range c {
		s += int(n)
	}
	return s
}

// Estimates holds the EMA-smoothed counterpart of Counts.
type Estimates [NumDirections]float64

// Trajectory is an ordered sequence of locations, start first. Consecutive
// entries are adjacent or equal (a wait).
type Trajectory []int

// Topology is the part of the map the flow state needs: its size and the
// direction of a single step. Direction returns -1 for non-adjacent pairs.
type Topology interface {
	Size() int
	Direction(u, v int) int
}

// freeChecker is optionally implemented by a Topology to expose obstacles.
type freeChecker interface {
	IsFree(loc int) bool
}

// Params configures the BPR volume/delay curve and the EMA smoothing.
//
//	T0            – free-flow cost of one move (fixed-point scale of 1.0).
//	Alpha         – BPR α.
//	CMax          – capacity of an edge with no reverse traffic.
//	Gamma         – capacity lost per unit of reverse flow.
//	CMin          – lower bound on effective capacity.
//	Eta           – EMA smoothing coefficient in (0,1).
//	MaxCost       – clamp applied to every computed edge cost.
//	Penalty       – cost returned for edges with invalid or obstructed endpoints.
//	CongestedCost – edge costs at or above this are reported to the Observer.
type Params struct {
	T0            int
	Alpha         float64
	CMax          float64
	Gamma         float64
	CMin          float64
	Eta           float64
	MaxCost       int
	Penalty       int
	CongestedCost int
}

// DefaultMaxCost keeps path sums of several clamped edges inside int32.
const DefaultMaxCost = math.MaxInt32 / 2

// DefaultParams returns the reference parameter set:
// T0=1000, α=0.15, C_max=1.0, γ=0.8, C_min=0.01, η=0.2,
// MaxCost=Penalty=MaxInt32/2, CongestedCost=10000.
func DefaultParams() Params {
	return Params{
		T0:            1000,
		Alpha:         0.15,
		CMax:          1.0,
		Gamma:         0.8,
		CMin:          0.01,
		Eta:           0.2,
		MaxCost:       DefaultMaxCost,
		Penalty:       DefaultMaxCost,
		CongestedCost: 10000,
	}
}

// Validate checks parameter domains and returns ErrBadParams wrapped with
// the offending field.
func (p Params) Validate() error {
	switch {
	case p.T0 <= 0:
		return fmt.Errorf("%w: T0=%d must be positive", ErrBadParams, p.T0)
	case p.Alpha < 0:
		return fmt.Errorf("%w: Alpha=%g must be non-negative", ErrBadParams, p.Alpha)
	case p.CMin <= 0:
		return fmt.Errorf("%w: CMin=%g must be positive", ErrBadParams, p.CMin)
	case p.CMax < p.CMin:
		return fmt.Errorf("%w: CMax=%g must be at least CMin=%g", ErrBadParams, p.CMax, p.CMin)
	case p.Gamma < 0:
		return fmt.Errorf("%w: Gamma=%g must be non-negative", ErrBadParams, p.Gamma)
	case p.Eta <= 0 || p.Eta >= 1:
		return fmt.Errorf("%w: Eta=%g must lie in (0,1)", ErrBadParams, p.Eta)
	case p.MaxCost < p.T0:
		return fmt.Errorf("%w: MaxCost=%d must be at least T0=%d", ErrBadParams, p.MaxCost, p.T0)
	case p.Penalty <= 0:
		return fmt.Errorf("%w: Penalty=%d must be positive", ErrBadParams, p.Penalty)
	}
	return nil
}

// Observer receives flow-state events. Implementations must be cheap;
// OnCongestedEdge is called from the search hot loop.
type Observer interface {
	OnCommit(steps int)
	OnRetract(steps int)
	OnCongestedEdge(u, v, cost int)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCommit(int)                  {}
func (NoopObserver) OnRetract(int)                 {}
func (NoopObserver) OnCongestedEdge(int, int, int) {}

// Option configures a State.
type Option func(*State)

// WithParams replaces the default parameters. Invalid parameters panic,
// mirroring the option constructors of the search package.
func WithParams(p Params) Option {
	if err := p.Validate(); err != nil {
		panic(err.Error())
	}
	return func(s *State) {
		s.params = p
	}
}

// WithObserver installs an event observer.
func WithObserver(o Observer) Option {
	return func(s *State) {
		if o != nil {
			s.observer = o
		}
	}
}
