package flow

import "fmt"

// State is the per-location, per-direction traffic model: an exact integer
// count of agents assigned to every directed edge, and an EMA estimate that
// tracks it. Edge costs are derived from the estimates; search objectives
// read the exact counts.
//
// State is not synchronized. Commit, Retract and Seed must not run while a
// search is reading the same State; phase mutations between search episodes.
type State struct {
	topo      Topology
	free      freeChecker
	params    Params
	observer  Observer
	counts    []Counts
	estimates []Estimates
}

// step is one directed edge traversal extracted from a trajectory.
type step struct {
	loc int
	d   Direction
}

// NewState allocates zeroed counters for every location of topo.
// Returns ErrNilTopology if topo is nil.
// Complexity: O(N) time and memory.
func NewState(topo Topology, opts ...Option) (*State, error) {
	if topo == nil {
		return nil, ErrNilTopology
	}
	s := &State{
		topo:     topo,
		params:   DefaultParams(),
		observer: NoopObserver{},
	}
	if fc, ok := topo.(freeChecker); ok {
		s.free = fc
	}
	for _, opt := range opts {
		opt(s)
	}
	n := topo.Size()
	s.counts = make([]Counts, n)
	s.estimates = make([]Estimates, n)

	return s, nil
}

// Size returns the number of tracked locations.
func (s *State) Size() int { return len(s.counts) }

// Params returns the active parameters.
func (s *State) Params() Params { return s.params }

// steps converts a trajectory into directed edge traversals. Pairs with an
// out-of-range endpoint and waits are skipped; any other non-adjacent pair
// fails the whole trajectory.
func (s *State) steps(traj Trajectory) ([]step, error) {
	if len(traj) < 2 {
		return nil, nil
	}
	out := make([]step, 0, len(traj)-1)
	n := len(s.counts)
	for i := 1; i < len(traj); i++ {
		u, v := traj[i-1], traj[i]
		if u < 0 || u >= n || v < 0 || v >= n {
			continue
		}
		if u == v {
			continue
		}
		d := s.topo.Direction(u, v)
		if d < 0 || d >= NumDirections {
			return nil, fmt.Errorf("%w: step %d (%d→%d)", ErrNotAdjacent, i, u, v)
		}
		out = append(out, step{loc: u, d: Direction(d)})
	}
	return out, nil
}

// Commit adds one agent's trajectory to the flow: every step u→v
// increments count[u][d], then the estimate at (u,d) takes one EMA step
// toward the new count. Returns ErrNotAdjacent, leaving the state
// untouched, if the trajectory contains an impossible move.
// Complexity: O(len(traj)).
func (s *State) Commit(traj Trajectory) error {
	steps, err := s.steps(traj)
	if err != nil {
		return err
	}
	for _, st := range steps {
		s.counts[st.loc][st.d]++
	}
	s.sync(steps)
	s.observer.OnCommit(len(steps))

	return nil
}

// Retract is the exact inverse of Commit on the counts: every step
// decrements count[u][d], then the estimate takes one EMA step toward the
// lowered count. Retracting a trajectory that is not committed is a
// precondition violation; it is detected before any estimate moves,
// the counts are rolled back and ErrNegativeCount is returned.
// Complexity: O(len(traj)).
func (s *State) Retract(traj Trajectory) error {
	steps, err := s.steps(traj)
	if err != nil {
		return err
	}
	for i, st := range steps {
		if s.counts[st.loc][st.d] == 0 {
			for _, done := range steps[:i] {
				s.counts[done.loc][done.d]++
			}
			return fmt.Errorf("%w: location %d direction %s", ErrNegativeCount, st.loc, st.d)
		}
		s.counts[st.loc][st.d]--
	}
	s.sync(steps)
	s.observer.OnRetract(len(steps))

	return nil
}

// sync moves each touched estimate one EMA step toward its current count.
func (s *State) sync(steps []step) {
	for _, st := range steps {
		est := &s.estimates[st.loc][st.d]
		*est = EMA(s.params, *est, s.counts[st.loc][st.d])
	}
}

// Seed commits every non-empty trajectory, establishing the initial flow
// before any search runs. It stops at the first invalid trajectory and
// reports its index; trajectories before it stay committed.
func (s *State) Seed(trajs []Trajectory) error {
	for i, t := range trajs {
		if len(t) == 0 {
			continue
		}
		if err := s.Commit(t); err != nil {
			return fmt.Errorf("flow: seeding trajectory %d: %w", i, err)
		}
	}
	return nil
}

// Reset zeroes every count and estimate.
func (s *State) Reset() {
	clear(s.counts)
	clear(s.estimates)
}

// valid reports whether loc is in range and, when the topology knows
// about obstacles, free.
func (s *State) valid(loc int) bool {
	if loc < 0 || loc >= len(s.counts) {
		return false
	}
	return s.free == nil || s.free.IsFree(loc)
}

// EdgeCost returns the congestion cost of moving u→v. A wait (u==v) costs
// exactly T0. Invalid or obstructed endpoints and non-adjacent pairs cost
// Params.Penalty. Otherwise the cost is Cost(co, rev) with co the
// estimate at (u,d) and rev the estimate at (v, reverse(d)).
func (s *State) EdgeCost(u, v int) int {
	if !s.valid(u) || !s.valid(v) {
		return s.params.Penalty
	}
	if u == v {
		return s.params.T0
	}
	d := s.topo.Direction(u, v)
	if d < 0 || d >= NumDirections {
		return s.params.Penalty
	}
	dir := Direction(d)
	c := Cost(s.params, s.estimates[u][dir], s.estimates[v][dir.Reverse()])
	if c >= s.params.CongestedCost {
		s.observer.OnCongestedEdge(u, v, c)
	}
	return c
}

// Count returns the exact count on (loc, d); 0 for invalid arguments.
func (s *State) Count(loc int, d Direction) int32 {
	if loc < 0 || loc >= len(s.counts) || !d.Valid() {
		return 0
	}
	return s.counts[loc][d]
}

// Counts returns all four exact counts of loc; zero for an invalid loc.
func (s *State) Counts(loc int) Counts {
	if loc < 0 || loc >= len(s.counts) {
		return Counts{}
	}
	return s.counts[loc]
}

// Estimate returns the EMA estimate on (loc, d); 0 for invalid arguments.
func (s *State) Estimate(loc int, d Direction) float64 {
	if loc < 0 || loc >= len(s.estimates) || !d.Valid() {
		return 0
	}
	return s.estimates[loc][d]
}

// Estimates returns all four estimates of loc; zero for an invalid loc.
func (s *State) Estimates(loc int) Estimates {
	if loc < 0 || loc >= len(s.estimates) {
		return Estimates{}
	}
	return s.estimates[loc]
}

// EdgeCounts returns every directed count of every free location, four
// per location in direction order. Used by traffic statistics.
func (s *State) EdgeCounts() []int32 {
	out := make([]int32, 0, len(s.counts)*NumDirections)
	for loc, c := range s.counts {
		if s.free != nil && !s.free.IsFree(loc) {
			continue
		}
		out = append(out, c[:]...)
	}
	return out
}
