package astar

import (
	"github.com/katalvlaran/lvtraffic/flow"
)

// Searcher runs congestion-aware best-first searches for one caller at a
// time. It owns its node arena and frontier storage and reuses them across
// calls; use one Searcher per goroutine. The flow state is only read.
type Searcher struct {
	env   Environment
	flow  FlowView
	opts  Options
	arena *Arena
	open  *NodeHeap
	focal *FocalQueue
	scale int
}

// NewSearcher builds a Searcher over env. fl may be nil when the search
// never needs flow: unit costs and ObjNone; it then behaves as empty flow.
// Returns ErrNilEnvironment if env is nil.
func NewSearcher(env Environment, fl FlowView, opts ...Option) (*Searcher, error) {
	if env == nil {
		return nil, ErrNilEnvironment
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Observer == nil {
		cfg.Observer = NoopObserver{}
	}
	if cfg.MaxH <= 0 {
		cfg.MaxH = env.Size()
	}
	if cfg.Agents <= 0 {
		cfg.Agents = 1
	}
	if fl == nil {
		fl = emptyFlow{params: flow.DefaultParams()}
	}
	s := &Searcher{
		env:   env,
		flow:  fl,
		opts:  cfg,
		arena: NewArena(env.Size()),
		scale: 1,
	}
	if cfg.CostMode == CongestionCost && cfg.ScaleHeuristic {
		s.scale = fl.Params().T0
	}
	if cfg.FocalBound >= 1 {
		s.focal = NewFocalQueue(cfg.FocalBound, 64)
	} else {
		s.open = NewOpenHeap(64)
	}
	return s, nil
}

// Options returns the resolved configuration.
func (s *Searcher) Options() Options { return s.opts }

// Arena exposes the node arena of the most recent search.
func (s *Searcher) Arena() *Arena { return s.arena }

// emptyFlow stands in for a missing flow state.
type emptyFlow struct{ params flow.Params }

func (emptyFlow) Counts(int) flow.Counts  { return flow.Counts{} }
func (e emptyFlow) EdgeCost(int, int) int { return e.params.T0 }
func (e emptyFlow) Params() flow.Params   { return e.params }

// Search finds a path from start to goal.
//
// h is the heuristic table; nil or empty falls back to Manhattan distance.
// traffic, when non-nil, holds per location the direction of a cooperative
// leader (NoTraffic for none): a move into next is rejected when it comes
// from the cell one step from next in direction traffic[next].
//
// Failures are returned as *SearchError wrapping ErrInvalidLocation,
// ErrUnreachable, ErrClosedReopen or ErrExpansionLimit. The arena is reset
// on entry, so a failed search never affects the next one.
//
// Complexity: O(E log V) heap work for V expanded locations.
func (s *Searcher) Search(start, goal int, h Heuristic, traffic []int) (*Result, error) {
	if traffic != nil && len(traffic) != s.env.Size() {
		return nil, &SearchError{Start: start, Goal: goal, Err: ErrBadTraffic}
	}
	if !s.env.IsFree(start) || !s.env.IsFree(goal) {
		return nil, &SearchError{Start: start, Goal: goal, Err: ErrInvalidLocation}
	}
	if h != nil && h.Empty() {
		h = nil
	}
	r := &runner{
		s:       s,
		start:   start,
		goal:    goal,
		h:       h,
		traffic: traffic,
	}
	res, err := r.run()
	s.opts.Observer.OnSearchDone(r.expanded, r.generated, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// runner holds the mutable state of a single search episode.
type runner struct {
	s         *Searcher
	start     int
	goal      int
	h         Heuristic
	traffic   []int
	expanded  int
	generated int
}

// heuristic returns the scaled distance-to-goal estimate of loc.
func (r *runner) heuristic(loc int) int {
	var d int
	if r.h == nil {
		d = r.s.env.Manhattan(loc, r.goal)
	} else {
		d = r.h.At(loc)
	}
	return d * r.s.scale
}

// stepCost is the price of the move u→v before objective penalties.
func (r *runner) stepCost(u, v int) int {
	if r.s.opts.CostMode == CongestionCost {
		return r.s.flow.EdgeCost(u, v)
	}
	return 1
}

// blocked reports whether entering next from cur reverses a cooperative
// following relationship recorded in the traffic array.
func (r *runner) blocked(cur, next int) bool {
	if r.traffic == nil {
		return false
	}
	d := r.traffic[next]
	if d == NoTraffic {
		return false
	}
	return r.s.env.Move(next, d) == cur
}

func (r *runner) fail(err error) error {
	return &SearchError{Start: r.start, Goal: r.goal, Expanded: r.expanded, Err: err}
}

func (r *runner) focal() bool { return r.s.focal != nil }

func (r *runner) push(n *Node) {
	if r.focal() {
		r.s.focal.Push(n)
		return
	}
	r.s.open.Push(n)
}

func (r *runner) pop() *Node {
	if r.focal() {
		q := r.s.focal
		if q.Update() {
			r.s.opts.Observer.OnFocalBound(q.FMin(), q.FBound())
		}
		return q.PopMin()
	}
	return r.s.open.PopMin()
}

func (r *runner) frontierLen() int {
	if r.focal() {
		return r.s.focal.Len()
	}
	return r.s.open.Len()
}

// run initialises the episode and drives the expansion loop.
func (r *runner) run() (*Result, error) {
	s := r.s
	if r.focal() {
		s.focal.Clear()
	} else {
		s.open.Clear()
	}
	s.arena.Reset()
	root := s.arena.Generate(r.start, 0, r.heuristic(r.start), 0, 0, 1)
	r.generated = 1

	if r.start == r.goal {
		return &Result{Path: []int{r.start}, Goal: *root, Generated: 1}, nil
	}

	if r.focal() {
		s.focal.Start(root.F())
		s.opts.Observer.OnFocalBound(s.focal.FMin(), s.focal.FBound())
	}
	r.push(root)

	var goalNode *Node
	for r.frontierLen() > 0 {
		cur := r.pop()
		cur.Close()
		s.opts.Observer.OnExpand(cur.Loc, cur.G, cur.F())

		if cur.Loc == r.goal {
			goalNode = cur
			break
		}
		r.expanded++
		if r.expanded%progressEvery == 0 && s.opts.Logger != nil {
			s.opts.Logger.Debug("search progress", "start", r.start, "goal", r.goal,
				"expanded", r.expanded, "current", cur.Loc)
		}
		if r.expanded > s.opts.ExpansionLimit {
			if s.opts.Logger != nil {
				s.opts.Logger.Error("search aborted: expansion limit", "start", r.start,
					"goal", r.goal, "expanded", r.expanded, "limit", s.opts.ExpansionLimit)
			}
			return nil, r.fail(ErrExpansionLimit)
		}
		if err := r.expand(cur); err != nil {
			return nil, err
		}
	}

	if goalNode == nil {
		if s.opts.Logger != nil {
			s.opts.Logger.Warn("no path found", "start", r.start, "goal", r.goal, "expanded", r.expanded)
		}
		return nil, r.fail(ErrUnreachable)
	}

	return &Result{
		Path:      s.arena.Path(goalNode),
		Goal:      *goalNode,
		Expanded:  r.expanded,
		Generated: r.generated,
	}, nil
}

// expand generates or relaxes every admissible neighbor of cur.
func (r *runner) expand(cur *Node) error {
	s := r.s
	neighbors := s.env.Neighbors(cur.Loc)
	curCounts := s.flow.Counts(cur.Loc)

	for d, next := range neighbors {
		if next < 0 {
			continue
		}
		if r.blocked(cur.Loc, next) {
			continue
		}

		cand := Node{
			Loc:        next,
			G:          cur.G + r.stepCost(cur.Loc, next),
			H:          r.heuristic(next),
			OpFlow:     cur.OpFlow,
			VertexFlow: cur.VertexFlow,
			Depth:      cur.Depth + 1,
			Tie:        cur.Tie,
			Parent:     cur.Loc,
		}
		r.accumulate(&cand, curCounts, s.flow.Counts(next), flow.Direction(d))

		if err := r.relax(&cand); err != nil {
			return err
		}
	}
	return nil
}

// accumulate applies the objective's congestion terms for the move into
// cand along direction d.
//
// vertex is the total outgoing count of the entered cell (its visitation
// pressure); cross is (co-count+1) × reverse count of the traversed edge.
// Without focal search the penalties are added to G; with focal search
// they go to VertexFlow so they order focal without inflating F.
func (r *runner) accumulate(cand *Node, cur, next flow.Counts, d flow.Direction) {
	opts := &r.s.opts
	if opts.Objective == ObjNone {
		return
	}
	rev := int(next[d.Reverse()])
	cross := (int(cur[d]) + 1) * rev
	vertex := next.Sum()
	half := vertex / 2

	switch opts.Objective {
	case ObjVC:
		r.penalise(cand, half)
	case ObjOVC:
		cand.OpFlow += cross
		r.penalise(cand, half)
	case ObjSumOVC:
		r.penalise(cand, half+cross)
	case ObjSUITG:
		cand.Tie = r.pressure(vertex, rev)
	case ObjSUITC:
		cand.Tie += r.pressure(vertex, rev) / float64(opts.MaxH)
	}
}

func (r *runner) penalise(cand *Node, p int) {
	if r.focal() {
		cand.VertexFlow += p
		return
	}
	cand.G += p
}

// pressure blends vertex visitation and reverse flow, normalised by the agent count.
func (r *runner) pressure(vertex, rev int) float64 {
	a := float64(r.s.opts.Agents)
	return 0.5*float64(vertex+1)/a + 0.5*float64(rev)/a
}

// relax generates cand's location or improves its existing node.
func (r *runner) relax(cand *Node) error {
	s := r.s
	if !s.arena.Has(cand.Loc) {
		n := s.arena.Generate(cand.Loc, cand.G, cand.H, cand.OpFlow, cand.VertexFlow, cand.Depth)
		n.Parent = cand.Parent
		n.Tie = cand.Tie
		r.push(n)
		r.generated++
		return nil
	}

	existing := s.arena.Get(cand.Loc)
	if !existing.Closed() {
		if !r.focal() {
			if better(cand, existing) {
				existing.assign(cand)
				s.open.DecreaseKey(existing)
			}
			return nil
		}
		q := s.focal
		if q.InFocal(existing) {
			if cand.F() <= q.FBound() && betterJam(cand, existing) {
				existing.assign(cand)
				q.DecreaseKey(existing)
			}
		} else if better(cand, existing) {
			existing.assign(cand)
			q.DecreaseKey(existing)
		}
		return nil
	}

	// Closed under focal search: re-expansion is deliberately not attempted.
	if r.focal() {
		return nil
	}
	if better(cand, existing) {
		if s.opts.Logger != nil {
			s.opts.Logger.Error("closed node improved", "start", r.start, "goal", r.goal,
				"loc", cand.Loc, "closed_g", existing.G, "new_g", cand.G,
				"closed_tie", existing.Tie, "new_tie", cand.Tie)
		}
		return r.fail(ErrClosedReopen)
	}
	return nil
}
