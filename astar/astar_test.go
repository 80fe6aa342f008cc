package astar_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lvtraffic/astar"
	"github.com/katalvlaran/lvtraffic/flow"
	"github.com/katalvlaran/lvtraffic/gridgraph"
)

func mustGrid(t testing.TB, rows ...string) *gridgraph.Grid {
	t.Helper()
	g, err := gridgraph.FromRows(rows)
	require.NoError(t, err)
	return g
}

func mustState(t testing.TB, g *gridgraph.Grid, trajs ...flow.Trajectory) *flow.State {
	t.Helper()
	st, err := flow.NewState(g)
	require.NoError(t, err)
	require.NoError(t, st.Seed(trajs))
	return st
}

func repeat(traj flow.Trajectory, n int) []flow.Trajectory {
	out := make([]flow.Trajectory, n)
	for i := range out {
		out[i] = traj
	}
	return out
}

// requireContiguous checks that every consecutive pair of path is 4-adjacent.
func requireContiguous(t testing.TB, g *gridgraph.Grid, path []int) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		require.GreaterOrEqual(t, g.Direction(path[i-1], path[i]), 0,
			"step %d: %d → %d is not a move", i, path[i-1], path[i])
	}
}

// recorder captures search events.
type recorder struct {
	fBound     int
	bounds     int
	expansions int
	violations int
	done       int
	lastErr    error
}

func (r *recorder) OnExpand(_, _, f int) {
	r.expansions++
	if f > r.fBound {
		r.violations++
	}
}

func (r *recorder) OnFocalBound(_, fBound int) {
	r.bounds++
	r.fBound = fBound
}

func (r *recorder) OnSearchDone(_, _ int, err error) {
	r.done++
	r.lastErr = err
}

type SearchSuite struct {
	suite.Suite
}

func TestSearchSuite(t *testing.T) {
	suite.Run(t, new(SearchSuite))
}

func (s *SearchSuite) search(g *gridgraph.Grid, fl astar.FlowView, start, goal int, opts ...astar.Option) (*astar.Result, error) {
	sr, err := astar.NewSearcher(g, fl, opts...)
	s.Require().NoError(err)
	return sr.Search(start, goal, nil, nil)
}

func (s *SearchSuite) TestStartIsGoal() {
	g := mustGrid(s.T(), "...")
	res, err := s.search(g, nil, 1, 1)
	s.Require().NoError(err)
	s.Equal([]int{1}, res.Path)
	s.Equal(0, res.Cost())
	s.Equal(1, res.Goal.Depth)
	s.Equal(1, res.Generated)
}

func (s *SearchSuite) TestCorridorUnitCost() {
	g := mustGrid(s.T(), ".....")
	res, err := s.search(g, nil, 0, 4)
	s.Require().NoError(err)
	s.Equal([]int{0, 1, 2, 3, 4}, res.Path)
	s.Equal(4, res.Cost())
	s.Equal(5, res.Len())
	s.Equal(5, res.Goal.Depth)
	s.Equal(3, res.Goal.Parent)
}

func (s *SearchSuite) TestCorridorCongestionCost() {
	g := mustGrid(s.T(), ".....")
	st := mustState(s.T(), g)
	res, err := s.search(g, st, 0, 4, astar.WithCostMode(astar.CongestionCost))
	s.Require().NoError(err)
	s.Equal(4000, res.Cost(), "four uncongested moves at T0 each")
	s.Equal(0, res.Goal.H)

	// Without a flow state the search behaves as over empty flow.
	res, err = s.search(g, nil, 0, 4, astar.WithCostMode(astar.CongestionCost))
	s.Require().NoError(err)
	s.Equal(4000, res.Cost())
}

func (s *SearchSuite) TestDetourAroundWall() {
	g := mustGrid(s.T(),
		".....",
		".###.",
		".....",
	)
	start, goal := g.Index(0, 2), g.Index(4, 0)
	res, err := s.search(g, nil, start, goal)
	s.Require().NoError(err)
	s.Equal(6, res.Cost())
	s.Equal(start, res.Path[0])
	s.Equal(goal, res.Path[len(res.Path)-1])
	requireContiguous(s.T(), g, res.Path)
	for _, loc := range res.Path {
		s.True(g.IsFree(loc))
	}
}

// TestCongestionDetour seeds ten agents along the middle row of a 5×3
// grid. Crossing it costs ~257k per edge, so the path takes a side row.
func (s *SearchSuite) TestCongestionDetour() {
	g := mustGrid(s.T(), ".....", ".....", ".....")
	st := mustState(s.T(), g, repeat(flow.Trajectory{5, 6, 7, 8, 9}, 10)...)

	for _, scale := range []bool{true, false} {
		res, err := s.search(g, st, 5, 9,
			astar.WithCostMode(astar.CongestionCost),
			astar.WithScaleHeuristic(scale))
		s.Require().NoError(err, "scale=%v", scale)
		s.Equal(6000, res.Cost(), "scale=%v", scale)
		s.Equal(7, res.Len())
		s.NotContains(res.Path, 6)
		s.NotContains(res.Path, 7)
		s.NotContains(res.Path, 8)
		requireContiguous(s.T(), g, res.Path)
	}

	// Unit cost ignores flow and goes straight through.
	res, err := s.search(g, st, 5, 9)
	s.Require().NoError(err)
	s.Equal([]int{5, 6, 7, 8, 9}, res.Path)
}

func (s *SearchSuite) TestUnreachable() {
	g := mustGrid(s.T(), "..#..")
	rec := &recorder{}
	_, err := s.search(g, nil, 0, 4, astar.WithObserver(rec))
	s.Require().ErrorIs(err, astar.ErrUnreachable)

	var se *astar.SearchError
	s.Require().True(errors.As(err, &se))
	s.Equal(0, se.Start)
	s.Equal(4, se.Goal)
	s.Equal(2, se.Expanded)
	s.Contains(se.Error(), "start=0 goal=4")

	s.Equal(1, rec.done)
	s.ErrorIs(rec.lastErr, astar.ErrUnreachable)
}

func (s *SearchSuite) TestInvalidEndpoints() {
	g := mustGrid(s.T(), ".#.")
	for _, tc := range []struct{ start, goal int }{
		{1, 0}, {0, 1}, {-1, 0}, {0, 3},
	} {
		_, err := s.search(g, nil, tc.start, tc.goal)
		s.ErrorIs(err, astar.ErrInvalidLocation, "start=%d goal=%d", tc.start, tc.goal)
	}
}

func (s *SearchSuite) TestExpansionLimit() {
	g := mustGrid(s.T(), ".....", ".....", ".....", ".....", ".....")
	_, err := s.search(g, nil, 0, 24, astar.WithExpansionLimit(1))
	s.Require().ErrorIs(err, astar.ErrExpansionLimit)
	var se *astar.SearchError
	s.Require().ErrorAs(err, &se)
	s.Equal(2, se.Expanded)
}

func (s *SearchSuite) TestTrafficBlocksFollowing() {
	g := mustGrid(s.T(), "...", "...")
	traffic := []int{-1, gridgraph.West, -1, -1, -1, -1}
	sr, err := astar.NewSearcher(g, nil)
	s.Require().NoError(err)

	// Entering 1 from 0 (its west neighbor) is forbidden; from 4 it is not.
	res, err := sr.Search(0, 2, nil, traffic)
	s.Require().NoError(err)
	s.Equal(4, res.Cost())
	s.Equal(3, res.Path[1])
	requireContiguous(s.T(), g, res.Path)

	_, err = sr.Search(0, 2, nil, traffic[:3])
	s.ErrorIs(err, astar.ErrBadTraffic)

	// In a corridor the constraint cuts the only route.
	line := mustGrid(s.T(), "...")
	sr, err = astar.NewSearcher(line, nil)
	s.Require().NoError(err)
	_, err = sr.Search(0, 2, nil, []int{astar.NoTraffic, gridgraph.West, astar.NoTraffic})
	s.ErrorIs(err, astar.ErrUnreachable)
}

// TestVertexCongestion routes around a cell six agents have left from.
//
//	. . .
//	S @ G   @ = cell 4, six agents moved 4 → 7
//	. . .
func (s *SearchSuite) TestVertexCongestion() {
	g := mustGrid(s.T(), "...", "...", "...")
	st := mustState(s.T(), g, repeat(flow.Trajectory{4, 7}, 6)...)

	res, err := s.search(g, st, 3, 5)
	s.Require().NoError(err)
	s.Equal([]int{3, 4, 5}, res.Path)

	res, err = s.search(g, st, 3, 5, astar.WithObjective(astar.ObjVC))
	s.Require().NoError(err)
	s.Equal(4, res.Cost())
	s.NotContains(res.Path, 4)
	requireContiguous(s.T(), g, res.Path)
}

// TestObjectiveAccumulation walks 0 → 1 → 2 on a corridor where two
// agents have moved 2 → 1, so the final step meets opposing flow 2 and
// enters a cell with vertex count 2.
func (s *SearchSuite) TestObjectiveAccumulation() {
	g := mustGrid(s.T(), "...")
	st := mustState(s.T(), g, repeat(flow.Trajectory{2, 1}, 2)...)

	cases := []struct {
		name   string
		opts   []astar.Option
		g      int
		opFlow int
		vertex int
		tie    float64
	}{
		{"none", nil, 2, 0, 0, 0},
		{"vc", []astar.Option{astar.WithObjective(astar.ObjVC)}, 3, 0, 0, 0},
		{"ovc", []astar.Option{astar.WithObjective(astar.ObjOVC)}, 3, 2, 0, 0},
		{"sum_ovc", []astar.Option{astar.WithObjective(astar.ObjSumOVC)}, 5, 0, 0, 0},
		{"focal_vc", []astar.Option{astar.WithObjective(astar.ObjVC), astar.WithFocal(1)}, 2, 0, 1, 0},
		{"focal_ovc", []astar.Option{astar.WithObjective(astar.ObjOVC), astar.WithFocal(1.5)}, 2, 2, 1, 0},
		{"sui_tg", []astar.Option{astar.WithObjective(astar.ObjSUITG), astar.WithTieBreakNorm(4, 10)}, 2, 0, 0, 0.625},
		{"sui_tc", []astar.Option{astar.WithObjective(astar.ObjSUITC), astar.WithTieBreakNorm(4, 10)}, 2, 0, 0, 0.075},
	}
	for _, tc := range cases {
		res, err := s.search(g, st, 0, 2, tc.opts...)
		s.Require().NoError(err, tc.name)
		s.Equal([]int{0, 1, 2}, res.Path, tc.name)
		s.Equal(tc.g, res.Goal.G, tc.name)
		s.Equal(tc.opFlow, res.Goal.OpFlow, tc.name)
		s.Equal(tc.vertex, res.Goal.VertexFlow, tc.name)
		s.InDelta(tc.tie, res.Goal.Tie, 1e-9, tc.name)
	}
}

// TestFocalBound checks that every expanded node lies within the current
// admission threshold and that the path cost stays within the bound.
func (s *SearchSuite) TestFocalBound() {
	g := mustGrid(s.T(),
		"......",
		"......",
		"..##..",
		"......",
		"......",
		"......",
	)
	st := mustState(s.T(), g,
		flow.Trajectory{0, 1, 2, 3, 4, 5},
		flow.Trajectory{6, 7, 8, 9, 10, 11},
		flow.Trajectory{0, 6, 12, 18, 24, 30},
		flow.Trajectory{30, 31, 32, 33, 34, 35},
	)
	start, goal := 0, 35

	opt, err := s.search(g, st, start, goal)
	s.Require().NoError(err)

	for _, bound := range []float64{1, 1.5, 2} {
		rec := &recorder{}
		res, err := s.search(g, st, start, goal,
			astar.WithObjective(astar.ObjOVC),
			astar.WithFocal(bound),
			astar.WithObserver(rec))
		s.Require().NoError(err, "bound=%v", bound)
		s.Zero(rec.violations, "bound=%v", bound)
		s.Positive(rec.bounds)
		s.Equal(rec.expansions, res.Expanded+1, "goal pop is observed")
		s.LessOrEqual(float64(res.Cost()), bound*float64(opt.Cost()), "bound=%v", bound)
		requireContiguous(s.T(), g, res.Path)
	}
}

// inconsistent overestimates at cell 1 so that cell 2 is closed through a
// longer path before the short one is discovered.
//
//	0 1 2
//	3 4 5
//	6 7 8
var inconsistent = gridgraph.DistanceTable{0, 50, 0, 0, 0, 0, 0, 0, 60}

func (s *SearchSuite) TestClosedReopen() {
	g := mustGrid(s.T(), "...", "...", "...")
	sr, err := astar.NewSearcher(g, nil)
	s.Require().NoError(err)
	_, err = sr.Search(0, 8, inconsistent, nil)
	s.ErrorIs(err, astar.ErrClosedReopen)

	// Focal search leaves closed nodes alone and still finds a path.
	sr, err = astar.NewSearcher(g, nil, astar.WithFocal(1))
	s.Require().NoError(err)
	res, err := sr.Search(0, 8, inconsistent, nil)
	s.Require().NoError(err)
	s.Equal(4, res.Cost())
	requireContiguous(s.T(), g, res.Path)
}

func (s *SearchSuite) TestDistanceTableHeuristic() {
	g := mustGrid(s.T(),
		".......",
		".#####.",
		".#...#.",
		".#.#.#.",
		"...#...",
	)
	start, goal := g.Index(2, 2), g.Index(6, 4)
	table, err := g.DistanceTable(goal)
	s.Require().NoError(err)

	sr, err := astar.NewSearcher(g, nil)
	s.Require().NoError(err)
	withTable, err := sr.Search(start, goal, table, nil)
	s.Require().NoError(err)
	manhattan, err := sr.Search(start, goal, nil, nil)
	s.Require().NoError(err)
	empty, err := sr.Search(start, goal, gridgraph.DistanceTable{}, nil)
	s.Require().NoError(err)

	s.Equal(table[start], withTable.Cost())
	s.Equal(withTable.Cost(), manhattan.Cost())
	s.Equal(manhattan.Path, empty.Path, "an empty table falls back to Manhattan")
	s.LessOrEqual(withTable.Expanded, manhattan.Expanded)
}

// TestSearchersAreIndependent runs the same pair of searches in opposite
// orders on two searchers sharing one flow state.
func (s *SearchSuite) TestSearchersAreIndependent() {
	g := mustGrid(s.T(), "......", "..#...", "......", "...#..")
	st := mustState(s.T(), g, repeat(flow.Trajectory{6, 7, 13, 14, 15}, 4)...)
	opts := []astar.Option{astar.WithCostMode(astar.CongestionCost), astar.WithObjective(astar.ObjOVC)}

	a, err := astar.NewSearcher(g, st, opts...)
	s.Require().NoError(err)
	b, err := astar.NewSearcher(g, st, opts...)
	s.Require().NoError(err)

	a1, err := a.Search(0, 23, nil, nil)
	s.Require().NoError(err)
	a2, err := a.Search(18, 5, nil, nil)
	s.Require().NoError(err)
	b2, err := b.Search(18, 5, nil, nil)
	s.Require().NoError(err)
	b1, err := b.Search(0, 23, nil, nil)
	s.Require().NoError(err)

	s.Equal(a1.Path, b1.Path)
	s.Equal(a1.Cost(), b1.Cost())
	s.Equal(a2.Path, b2.Path)
	s.Equal(a2.Cost(), b2.Cost())
}

func (s *SearchSuite) TestReuseAfterFailure() {
	g := mustGrid(s.T(), "...#.", "...#.")
	sr, err := astar.NewSearcher(g, nil)
	s.Require().NoError(err)

	first, err := sr.Search(0, 7, nil, nil)
	s.Require().NoError(err)
	_, err = sr.Search(0, 4, nil, nil)
	s.Require().ErrorIs(err, astar.ErrUnreachable)
	again, err := sr.Search(0, 7, nil, nil)
	s.Require().NoError(err)
	s.Equal(first.Path, again.Path)
	s.Equal(first.Expanded, again.Expanded)
}

func TestNewSearcher(t *testing.T) {
	_, err := astar.NewSearcher(nil, nil)
	require.ErrorIs(t, err, astar.ErrNilEnvironment)

	g := mustGrid(t, "....")
	sr, err := astar.NewSearcher(g, nil, astar.WithObserver(nil))
	require.NoError(t, err)
	opts := sr.Options()
	assert.Equal(t, 4, opts.MaxH, "MaxH defaults to the map size")
	assert.Equal(t, 1, opts.Agents)
	assert.Equal(t, astar.DefaultExpansionLimit, opts.ExpansionLimit)
	assert.NotNil(t, opts.Observer)
	assert.Equal(t, 4, sr.Arena().Size())
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { astar.WithFocal(0.5) })
	assert.Panics(t, func() { astar.WithExpansionLimit(0) })
	assert.Panics(t, func() { astar.WithTieBreakNorm(0, 1) })
	assert.Panics(t, func() { astar.WithTieBreakNorm(1, -1) })
	assert.NotPanics(t, func() { astar.WithFocal(1) })
}

func TestParseObjective(t *testing.T) {
	for o := astar.ObjNone; o <= astar.ObjSUITC; o++ {
		got, err := astar.ParseObjective(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	_, err := astar.ParseObjective("fastest")
	assert.Error(t, err)
	assert.Equal(t, "Objective(9)", astar.Objective(9).String())
}

func TestParseCostMode(t *testing.T) {
	m, err := astar.ParseCostMode("congestion")
	require.NoError(t, err)
	assert.Equal(t, astar.CongestionCost, m)
	m, err = astar.ParseCostMode("unit")
	require.NoError(t, err)
	assert.Equal(t, astar.UnitCost, m)
	_, err = astar.ParseCostMode("bpr")
	assert.Error(t, err)
}
