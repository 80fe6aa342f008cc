package plan_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lvtraffic/astar"
	"github.com/katalvlaran/lvtraffic/flow"
	"github.com/katalvlaran/lvtraffic/gridgraph"
	"github.com/katalvlaran/lvtraffic/plan"
)

func TestReadAgents_Plain(t *testing.T) {
	g, err := gridgraph.NewGrid(4, 3, nil)
	require.NoError(t, err)
	agents, err := plan.ReadAgents(strings.NewReader("# sx sy gx gy\n0 0 3 2\n\n1 2 2 0\n"), g)
	require.NoError(t, err)
	assert.Equal(t, []plan.Agent{
		{ID: 0, Start: 0, Goal: 11},
		{ID: 1, Start: 9, Goal: 2},
	}, agents)
}

func TestReadAgents_Scenario(t *testing.T) {
	g, err := gridgraph.NewGrid(4, 3, nil)
	require.NoError(t, err)
	scen := "version 1\n" +
		"0\tgrid.map\t4\t3\t0\t1\t3\t1\t3.0\n" +
		"0\tgrid.map\t4\t3\t2\t2\t2\t0\t2.0\n"
	agents, err := plan.ReadAgents(strings.NewReader(scen), g)
	require.NoError(t, err)
	assert.Equal(t, []plan.Agent{
		{ID: 0, Start: 4, Goal: 7},
		{ID: 1, Start: 10, Goal: 2},
	}, agents)
}

func TestReadAgents_Errors(t *testing.T) {
	g, err := gridgraph.NewGrid(4, 3, nil)
	require.NoError(t, err)
	for name, in := range map[string]string{
		"short line":   "0 0 3\n",
		"not a number": "0 0 x 2\n",
		"out of map":   "0 0 4 0\n",
		"short scen":   "version 1\n0\tm\t4\t3\t0\t0\n",
	} {
		_, err := plan.ReadAgents(strings.NewReader(in), g)
		assert.ErrorIs(t, err, plan.ErrBadAgentsFile, name)
	}
	_, err = plan.ReadAgents(strings.NewReader("# nothing\n"), g)
	assert.ErrorIs(t, err, plan.ErrNoAgents)
}

func TestNew_Validation(t *testing.T) {
	g, err := gridgraph.FromRows([]string{"..#..", "..#.."})
	require.NoError(t, err)
	st, err := flow.NewState(g)
	require.NoError(t, err)

	_, err = plan.New(g, st, nil)
	assert.ErrorIs(t, err, plan.ErrNoAgents)

	_, err = plan.New(g, st, []plan.Agent{{ID: 7, Start: 0, Goal: 2}})
	assert.ErrorIs(t, err, plan.ErrBadAgent)
	var ae *plan.AgentError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 7, ae.Agent)
	assert.Contains(t, err.Error(), "agent 7")

	_, err = plan.New(g, st, []plan.Agent{{ID: 0, Start: 0, Goal: 4}})
	assert.ErrorIs(t, err, plan.ErrDisconnected)

	p, err := plan.New(g, st, []plan.Agent{{ID: 0, Start: 0, Goal: 6}})
	require.NoError(t, err)
	_, err = p.Round(context.Background())
	assert.ErrorIs(t, err, plan.ErrNotInitialised)
}

// PlannerSuite routes six agents along the middle row of a 5×3 grid.
type PlannerSuite struct {
	suite.Suite
	grid   *gridgraph.Grid
	state  *flow.State
	agents []plan.Agent
}

func TestPlannerSuite(t *testing.T) {
	suite.Run(t, new(PlannerSuite))
}

func (s *PlannerSuite) SetupTest() {
	g, err := gridgraph.NewGrid(5, 3, nil)
	s.Require().NoError(err)
	st, err := flow.NewState(g)
	s.Require().NoError(err)
	s.grid, s.state = g, st
	s.agents = make([]plan.Agent, 6)
	for i := range s.agents {
		s.agents[i] = plan.Agent{ID: i, Start: 5, Goal: 9}
	}
}

func (s *PlannerSuite) planner(opts ...plan.Option) *plan.Planner {
	opts = append([]plan.Option{
		plan.WithWorkers(2),
		plan.WithDistanceTables(true),
		plan.WithSearchOptions(astar.WithCostMode(astar.CongestionCost)),
	}, opts...)
	p, err := plan.New(s.grid, s.state, s.agents, opts...)
	s.Require().NoError(err)
	return p
}

// requireConsistent checks that the flow state holds exactly the counts
// of the planner's current trajectories.
func (s *PlannerSuite) requireConsistent(p *plan.Planner) {
	fresh, err := flow.NewState(s.grid)
	s.Require().NoError(err)
	s.Require().NoError(fresh.Seed(p.Paths()))
	s.Require().Equal(fresh.EdgeCounts(), s.state.EdgeCounts())
}

func (s *PlannerSuite) TestInitialGoesStraight() {
	p := s.planner()
	rep, err := p.Initial(context.Background())
	s.Require().NoError(err)
	s.Equal(6, rep.Changed)
	s.Equal(24, rep.SoC)
	s.Equal(int32(6), s.state.Count(6, flow.East))
	for _, path := range p.Paths() {
		s.Equal(flow.Trajectory{5, 6, 7, 8, 9}, path)
	}
	s.requireConsistent(p)

	// A second Initial replaces, not doubles, the committed traffic. The
	// estimates still lag behind the retracted counts, so the new paths
	// may detour; only the totals are fixed.
	_, err = p.Initial(context.Background())
	s.Require().NoError(err)
	s.requireConsistent(p)
	moves := 0
	for _, path := range p.Paths() {
		s.Require().NotEmpty(path)
		moves += len(path) - 1
	}
	var total int32
	for _, c := range s.state.EdgeCounts() {
		total += c
	}
	s.Equal(int32(moves), total)
	s.Len(p.Paths(), 6)
}

func (s *PlannerSuite) TestRoundsSpreadTraffic() {
	p := s.planner()
	reports, err := p.Run(context.Background(), 3)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(reports), 2)
	s.Equal(0, reports[0].Round)
	s.Equal(1, reports[1].Round)
	s.Positive(reports[1].Changed, "the first replanned agent leaves the busy row")
	s.Less(s.state.Count(6, flow.East), int32(6))
	s.GreaterOrEqual(reports[1].SoC, reports[0].SoC)
	s.Len(p.Costs(), len(s.agents))
	s.requireConsistent(p)
	s.NotEqual("00000000", p.ID().String()[:8])
}

func (s *PlannerSuite) TestRoundHonoursCancellation() {
	p := s.planner()
	_, err := p.Initial(context.Background())
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Round(ctx)
	s.ErrorIs(err, context.Canceled)
	s.requireConsistent(p)
}

// TestFailedSearchRestoresTrajectory caps expansions at four: enough for
// the straight initial paths, too few for the detour of round one.
func (s *PlannerSuite) TestFailedSearchRestoresTrajectory() {
	p := s.planner(plan.WithSearchOptions(astar.WithExpansionLimit(4)))
	_, err := p.Initial(context.Background())
	s.Require().NoError(err)
	before := s.state.EdgeCounts()

	_, err = p.Round(context.Background())
	s.Require().ErrorIs(err, astar.ErrExpansionLimit)
	var ae *plan.AgentError
	s.Require().ErrorAs(err, &ae)
	s.Equal(0, ae.Agent)
	s.Equal(before, s.state.EdgeCounts())
	s.requireConsistent(p)
}
