package plan

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/katalvlaran/lvtraffic/astar"
	"github.com/katalvlaran/lvtraffic/flow"
	"github.com/katalvlaran/lvtraffic/gridgraph"
)

// Planner routes a fixed set of agents over one grid by iterated
// congestion-aware replanning: an initial independent batch, then rounds
// in which each agent's trajectory is retracted from the flow state,
// replanned against everyone else's traffic and committed again.
//
// A Planner is not safe for concurrent use.
type Planner struct {
	id       uuid.UUID
	grid     *gridgraph.Grid
	state    *flow.State
	agents   []Agent
	heur     []astar.Heuristic
	paths    []flow.Trajectory
	costs    []int
	searcher *astar.Searcher
	opts     Options
	log      *log.Logger
	round    int
}

// New validates agents against grid and prepares heuristics. state must
// be built over grid; it is mutated by Initial and Round.
//
// Errors: ErrNoAgents; *AgentError wrapping ErrBadAgent or ErrDisconnected.
func New(grid *gridgraph.Grid, state *flow.State, agents []Agent, opts ...Option) (*Planner, error) {
	if len(agents) == 0 {
		return nil, ErrNoAgents
	}
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &Planner{
		id:     uuid.New(),
		grid:   grid,
		state:  state,
		agents: slices.Clone(agents),
		heur:   make([]astar.Heuristic, len(agents)),
		paths:  make([]flow.Trajectory, len(agents)),
		costs:  make([]int, len(agents)),
		opts:   o,
	}
	p.log = logger.With("run", shortID(p.id))

	labels := grid.Components()
	tables := map[int]gridgraph.DistanceTable{}
	for i, a := range p.agents {
		if !grid.IsFree(a.Start) || !grid.IsFree(a.Goal) {
			return nil, &AgentError{Agent: a.ID, Err: ErrBadAgent}
		}
		if labels[a.Start] != labels[a.Goal] {
			return nil, &AgentError{Agent: a.ID, Err: ErrDisconnected}
		}
		if !o.DistanceTable {
			continue
		}
		t, ok := tables[a.Goal]
		if !ok {
			var err error
			if t, err = grid.DistanceTable(a.Goal); err != nil {
				return nil, &AgentError{Agent: a.ID, Err: err}
			}
			tables[a.Goal] = t
		}
		p.heur[i] = t
	}

	s, err := astar.NewSearcher(grid, state, p.searchOptions()...)
	if err != nil {
		return nil, err
	}
	p.searcher = s
	p.log.Debug("planner ready", "agents", len(agents), "goals", len(tables), "cells", grid.FreeCount())
	return p, nil
}

func (p *Planner) searchOptions() []astar.Option {
	opts := []astar.Option{astar.WithTieBreakNorm(len(p.agents), p.grid.Size())}
	opts = append(opts, p.opts.Search...)
	return append(opts, astar.WithLogger(p.log))
}

// ID returns the run identifier attached to every log line.
func (p *Planner) ID() uuid.UUID { return p.id }

// State returns the flow state the planner commits to.
func (p *Planner) State() *flow.State { return p.state }

// Paths returns the current trajectory of every agent, in input order.
func (p *Planner) Paths() []flow.Trajectory { return p.paths }

// Costs returns the search cost of every current trajectory.
func (p *Planner) Costs() []int { return p.costs }

// Initial plans every agent independently and in parallel over the
// current flow state, then commits all trajectories. Trajectories from a
// previous Initial are retracted first.
func (p *Planner) Initial(ctx context.Context) (Report, error) {
	if p.paths[0] != nil {
		for i, old := range p.paths {
			if err := p.state.Retract(old); err != nil {
				return Report{}, &AgentError{Agent: p.agents[i].ID, Err: err}
			}
			p.paths[i] = nil
		}
	}
	reqs := make([]astar.Request, len(p.agents))
	for i, a := range p.agents {
		reqs[i] = astar.Request{Agent: a.ID, Start: a.Start, Goal: a.Goal, Heuristic: p.heur[i]}
	}
	results, err := astar.PlanBatch(ctx, p.grid, p.state, reqs, nil, p.opts.Workers, p.searchOptions()...)
	if err != nil {
		return Report{}, err
	}

	rep := Report{}
	for i, res := range results {
		p.paths[i] = flow.Trajectory(res.Path)
		p.costs[i] = res.Cost()
		rep.Changed++
		rep.SoC += res.Len() - 1
		rep.Cost += res.Cost()
		rep.Expanded += res.Expanded
	}
	if err := p.state.Seed(p.paths); err != nil {
		return Report{}, err
	}
	p.round = 0
	p.log.Info("initial paths planned", "agents", len(p.agents), "soc", rep.SoC, "expanded", rep.Expanded)
	return rep, nil
}

// Round replans every agent once, in input order. A failed search leaves
// the agent's previous trajectory committed and aborts the round.
// ctx is checked between agents.
func (p *Planner) Round(ctx context.Context) (Report, error) {
	if p.paths[0] == nil {
		return Report{}, ErrNotInitialised
	}
	p.round++
	rep := Report{Round: p.round}
	for i, a := range p.agents {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		old := p.paths[i]
		if err := p.state.Retract(old); err != nil {
			return rep, &AgentError{Agent: a.ID, Err: err}
		}
		res, err := p.searcher.Search(a.Start, a.Goal, p.heur[i], nil)
		if err != nil {
			if cerr := p.state.Commit(old); cerr != nil {
				p.log.Error("restoring trajectory failed", "agent", a.ID, "err", cerr)
			}
			return rep, &AgentError{Agent: a.ID, Err: err}
		}
		next := flow.Trajectory(res.Path)
		if err := p.state.Commit(next); err != nil {
			return rep, &AgentError{Agent: a.ID, Err: err}
		}
		if !slices.Equal(old, next) {
			rep.Changed++
			p.log.Debug("agent rerouted", "agent", a.ID, "old", len(old)-1, "new", len(next)-1)
		}
		p.paths[i] = next
		p.costs[i] = res.Cost()
		rep.SoC += res.Len() - 1
		rep.Cost += res.Cost()
		rep.Expanded += res.Expanded
	}
	p.log.Info("round complete", "round", rep.Round, "changed", rep.Changed, "soc", rep.SoC, "expanded", rep.Expanded)
	return rep, nil
}

// Run plans the initial batch and then up to rounds replanning rounds,
// stopping early once a round changes no path.
func (p *Planner) Run(ctx context.Context, rounds int) ([]Report, error) {
	rep, err := p.Initial(ctx)
	if err != nil {
		return nil, err
	}
	reports := []Report{rep}
	for r := 0; r < rounds; r++ {
		rep, err := p.Round(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
		if rep.Changed == 0 {
			p.log.Info("converged", "round", rep.Round)
			break
		}
	}
	return reports, nil
}

func shortID(id uuid.UUID) string { return id.String()[:8] }
