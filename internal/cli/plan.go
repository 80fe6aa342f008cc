package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvtraffic/astar"
	"github.com/katalvlaran/lvtraffic/config"
	"github.com/katalvlaran/lvtraffic/flow"
	"github.com/katalvlaran/lvtraffic/gridgraph"
	"github.com/katalvlaran/lvtraffic/metrics"
	"github.com/katalvlaran/lvtraffic/plan"
	"github.com/katalvlaran/lvtraffic/stats"
)

type planOpts struct {
	mapPath    string
	agentsPath string
	configPath string
	rounds     int
	workers    int
	objective  string
	focal      float64
	metricsOut string
	showPaths  bool
}

func newPlanCmd() *cobra.Command {
	var opts planOpts
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan congestion-aware routes for a set of agents",
		Long: `Plan routes for every agent of --agents on the map --map.

All agents are first planned independently in parallel; then, for each
round, every agent is removed from the shared flow state, replanned
against the traffic of the others and added back. Rounds stop early when
no path changes.

--agents accepts "sx sy gx gy" lines or a MovingAI .scen file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.mapPath, "map", "m", "", "MovingAI .map file (required)")
	f.StringVarP(&opts.agentsPath, "agents", "a", "", "agents or .scen file (required)")
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	f.IntVarP(&opts.rounds, "rounds", "r", 0, "replanning rounds (overrides config)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "parallel searches in the initial batch (overrides config)")
	f.StringVar(&opts.objective, "objective", "", "congestion objective: none, vc, ovc, sum_ovc, sui_tg, sui_tc")
	f.Float64Var(&opts.focal, "focal", 0, "focal bound, 0 for plain A*")
	f.StringVar(&opts.metricsOut, "metrics-out", "", "write Prometheus metrics to this file")
	f.BoolVar(&opts.showPaths, "paths", false, "print every agent's path")
	_ = cmd.MarkFlagRequired("map")
	_ = cmd.MarkFlagRequired("agents")
	return cmd
}

func runPlan(cmd *cobra.Command, opts planOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("rounds") {
		cfg.Plan.Rounds = opts.rounds
	}
	if flags.Changed("workers") {
		cfg.Plan.Workers = opts.workers
	}
	if flags.Changed("objective") {
		cfg.Search.Objective = opts.objective
	}
	if flags.Changed("focal") {
		cfg.Search.FocalBound = opts.focal
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	grid, err := readGrid(opts.mapPath)
	if err != nil {
		return err
	}
	agents, err := readAgents(opts.agentsPath, grid)
	if err != nil {
		return err
	}
	logger.Info("instance loaded", "map", opts.mapPath, "width", grid.Width, "height", grid.Height,
		"free", grid.FreeCount(), "agents", len(agents))

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg, "lvtraffic")

	state, err := flow.NewState(grid, flow.WithParams(cfg.FlowParams()), flow.WithObserver(collector))
	if err != nil {
		return err
	}
	searchOpts, err := cfg.SearchOptions(0, 0)
	if err != nil {
		return err
	}
	searchOpts = append(searchOpts, astar.WithObserver(collector))

	planner, err := plan.New(grid, state, agents,
		plan.WithWorkers(cfg.Plan.Workers),
		plan.WithDistanceTables(cfg.Search.DistanceTable),
		plan.WithSearchOptions(searchOpts...),
		plan.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Debug("run started", "run", planner.ID(), "objective", cfg.Search.Objective,
		"cost_mode", cfg.Search.CostMode, "focal", cfg.Search.FocalBound, "rounds", cfg.Plan.Rounds)

	prog := newProgress(logger)
	reports, err := planner.Run(ctx, cfg.Plan.Rounds)
	if len(reports) > 0 {
		writeReports(out, reports)
	}
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	prog.done(fmt.Sprintf("planned %d agents", len(agents)))

	if opts.showPaths {
		writePaths(out, grid, planner)
	}
	summary, err := stats.FromState(state)
	switch {
	case errors.Is(err, stats.ErrNoTraffic):
		fmt.Fprintln(out, "no traffic: every agent starts at its goal")
	case err != nil:
		return err
	default:
		fmt.Fprint(out, summary.String())
	}

	if opts.metricsOut != "" {
		if err := prometheus.WriteToTextfile(opts.metricsOut, reg); err != nil {
			return fmt.Errorf("plan: write metrics: %w", err)
		}
		logger.Info("metrics written", "path", opts.metricsOut)
	}
	return nil
}

func readGrid(path string) (*gridgraph.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := gridgraph.ReadMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func readAgents(path string, g *gridgraph.Grid) ([]plan.Agent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	agents, err := plan.ReadAgents(f, g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return agents, nil
}

func writeReports(w io.Writer, reports []plan.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "round\tchanged\tsoc\tcost\texpanded\t")
	for _, r := range reports {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t\n", r.Round, r.Changed, r.SoC, r.Cost, r.Expanded)
	}
	tw.Flush()
}

func writePaths(w io.Writer, g *gridgraph.Grid, p *plan.Planner) {
	for i, path := range p.Paths() {
		fmt.Fprintf(w, "agent %d:", i)
		for _, loc := range path {
			x, y := g.Coordinate(loc)
			fmt.Fprintf(w, " (%d,%d)", x, y)
		}
		fmt.Fprintln(w)
	}
}
