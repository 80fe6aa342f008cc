package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvtraffic/astar"
	"github.com/katalvlaran/lvtraffic/flow"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Environment variables that override file values.
const (
	EnvObjective  = "LVTRAFFIC_OBJECTIVE"
	EnvCostMode   = "LVTRAFFIC_COST_MODE"
	EnvFocalBound = "LVTRAFFIC_FOCAL_BOUND"
	EnvWorkers    = "LVTRAFFIC_WORKERS"
)

// Config is the full planner configuration.
type Config struct {
	// Flow holds the BPR cost and smoothing parameters.
	Flow FlowConfig `yaml:"flow"`

	// Search selects the objective, cost model and search limits.
	Search SearchConfig `yaml:"search"`

	// Plan controls the iterative planning driver.
	Plan PlanConfig `yaml:"plan"`
}

// FlowConfig mirrors flow.Params.
type FlowConfig struct {
	T0            int     `yaml:"t0"`
	Alpha         float64 `yaml:"alpha"`
	CMax          float64 `yaml:"c_max"`
	Gamma         float64 `yaml:"gamma"`
	CMin          float64 `yaml:"c_min"`
	Eta           float64 `yaml:"eta"`
	CongestedCost int     `yaml:"congested_cost"`
}

// SearchConfig selects the search variant.
type SearchConfig struct {
	Objective      string  `yaml:"objective"`
	CostMode       string  `yaml:"cost_mode"`
	ScaleHeuristic bool    `yaml:"scale_heuristic"`
	FocalBound     float64 `yaml:"focal_bound"`
	ExpansionLimit int     `yaml:"expansion_limit"`
	DistanceTable  bool    `yaml:"distance_table"`
}

// PlanConfig controls the round-based replanning loop.
type PlanConfig struct {
	Rounds  int `yaml:"rounds"`
	Workers int `yaml:"workers"`
}

// Default returns the reference parameters: BPR costs with OVC objective,
// plain A*, BFS distance tables and three replanning rounds.
func Default() Config {
	p := flow.DefaultParams()
	return Config{
		Flow: FlowConfig{
			T0:            p.T0,
			Alpha:         p.Alpha,
			CMax:          p.CMax,
			Gamma:         p.Gamma,
			CMin:          p.CMin,
			Eta:           p.Eta,
			CongestedCost: p.CongestedCost,
		},
		Search: SearchConfig{
			Objective:      astar.ObjOVC.String(),
			CostMode:       astar.CongestionCost.String(),
			ScaleHeuristic: true,
			ExpansionLimit: astar.DefaultExpansionLimit,
			DistanceTable:  true,
		},
		Plan: PlanConfig{
			Rounds:  3,
			Workers: 0,
		},
	}
}

// Load reads path on top of the defaults, applies environment overrides
// and validates the result. An empty path yields the defaults with
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML on top of the defaults and validates it. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, cfg.Validate()
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overrides fields from the environment lookup getenv.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvObjective); v != "" {
		c.Search.Objective = v
	}
	if v := getenv(EnvCostMode); v != "" {
		c.Search.CostMode = v
	}
	if v := getenv(EnvFocalBound); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvFocalBound, v, err)
		}
		c.Search.FocalBound = f
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvWorkers, v, err)
		}
		c.Plan.Workers = n
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.FlowParams().Validate(); err != nil {
		return fmt.Errorf("%w: flow: %v", ErrInvalid, err)
	}
	if _, err := astar.ParseObjective(c.Search.Objective); err != nil {
		return fmt.Errorf("%w: search: %v", ErrInvalid, err)
	}
	if _, err := astar.ParseCostMode(c.Search.CostMode); err != nil {
		return fmt.Errorf("%w: search: %v", ErrInvalid, err)
	}
	switch {
	case c.Search.FocalBound != 0 && c.Search.FocalBound < 1:
		return fmt.Errorf("%w: search.focal_bound=%g must be 0 or at least 1", ErrInvalid, c.Search.FocalBound)
	case c.Search.ExpansionLimit <= 0:
		return fmt.Errorf("%w: search.expansion_limit=%d must be positive", ErrInvalid, c.Search.ExpansionLimit)
	case c.Plan.Rounds < 0:
		return fmt.Errorf("%w: plan.rounds=%d must not be negative", ErrInvalid, c.Plan.Rounds)
	case c.Plan.Workers < 0:
		return fmt.Errorf("%w: plan.workers=%d must not be negative", ErrInvalid, c.Plan.Workers)
	}
	return nil
}

// FlowParams converts the flow section, keeping the library's clamp and
// penalty values.
func (c Config) FlowParams() flow.Params {
	p := flow.DefaultParams()
	p.T0 = c.Flow.T0
	p.Alpha = c.Flow.Alpha
	p.CMax = c.Flow.CMax
	p.Gamma = c.Flow.Gamma
	p.CMin = c.Flow.CMin
	p.Eta = c.Flow.Eta
	p.CongestedCost = c.Flow.CongestedCost
	return p
}

// SearchOptions converts the search section. agents and maxH normalise
// the SUI tie-breakers; non-positive values keep the searcher defaults.
// The config must have passed Validate.
func (c Config) SearchOptions(agents, maxH int) ([]astar.Option, error) {
	obj, err := astar.ParseObjective(c.Search.Objective)
	if err != nil {
		return nil, err
	}
	mode, err := astar.ParseCostMode(c.Search.CostMode)
	if err != nil {
		return nil, err
	}
	opts := []astar.Option{
		astar.WithObjective(obj),
		astar.WithCostMode(mode),
		astar.WithScaleHeuristic(c.Search.ScaleHeuristic),
		astar.WithExpansionLimit(c.Search.ExpansionLimit),
	}
	if c.Search.FocalBound >= 1 {
		opts = append(opts, astar.WithFocal(c.Search.FocalBound))
	}
	if agents > 0 && maxH > 0 {
		opts = append(opts, astar.WithTieBreakNorm(agents, maxH))
	}
	return opts, nil
}
