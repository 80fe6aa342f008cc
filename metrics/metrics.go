package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/lvtraffic/astar"
	"github.com/katalvlaran/lvtraffic/flow"
)

// Search outcome label values.
const (
	ResultOK          = "ok"
	ResultUnreachable = "unreachable"
	ResultLimit       = "limit"
	ResultInvalid     = "invalid"
	ResultDefect      = "defect"
	ResultError       = "error"
)

// Collector exports search and flow-state events as Prometheus metrics.
// It implements both astar.Observer and flow.Observer and is safe for
// concurrent use by the workers of astar.PlanBatch.
type Collector struct {
	searches   *prometheus.CounterVec
	expansions prometheus.Counter
	generated  prometheus.Counter
	perSearch  prometheus.Histogram
	focalBound prometheus.Gauge
	commits    prometheus.Counter
	retracts   prometheus.Counter
	steps      *prometheus.CounterVec
	congested  prometheus.Counter
}

var (
	_ astar.Observer = (*Collector)(nil)
	_ flow.Observer  = (*Collector)(nil)
)

// NewCollector registers the metrics with reg under namespace. A nil reg
// uses prometheus.DefaultRegisterer. Registering two collectors with the
// same namespace on one registry panics, as promauto does.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Single-agent searches by outcome",
		}, []string{"result"}),
		expansions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "expansions_total",
			Help:      "Nodes expanded across all searches",
		}),
		generated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "generated_total",
			Help:      "Nodes generated across all searches",
		}),
		perSearch: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "expansions",
			Help:      "Nodes expanded per search",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 7),
		}),
		focalBound: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "focal_bound",
			Help:      "Most recent focal admission threshold",
		}),
		commits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flow",
			Name:      "commits_total",
			Help:      "Trajectories committed to the flow state",
		}),
		retracts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flow",
			Name:      "retracts_total",
			Help:      "Trajectories retracted from the flow state",
		}),
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flow",
			Name:      "steps_total",
			Help:      "Directed moves applied to the flow state",
		}, []string{"op"}),
		congested: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flow",
			Name:      "congested_edges_total",
			Help:      "Edge cost lookups at or above the congestion threshold",
		}),
	}
}

// OnExpand is a no-op; per-search totals arrive with OnSearchDone.
func (c *Collector) OnExpand(int, int, int) {}

// OnFocalBound records the admission threshold.
func (c *Collector) OnFocalBound(_, fBound int) {
	c.focalBound.Set(float64(fBound))
}

// OnSearchDone counts the search under its outcome label.
func (c *Collector) OnSearchDone(expanded, generated int, err error) {
	c.searches.WithLabelValues(Outcome(err)).Inc()
	c.expansions.Add(float64(expanded))
	c.generated.Add(float64(generated))
	c.perSearch.Observe(float64(expanded))
}

// OnCommit counts a committed trajectory of steps moves.
func (c *Collector) OnCommit(steps int) {
	c.commits.Inc()
	c.steps.WithLabelValues("commit").Add(float64(steps))
}

// OnRetract counts a retracted trajectory of steps moves.
func (c *Collector) OnRetract(steps int) {
	c.retracts.Inc()
	c.steps.WithLabelValues("retract").Add(float64(steps))
}

// OnCongestedEdge counts a congested edge lookup.
func (c *Collector) OnCongestedEdge(int, int, int) {
	c.congested.Inc()
}

// Outcome maps a search error to its result label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, astar.ErrUnreachable):
		return ResultUnreachable
	case errors.Is(err, astar.ErrExpansionLimit):
		return ResultLimit
	case errors.Is(err, astar.ErrInvalidLocation), errors.Is(err, astar.ErrBadTraffic),
		errors.Is(err, astar.ErrEmptyHeuristic):
		return ResultInvalid
	case errors.Is(err, astar.ErrClosedReopen):
		return ResultDefect
	}
	return ResultError
}

// Searches returns the search counter for one outcome label.
func (c *Collector) Searches(result string) prometheus.Counter {
	return c.searches.WithLabelValues(result)
}

// Commits returns the commit counter.
func (c *Collector) Commits() prometheus.Counter { return c.commits }

// Retracts returns the retract counter.
func (c *Collector) Retracts() prometheus.Counter { return c.retracts }

// Congested returns the congested-edge counter.
func (c *Collector) Congested() prometheus.Counter { return c.congested }

// FocalBound returns the focal threshold gauge.
func (c *Collector) FocalBound() prometheus.Gauge { return c.focalBound }
