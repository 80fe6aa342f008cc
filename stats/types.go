package stats

import "errors"

// ErrNoTraffic is returned when no directed edge carries a positive count.
var ErrNoTraffic = errors.New("stats: no traffic recorded")

// Congestion thresholds reported by Summary.
const (
	LowThreshold  = 5
	MidThreshold  = 10
	HighThreshold = 20
)

// TopN is the number of largest counts kept in Summary.Top.
const TopN = 10

// Summary describes the distribution of positive directed-edge counts.
//
// Edges      – edges with a positive count.
// TotalEdges – all directed edges considered, used or not.
// Mean/StdDev are population moments; CV = StdDev/Mean.
// P50..P99   – nearest-rank percentiles on the ascending counts at index n·p/100.
// Gini       – 0 for perfectly even load, approaching 1 when one edge carries all.
// Over5..20  – edges with count strictly above each threshold.
// Top        – the TopN largest counts, descending.
type Summary struct {
	Edges      int
	TotalEdges int
	Max, Min   int
	Sum        int
	Mean       float64
	StdDev     float64
	CV         float64
	P50        int
	P90        int
	P95        int
	P99        int
	Gini       float64
	Over5      int
	Over10     int
	Over20     int
	Top        []int
}
