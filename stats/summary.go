package stats

import (
	"fmt"
	"slices"
	"strings"

	mstats "github.com/montanaflynn/stats"

	"github.com/katalvlaran/lvtraffic/flow"
)

// Summarize reports on every positive entry of counts; zero and negative
// entries count toward TotalEdges only. Returns ErrNoTraffic when no entry
// is positive.
//
// Complexity: O(n log n) for the sort; the Gini sum uses the sorted-rank
// identity instead of the pairwise O(n²) form.
func Summarize(counts []int32) (Summary, error) {
	s := Summary{TotalEdges: len(counts)}
	used := make([]int, 0, len(counts))
	for _, c := range counts {
		if c > 0 {
			used = append(used, int(c))
		}
	}
	if len(used) == 0 {
		return s, ErrNoTraffic
	}
	slices.Sort(used)

	data := mstats.LoadRawData(used)
	var err error
	if s.Mean, err = mstats.Mean(data); err != nil {
		return s, fmt.Errorf("stats: mean: %w", err)
	}
	if s.StdDev, err = mstats.StandardDeviationPopulation(data); err != nil {
		return s, fmt.Errorf("stats: stddev: %w", err)
	}
	sum, err := mstats.Sum(data)
	if err != nil {
		return s, fmt.Errorf("stats: sum: %w", err)
	}

	n := len(used)
	s.Edges = n
	s.Sum = int(sum)
	s.Min, s.Max = used[0], used[n-1]
	s.CV = s.StdDev / s.Mean
	s.P50 = used[n*50/100]
	s.P90 = used[n*90/100]
	s.P95 = used[n*95/100]
	s.P99 = used[n*99/100]
	s.Gini = gini(used, sum)

	for _, c := range used {
		if c > LowThreshold {
			s.Over5++
		}
		if c > MidThreshold {
			s.Over10++
		}
		if c > HighThreshold {
			s.Over20++
		}
	}

	top := min(TopN, n)
	s.Top = make([]int, top)
	for i := 0; i < top; i++ {
		s.Top[i] = used[n-1-i]
	}
	return s, nil
}

// gini computes Σᵢ Σⱼ |xᵢ − xⱼ| / (2·n·sum) for ascending x, using
// Σᵢ Σⱼ |xᵢ − xⱼ| = 2·Σᵢ (2i − n + 1)·xᵢ.
func gini(sorted []int, sum float64) float64 {
	n := len(sorted)
	acc := 0.0
	for i, x := range sorted {
		acc += float64(2*i-n+1) * float64(x)
	}
	return 2 * acc / (2 * float64(n) * sum)
}

// FromState summarises the directed counts of every free cell of st.
func FromState(st *flow.State) (Summary, error) {
	return Summarize(st.EdgeCounts())
}

// Percent returns part as a percentage of Edges.
func (s Summary) Percent(part int) float64 {
	if s.Edges == 0 {
		return 0
	}
	return 100 * float64(part) / float64(s.Edges)
}

// String renders the summary as a multi-line report.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "edges with traffic: %d / %d\n", s.Edges, s.TotalEdges)
	fmt.Fprintf(&b, "usage: max %d, min %d, mean %.3f, stddev %.3f\n", s.Max, s.Min, s.Mean, s.StdDev)
	fmt.Fprintf(&b, "percentiles: p50 %d, p90 %d, p95 %d, p99 %d\n", s.P50, s.P90, s.P95, s.P99)
	fmt.Fprintf(&b, "over %d: %d (%.1f%%)\n", LowThreshold, s.Over5, s.Percent(s.Over5))
	fmt.Fprintf(&b, "over %d: %d (%.1f%%)\n", MidThreshold, s.Over10, s.Percent(s.Over10))
	fmt.Fprintf(&b, "over %d: %d (%.1f%%)\n", HighThreshold, s.Over20, s.Percent(s.Over20))
	fmt.Fprintf(&b, "balance: gini %.4f, cv %.4f\n", s.Gini, s.CV)
	fmt.Fprintf(&b, "top: %v\n", s.Top)
	return b.String()
}
