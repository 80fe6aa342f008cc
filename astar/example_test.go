package astar_test

import (
	"context"
	"fmt"
	"slices"

	"github.com/katalvlaran/lvtraffic/astar"
	"github.com/katalvlaran/lvtraffic/flow"
	"github.com/katalvlaran/lvtraffic/gridgraph"
)

// ExampleSearcher_Search plans along a corridor with unit costs.
func ExampleSearcher_Search() {
	g, _ := gridgraph.FromRows([]string{
		"....",
		".@@.",
		"....",
	})
	sr, _ := astar.NewSearcher(g, nil)
	res, err := sr.Search(g.Index(0, 1), g.Index(3, 1), nil, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("moves:", res.Cost())
	// Output:
	// moves: 5
}

// ExampleWithCostMode shows a congestion-aware search leaving a row that
// ten earlier agents already use.
func ExampleWithCostMode() {
	g, _ := gridgraph.NewGrid(5, 3, nil)
	st, _ := flow.NewState(g)
	for i := 0; i < 10; i++ {
		_ = st.Commit(flow.Trajectory{5, 6, 7, 8, 9})
	}

	sr, _ := astar.NewSearcher(g, st, astar.WithCostMode(astar.CongestionCost))
	res, _ := sr.Search(5, 9, nil, nil)
	fmt.Println("cost:", res.Cost())
	fmt.Println("moves:", res.Len()-1)
	fmt.Println("uses middle row:", slices.Contains(res.Path, 7))
	// Output:
	// cost: 6000
	// moves: 6
	// uses middle row: false
}

// ExamplePlanBatch plans several agents concurrently over one flow state.
func ExamplePlanBatch() {
	g, _ := gridgraph.NewGrid(4, 4, nil)
	st, _ := flow.NewState(g)
	reqs := []astar.Request{
		{Agent: 0, Start: 0, Goal: 15},
		{Agent: 1, Start: 3, Goal: 12},
		{Agent: 2, Start: 5, Goal: 6},
	}
	results, err := astar.PlanBatch(context.Background(), g, st, reqs, nil, 2)
	if err != nil {
		fmt.Println(err)
		return
	}
	for i, res := range results {
		fmt.Printf("agent %d: cost %d\n", reqs[i].Agent, res.Cost())
	}
	// Output:
	// agent 0: cost 6
	// agent 1: cost 6
	// agent 2: cost 1
}
