package astar

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Request is one independent single-agent search.
type Request struct {
	Agent     int
	Start     int
	Goal      int
	Heuristic Heuristic
}

// PlanBatch runs independent searches in parallel over a shared,
// read-only flow state. Each worker owns its own Searcher and therefore
// its own arena, so results do not depend on scheduling. The flow state
// must not be mutated until PlanBatch returns.
//
// Results are aligned with reqs. The first failing search cancels the
// rest and its error is returned; ctx cancellation is honoured between
// searches (a running search is never interrupted).
//
// workers ≤ 0 means runtime.GOMAXPROCS(0).
func PlanBatch(ctx context.Context, env Environment, fl FlowView, reqs []Request, traffic []int, workers int, opts ...Option) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}
	results := make([]*Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	searchers := make([]*Searcher, workers)
	for w := range searchers {
		s, err := NewSearcher(env, fl, opts...)
		if err != nil {
			return nil, err
		}
		searchers[w] = s
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range reqs {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for _, s := range searchers {
		g.Go(func() error {
			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				req := reqs[i]
				res, err := s.Search(req.Start, req.Goal, req.Heuristic, traffic)
				if err != nil {
					return err
				}
				results[i] = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
