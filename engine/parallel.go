package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nihei9/infergen/property"
)

// defaultParallelWorkers bounds fan-out when Config.ParallelWorkers is left
// at its zero value.
const defaultParallelWorkers = 4

// runFUTParallel evaluates every applicable template for one FUT
// concurrently, bounded by cfg.ParallelWorkers, per spec.md §5's "optional
// parallelism ... only at the (fut, template) granularity". Grounded on
// Tangerg/lynx/flow's bounded-fan-out use of golang.org/x/sync; this module
// uses errgroup.SetLimit directly rather than adapting flow's node/graph
// abstraction, since only the bounded-concurrency primitive is needed.
// Within a pair, evaluation (including any feedback iterations) stays
// sequential — only different pairs run concurrently.
func (e *Engine) runFUTParallel(ctx context.Context, fc FUTConfig, templates []*property.Template) (FUTResult, error) {
	result := FUTResult{
		Outcomes:           make(map[string]PropertyResult, len(templates)),
		ConstraintsHistory: make(map[string][][]string),
	}

	workers := e.cfg.ParallelWorkers
	if workers <= 0 {
		workers = defaultParallelWorkers
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, tmpl := range templates {
		tmpl := tmpl
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pr, history := e.evaluatePair(gctx, &fc, tmpl)
			mu.Lock()
			result.Outcomes[tmpl.Name] = pr
			if len(history) > 0 {
				result.ConstraintsHistory[tmpl.Name] = history
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}
