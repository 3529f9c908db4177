package localsearch

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/objective"
)

// runTakeAny enumerates the neighborhood across opts.Workers goroutines,
// each evaluating (apply, recost, evaluate) independently, and accepts
// whichever strictly improving candidate is observed — cancelling its
// peers once one is found. Determinism is not guaranteed across runs; when
// more than one improving candidate is found
// before cancellation lands, ties break on opts.Seed-derived order rather
// than goroutine-scheduling order, so two runs given the same seed at
// least agree on *which* improvement wins among those that happened to
// finish.
//
// Every candidate — improving or not — is still routed through the exact
// same evaluateCandidate (apply + flow recost + objective evaluation) as
// Minimizer and TakeFirst use: no candidate is ever accepted without a
// full re-evaluation against the current schedule's actual recosted
// objective vector, so a stale or partially-applied candidate can never
// regress the schedule.
func runTakeAny(inst *instance.Instance, obj objective.HierarchicalObjective, current objective.EvaluatedSchedule, opts Options) (objective.EvaluatedSchedule, bool, error) {
	moves := Enumerate(current.Schedule, opts)
	if len(moves) == 0 {
		return current, false, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var improving []objective.EvaluatedSchedule

	jobs := make(chan Move)
	g.Go(func() error {
		defer close(jobs)
		for _, m := range moves {
			select {
			case jobs <- m:
			case <-ctx.Done():
				return nil
			}
		}

		return nil
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case m, ok := <-jobs:
					if !ok {
						return nil
					}
					cand, ok2, err := evaluateCandidate(inst, obj, m, current.Schedule)
					if err != nil {
						return err
					}
					if !ok2 {
						continue
					}
					if objective.Less(cand.Vector, current.Vector) {
						mu.Lock()
						improving = append(improving, cand)
						mu.Unlock()
						cancel() // first-cancel-wins: stop peers once any improvement is found

						return nil
					}
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	waitErr := g.Wait()

	if len(improving) == 0 {
		if waitErr != nil {
			return current, false, waitErr
		}

		return current, false, nil
	}
	sort.Slice(improving, func(i, j int) bool {
		return objective.Less(improving[i].Vector, improving[j].Vector)
	})

	idx := int(opts.Seed % int64(len(improving)))
	if idx < 0 {
		idx += len(improving)
	}

	return improving[idx], true, nil
}
