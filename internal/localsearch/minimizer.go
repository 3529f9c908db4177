package localsearch

import (
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/objective"
)

// runMinimizer enumerates the full neighborhood and returns the strictly
// best candidate, if any improves on current.
func runMinimizer(inst *instance.Instance, obj objective.HierarchicalObjective, current objective.EvaluatedSchedule, opts Options) (objective.EvaluatedSchedule, bool, error) {
	moves := Enumerate(current.Schedule, opts)

	best := current
	found := false
	for _, m := range moves {
		cand, ok, err := evaluateCandidate(inst, obj, m, current.Schedule)
		if err != nil {
			return current, false, err
		}
		if !ok {
			continue
		}
		if objective.Less(cand.Vector, best.Vector) {
			best = cand
			found = true
		}
	}

	return best, found, nil
}
