package localsearch

import (
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/objective"
)

// runTakeFirst enumerates candidates in deterministic order and accepts
// the first strictly improving one, re-enumerating from the accepted
// schedule on the next round.
func runTakeFirst(inst *instance.Instance, obj objective.HierarchicalObjective, current objective.EvaluatedSchedule, opts Options, deadline func() bool) (objective.EvaluatedSchedule, bool, error) {
	moves := Enumerate(current.Schedule, opts)
	for _, m := range moves {
		if deadline() {
			return current, false, nil
		}
		cand, ok, err := evaluateCandidate(inst, obj, m, current.Schedule)
		if err != nil {
			return current, false, err
		}
		if !ok {
			continue
		}
		if objective.Less(cand.Vector, current.Vector) {
			return cand, true, nil
		}
	}

	return current, false, nil
}
