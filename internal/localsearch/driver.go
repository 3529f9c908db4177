package localsearch

import (
	"time"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/objective"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"
)

// Run drives local search from an initial schedule to a local optimum (or
// until opts.MaxIterations/opts.TimeLimit expires), dispatching to the
// acceptance policy opts.Policy selects. A non-nil error is always
// ErrUnsolvable: the circulation stayed infeasible through every
// lower-bound relaxation.
func Run(inst *instance.Instance, obj objective.HierarchicalObjective, initial *schedule.Schedule, opts Options) (objective.EvaluatedSchedule, error) {
	current := objective.Evaluate(obj, initial)
	deadline := deadlineChecker(opts.TimeLimit)
	var expiresAt time.Time
	if opts.TimeLimit > 0 {
		expiresAt = time.Now().Add(opts.TimeLimit)
	}

	iterations := 0
	for {
		if opts.MaxIterations > 0 && iterations >= opts.MaxIterations {
			return current, nil
		}
		if !expiresAt.IsZero() && time.Now().After(expiresAt) {
			return current, nil
		}

		var next objective.EvaluatedSchedule
		var improved bool
		var err error
		switch opts.Policy {
		case Minimizer:
			next, improved, err = runMinimizer(inst, obj, current, opts)
		case TakeFirst:
			next, improved, err = runTakeFirst(inst, obj, current, opts, deadline)
		case TakeAny:
			next, improved, err = runTakeAny(inst, obj, current, opts)
		default:
			next, improved, err = runTakeFirst(inst, obj, current, opts, deadline)
		}
		if err != nil {
			return current, err
		}
		if !improved {
			return current, nil
		}
		current = next
		iterations++
	}
}

// evaluateCandidate applies move, recosts its flow, and evaluates it under
// obj — the single path every acceptance policy funnels candidates
// through, so no policy can accidentally skip the recost/re-evaluate guard
// that keeps a composed candidate from regressing unnoticed. An infeasible
// move is reported as not-ok and skipped; a persistent circulation failure
// (ErrUnsolvable) is returned for the policy to surface.
func evaluateCandidate(inst *instance.Instance, obj objective.HierarchicalObjective, m Move, base *schedule.Schedule) (objective.EvaluatedSchedule, bool, error) {
	candidate, err := m.Apply(base)
	if err != nil {
		return objective.EvaluatedSchedule{}, false, nil
	}
	recosted, err := Recost(inst, candidate)
	if err != nil {
		return objective.EvaluatedSchedule{}, false, err
	}

	return objective.Evaluate(obj, recosted), true, nil
}
