// Package objective implements the hierarchical objective framework:
// indicators, levels, a lexicographically compared objective vector, and
// the concrete four-level rolling-stock objective.
//
// Every numeric result is an exact integer rather than a float subject to
// drift — all four concrete levels are integer-valued, and lexicographic
// vector comparison cannot tolerate rounding the way a single scalar cost
// can — so the hot comparison path stays entirely in int64.
package objective

import "github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"

// Indicator maps a schedule to a single base value. It is the sole
// polymorphism in the objective framework, invoked once per level per
// evaluation; the local search evaluates every candidate move, so each
// indicator runs once per candidate.
type Indicator interface {
	// Name identifies the indicator for logging/output.
	Name() string
	// Value computes the indicator's base value for s.
	Value(s *schedule.Schedule) int64
}

// indicatorFunc adapts a plain function to the Indicator interface.
type indicatorFunc struct {
	name string
	fn   func(s *schedule.Schedule) int64
}

func (f indicatorFunc) Name() string                        { return f.name }
func (f indicatorFunc) Value(s *schedule.Schedule) int64     { return f.fn(s) }
func newIndicator(name string, fn func(s *schedule.Schedule) int64) Indicator {
	return indicatorFunc{name: name, fn: fn}
}

// Level is a finite linear combination of indicators of one kind with
// integer coefficients.
type Level struct {
	Name         string
	Indicators   []Indicator
	Coefficients []int64 // parallel to Indicators; Coefficients[i] weighs Indicators[i]
}

// NewLevel builds a level, pairing each indicator with coefficient 1 unless
// overridden via WithCoefficient.
func NewLevel(name string, indicators ...Indicator) Level {
	coeffs := make([]int64, len(indicators))
	for i := range coeffs {
		coeffs[i] = 1
	}

	return Level{Name: name, Indicators: indicators, Coefficients: coeffs}
}

// WithCoefficient returns a copy of l with indicator i's coefficient set to
// c.
func (l Level) WithCoefficient(i int, c int64) Level {
	coeffs := append([]int64(nil), l.Coefficients...)
	coeffs[i] = c

	return Level{Name: l.Name, Indicators: l.Indicators, Coefficients: coeffs}
}

// Value sums l's indicators weighted by their coefficients.
func (l Level) Value(s *schedule.Schedule) int64 {
	var total int64
	for i, ind := range l.Indicators {
		total += l.Coefficients[i] * ind.Value(s)
	}

	return total
}

// HierarchicalObjective is an ordered sequence of levels; its value is a
// vector compared lexicographically.
type HierarchicalObjective struct {
	Levels []Level
}

// NewHierarchicalObjective builds an objective from levels, most significant
// first.
func NewHierarchicalObjective(levels ...Level) HierarchicalObjective {
	return HierarchicalObjective{Levels: levels}
}

// Evaluate computes s's objective vector, one entry per level.
func (h HierarchicalObjective) Evaluate(s *schedule.Schedule) []int64 {
	vec := make([]int64, len(h.Levels))
	for i, lvl := range h.Levels {
		vec[i] = lvl.Value(s)
	}

	return vec
}

// EvaluatedSchedule bundles a schedule with its objective value vector,
// so the local-search driver never recomputes a vector it already holds.
type EvaluatedSchedule struct {
	Schedule *schedule.Schedule
	Vector   []int64
}

// Evaluate wraps s with its objective vector under h.
func Evaluate(h HierarchicalObjective, s *schedule.Schedule) EvaluatedSchedule {
	return EvaluatedSchedule{Schedule: s, Vector: h.Evaluate(s)}
}

// Less reports whether a strictly lexicographically precedes b — the
// single comparison every acceptance policy is built on.
func Less(a, b []int64) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return len(a) < len(b)
}

// Equal reports whether two objective vectors are identical.
func Equal(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
