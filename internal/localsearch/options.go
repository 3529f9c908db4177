// Package localsearch implements the local-search meta-heuristic: a
// neighborhood enumerator over fit/override reassignments, spawn and
// delete moves, and three acceptance policies (Minimizer, TakeFirst,
// TakeAny) driving a schedule toward a locally objective-minimal state.
package localsearch

import "time"

// Policy selects the acceptance rule.
type Policy int

const (
	// Minimizer enumerates the full neighborhood and accepts the single
	// strictly best candidate each round.
	Minimizer Policy = iota
	// TakeFirst enumerates in deterministic order and accepts the first
	// strictly improving candidate, re-enumerating afterward.
	TakeFirst
	// TakeAny enumerates in parallel across worker goroutines and accepts
	// whichever strictly improving candidate is found first, cancelling
	// its peers. Determinism is not guaranteed; ties break by Seed.
	TakeAny
)

// Options configures the driver; one knob per concern, zero values mean
// "use the default behavior".
type Options struct {
	Policy Policy

	// MaxIterations bounds the number of accepted moves; zero means
	// unlimited (run to a local optimum or TimeLimit).
	MaxIterations int

	// TimeLimit soft-bounds wall-clock time, checked before every
	// iteration and, under TakeFirst, also every 2048 candidates within an
	// iteration. Zero disables it.
	TimeLimit time.Duration

	// Workers bounds TakeAny's concurrent goroutine count; zero defaults
	// to runtime.NumCPU() (see runTakeAny in takeany.go).
	Workers int

	// Seed selects tie-break order among concurrently found TakeAny
	// improvements. Minimizer does not read it: it keeps the first
	// strictly best candidate in enumeration order.
	Seed int64

	// MinDummyTourLenForSpawn is the minimum dummy-tour length the
	// neighborhood considers worth promoting to a new real vehicle.
	MinDummyTourLenForSpawn int
}

// DefaultOptions returns conservative, deterministic defaults.
func DefaultOptions() Options {
	return Options{
		Policy:                  TakeFirst,
		MaxIterations:           0,
		TimeLimit:               0,
		Workers:                 0,
		Seed:                    0,
		MinDummyTourLenForSpawn: 1,
	}
}

// deadlineChecker returns a closure reporting whether the wall-clock
// budget has expired, checked every 2048 calls to keep overhead
// negligible in the hot candidate-evaluation loop.
func deadlineChecker(limit time.Duration) func() bool {
	if limit <= 0 {
		return func() bool { return false }
	}
	deadline := time.Now().Add(limit)
	step := 0

	return func() bool {
		step++
		if step&2047 != 0 {
			return false
		}

		return time.Now().After(deadline)
	}
}
