// Package timeutil provides integer-second time primitives with ±∞ sentinels.
//
// The rest of the solver never touches time.Time or time.Duration directly:
// schedules are built from Instant (a point in time, possibly at +∞/-∞) and
// Duration (a non-negative length, possibly +∞). Arithmetic between the two
// is total — every combination of finite and infinite operand is defined —
// so that callers never need a parallel "is this sentinel" branch before
// doing the arithmetic they actually want.
//
// Values are plain int64 wrappers with no pointer indirection, so Instant
// and Duration are safe to copy, compare with ==, and use as map keys.
package timeutil

import (
	"fmt"
	"math"
)

// Instant is a point in time expressed as whole seconds since an
// instance-defined epoch (typically midnight of the schedule's service day).
type Instant int64

// Duration is a non-negative length of time expressed in whole seconds.
type Duration int64

const (
	// NegInfInstant represents "before the beginning of time" — the start
	// depot sentinel that can reach anything and is reached by nothing.
	NegInfInstant Instant = math.MinInt64

	// PosInfInstant represents "after the end of time" — the end depot
	// sentinel that reaches nothing and is reached by anything finite.
	PosInfInstant Instant = math.MaxInt64

	// PosInfDuration represents an unbounded duration, used for "no
	// maximal distance configured" and for unreachable dead-head costs.
	PosInfDuration Duration = math.MaxInt64

	// ZeroDuration is the additive identity.
	ZeroDuration Duration = 0
)

// IsNegInf reports whether t is the -∞ sentinel.
func (t Instant) IsNegInf() bool { return t == NegInfInstant }

// IsPosInf reports whether t is the +∞ sentinel.
func (t Instant) IsPosInf() bool { return t == PosInfInstant }

// IsInf reports whether t is either sentinel.
func (t Instant) IsInf() bool { return t.IsNegInf() || t.IsPosInf() }

// Before reports whether t strictly precedes u, honoring sentinels.
func (t Instant) Before(u Instant) bool { return t < u }

// After reports whether t strictly follows u, honoring sentinels.
func (t Instant) After(u Instant) bool { return t > u }

// Sub returns the Duration elapsed from t to u (u - t). Panics if u < t and
// neither is a sentinel pairing that makes the result well-defined, since a
// Duration cannot be negative; callers that cannot guarantee u >= t should
// use TrySub.
func (t Instant) Sub(u Instant) Duration {
	d, ok := t.TrySub(u)
	if !ok {
		panic(fmt.Sprintf("timeutil: Sub(%d, %d) would be negative", u, t))
	}

	return d
}

// TrySub returns the Duration from t to u (u - t) and false if u precedes t
// (which would require a negative Duration).
func (t Instant) TrySub(u Instant) (Duration, bool) {
	switch {
	case u.IsPosInf() || t.IsNegInf():
		// Includes +∞ - +∞ and -∞ - -∞, which are ill-defined; treated
		// conservatively as unbounded rather than panicking, since callers
		// only ever reach this comparing sentinel depot nodes against
		// themselves.
		return PosInfDuration, true
	case u.IsNegInf():
		return 0, false
	case t.IsPosInf():
		return 0, false
	default:
		if u < t {
			return 0, false
		}

		return Duration(u - t), true
	}
}

// Add returns the Instant t + d, saturating at PosInfInstant.
func (t Instant) Add(d Duration) Instant {
	if t.IsNegInf() {
		return NegInfInstant
	}
	if t.IsPosInf() || d.IsInf() {
		return PosInfInstant
	}
	sum := int64(t) + int64(d)
	if sum < int64(t) { // overflow
		return PosInfInstant
	}

	return Instant(sum)
}

// IsInf reports whether d is the +∞ sentinel.
func (d Duration) IsInf() bool { return d == PosInfDuration }

// Add returns d + e, saturating at PosInfDuration.
func (d Duration) Add(e Duration) Duration {
	if d.IsInf() || e.IsInf() {
		return PosInfDuration
	}
	sum := int64(d) + int64(e)
	if sum < int64(d) {
		return PosInfDuration
	}

	return Duration(sum)
}

// LessEq reports whether d <= e, with PosInfDuration greater than every
// finite value and equal only to itself.
func (d Duration) LessEq(e Duration) bool {
	if e.IsInf() {
		return true
	}
	if d.IsInf() {
		return false
	}

	return d <= e
}

// Seconds returns the underlying second count. Calling it on PosInfDuration
// returns math.MaxInt64, which callers must guard against with IsInf.
func (d Duration) Seconds() int64 { return int64(d) }

// Seconds returns the underlying second count of a finite Instant. Calling
// it on a sentinel returns the sentinel's raw int64 value.
func (t Instant) Seconds() int64 { return int64(t) }
