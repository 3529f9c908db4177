package timeutil_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"
)

func TestSentinels_IsInf(t *testing.T) {
	require.True(t, timeutil.NegInfInstant.IsNegInf())
	require.True(t, timeutil.NegInfInstant.IsInf())
	require.True(t, timeutil.PosInfInstant.IsPosInf())
	require.True(t, timeutil.PosInfInstant.IsInf())
	require.False(t, timeutil.Instant(100).IsInf())
}

func TestBeforeAfter_HonorSentinels(t *testing.T) {
	require.True(t, timeutil.NegInfInstant.Before(timeutil.Instant(0)))
	require.True(t, timeutil.Instant(0).Before(timeutil.PosInfInstant))
	require.True(t, timeutil.PosInfInstant.After(timeutil.Instant(1000)))
}

func TestTrySub_FiniteOrdering(t *testing.T) {
	d, ok := timeutil.Instant(100).TrySub(timeutil.Instant(150))
	require.True(t, ok)
	require.Equal(t, int64(50), d.Seconds())

	_, ok = timeutil.Instant(150).TrySub(timeutil.Instant(100))
	require.False(t, ok, "u preceding t cannot produce a non-negative Duration")
}

func TestTrySub_SentinelCases(t *testing.T) {
	d, ok := timeutil.Instant(0).TrySub(timeutil.PosInfInstant)
	require.True(t, ok)
	require.True(t, d.IsInf())

	_, ok = timeutil.PosInfInstant.TrySub(timeutil.Instant(0))
	require.False(t, ok, "nothing can be subtracted back past +inf")

	_, ok = timeutil.Instant(0).TrySub(timeutil.NegInfInstant)
	require.False(t, ok, "u cannot be -inf if t is finite and u >= t")
}

func TestSub_PanicsOnNegativeResult(t *testing.T) {
	require.Panics(t, func() {
		timeutil.Instant(150).Sub(timeutil.Instant(100))
	})
}

func TestInstantAdd_SaturatesAtPosInf(t *testing.T) {
	require.Equal(t, timeutil.PosInfInstant, timeutil.Instant(100).Add(timeutil.PosInfDuration))
	require.Equal(t, timeutil.NegInfInstant, timeutil.NegInfInstant.Add(timeutil.Duration(50)))
	require.Equal(t, timeutil.Instant(150), timeutil.Instant(100).Add(timeutil.Duration(50)))
}

func TestDurationAdd_SaturatesAtPosInf(t *testing.T) {
	require.True(t, timeutil.Duration(10).Add(timeutil.PosInfDuration).IsInf())
	require.Equal(t, timeutil.Duration(30), timeutil.Duration(10).Add(timeutil.Duration(20)))
}

func TestDuration_LessEq(t *testing.T) {
	require.True(t, timeutil.Duration(5).LessEq(timeutil.Duration(10)))
	require.False(t, timeutil.Duration(10).LessEq(timeutil.Duration(5)))
	require.True(t, timeutil.Duration(5).LessEq(timeutil.PosInfDuration))
	require.False(t, timeutil.PosInfDuration.LessEq(timeutil.Duration(5)))
	require.True(t, timeutil.PosInfDuration.LessEq(timeutil.PosInfDuration))
}
