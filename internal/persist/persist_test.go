package persist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/persist"
)

func TestMap_SetGetDelete(t *testing.T) {
	m := persist.NewMap[string]()
	require.Equal(t, 0, m.Len())

	m2 := m.Set(5, "five")
	require.Equal(t, 0, m.Len(), "original map must be unaffected by Set")
	require.Equal(t, 1, m2.Len())

	v, ok := m2.Get(5)
	require.True(t, ok)
	require.Equal(t, "five", v)

	_, ok = m2.Get(6)
	require.False(t, ok)

	m3 := m2.Delete(5)
	require.Equal(t, 0, m3.Len())
	require.Equal(t, 1, m2.Len(), "deleting from m2 to build m3 must not affect m2")
}

func TestMap_SetOverwriteSameKey(t *testing.T) {
	m := persist.NewMap[int]().Set(1, 10)
	m2 := m.Set(1, 20)

	require.Equal(t, 1, m2.Len())
	v, ok := m2.Get(1)
	require.True(t, ok)
	require.Equal(t, 20, v)
}

func TestMap_KeysSortedAscending(t *testing.T) {
	m := persist.NewMap[int]()
	for _, k := range []int64{50, 10, 30, 20, 40} {
		m = m.Set(k, int(k))
	}

	require.Equal(t, []int64{10, 20, 30, 40, 50}, m.Keys())
}

func TestMap_Range_StopsEarly(t *testing.T) {
	m := persist.NewMap[int]()
	for i := int64(0); i < 10; i++ {
		m = m.Set(i, int(i))
	}

	var seen []int64
	m.Range(func(k int64, v int) bool {
		seen = append(seen, k)
		return len(seen) < 3
	})

	require.Len(t, seen, 3)
}

func TestMap_MustGet_PanicsOnAbsentKey(t *testing.T) {
	m := persist.NewMap[int]()
	require.Panics(t, func() { m.MustGet(42) })
}

func TestSeq_SpliceReplacesRange(t *testing.T) {
	s := persist.NewSeq([]int{1, 2, 3, 4, 5})
	out := s.Splice(1, 3, []int{9, 9})

	require.Equal(t, []int{1, 9, 9, 4, 5}, out.ToSlice())
	require.Equal(t, []int{1, 2, 3, 4, 5}, s.ToSlice(), "original Seq must be unaffected")
}

func TestSeq_ConcatAppendsCopy(t *testing.T) {
	s := persist.NewSeq([]int{1, 2})
	out := s.Concat([]int{3, 4})

	require.Equal(t, []int{1, 2, 3, 4}, out.ToSlice())
	require.Equal(t, 2, s.Len())
}

func TestSeq_SliceSharesRange(t *testing.T) {
	s := persist.NewSeq([]int{1, 2, 3, 4, 5})
	sub := s.Slice(1, 4)

	require.Equal(t, 3, sub.Len())
	require.Equal(t, 2, sub.At(0))
	require.Equal(t, 4, sub.At(2))
}
