package persist

// Seq is an immutable ordered sequence of T. Every method that looks like a
// mutation returns a new Seq; the receiver is never modified.
//
// Tours are short (one vehicle's activity for one service day), so unlike
// Map this does not use a branching trie: Seq's reads (Slice, At, Len) share
// the backing array with the parent the way a plain Go slice re-slice does
// (O(1), no copy), and its writes (the only ones a tour modification needs:
// splice a sub-path in, drop a sub-path) copy just the new backing array for
// the affected Seq, leaving every *other* tour's Seq in the schedule
// untouched. The expensive, unboundedly-large structure — the schedule's
// cross-vehicle maps — is what persist.Map exists for.
type Seq[T any] struct {
	data []T
}

// NewSeq builds a Seq that takes ownership of data; callers must not mutate
// data afterward.
func NewSeq[T any](data []T) Seq[T] {
	return Seq[T]{data: data}
}

// Len returns the number of elements.
func (s Seq[T]) Len() int { return len(s.data) }

// At returns the element at index i.
func (s Seq[T]) At(i int) T { return s.data[i] }

// Slice returns the sub-sequence [i:j), sharing the backing array.
func (s Seq[T]) Slice(i, j int) Seq[T] { return Seq[T]{data: s.data[i:j]} }

// ToSlice returns a defensive copy of the elements, safe for the caller to
// mutate.
func (s Seq[T]) ToSlice() []T {
	out := make([]T, len(s.data))
	copy(out, s.data)

	return out
}

// Splice returns a new Seq equal to s[0:from] ++ mid ++ s[to:], i.e. it
// replaces the half-open range [from, to) with mid: segment removal passes
// a nil mid, path insertion passes the inserted path.
func (s Seq[T]) Splice(from, to int, mid []T) Seq[T] {
	out := make([]T, 0, from+len(mid)+(s.Len()-to))
	out = append(out, s.data[:from]...)
	out = append(out, mid...)
	out = append(out, s.data[to:]...)

	return Seq[T]{data: out}
}

// Concat returns a new Seq of s followed by other, copying both.
func (s Seq[T]) Concat(other []T) Seq[T] {
	out := make([]T, 0, s.Len()+len(other))
	out = append(out, s.data...)
	out = append(out, other...)

	return Seq[T]{data: out}
}
