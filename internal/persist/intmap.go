// Package persist provides the persistent (immutable, structurally shared)
// collections the schedule layer is built from: an int64-keyed persistent
// map and a copy-on-write sequence.
//
// Every mutating-looking method returns a new value and never touches its
// receiver; two Maps (or Seqs) that differ by one entry share every node
// that did not change. Schedule modifications touch O(log n) nodes of the
// per-node formation map, the per-vehicle tour map, and the depot ledger,
// instead of copying the whole schedule.
//
// Map is deliberately narrower than a general-purpose persistent hash map:
// every key the schedule layer needs (vehicle index, node index, a
// depot/vehicle-type pair packed into one int64) is already an integer, so
// a generic hashable-key HAMT would add machinery the caller never uses.
// The trie below branches on 4 bits of the key per level (16-way), which
// keeps the tree shallow (at most 16 levels for a 64-bit key) without the
// complexity of a hash function or collision bucket.
package persist

// mapBits is the branching factor exponent: 2^mapBits children per node.
const mapBits = 4
const mapWidth = 1 << mapBits
const mapMask = mapWidth - 1

// mapNode is a trie node. Exactly one of (leaf set, children set) is
// populated below the root for any given path, since Set always descends
// to depth 0 before storing a value.
type mapNode[V any] struct {
	hasValue bool
	key      int64
	value    V
	children [mapWidth]*mapNode[V]
}

// Map is a persistent map from int64 to V.
type Map[V any] struct {
	root *mapNode[V]
	size int
}

// NewMap returns the empty persistent map.
func NewMap[V any]() Map[V] {
	return Map[V]{}
}

// Len returns the number of entries.
func (m Map[V]) Len() int { return m.size }

// Get returns the value stored at key and whether it was present.
func (m Map[V]) Get(key int64) (V, bool) {
	n := m.root
	shift := uint(0)
	for n != nil {
		if n.hasValue && n.key == key {
			return n.value, true
		}
		if n.hasValue {
			// a leaf that doesn't match: key not present.
			break
		}
		idx := (key >> shift) & mapMask
		n = n.children[idx]
		shift += mapBits
	}
	var zero V

	return zero, false
}

// MustGet returns the value at key, panicking if absent. Intended for call
// sites that already established the key's presence via an invariant (e.g.
// iterating a formation map's own key set).
func (m Map[V]) MustGet(key int64) V {
	v, ok := m.Get(key)
	if !ok {
		panic("persist: MustGet on absent key")
	}

	return v
}

// Has reports whether key is present.
func (m Map[V]) Has(key int64) bool {
	_, ok := m.Get(key)

	return ok
}

// Set returns a new Map with key bound to value, sharing every unaffected
// subtree with m.
func (m Map[V]) Set(key int64, value V) Map[V] {
	newRoot, grew := setNode(m.root, key, value, 0)
	size := m.size
	if grew {
		size++
	}

	return Map[V]{root: newRoot, size: size}
}

func setNode[V any](n *mapNode[V], key int64, value V, shift uint) (*mapNode[V], bool) {
	if n == nil {
		return &mapNode[V]{hasValue: true, key: key, value: value}, true
	}
	if n.hasValue {
		if n.key == key {
			return &mapNode[V]{hasValue: true, key: key, value: value}, false
		}
		// Displace the existing leaf one level down and retry the insert.
		displaced := &mapNode[V]{}
		idx := (n.key >> shift) & mapMask
		displaced.children[idx] = n
		return setNode(displaced, key, value, shift)
	}
	// Interior node: copy it (structural sharing of every other child).
	cp := *n
	idx := (key >> shift) & mapMask
	child, grew := setNode(n.children[idx], key, value, shift+mapBits)
	cp.children[idx] = child

	return &cp, grew
}

// Delete returns a new Map with key removed, sharing every unaffected
// subtree with m. Deleting an absent key returns m unchanged.
func (m Map[V]) Delete(key int64) Map[V] {
	newRoot, removed := deleteNode(m.root, key, 0)
	if !removed {
		return m
	}

	return Map[V]{root: newRoot, size: m.size - 1}
}

func deleteNode[V any](n *mapNode[V], key int64, shift uint) (*mapNode[V], bool) {
	if n == nil {
		return nil, false
	}
	if n.hasValue {
		if n.key == key {
			return nil, true
		}

		return n, false
	}
	idx := (key >> shift) & mapMask
	child, removed := deleteNode(n.children[idx], key, shift+mapBits)
	if !removed {
		return n, false
	}
	cp := *n
	cp.children[idx] = child
	if isEmptyInterior(&cp) {
		return nil, true
	}

	return &cp, true
}

func isEmptyInterior[V any](n *mapNode[V]) bool {
	for _, c := range n.children {
		if c != nil {
			return false
		}
	}

	return true
}

// Keys returns every key in ascending order. Range walks its result, so
// every ordered traversal of a Map (including the schedule's vehicle
// listing and node lookups) builds this slice.
func (m Map[V]) Keys() []int64 {
	keys := make([]int64, 0, m.size)
	var walk func(n *mapNode[V])
	walk = func(n *mapNode[V]) {
		if n == nil {
			return
		}
		if n.hasValue {
			keys = append(keys, n.key)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(m.root)
	sortInt64s(keys)

	return keys
}

// Range calls f for every entry in ascending key order, stopping early if f
// returns false.
func (m Map[V]) Range(f func(key int64, value V) bool) {
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		if !f(k, v) {
			return
		}
	}
}

func sortInt64s(xs []int64) {
	// Small insertion sort: formation/ledger/vehicle maps are never large
	// enough (bounded by fleet size and node count) to justify sort.Slice's
	// reflection overhead, and this keeps the package dependency-free.
	for i := 1; i < len(xs); i++ {
		v := xs[i]
		j := i - 1
		for j >= 0 && xs[j] > v {
			xs[j+1] = xs[j]
			j--
		}
		xs[j+1] = v
	}
}
