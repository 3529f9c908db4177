// Package schedule implements the mutable-in-appearance, physically
// copy-on-write solution layer: tours, train formations, dummy tours, the
// depot load ledger, the next-day cycle mapping, and the pure modification
// operations that rebuild them.
//
// Every exported operation takes a *Schedule (or a Tour value) and returns
// a new one; the receiver is never mutated and an aliased mutable view is
// never handed back. Structural sharing via internal/persist keeps each
// modification cheap.
package schedule

import (
	"errors"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"
)

// Sentinel errors for tour/schedule modifications. Both are always caught
// by the local-search driver (the candidate move is discarded) and never
// surface to a client.
var (
	ErrInfeasibleModification = errors.New("schedule: modification violates tour invariants")
	ErrDepotFull              = errors.New("schedule: depot capacity exceeded")
)

// Tour is the temporally ordered activity sequence of one vehicle: a
// start-depot node, zero or more service-trip/maintenance nodes, an
// end-depot node. nodes holds indices into the owning Instance's Nodes
// slice; the slice is copy-on-write (every modification builds a fresh
// one), so a Tour value is safe to share across schedules.
type Tour struct {
	nodes []int // node indices; nodes[0] is the start depot, nodes[len-1] the end depot

	// Cached aggregates; must equal the values recomputed from scratch
	// after every modification.
	TotalDeadHeadDistance    int64
	TotalDistance            int64 // dead-head + revenue-leg distance
	DistanceSinceMaintenance int64
}

// NewTour builds a tour from start depot node, a path of non-depot nodes,
// and an end depot node, computing its cached aggregates. Returns
// ErrInfeasibleModification if any consecutive pair fails reachability.
func NewTour(net instance.Network, startDepot int, path []int, endDepot int) (Tour, error) {
	nodes := make([]int, 0, len(path)+2)
	nodes = append(nodes, startDepot)
	nodes = append(nodes, path...)
	nodes = append(nodes, endDepot)
	for i := 0; i+1 < len(nodes); i++ {
		if !net.CanReach(nodes[i], nodes[i+1]) {
			return Tour{}, ErrInfeasibleModification
		}
	}

	return buildTour(net, nodes), nil
}

func buildTour(net instance.Network, nodes []int) Tour {
	t := Tour{nodes: nodes}
	t.recompute(net)

	return t
}

// Nodes returns a defensive copy of the tour's node-index sequence.
func (t Tour) Nodes() []int {
	out := make([]int, len(t.nodes))
	copy(out, t.nodes)

	return out
}

// Len returns the number of nodes in the tour (including both depots).
func (t Tour) Len() int { return len(t.nodes) }

// At returns the node index at position i.
func (t Tour) At(i int) int { return t.nodes[i] }

// StartDepot returns the start-depot node index.
func (t Tour) StartDepot() int { return t.nodes[0] }

// EndDepot returns the end-depot node index.
func (t Tour) EndDepot() int { return t.nodes[len(t.nodes)-1] }

// PositionOf returns the tour position of nodeIdx and whether it was found.
// Only positions 1..Len()-2 (the non-depot interior) are ever returned,
// since depot endpoints are addressed via StartDepot/EndDepot instead.
func (t Tour) PositionOf(nodeIdx int) (int, bool) {
	for i := 1; i < len(t.nodes)-1; i++ {
		if t.nodes[i] == nodeIdx {
			return i, true
		}
	}

	return 0, false
}

// recompute rebuilds every cached aggregate from scratch. Callers only ever
// touch a bounded span per modification, but a full O(len(tour)) pass over
// a single vehicle's day is cheap and removes any chance of cached/actual
// drift.
func (t *Tour) recompute(net instance.Network) {
	var deadHead, total, sinceMaint int64
	nodes := net.NodesView()
	for i, idx := range t.nodes {
		n := nodes[idx]
		if n.Kind() == instance.ServiceTripNode {
			_, dist := net.DeadHeadBetween(n.Origin, n.Destination)
			total += dist
			sinceMaint += dist
		}
		if n.Kind() == instance.MaintenanceNode {
			sinceMaint = 0
		}
		if i+1 < len(t.nodes) {
			next := nodes[t.nodes[i+1]]
			_, dist := net.DeadHeadBetween(n.EndLocation(), next.StartLocation())
			deadHead += dist
			total += dist
			sinceMaint += dist
		}
	}
	t.TotalDeadHeadDistance = deadHead
	t.TotalDistance = total
	t.DistanceSinceMaintenance = sinceMaint
}

// ReplaceStartDepot substitutes the tour's start-depot node. Fails
// ErrInfeasibleModification if the new depot is not type- and
// reachability-compatible with the tour's current first non-depot node.
func (t Tour) ReplaceStartDepot(net instance.Network, newDepot int) (Tour, error) {
	if len(t.nodes) < 2 || !net.CanReach(newDepot, t.nodes[1]) {
		return Tour{}, ErrInfeasibleModification
	}
	nodes := t.Nodes()
	nodes[0] = newDepot

	return buildTour(net, nodes), nil
}

// ReplaceEndDepot substitutes the tour's end-depot node symmetrically.
func (t Tour) ReplaceEndDepot(net instance.Network, newDepot int) (Tour, error) {
	n := len(t.nodes)
	if n < 2 || !net.CanReach(t.nodes[n-2], newDepot) {
		return Tour{}, ErrInfeasibleModification
	}
	nodes := t.Nodes()
	nodes[n-1] = newDepot

	return buildTour(net, nodes), nil
}

// RemoveSegment cuts the span [fromNode, toNode] out of the tour: both must
// lie in the tour's interior, fromNode must precede toNode, and the
// remaining prefix's last node must reach the remaining suffix's first
// node. Returns the new tour and the removed interior node indices
// (inclusive of both endpoints).
func (t Tour) RemoveSegment(net instance.Network, fromNode, toNode int) (Tour, []int, error) {
	fromPos, ok := t.PositionOf(fromNode)
	if !ok {
		return Tour{}, nil, ErrInfeasibleModification
	}
	toPos, ok := t.PositionOf(toNode)
	if !ok || toPos < fromPos {
		return Tour{}, nil, ErrInfeasibleModification
	}
	prefixLast := t.nodes[fromPos-1]
	suffixFirst := t.nodes[toPos+1]
	if !net.CanReach(prefixLast, suffixFirst) {
		return Tour{}, nil, ErrInfeasibleModification
	}
	removed := append([]int(nil), t.nodes[fromPos:toPos+1]...)
	nodes := make([]int, 0, len(t.nodes)-(toPos-fromPos+1))
	nodes = append(nodes, t.nodes[:fromPos]...)
	nodes = append(nodes, t.nodes[toPos+1:]...)

	return buildTour(net, nodes), removed, nil
}

// InsertPath finds the splice point where path's first node is reachable
// from the tour's prefix and path's last node reaches the tour's suffix,
// evicting any tour nodes that time-overlap path's convex time hull. Ties
// break toward the earliest feasible position. Fails
// ErrInfeasibleModification if no splice point exists.
func (t Tour) InsertPath(net instance.Network, path []int) (Tour, []int, error) {
	if len(path) == 0 {
		return Tour{}, nil, ErrInfeasibleModification
	}
	nodesView := net.NodesView()
	first, last := path[0], path[len(path)-1]

	spliceAt := -1
	for k := 1; k < len(t.nodes); k++ {
		if net.CanReach(t.nodes[k-1], first) && net.CanReach(last, t.nodes[k]) {
			spliceAt = k
			break
		}
	}
	if spliceAt == -1 {
		return Tour{}, nil, ErrInfeasibleModification
	}

	hullMin := nodesView[first].StartTime()
	hullMax := nodesView[last].EndTime()
	for _, idx := range path {
		n := nodesView[idx]
		if n.StartTime().Before(hullMin) {
			hullMin = n.StartTime()
		}
		if n.EndTime().After(hullMax) {
			hullMax = n.EndTime()
		}
	}

	var removed []int
	kept := make([]int, 0, len(t.nodes))
	kept = append(kept, t.nodes[0]) // start depot always kept
	for i := 1; i < len(t.nodes)-1; i++ {
		idx := t.nodes[i]
		n := nodesView[idx]
		if intervalsOverlap(n.StartTime(), n.EndTime(), hullMin, hullMax) {
			removed = append(removed, idx)
			continue
		}
		kept = append(kept, idx)
	}
	kept = append(kept, t.nodes[len(t.nodes)-1]) // end depot always kept

	// Re-locate the splice point among the surviving interior nodes: walk
	// kept and insert path right after the last kept node whose original
	// tour position is < spliceAt (this preserves temporal order since
	// eviction only removes nodes, never reorders).
	insertAt := 1
	for insertAt < len(kept)-1 {
		origPos, _ := t.PositionOf(kept[insertAt])
		if origPos >= spliceAt {
			break
		}
		insertAt++
	}

	nodes := make([]int, 0, len(kept)+len(path))
	nodes = append(nodes, kept[:insertAt]...)
	nodes = append(nodes, path...)
	nodes = append(nodes, kept[insertAt:]...)

	newTour, err := NewTour(net, nodes[0], nodes[1:len(nodes)-1], nodes[len(nodes)-1])
	if err != nil {
		return Tour{}, nil, err
	}

	return newTour, removed, nil
}

// intervalsOverlap reports whether [aStart, aEnd] and [bStart, bEnd]
// intersect (closed intervals, since a node whose end exactly equals the
// hull's start still conflicts for vehicle-occupancy purposes).
func intervalsOverlap(aStart, aEnd, bStart, bEnd timeutil.Instant) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
