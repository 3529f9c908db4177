package schedule

import (
	"sort"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/persist"
)

// CycleMap is the next-day mapping: a permutation over real vehicle slots,
// expressed as "successor of" rather than as pointer cycles, so that
// Schedule itself stays tree-shaped and safe to share structurally.
type CycleMap struct {
	next persist.Map[int32] // vehicle slot -> next vehicle slot
}

// NewCycleMap returns the empty cycle map.
func NewCycleMap() CycleMap { return CycleMap{next: persist.NewMap[int32]()} }

// Next returns the vehicle slot that slot "becomes" on the next day.
func (c CycleMap) Next(slot VehicleSlot) (VehicleSlot, bool) {
	v, ok := c.next.Get(int64(slot))

	return VehicleSlot(v), ok
}

// Cycles returns the mapping decomposed into disjoint ordered cycles of
// vehicle slots, for the `vehicleCycles` output view.
func (c CycleMap) Cycles() [][]VehicleSlot {
	visited := make(map[VehicleSlot]bool)
	var starts []VehicleSlot
	c.next.Range(func(k int64, _ int32) bool {
		starts = append(starts, VehicleSlot(k))

		return true
	})
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	var cycles [][]VehicleSlot
	for _, s := range starts {
		if visited[s] {
			continue
		}
		var cyc []VehicleSlot
		cur := s
		for !visited[cur] {
			visited[cur] = true
			cyc = append(cyc, cur)
			nxt, ok := c.Next(cur)
			if !ok {
				break
			}
			cur = nxt
		}
		cycles = append(cycles, cyc)
	}

	return cycles
}

// RebuildCycles recomputes the next-day mapping from scratch over the given
// vehicles: a permutation over real vehicles, type-preserving within each
// cycle, with each successor's start depot equal to its predecessor's end
// depot wherever such an assignment exists.
//
// Each vehicle is an edge startDepot->endDepot in a directed multigraph per
// vehicle type; a depot-correct mapping is a decomposition of those edges
// into closed walks. Every vehicle, in slot order, takes as its successor
// the first unconsumed vehicle of its type starting at its own end depot.
// A predecessor goes unmatched only when that queue is exhausted, i.e. the
// per-depot start/end counts don't balance and no depot-correct successor
// exists for it at all; the unmatched remainder is then paired off within
// vehicle type, in slot order, so the mapping stays a permutation.
func RebuildCycles(vehicles persist.Map[VehicleAndTour], depots []instance.Depot, nodes []instance.Node) CycleMap {
	type key struct {
		vt    instance.VehicleTypeIndex
		depot instance.DepotIndex
	}
	var slots []VehicleSlot
	vehicles.Range(func(k int64, _ VehicleAndTour) bool {
		slots = append(slots, VehicleSlot(k))

		return true
	})
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	startQueue := make(map[key][]VehicleSlot)
	for _, s := range slots {
		vt, _ := vehicles.Get(int64(s))
		startNode := nodes[vt.Tour.StartDepot()]
		k := key{vt.Vehicle.VehicleType, startNode.Depot}
		startQueue[k] = append(startQueue[k], s)
	}

	next := persist.NewMap[int32]()
	consumed := make(map[VehicleSlot]bool)
	var unmatched []VehicleSlot
	for _, s := range slots {
		vt, _ := vehicles.Get(int64(s))
		endNode := nodes[vt.Tour.EndDepot()]
		k := key{vt.Vehicle.VehicleType, endNode.Depot}
		q := startQueue[k]
		if len(q) == 0 {
			unmatched = append(unmatched, s)
			continue
		}
		startQueue[k] = q[1:]
		next = next.Set(int64(s), int32(q[0]))
		consumed[q[0]] = true
	}

	// The unmatched predecessors pair with the unconsumed successors; both
	// remainders have equal size per vehicle type, since every matched pair
	// used up one of each within the type.
	succByType := make(map[instance.VehicleTypeIndex][]VehicleSlot)
	for _, s := range slots {
		if consumed[s] {
			continue
		}
		vt, _ := vehicles.Get(int64(s))
		succByType[vt.Vehicle.VehicleType] = append(succByType[vt.Vehicle.VehicleType], s)
	}
	for _, s := range unmatched {
		vt, _ := vehicles.Get(int64(s))
		succs := succByType[vt.Vehicle.VehicleType]
		next = next.Set(int64(s), int32(succs[0]))
		succByType[vt.Vehicle.VehicleType] = succs[1:]
	}

	return CycleMap{next: next}
}
