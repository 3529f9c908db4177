package circulation

import (
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
)

// CoveredTrip names a node that must be covered by at least RequiredFlow
// vehicles of the vehicle type the network is being built for — the
// required lower bound on covered trips, supplied by the local-search
// driver from the schedule candidate under evaluation.
type CoveredTrip struct {
	Node         int32
	RequiredFlow int64
}

// BuildTimeSpaceNetwork assembles the per-vehicle-type flow network over
// inst's nodes, restricted to nodes vt may occupy.
//
// Every instance node is split into an arrival half (index == node index)
// and a departure half (index == NodeCount()+node index), joined by a
// lower-bounded arc whose cost is that node's own activity cost (staff +
// service-trip, or maintenance) — attributing the node's full activity
// cost once per covering vehicle, regardless of which predecessor it was
// reached from. Node-to-node arcs (departure(u) -> arrival(v)) carry the
// dead-head + idle transition cost between them, mirroring
// objective.OperatingCost's per-transition accounting. The flow's cost
// agrees with OperatingCost except for staff cost, which the flow charges
// per covering vehicle and OperatingCost once per formation.
// Depot nodes are not split (zero activity cost); the super source and
// super sink connect directly to compatible depots with depot-capacity
// arcs, so the flow can never exceed a depot's per-type capacity.
//
// Returns the network plus the super-source and super-sink node indices.
func BuildTimeSpaceNetwork(inst *instance.Instance, vt instance.VehicleTypeIndex, covered []CoveredTrip) (*Network, int32, int32) {
	n := int32(inst.NodeCount())
	arrival := func(u int32) int32 { return u }
	departure := func(u int32) int32 {
		if inst.Nodes[u].IsDepot() {
			return u // depots are not split
		}

		return n + u
	}
	source := 2 * n
	sink := 2*n + 1
	net := NewNetwork(int(2*n + 2))

	required := make(map[int32]int64, len(covered))
	for _, c := range covered {
		required[c.Node] = c.RequiredFlow
	}

	costs := inst.Params.Costs
	maxFormation := int64(bigPassThrough) // MaxFormationLength of 0 means unbounded
	if int(vt) >= 0 && int(vt) < len(inst.VehicleTypes) {
		if m := inst.VehicleTypes[vt].MaxFormationLength; m > 0 {
			maxFormation = int64(m)
		}
	}

	// nodeCap bounds how many vehicles may occupy a node at once: the
	// formation-length cap on service trips, the track count on maintenance
	// slots.
	nodeCap := func(node instance.Node) int64 {
		switch node.Kind() {
		case instance.ServiceTripNode:
			return maxFormation
		case instance.MaintenanceNode:
			if node.TrackCount > 0 {
				return int64(node.TrackCount)
			}

			return bigPassThrough
		default:
			return bigPassThrough
		}
	}

	// Depot <-> super source/sink arcs, added exactly once per depot node
	// regardless of how many service-trip nodes it connects to — adding
	// one per (depot, reachable node) pair instead would silently multiply
	// the depot's enforced capacity by its out-degree.
	for d := int32(0); d < n; d++ {
		dn := inst.Nodes[d]
		if !dn.IsDepot() || !dn.AcceptsVehicleType(vt) {
			continue
		}
		cap := int64(inst.DepotAt(dn.Depot).CapacityFor(vt))
		switch dn.Kind() {
		case instance.StartDepotNode:
			net.AddArc(source, arrival(d), 0, cap, 0)
		case instance.EndDepotNode:
			net.AddArc(arrival(d), sink, 0, cap, 0)
		}
	}

	for u := int32(0); u < n; u++ {
		node := inst.Nodes[u]
		if node.IsDepot() || !node.AcceptsVehicleType(vt) {
			continue
		}
		net.AddArc(arrival(u), departure(u), required[u], nodeCap(node), nodeActivityCost(node, costs))

		for _, v := range inst.Network.Successors(int(u)) {
			nv := inst.Nodes[v]
			if !nv.AcceptsVehicleType(vt) {
				continue
			}
			net.AddArc(departure(u), arrival(int32(v)), 0, bigPassThrough, transitionCost(inst, node, nv, costs))
		}

		for _, d := range inst.Network.CompatibleStartDepots(int(u)) {
			dn := inst.Nodes[d]
			if !dn.AcceptsVehicleType(vt) {
				continue
			}
			net.AddArc(departure(int32(d)), arrival(u), 0, bigPassThrough, transitionCost(inst, dn, node, costs))
		}

		for _, d := range inst.Network.CompatibleEndDepots(int(u)) {
			dn := inst.Nodes[d]
			if !dn.AcceptsVehicleType(vt) {
				continue
			}
			net.AddArc(departure(u), arrival(int32(d)), 0, bigPassThrough, transitionCost(inst, node, dn, costs))
		}
	}

	return net, source, sink
}

// bigPassThrough bounds node/transition arcs generously rather than
// unboundedly: the number of real vehicles of any one type a schedule
// could plausibly field is small relative to instance size, and an
// explicit finite cap keeps the solver's Bellman-Ford relaxation loop from
// ever treating a pass-through arc as truly unconstrained.
const bigPassThrough = 1 << 20

// nodeActivityCost is the cost a single vehicle incurs by occupying node
// n, charged once on its arrival->departure arc: the staff and
// service-trip contributions, or the maintenance contribution. Every
// covering vehicle pays the staff share here, whereas
// objective.OperatingCost charges staff once per formation.
func nodeActivityCost(n instance.Node, costs instance.Costs) int64 {
	switch n.Kind() {
	case instance.ServiceTripNode:
		secs := n.StartTime().Sub(n.EndTime()).Seconds()

		return costs.StaffPerSecond*secs + costs.ServiceTripPerSecond*secs
	case instance.MaintenanceNode:
		secs := n.StartTime().Sub(n.EndTime()).Seconds()

		return costs.MaintenancePerSecond * secs
	default:
		return 0
	}
}

// transitionCost is the dead-head + idle cost of moving directly from u to
// v, mirroring objective.OperatingCost's per-transition accounting.
func transitionCost(inst *instance.Instance, u, v instance.Node, costs instance.Costs) int64 {
	dhDur, _ := inst.Network.DeadHeadBetween(u.EndLocation(), v.StartLocation())
	if dhDur.IsInf() {
		return infCost
	}
	cost := costs.DeadHeadPerSecond * dhDur.Seconds()
	if u.IsDepot() || v.IsDepot() {
		return cost
	}
	gap, ok := u.EndTime().TrySub(v.StartTime())
	if !ok {
		return cost
	}
	if idle := gap.Seconds() - dhDur.Seconds(); idle > 0 {
		cost += costs.IdlePerSecond * idle
	}

	return cost
}
