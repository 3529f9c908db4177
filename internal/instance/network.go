package instance

import "github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"

// Network is the reachability relation over an instance's nodes. It
// precomputes, once per instance, a sparse adjacency list of "n1 reaches
// n2" edges between non-depot nodes, plus the compatible start-depot /
// end-depot lists for each non-depot node. Construction is quadratic in
// the node count and happens once per instance; memory trades for lookup
// speed.
type Network struct {
	nodes    []Node
	deadHead DeadHeadTable
	shunting timeutil.Duration
	forbidDH bool

	successors   [][]int32 // non-depot node index -> reachable non-depot node indices
	predecessors [][]int32

	compatibleStartDepots [][]int32 // non-depot node index -> start-depot node indices it may follow
	compatibleEndDepots   [][]int32 // non-depot node index -> end-depot node indices it may precede
}

// BuildNetwork precomputes the reachability relation for nodes.
// params.ShuntingDuration is the minimum shunting duration added between
// any two consecutive activities; when params.ForbidDeadHeadTrips is set, a
// transition requiring any empty repositioning (end location differing from
// the next start location) is never reachable, so forbidden dead-heads are
// pruned from the relation itself rather than checked downstream.
func BuildNetwork(nodes []Node, deadHead DeadHeadTable, params Parameters) Network {
	n := len(nodes)
	net := Network{
		nodes:                 nodes,
		deadHead:              deadHead,
		shunting:              params.ShuntingDuration,
		forbidDH:              params.ForbidDeadHeadTrips,
		successors:            make([][]int32, n),
		predecessors:          make([][]int32, n),
		compatibleStartDepots: make([][]int32, n),
		compatibleEndDepots:   make([][]int32, n),
	}

	for i := 0; i < n; i++ {
		if nodes[i].IsDepot() {
			continue
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			switch {
			case nodes[j].Kind() == StartDepotNode:
				// A start depot may only ever be first: it is a valid
				// *predecessor* of i, never a successor.
				if net.canReach(nodes[j], nodes[i]) {
					net.compatibleStartDepots[i] = append(net.compatibleStartDepots[i], int32(j))
				}
			case nodes[j].Kind() == EndDepotNode:
				if net.canReach(nodes[i], nodes[j]) {
					net.compatibleEndDepots[i] = append(net.compatibleEndDepots[i], int32(j))
				}
			default:
				if net.canReach(nodes[i], nodes[j]) {
					net.successors[i] = append(net.successors[i], int32(j))
					net.predecessors[j] = append(net.predecessors[j], int32(i))
				}
			}
		}
	}

	return net
}

// canReach is the reachability predicate: end_time(u) + shunting_minimum +
// dead_head_duration(loc(u), loc(v)) <= start_time(v), plus vehicle-type
// compatibility.
func (net Network) canReach(u, v Node) bool {
	if u.VehicleType != NoVehicleTypeConstraint && v.VehicleType != NoVehicleTypeConstraint && u.VehicleType != v.VehicleType {
		return false
	}
	if net.forbidDH && u.EndLocation() != v.StartLocation() {
		return false
	}
	dh := net.deadHead.Duration(u.EndLocation(), v.StartLocation())
	if dh.IsInf() {
		return false
	}
	required := u.EndTime().Add(net.shunting).Add(dh)

	return !required.After(v.StartTime())
}

// NodesView returns the node slice the network was built over. Callers must
// treat it as read-only: it is the same backing array instance.Instance
// owns, never copied, since Instance and every Node within it are immutable
// after Load.
func (net Network) NodesView() []Node { return net.nodes }

// CanReach reports whether node u reaches node v, recomputing the predicate
// directly rather than consulting the precomputed adjacency list. Used by
// tour operations (insert_path splice search, replace_*_depot) that need to
// test pairs the bulk precompute did not materialize (e.g. a depot
// replacement candidate against an arbitrary tour neighbor).
func (net Network) CanReach(u, v int) bool {
	return net.canReach(net.nodes[u], net.nodes[v])
}

// Successors returns the non-depot nodes directly reachable from u.
func (net Network) Successors(u int) []int32 { return net.successors[u] }

// Predecessors returns the non-depot nodes that directly reach u.
func (net Network) Predecessors(u int) []int32 { return net.predecessors[u] }

// CompatibleStartDepots returns the start-depot nodes u may follow.
func (net Network) CompatibleStartDepots(u int) []int32 { return net.compatibleStartDepots[u] }

// CompatibleEndDepots returns the end-depot nodes u may precede.
func (net Network) CompatibleEndDepots(u int) []int32 { return net.compatibleEndDepots[u] }

// DeadHeadBetween returns the dead-head duration and distance between two
// locations, for costing a transition that is not a direct tour predecessor
// (e.g. the circulation solver pricing an arc).
func (net Network) DeadHeadBetween(from, to LocationIndex) (timeutil.Duration, int64) {
	return net.deadHead.Duration(from, to), net.deadHead.Distance(from, to)
}
