package localsearch

import (
	"errors"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/circulation"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"
)

// ErrUnsolvable is returned when the circulation stays infeasible even
// after every coverage lower bound has been relaxed away — a persistent
// failure no amount of accepting unserved passengers can fix. It is the
// only error Run surfaces to its caller.
var ErrUnsolvable = errors.New("localsearch: no feasible circulation even with relaxed coverage")

// Recost re-solves the minimum-cost vehicle assignment for s's current
// structural choice (which nodes are covered, by which vehicle type) via
// internal/circulation, replacing each vehicle type's fleet with the
// flow-optimal set of tours. Coverage already achieved by s
// is fed back in as each covered node's lower bound, so at the full lower
// bounds Recost re-optimizes *how* existing coverage is delivered (which
// depot, which dead-head paths) without dropping a service trip s was
// already serving; a flow path whose vehicle cannot be spawned is skipped.
// If the derived network is infeasible at the full lower bounds, the bounds
// are relaxed in stages (multi-coverage clamped to single coverage, then no
// required coverage at all — accepting unserved passengers) and the solve
// retried; only a failure that survives every relaxation surfaces, as
// ErrUnsolvable.
func Recost(inst *instance.Instance, s *schedule.Schedule) (*schedule.Schedule, error) {
	types := usedVehicleTypes(s)
	cur := s
	for _, vt := range types {
		next, err := recostType(inst, cur, vt)
		if err != nil {
			return s, err
		}
		cur = next
	}

	return cur, nil
}

func usedVehicleTypes(s *schedule.Schedule) []instance.VehicleTypeIndex {
	seen := make(map[instance.VehicleTypeIndex]bool)
	var types []instance.VehicleTypeIndex
	for _, slot := range s.Vehicles() {
		vt, _ := s.Vehicle(slot)
		if !seen[vt.Vehicle.VehicleType] {
			seen[vt.Vehicle.VehicleType] = true
			types = append(types, vt.Vehicle.VehicleType)
		}
	}

	return types
}

func recostType(inst *instance.Instance, s *schedule.Schedule, vt instance.VehicleTypeIndex) (*schedule.Schedule, error) {
	net, source, sink, err := solveWithRelaxation(inst, coveredNodesForType(s, vt), vt)
	if err != nil {
		return s, err
	}
	paths := circulation.DecomposeFlow(net, int32(inst.NodeCount()), source, sink)

	next := s
	for _, slot := range vehiclesOfType(s, vt) {
		if deleted, err := next.DeleteVehicle(slot); err == nil {
			next = deleted
		}
	}
	for _, p := range paths {
		interior := stripDepots(p)
		if len(interior) == 0 {
			continue
		}
		if spawned, _, err := next.SpawnVehicleFor(toIntSlice(interior)); err == nil {
			next = spawned
		}
	}

	return next, nil
}

// solveWithRelaxation solves the per-type flow at the full coverage lower
// bounds, retrying at progressively weaker bounds on infeasibility: first
// multi-coverage requirements clamped to a single vehicle per node, then no
// required coverage at all. A network infeasible even with every bound gone
// is persistently unsolvable.
func solveWithRelaxation(inst *instance.Instance, covered []circulation.CoveredTrip, vt instance.VehicleTypeIndex) (*circulation.Network, int32, int32, error) {
	attempts := [][]circulation.CoveredTrip{covered, clampCoverage(covered), nil}
	for _, attempt := range attempts {
		net, source, sink := circulation.BuildTimeSpaceNetwork(inst, vt, attempt)
		_, err := circulation.Solve(net, source, sink, circulation.Options{})
		if err == nil {
			return net, source, sink, nil
		}
		if !errors.Is(err, circulation.ErrInfeasible) {
			return nil, 0, 0, err
		}
	}

	return nil, 0, 0, ErrUnsolvable
}

// clampCoverage caps every required flow at one vehicle, giving up coupled
// multi-vehicle coverage before giving up coverage entirely.
func clampCoverage(covered []circulation.CoveredTrip) []circulation.CoveredTrip {
	out := make([]circulation.CoveredTrip, len(covered))
	for i, c := range covered {
		if c.RequiredFlow > 1 {
			c.RequiredFlow = 1
		}
		out[i] = c
	}

	return out
}

func vehiclesOfType(s *schedule.Schedule, vt instance.VehicleTypeIndex) []schedule.VehicleSlot {
	var out []schedule.VehicleSlot
	for _, slot := range s.Vehicles() {
		v, _ := s.Vehicle(slot)
		if v.Vehicle.VehicleType == vt {
			out = append(out, slot)
		}
	}

	return out
}

// coveredNodesForType derives circulation.CoveredTrip lower bounds from
// every node currently served by a vehicle of type vt, so re-solving the
// flow for that type never loses coverage it already had. A node carried by
// k tours (a coupled formation, a shared maintenance slot) requires k units
// of flow, so the re-solved fleet keeps the full formation.
func coveredNodesForType(s *schedule.Schedule, vt instance.VehicleTypeIndex) []circulation.CoveredTrip {
	counts := make(map[int32]int64)
	var order []int32
	for _, slot := range vehiclesOfType(s, vt) {
		v, _ := s.Vehicle(slot)
		nodes := v.Tour.Nodes()
		for _, n := range nodes[1 : len(nodes)-1] {
			if counts[int32(n)] == 0 {
				order = append(order, int32(n))
			}
			counts[int32(n)]++
		}
	}
	covered := make([]circulation.CoveredTrip, 0, len(order))
	for _, n := range order {
		covered = append(covered, circulation.CoveredTrip{Node: n, RequiredFlow: counts[n]})
	}

	return covered
}

// stripDepots drops the arrival-node indices of the start and end depot
// from a decomposed path's visited nodes, leaving only the interior
// service-trip/maintenance path SpawnVehicleFor expects.
func stripDepots(path []int32) []int32 {
	if len(path) <= 2 {
		return nil
	}

	return path[1 : len(path)-1]
}

func toIntSlice(in []int32) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}

	return out
}
