package localsearch

import (
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"
)

// Move names one candidate modification; Apply produces the resulting
// schedule or an error if the move turned out infeasible once actually
// attempted (candidates are generated optimistically from structural
// compatibility, not fully re-validated until applied).
type Move struct {
	Desc  string
	Apply func(s *schedule.Schedule) (*schedule.Schedule, error)
}

// Enumerate yields every candidate move from s, in deterministic order:
// fit/override reassign for every (provider, receiver, segment) triple,
// couple moves for under-capacity trips, maintenance visits for overdue
// vehicles, then spawn moves for long dummy tours, then delete moves for
// vehicles serving no demand.
func Enumerate(s *schedule.Schedule, opts Options) []Move {
	var moves []Move
	moves = append(moves, reassignMoves(s)...)
	moves = append(moves, coupleMoves(s)...)
	moves = append(moves, maintenanceMoves(s)...)
	moves = append(moves, spawnMoves(s, opts)...)
	moves = append(moves, deleteMoves(s)...)

	return moves
}

// reassignMoves builds fit/override reassignment candidates for every
// ordered (provider, receiver) pair of real vehicles and every contiguous
// service-trip segment of the provider's tour.
func reassignMoves(s *schedule.Schedule) []Move {
	slots := s.Vehicles()
	var moves []Move
	for _, provider := range slots {
		pv, _ := s.Vehicle(provider)
		segments := serviceTripSegments(s, pv.Tour)
		for _, receiver := range slots {
			if receiver == provider {
				continue
			}
			for _, seg := range segments {
				seg := seg
				moves = append(moves,
					Move{
						Desc: "fit_reassign",
						Apply: func(s *schedule.Schedule) (*schedule.Schedule, error) {
							return s.FitReassign(receiver, seg)
						},
					},
					Move{
						Desc: "override_reassign",
						Apply: func(s *schedule.Schedule) (*schedule.Schedule, error) {
							return s.OverrideReassign(receiver, seg)
						},
					},
				)
			}
		}
	}

	return moves
}

// serviceTripSegments enumerates every maximal-or-smaller contiguous span
// of service-trip nodes in tour's interior, as candidate provider
// segments. Maintenance nodes and depots never appear inside a segment
// (maintenance visits are their own move), and neither do trips served by
// a multi-vehicle formation: pulling a single coupled member out of a
// running formation is not a reassignment.
func serviceTripSegments(s *schedule.Schedule, t schedule.Tour) [][]int {
	inst := s.Instance
	usable := func(idx int) bool {
		return inst.Nodes[idx].Kind() == instance.ServiceTripNode && s.Formation(idx).Len() <= 1
	}
	nodes := t.Nodes()
	var segments [][]int
	for i := 1; i < len(nodes)-1; i++ {
		if !usable(nodes[i]) {
			continue
		}
		for j := i; j < len(nodes)-1 && usable(nodes[j]); j++ {
			segments = append(segments, append([]int(nil), nodes[i:j+1]...))
		}
	}

	return segments
}

// coupleMoves proposes adding one more compatible vehicle to the formation
// of each service-trip node whose demand exceeds its current formation's
// total capacity — the only way a trip heavier than a single vehicle can
// ever be fully served.
func coupleMoves(s *schedule.Schedule) []Move {
	inst := s.Instance
	var moves []Move
	for node := 0; node < inst.NodeCount(); node++ {
		n := inst.Nodes[node]
		if n.Kind() != instance.ServiceTripNode {
			continue
		}
		form := s.EffectiveFormation(node)
		if form.Len() == 0 {
			continue // unserved trips grow coverage via spawn/reassign, not coupling
		}
		var capacity int
		for _, member := range form.Vehicles() {
			if v, ok := s.Vehicle(member); ok {
				capacity += inst.VehicleType(v.Vehicle.VehicleType).Capacity()
			}
		}
		if capacity >= n.Demand {
			continue
		}
		for _, slot := range s.Vehicles() {
			if form.Contains(slot) {
				continue
			}
			v, ok := s.Vehicle(slot)
			if !ok || !n.AcceptsVehicleType(v.Vehicle.VehicleType) {
				continue
			}
			slot := slot
			node := node
			moves = append(moves, Move{
				Desc: "couple_vehicle",
				Apply: func(s *schedule.Schedule) (*schedule.Schedule, error) {
					return s.CoupleVehicle(slot, node)
				},
			})
		}
	}

	return moves
}

// maintenanceMoves proposes routing each vehicle whose accumulated distance
// exceeds the maximal distance through a maintenance slot with track
// capacity to spare.
func maintenanceMoves(s *schedule.Schedule) []Move {
	inst := s.Instance
	var moves []Move
	for _, slot := range s.Vehicles() {
		v, ok := s.Vehicle(slot)
		if !ok || v.Tour.DistanceSinceMaintenance <= inst.Params.MaximalDistance {
			continue
		}
		for node := 0; node < inst.NodeCount(); node++ {
			n := inst.Nodes[node]
			if n.Kind() != instance.MaintenanceNode {
				continue
			}
			if s.EffectiveFormation(node).Len() >= n.TrackCount {
				continue
			}
			if _, already := v.Tour.PositionOf(node); already {
				continue
			}
			slot := slot
			node := node
			moves = append(moves, Move{
				Desc: "visit_maintenance",
				Apply: func(s *schedule.Schedule) (*schedule.Schedule, error) {
					return s.AddPathToTour(slot, []int{node})
				},
			})
		}
	}

	return moves
}

// spawnMoves proposes converting each dummy tour of at least
// opts.MinDummyTourLenForSpawn service-trip nodes into a new real vehicle.
func spawnMoves(s *schedule.Schedule, opts Options) []Move {
	var moves []Move
	for _, d := range s.DummyTours() {
		if d.Len() < opts.MinDummyTourLenForSpawn {
			continue
		}
		path := d.Nodes()
		moves = append(moves, Move{
			Desc: "spawn_vehicle_for",
			Apply: func(s *schedule.Schedule) (*schedule.Schedule, error) {
				next, _, err := s.SpawnVehicleFor(path)

				return next, err
			},
		})
	}

	return moves
}

// deleteMoves proposes removing each real vehicle whose tour carries no
// service-trip node with positive demand. Deleting a vehicle that serves
// real demand always makes unserved passengers worse (its trips fall back
// to dummy tours), so those candidates are pruned here rather than wasted
// on the driver's re-evaluate step, which still rejects any emitted delete
// that fails to improve the vector.
func deleteMoves(s *schedule.Schedule) []Move {
	var moves []Move
	for _, slot := range s.Vehicles() {
		slot := slot
		vt, ok := s.Vehicle(slot)
		if !ok || servesDemand(s, vt.Tour) {
			continue
		}
		moves = append(moves, Move{
			Desc: "delete_vehicle",
			Apply: func(s *schedule.Schedule) (*schedule.Schedule, error) {
				return s.DeleteVehicle(slot)
			},
		})
	}

	return moves
}

// servesDemand reports whether any service-trip node on t has passengers to
// lose if the vehicle disappears. A trip co-served by a multi-vehicle
// formation keeps its remaining members, so it does not count.
func servesDemand(s *schedule.Schedule, t schedule.Tour) bool {
	nodes := t.Nodes()
	for _, idx := range nodes[1 : len(nodes)-1] {
		n := s.Instance.Nodes[idx]
		if n.Kind() != instance.ServiceTripNode || n.Demand == 0 {
			continue
		}
		if s.Formation(idx).Len() > 1 {
			continue
		}

		return true
	}

	return false
}
