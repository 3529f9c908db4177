package objective

import (
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"
)

// NewRollingStockObjective builds the concrete four-level objective:
// unserved passengers, then maintenance violation, then vehicle count,
// then operating cost — in that lexicographic order.
func NewRollingStockObjective() HierarchicalObjective {
	return NewHierarchicalObjective(
		NewLevel("unservedPassengers", newIndicator("unservedPassengers", UnservedPassengers)),
		NewLevel("maintenanceViolation", newIndicator("maintenanceViolation", MaintenanceViolation)),
		NewLevel("vehicleCount", newIndicator("vehicleCount", VehicleCount)),
		NewLevel("operatingCost", newIndicator("operatingCost", OperatingCost)),
	)
}

// UnservedPassengers sums, over every service-trip node, how far its
// assigned formation's total capacity falls short of its demand.
func UnservedPassengers(s *schedule.Schedule) int64 {
	inst := s.Instance
	var total int64
	for i := 0; i < inst.NodeCount(); i++ {
		n := inst.Nodes[i]
		if n.Kind() != instance.ServiceTripNode {
			continue
		}
		capacity := formationCapacity(s, i)
		if shortfall := int64(n.Demand) - capacity; shortfall > 0 {
			total += shortfall
		}
	}

	return total
}

// formationCapacity sums the seated+standing capacity of every vehicle
// currently serving node i.
func formationCapacity(s *schedule.Schedule, i int) int64 {
	form := s.EffectiveFormation(i)
	var cap int64
	for _, slot := range form.Vehicles() {
		vt, ok := s.Vehicle(slot)
		if !ok {
			continue
		}
		cap += int64(s.Instance.VehicleType(vt.Vehicle.VehicleType).Capacity())
	}

	return cap
}

// MaintenanceViolation sums, over every real vehicle, how far its tour's
// accumulated distance since the last maintenance reset exceeds the
// instance's maximal distance.
func MaintenanceViolation(s *schedule.Schedule) int64 {
	max := s.Instance.Params.MaximalDistance
	var total int64
	for _, slot := range s.Vehicles() {
		vt, _ := s.Vehicle(slot)
		if over := vt.Tour.DistanceSinceMaintenance - max; over > 0 {
			total += over
		}
	}

	return total
}

// VehicleCount returns the number of real vehicles.
func VehicleCount(s *schedule.Schedule) int64 {
	return int64(s.VehicleCount())
}

// OperatingCost sums staff, per-vehicle service-trip, maintenance,
// dead-head, and idle costs across the whole schedule. Dead-head's
// per-second rate is configured to dominate staff+service
// so hitch-hiking on an existing service trip is always preferred over
// empty repositioning — an instance-data property this indicator merely
// sums, never enforces.
func OperatingCost(s *schedule.Schedule) int64 {
	inst := s.Instance
	costs := inst.Params.Costs
	var total int64

	for i := 0; i < inst.NodeCount(); i++ {
		n := inst.Nodes[i]
		switch n.Kind() {
		case instance.ServiceTripNode:
			secs := n.StartTime().Sub(n.EndTime()).Seconds()
			form := s.EffectiveFormation(i)
			if form.Len() == 0 {
				continue // unserved trip: no train runs, no staff to pay
			}
			total += costs.StaffPerSecond * secs
			total += costs.ServiceTripPerSecond * secs * int64(form.Len())
		case instance.MaintenanceNode:
			secs := n.StartTime().Sub(n.EndTime()).Seconds()
			form := s.EffectiveFormation(i)
			total += costs.MaintenancePerSecond * secs * int64(form.Len())
		}
	}

	for _, slot := range s.Vehicles() {
		vt, _ := s.Vehicle(slot)
		nodes := vt.Tour.Nodes()
		for k := 0; k+1 < len(nodes); k++ {
			u := inst.Nodes[nodes[k]]
			v := inst.Nodes[nodes[k+1]]
			dhDur, _ := inst.Network.DeadHeadBetween(u.EndLocation(), v.StartLocation())
			if dhDur.IsInf() {
				continue
			}
			total += costs.DeadHeadPerSecond * dhDur.Seconds()

			if u.IsDepot() || v.IsDepot() {
				continue // depot transitions have no meaningful idle window
			}
			gap, ok := u.EndTime().TrySub(v.StartTime())
			if !ok {
				continue
			}
			if idle := gap.Seconds() - dhDur.Seconds(); idle > 0 {
				total += costs.IdlePerSecond * idle
			}
		}
	}

	return total
}
