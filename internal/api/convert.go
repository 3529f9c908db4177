package api

import (
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/objective"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"
)

// toInstanceInput translates the wire DTO into instance.Input, the
// plain-Go shape instance.Load validates; nothing below that seam touches
// encoding/json.
func toInstanceInput(req SolveRequest) instance.Input {
	vehicleTypes := make([]instance.VehicleType, len(req.VehicleTypes))
	for i, vt := range req.VehicleTypes {
		vehicleTypes[i] = instance.VehicleType{
			Name:               vt.Name,
			SeatedCapacity:     vt.SeatedCapacity,
			StandingCapacity:   vt.StandingCapacity,
			MaxFormationLength: vt.MaxFormationLength,
		}
	}

	locations := make([]instance.Location, len(req.Locations))
	for i, l := range req.Locations {
		locations[i] = instance.Location{Name: l.Name, HasDayLimit: l.HasDayLimit, DayLimit: l.DayLimit}
	}

	var depots []instance.Depot
	for _, d := range req.Depots {
		depots = append(depots, instance.Depot{
			Location:   instance.LocationIndex(d.Location),
			TotalCap:   d.TotalCapacity,
			PerTypeCap: append([]int(nil), d.PerTypeCapacity...),
		})
	}

	routes := make([]instance.Route, len(req.Routes))
	for i, r := range req.Routes {
		segs := make([]instance.RouteSegment, len(r.Segments))
		for j, s := range r.Segments {
			segs[j] = instance.RouteSegment{Origin: instance.LocationIndex(s.Origin), Destination: instance.LocationIndex(s.Destination)}
		}
		routes[i] = instance.Route{Segments: segs}
	}

	departures := make([]instance.Departure, len(req.Departures))
	for i, d := range req.Departures {
		vt := instance.NoVehicleTypeConstraint
		if d.VehicleType != nil {
			vt = instance.VehicleTypeIndex(*d.VehicleType)
		}
		departures[i] = instance.Departure{
			RouteID:           d.RouteID,
			SegmentDepartures: toInstants(d.SegmentDepartures),
			SegmentArrivals:   toInstants(d.SegmentArrivals),
			Passengers:        append([]int(nil), d.Passengers...),
			Seated:            append([]int(nil), d.Seated...),
			VehicleType:       vt,
		}
	}

	maintenance := make([]instance.MaintenanceSlotInput, len(req.MaintenanceSlots))
	for i, m := range req.MaintenanceSlots {
		maintenance[i] = instance.MaintenanceSlotInput{
			Location:   instance.LocationIndex(m.Location),
			Start:      timeutil.Instant(m.Start),
			End:        timeutil.Instant(m.End),
			TrackCount: m.TrackCount,
		}
	}

	n := len(locations)
	durations := make([]timeutil.Duration, 0, n*n)
	distances := make([]int64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var dur int64
			var dist int64
			if i < len(req.DeadHeadTrips.DurationsSeconds) && j < len(req.DeadHeadTrips.DurationsSeconds[i]) {
				dur = req.DeadHeadTrips.DurationsSeconds[i][j]
			}
			if i < len(req.DeadHeadTrips.DistancesMeters) && j < len(req.DeadHeadTrips.DistancesMeters[i]) {
				dist = req.DeadHeadTrips.DistancesMeters[i][j]
			}
			durations = append(durations, timeutil.Duration(dur))
			distances = append(distances, dist)
		}
	}

	p := req.Parameters

	return instance.Input{
		VehicleTypes:      vehicleTypes,
		Locations:         locations,
		Depots:            depots,
		Routes:            routes,
		Departures:        departures,
		MaintenanceSlots:  maintenance,
		DeadHeadDurations: durations,
		DeadHeadDistances: distances,
		Params: instance.Parameters{
			ForbidDeadHeadTrips: p.ForbidDeadHeadTrips,
			ShuntingDuration:    timeutil.Duration(p.ShuntingDurationSeconds),
			MaximalDistance:     p.MaximalDistance,
			Costs: instance.Costs{
				StaffPerSecond:       p.StaffPerSecond,
				ServiceTripPerSecond: p.ServiceTripPerSecond,
				MaintenancePerSecond: p.MaintenancePerSecond,
				DeadHeadPerSecond:    p.DeadHeadTripPerSecond,
				IdlePerSecond:        p.IdlePerSecond,
			},
		},
	}
}

func toInstants(in []int64) []timeutil.Instant {
	out := make([]timeutil.Instant, len(in))
	for i, v := range in {
		out[i] = timeutil.Instant(v)
	}

	return out
}

// buildResponse assembles the output JSON from a solved schedule: the
// info block, the objective vector, depot loads, the per-vehicle fleet
// grouping, the next-day cycles, and the trip-perspective dual views.
func buildResponse(inst *instance.Instance, result objective.EvaluatedSchedule, threads int, runningTimeMillis int64, timestamp, hostname string) SolveResponse {
	s := result.Schedule
	vec := result.Vector
	objVal := ObjectiveValueDTO{}
	if len(vec) > 0 {
		objVal.UnservedPassengers = vec[0]
	}
	if len(vec) > 1 {
		objVal.MaintenanceViolation = vec[1]
	}
	if len(vec) > 2 {
		objVal.VehicleCount = vec[2]
	}
	if len(vec) > 3 {
		objVal.OperatingCost = vec[3]
	}

	return SolveResponse{
		Info: InfoDTO{
			RunningTimeMillis: runningTimeMillis,
			NumberOfThreads:   threads,
			Timestamp:         timestamp,
			Hostname:          hostname,
		},
		ObjectiveValue: objVal,
		Schedule:       buildScheduleDTO(inst, s),
	}
}

func buildScheduleDTO(inst *instance.Instance, s *schedule.Schedule) ScheduleDTO {
	return ScheduleDTO{
		DepotLoads:        buildDepotLoads(inst, s),
		Fleet:             buildFleet(inst, s),
		VehicleCycles:     buildCycles(s),
		DepartureSegments: buildDepartureSegmentViews(inst, s),
		MaintenanceSlots:  buildMaintenanceViews(inst, s),
		DeadHeadTrips:     buildDeadHeadViews(inst, s),
	}
}

func buildDepotLoads(inst *instance.Instance, s *schedule.Schedule) []DepotLoadDTO {
	var out []DepotLoadDTO
	ledger := s.Ledger()
	for d := range inst.Depots {
		for vt := range inst.VehicleTypes {
			depot := instance.DepotIndex(d)
			vti := instance.VehicleTypeIndex(vt)
			start := ledger.StartCount(depot, vti)
			end := ledger.EndCount(depot, vti)
			if start == 0 && end == 0 {
				continue
			}
			out = append(out, DepotLoadDTO{
				Location:    int(inst.Depots[d].Location),
				VehicleType: inst.VehicleType(vti).Name,
				Starting:    start,
				Ending:      end,
			})
		}
	}

	return out
}

func buildFleet(inst *instance.Instance, s *schedule.Schedule) []FleetGroupDTO {
	byType := make(map[instance.VehicleTypeIndex][]VehicleFleetEntryDTO)
	var order []instance.VehicleTypeIndex
	seen := make(map[instance.VehicleTypeIndex]bool)

	for _, slot := range s.Vehicles() {
		vt, ok := s.Vehicle(slot)
		if !ok {
			continue
		}
		entry := VehicleFleetEntryDTO{VehicleID: vt.Vehicle.ID.String()}
		nodes := vt.Tour.Nodes()
		for i, idx := range nodes {
			n := inst.Nodes[idx]
			switch n.Kind() {
			case instance.ServiceTripNode:
				entry.DepartureSegments = append(entry.DepartureSegments, DepartureSegmentRefDTO{
					RouteID: n.RouteID, SegmentIndex: n.SegmentIndex, Departure: n.StartTime().Seconds(),
				})
			case instance.MaintenanceNode:
				entry.MaintenanceSlots = append(entry.MaintenanceSlots, MaintenanceRefDTO{
					Location: int(n.StartLocation()), Start: n.StartTime().Seconds(),
				})
			}
			if i+1 < len(nodes) {
				next := inst.Nodes[nodes[i+1]]
				if n.EndLocation() != next.StartLocation() {
					entry.DeadHeadTrips = append(entry.DeadHeadTrips, DeadHeadRefDTO{
						From: int(n.EndLocation()), To: int(next.StartLocation()), Departure: transitionDeparture(n, next),
					})
				}
			}
		}
		vtIdx := vt.Vehicle.VehicleType
		if !seen[vtIdx] {
			seen[vtIdx] = true
			order = append(order, vtIdx)
		}
		byType[vtIdx] = append(byType[vtIdx], entry)
	}

	out := make([]FleetGroupDTO, 0, len(order))
	for _, vtIdx := range order {
		out = append(out, FleetGroupDTO{VehicleType: inst.VehicleType(vtIdx).Name, Vehicles: byType[vtIdx]})
	}

	return out
}

func buildCycles(s *schedule.Schedule) [][]string {
	var out [][]string
	for _, cyc := range s.Cycles().Cycles() {
		var ids []string
		for _, slot := range cyc {
			if vt, ok := s.Vehicle(slot); ok {
				ids = append(ids, vt.Vehicle.ID.String())
			}
		}
		out = append(out, ids)
	}

	return out
}

// transitionDeparture picks the timestamp a dead-head leg between n and next
// is reported under: n's own end time, unless n is a depot sentinel (±∞),
// in which case next's start time stands in — a tour's first leg departs
// "whenever next needs it," not at a literal start-of-time instant.
func transitionDeparture(n, next instance.Node) int64 {
	if n.EndTime().IsInf() {
		return next.StartTime().Seconds()
	}

	return n.EndTime().Seconds()
}

func formationIDs(inst *instance.Instance, s *schedule.Schedule, nodeIdx int) []string {
	form := s.EffectiveFormation(nodeIdx)
	ids := make([]string, 0, form.Len())
	for _, slot := range form.Vehicles() {
		if vt, ok := s.Vehicle(slot); ok {
			ids = append(ids, vt.Vehicle.ID.String())
		}
	}

	return ids
}

func buildDepartureSegmentViews(inst *instance.Instance, s *schedule.Schedule) []DepartureSegmentViewDTO {
	var out []DepartureSegmentViewDTO
	for i := 0; i < inst.NodeCount(); i++ {
		n := inst.Nodes[i]
		if n.Kind() != instance.ServiceTripNode {
			continue
		}
		out = append(out, DepartureSegmentViewDTO{
			RouteID: n.RouteID, SegmentIndex: n.SegmentIndex, Departure: n.StartTime().Seconds(),
			Formation: formationIDs(inst, s, i),
		})
	}

	return out
}

func buildMaintenanceViews(inst *instance.Instance, s *schedule.Schedule) []MaintenanceViewDTO {
	var out []MaintenanceViewDTO
	for i := 0; i < inst.NodeCount(); i++ {
		n := inst.Nodes[i]
		if n.Kind() != instance.MaintenanceNode {
			continue
		}
		out = append(out, MaintenanceViewDTO{
			Location: int(n.StartLocation()), Start: n.StartTime().Seconds(),
			Formation: formationIDs(inst, s, i),
		})
	}

	return out
}

// buildDeadHeadViews mirrors buildFleet's dead-head extraction but from the
// trip perspective: one entry per empty-repositioning leg actually driven,
// with the single vehicle that drove it as its (length-one) formation —
// dead-head legs are never split across a multi-vehicle formation, unlike
// service trips and maintenance slots.
func buildDeadHeadViews(inst *instance.Instance, s *schedule.Schedule) []DeadHeadViewDTO {
	var out []DeadHeadViewDTO
	for _, slot := range s.Vehicles() {
		vt, ok := s.Vehicle(slot)
		if !ok {
			continue
		}
		nodes := vt.Tour.Nodes()
		for i := 0; i+1 < len(nodes); i++ {
			n := inst.Nodes[nodes[i]]
			next := inst.Nodes[nodes[i+1]]
			if n.EndLocation() == next.StartLocation() {
				continue
			}
			out = append(out, DeadHeadViewDTO{
				From: int(n.EndLocation()), To: int(next.StartLocation()), Departure: transitionDeparture(n, next),
				Formation: []string{vt.Vehicle.ID.String()},
			})
		}
	}

	return out
}
