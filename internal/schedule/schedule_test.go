package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/persist"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"
)

// buildTwoTripInstance mirrors the local-search package's fixture: two
// back-to-back, non-overlapping service trips on the same route, coverable
// by a single vehicle.
func buildTwoTripInstance(t *testing.T) *instance.Instance {
	t.Helper()

	in := instance.Input{
		VehicleTypes: []instance.VehicleType{{Name: "EMU", SeatedCapacity: 50, MaxFormationLength: 1}},
		Locations:    []instance.Location{{Name: "A"}, {Name: "B"}},
		Routes:       []instance.Route{{Segments: []instance.RouteSegment{{Origin: 0, Destination: 1}}}},
		Departures: []instance.Departure{
			{
				RouteID:           0,
				SegmentDepartures: []timeutil.Instant{0},
				SegmentArrivals:   []timeutil.Instant{100},
				Passengers:        []int{10},
				Seated:            []int{10},
				VehicleType:       instance.NoVehicleTypeConstraint,
			},
			{
				RouteID:           0,
				SegmentDepartures: []timeutil.Instant{1000},
				SegmentArrivals:   []timeutil.Instant{1100},
				Passengers:        []int{10},
				Seated:            []int{10},
				VehicleType:       instance.NoVehicleTypeConstraint,
			},
		},
		DeadHeadDurations: []timeutil.Duration{0, 0, 0, 0},
		DeadHeadDistances: []int64{0, 10, 10, 0},
	}
	inst, err := instance.Load(in)
	require.NoError(t, err)

	return inst
}

func tripNodes(inst *instance.Instance) []int {
	var out []int
	for i, n := range inst.Nodes {
		if n.Kind() == instance.ServiceTripNode {
			out = append(out, i)
		}
	}

	return out
}

func TestNewInitialSchedule_OneDummyPerTrip(t *testing.T) {
	inst := buildTwoTripInstance(t)
	s := schedule.NewInitialSchedule(inst)

	require.Equal(t, 0, s.VehicleCount())
	require.Len(t, s.DummyTours(), 2)
	for _, d := range s.DummyTours() {
		require.Equal(t, 1, d.Len())
	}
}

func TestSpawnVehicleFor_RemovesDummyAndUpdatesLedger(t *testing.T) {
	inst := buildTwoTripInstance(t)
	s := schedule.NewInitialSchedule(inst)
	trips := tripNodes(inst)

	spawned, slot, err := s.SpawnVehicleFor([]int{trips[0]})
	require.NoError(t, err)
	require.Equal(t, 1, spawned.VehicleCount())
	require.Len(t, spawned.DummyTours(), 1, "the spawned trip's dummy tour is consumed")

	vt, ok := spawned.Vehicle(slot)
	require.True(t, ok)
	require.Equal(t, 1, vt.Tour.Len()-2, "tour wraps the single trip with a start and end depot")

	startDepotNode := inst.Nodes[vt.Tour.StartDepot()]
	require.Equal(t, 1, spawned.Ledger().StartCount(startDepotNode.Depot, vt.Vehicle.VehicleType))
}

func TestSpawnVehicleFor_BothTripsOntoOneVehicle(t *testing.T) {
	inst := buildTwoTripInstance(t)
	s := schedule.NewInitialSchedule(inst)
	trips := tripNodes(inst)

	spawned, _, err := s.SpawnVehicleFor(trips)
	require.NoError(t, err)
	require.Equal(t, 1, spawned.VehicleCount())
	require.Empty(t, spawned.DummyTours())
}

func TestDeleteVehicle_ReturnsNodesToDummyTours(t *testing.T) {
	inst := buildTwoTripInstance(t)
	s := schedule.NewInitialSchedule(inst)
	trips := tripNodes(inst)

	spawned, slot, err := s.SpawnVehicleFor([]int{trips[0]})
	require.NoError(t, err)

	deleted, err := spawned.DeleteVehicle(slot)
	require.NoError(t, err)
	require.Equal(t, 0, deleted.VehicleCount())
	require.Len(t, deleted.DummyTours(), 2, "the deleted vehicle's trip becomes a fresh dummy tour again")
}

func TestDeleteVehicle_UnknownSlot_Errors(t *testing.T) {
	inst := buildTwoTripInstance(t)
	s := schedule.NewInitialSchedule(inst)

	_, err := s.DeleteVehicle(schedule.VehicleSlot(999))
	require.Error(t, err)
}

func TestFitReassign_MovesTripBetweenVehicles(t *testing.T) {
	inst := buildTwoTripInstance(t)
	s := schedule.NewInitialSchedule(inst)
	trips := tripNodes(inst)

	withFirst, providerSlot, err := s.SpawnVehicleFor([]int{trips[0]})
	require.NoError(t, err)
	withBoth, receiverSlot, err := withFirst.SpawnVehicleFor([]int{trips[1]})
	require.NoError(t, err)
	require.NotEqual(t, providerSlot, receiverSlot)

	reassigned, err := withBoth.FitReassign(receiverSlot, []int{trips[0]})
	require.NoError(t, err)

	receiverTour, ok := reassigned.Vehicle(receiverSlot)
	require.True(t, ok)
	require.Contains(t, receiverTour.Tour.Nodes(), trips[0])
}

func TestCycles_CoverEveryRealVehicle(t *testing.T) {
	inst := buildTwoTripInstance(t)
	s := schedule.NewInitialSchedule(inst)
	trips := tripNodes(inst)

	withFirst, _, err := s.SpawnVehicleFor([]int{trips[0]})
	require.NoError(t, err)
	withBoth, _, err := withFirst.SpawnVehicleFor([]int{trips[1]})
	require.NoError(t, err)

	covered := make(map[schedule.VehicleSlot]int)
	for _, cyc := range withBoth.Cycles().Cycles() {
		for _, slot := range cyc {
			covered[slot]++
		}
	}
	require.Len(t, covered, 2, "the next-day mapping partitions the whole fleet")
	for slot, count := range covered {
		require.Equal(t, 1, count, "vehicle %d appears in exactly one cycle", slot)
	}
}

func TestDeleteVehicle_ShrinksCyclesWithFleet(t *testing.T) {
	inst := buildTwoTripInstance(t)
	s := schedule.NewInitialSchedule(inst)
	trips := tripNodes(inst)

	spawned, slot, err := s.SpawnVehicleFor([]int{trips[0]})
	require.NoError(t, err)
	require.NotEmpty(t, spawned.Cycles().Cycles())

	deleted, err := spawned.DeleteVehicle(slot)
	require.NoError(t, err)
	require.Empty(t, deleted.Cycles().Cycles(), "no real vehicles, no next-day cycles")
}

// buildCoupleInstance allows two-vehicle formations: same two-trip shape as
// buildTwoTripInstance but with formation length 2.
func buildCoupleInstance(t *testing.T) *instance.Instance {
	t.Helper()

	in := instance.Input{
		VehicleTypes: []instance.VehicleType{{Name: "EMU", SeatedCapacity: 50, MaxFormationLength: 2}},
		Locations:    []instance.Location{{Name: "A"}, {Name: "B"}},
		Routes:       []instance.Route{{Segments: []instance.RouteSegment{{Origin: 0, Destination: 1}}}},
		Departures: []instance.Departure{
			{
				RouteID:           0,
				SegmentDepartures: []timeutil.Instant{0},
				SegmentArrivals:   []timeutil.Instant{100},
				Passengers:        []int{80},
				Seated:            []int{40},
				VehicleType:       instance.NoVehicleTypeConstraint,
			},
			{
				RouteID:           0,
				SegmentDepartures: []timeutil.Instant{1000},
				SegmentArrivals:   []timeutil.Instant{1100},
				Passengers:        []int{80},
				Seated:            []int{40},
				VehicleType:       instance.NoVehicleTypeConstraint,
			},
		},
		DeadHeadDurations: []timeutil.Duration{0, 0, 0, 0},
		DeadHeadDistances: []int64{0, 10, 10, 0},
	}
	inst, err := instance.Load(in)
	require.NoError(t, err)

	return inst
}

func TestCoupleVehicle_GrowsFormation(t *testing.T) {
	inst := buildCoupleInstance(t)
	s := schedule.NewInitialSchedule(inst)
	trips := tripNodes(inst)

	withFirst, v1, err := s.SpawnVehicleFor([]int{trips[0]})
	require.NoError(t, err)
	withBoth, v2, err := withFirst.SpawnVehicleFor([]int{trips[1]})
	require.NoError(t, err)

	coupled, err := withBoth.CoupleVehicle(v2, trips[0])
	require.NoError(t, err)

	form := coupled.EffectiveFormation(trips[0])
	require.Equal(t, 2, form.Len())
	require.True(t, form.Contains(v1))
	require.True(t, form.Contains(v2))

	v2t, ok := coupled.Vehicle(v2)
	require.True(t, ok)
	_, inTour := v2t.Tour.PositionOf(trips[0])
	require.True(t, inTour, "the coupled vehicle's own tour runs the trip")

	_, err = coupled.CoupleVehicle(v1, trips[0])
	require.Error(t, err, "a formation member cannot couple twice")
}

func TestCoupleVehicle_RespectsMaxFormationLength(t *testing.T) {
	inst := buildTwoTripInstance(t) // formation length capped at 1
	s := schedule.NewInitialSchedule(inst)
	trips := tripNodes(inst)

	withFirst, _, err := s.SpawnVehicleFor([]int{trips[0]})
	require.NoError(t, err)
	withBoth, v2, err := withFirst.SpawnVehicleFor([]int{trips[1]})
	require.NoError(t, err)

	_, err = withBoth.CoupleVehicle(v2, trips[0])
	require.ErrorIs(t, err, schedule.ErrInfeasibleModification)
}

func TestDeleteVehicle_CoupledTripStaysServed(t *testing.T) {
	inst := buildCoupleInstance(t)
	s := schedule.NewInitialSchedule(inst)
	trips := tripNodes(inst)

	withFirst, v1, err := s.SpawnVehicleFor([]int{trips[0]})
	require.NoError(t, err)
	withBoth, v2, err := withFirst.SpawnVehicleFor([]int{trips[1]})
	require.NoError(t, err)
	coupled, err := withBoth.CoupleVehicle(v2, trips[0])
	require.NoError(t, err)

	deleted, err := coupled.DeleteVehicle(v2)
	require.NoError(t, err)

	require.Equal(t, 1, deleted.EffectiveFormation(trips[0]).Len(), "the remaining member keeps covering the coupled trip")
	require.Len(t, deleted.DummyTours(), 1, "only the trip served by the deleted vehicle alone falls back to a dummy")
	require.True(t, deleted.EffectiveFormation(trips[0]).Contains(v1))
}

func TestRebuildCycles_ChainsAcrossDepotPairs(t *testing.T) {
	// Two vehicles with mirrored depot endpoints (A->B and B->A): the only
	// valid next-day mapping is the 2-cycle pairing them, never self-loops.
	inst, err := instance.Load(instance.Input{
		VehicleTypes:      []instance.VehicleType{{Name: "EMU", SeatedCapacity: 10}},
		Locations:         []instance.Location{{Name: "A"}, {Name: "B"}},
		DeadHeadDurations: make([]timeutil.Duration, 4),
		DeadHeadDistances: make([]int64, 4),
	})
	require.NoError(t, err)

	depotNode := func(kind instance.NodeKind, depot instance.DepotIndex) int {
		for i, n := range inst.Nodes {
			if n.Kind() == kind && n.Depot == depot {
				return i
			}
		}
		t.Fatalf("no %v node for depot %d", kind, depot)

		return -1
	}

	tourAB, err := schedule.NewTour(inst.Network, depotNode(instance.StartDepotNode, 0), nil, depotNode(instance.EndDepotNode, 1))
	require.NoError(t, err)
	tourBA, err := schedule.NewTour(inst.Network, depotNode(instance.StartDepotNode, 1), nil, depotNode(instance.EndDepotNode, 0))
	require.NoError(t, err)

	vehicles := persist.NewMap[schedule.VehicleAndTour]()
	vehicles = vehicles.Set(0, schedule.VehicleAndTour{Vehicle: schedule.Vehicle{VehicleType: 0}, Tour: tourAB})
	vehicles = vehicles.Set(1, schedule.VehicleAndTour{Vehicle: schedule.Vehicle{VehicleType: 0}, Tour: tourBA})

	cm := schedule.RebuildCycles(vehicles, inst.Depots, inst.Nodes)

	next0, ok := cm.Next(0)
	require.True(t, ok)
	require.Equal(t, schedule.VehicleSlot(1), next0, "A->B's successor must start where it ended")
	next1, ok := cm.Next(1)
	require.True(t, ok)
	require.Equal(t, schedule.VehicleSlot(0), next1)
}

func TestAddPathToTour_MaintenanceVisitResetsDistance(t *testing.T) {
	inst, err := instance.Load(instance.Input{
		VehicleTypes: []instance.VehicleType{{Name: "EMU", SeatedCapacity: 50}},
		Locations:    []instance.Location{{Name: "A"}, {Name: "B"}},
		Routes:       []instance.Route{{Segments: []instance.RouteSegment{{Origin: 0, Destination: 1}}}},
		Departures: []instance.Departure{{
			RouteID:           0,
			SegmentDepartures: []timeutil.Instant{0},
			SegmentArrivals:   []timeutil.Instant{100},
			Passengers:        []int{10},
			Seated:            []int{10},
			VehicleType:       instance.NoVehicleTypeConstraint,
		}},
		MaintenanceSlots: []instance.MaintenanceSlotInput{{
			Location: 1, Start: 200, End: 300, TrackCount: 1,
		}},
		DeadHeadDurations: []timeutil.Duration{0, 0, 0, 0},
		DeadHeadDistances: []int64{0, 50, 50, 0},
	})
	require.NoError(t, err)

	var trip, maint int
	for i, n := range inst.Nodes {
		switch n.Kind() {
		case instance.ServiceTripNode:
			trip = i
		case instance.MaintenanceNode:
			maint = i
		}
	}

	s := schedule.NewInitialSchedule(inst)
	spawned, slot, err := s.SpawnVehicleFor([]int{trip})
	require.NoError(t, err)
	before, _ := spawned.Vehicle(slot)

	visited, err := spawned.AddPathToTour(slot, []int{maint})
	require.NoError(t, err)

	after, ok := visited.Vehicle(slot)
	require.True(t, ok)
	_, inTour := after.Tour.PositionOf(maint)
	require.True(t, inTour)
	require.Less(t, after.Tour.DistanceSinceMaintenance, before.Tour.DistanceSinceMaintenance,
		"visiting maintenance resets the accumulated distance")
	require.Equal(t, 1, visited.EffectiveFormation(maint).Len())
}

func TestLedger_FitsCapacity_RespectsPerTypeAndTotal(t *testing.T) {
	depots := []instance.Depot{{Location: 0, TotalCap: 1, PerTypeCap: []int{1}}}
	l := schedule.NewLedger()

	require.True(t, l.FitsCapacity(depots, 0, 0, true))
	l = l.WithStartDelta(0, 0, 1)
	require.False(t, l.FitsCapacity(depots, 0, 0, true), "a single-slot depot is full after one vehicle starts there")
}
