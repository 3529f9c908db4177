package objective_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/objective"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"
)

// buildTestInstance returns a two-location, one-route, one-departure
// instance small enough to reason about by hand: a single service trip from
// location 0 to location 1, demand 10, served by a vehicle type with
// capacity 12, with unbounded depots at both locations.
func buildTestInstance(t *testing.T) *instance.Instance {
	t.Helper()

	in := instance.Input{
		VehicleTypes: []instance.VehicleType{{Name: "EMU", SeatedCapacity: 12, StandingCapacity: 0, MaxFormationLength: 2}},
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
		DeadHeadDurations: []timeutil.Duration{0, 0, 0, 0},
		DeadHeadDistances: []int64{0, 50, 50, 0},
		Params: instance.Parameters{
			Costs: instance.Costs{StaffPerSecond: 1, ServiceTripPerSecond: 1, DeadHeadPerSecond: 100, IdlePerSecond: 1},
		},
	}

	inst, err := instance.Load(in)
	require.NoError(t, err)

	return inst
}

func TestUnservedPassengers_AllDummy(t *testing.T) {
	inst := buildTestInstance(t)
	s := schedule.NewInitialSchedule(inst)

	require.Equal(t, int64(10), objective.UnservedPassengers(s))
	require.Equal(t, int64(0), objective.VehicleCount(s))
}

func TestUnservedPassengers_ServedBySpawn(t *testing.T) {
	inst := buildTestInstance(t)
	s := schedule.NewInitialSchedule(inst)

	tripNode := -1
	for i, n := range inst.Nodes {
		if n.Kind() == instance.ServiceTripNode {
			tripNode = i
		}
	}
	require.NotEqual(t, -1, tripNode)

	spawned, _, err := s.SpawnVehicleFor([]int{tripNode})
	require.NoError(t, err)

	require.Equal(t, int64(0), objective.UnservedPassengers(spawned))
	require.Equal(t, int64(1), objective.VehicleCount(spawned))
}

func TestEmptyInstance_ObjectiveVectorIsZero(t *testing.T) {
	inst, err := instance.Load(instance.Input{})
	require.NoError(t, err)

	s := schedule.NewInitialSchedule(inst)
	obj := objective.NewRollingStockObjective()
	vec := obj.Evaluate(s)

	require.Equal(t, []int64{0, 0, 0, 0}, vec)
}

func TestLess_Lexicographic(t *testing.T) {
	require.True(t, objective.Less([]int64{1, 100}, []int64{2, 0}))
	require.False(t, objective.Less([]int64{2, 0}, []int64{1, 100}))
	require.True(t, objective.Less([]int64{1, 5}, []int64{1, 6}))
	require.True(t, objective.Equal([]int64{1, 2}, []int64{1, 2}))
	require.False(t, objective.Equal([]int64{1, 2}, []int64{1, 3}))
}
