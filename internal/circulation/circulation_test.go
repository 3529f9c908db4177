package circulation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/circulation"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"
)

// buildOneTripInstance is a two-location instance with one service trip and
// unbounded depots, small enough that the flow network has an exact hand
// solution: one unit of flow, start depot -> trip -> end depot.
func buildOneTripInstance(t *testing.T) *instance.Instance {
	t.Helper()

	in := instance.Input{
		VehicleTypes: []instance.VehicleType{{Name: "EMU", SeatedCapacity: 50, MaxFormationLength: 1}},
		Locations:    []instance.Location{{Name: "A"}, {Name: "B"}},
		Routes:       []instance.Route{{Segments: []instance.RouteSegment{{Origin: 0, Destination: 1}}}},
		Departures: []instance.Departure{{
			RouteID:           0,
			SegmentDepartures: []timeutil.Instant{1000},
			SegmentArrivals:   []timeutil.Instant{2000},
			Passengers:        []int{20},
			Seated:            []int{20},
			VehicleType:       instance.NoVehicleTypeConstraint,
		}},
		DeadHeadDurations: []timeutil.Duration{0, 0, 0, 0},
		DeadHeadDistances: []int64{0, 10, 10, 0},
		Params: instance.Parameters{
			Costs: instance.Costs{StaffPerSecond: 1, ServiceTripPerSecond: 1, DeadHeadPerSecond: 5, IdlePerSecond: 1},
		},
	}

	inst, err := instance.Load(in)
	require.NoError(t, err)

	return inst
}

func tripNodeIndex(t *testing.T, inst *instance.Instance) int32 {
	t.Helper()
	for i, n := range inst.Nodes {
		if n.Kind() == instance.ServiceTripNode {
			return int32(i)
		}
	}
	t.Fatal("no service-trip node found")

	return -1
}

func TestSolve_NoCoverageRequired_EmptyFlow(t *testing.T) {
	inst := buildOneTripInstance(t)
	net, source, sink := circulation.BuildTimeSpaceNetwork(inst, 0, nil)

	res, err := circulation.Solve(net, source, sink, circulation.Options{})
	require.NoError(t, err)
	require.Equal(t, int64(0), res.Flow)
	require.Equal(t, int64(0), res.Cost)
}

func TestSolve_RequiredCoverage_ProducesOneUnitOfFlow(t *testing.T) {
	inst := buildOneTripInstance(t)
	trip := tripNodeIndex(t, inst)
	covered := []circulation.CoveredTrip{{Node: trip, RequiredFlow: 1}}
	net, source, sink := circulation.BuildTimeSpaceNetwork(inst, 0, covered)

	res, err := circulation.Solve(net, source, sink, circulation.Options{})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Flow)
	require.Greater(t, res.Cost, int64(0))
}

func TestSolve_Infeasible_UnreachableDepot(t *testing.T) {
	// A vehicle type with no compatible depot anywhere makes any required
	// coverage infeasible: zero capacity at every depot node for type 1.
	in := instance.Input{
		VehicleTypes: []instance.VehicleType{{Name: "EMU", SeatedCapacity: 50}, {Name: "Loco", SeatedCapacity: 50}},
		Locations:    []instance.Location{{Name: "A"}, {Name: "B"}},
		Depots: []instance.Depot{
			{Location: 0, TotalCap: 5, PerTypeCap: []int{5, 0}},
			{Location: 1, TotalCap: 5, PerTypeCap: []int{5, 0}},
		},
		Routes: []instance.Route{{Segments: []instance.RouteSegment{{Origin: 0, Destination: 1}}}},
		Departures: []instance.Departure{{
			RouteID:           0,
			SegmentDepartures: []timeutil.Instant{0},
			SegmentArrivals:   []timeutil.Instant{100},
			Passengers:        []int{10},
			Seated:            []int{10},
			VehicleType:       1,
		}},
		DeadHeadDurations: []timeutil.Duration{0, 0, 0, 0},
		DeadHeadDistances: []int64{0, 0, 0, 0},
	}
	inst, err := instance.Load(in)
	require.NoError(t, err)

	trip := tripNodeIndex(t, inst)
	covered := []circulation.CoveredTrip{{Node: trip, RequiredFlow: 1}}
	net, source, sink := circulation.BuildTimeSpaceNetwork(inst, 1, covered)

	_, err = circulation.Solve(net, source, sink, circulation.Options{})
	require.ErrorIs(t, err, circulation.ErrInfeasible)
}

func TestDecomposeFlow_ReconstructsDepotToDepotPath(t *testing.T) {
	inst := buildOneTripInstance(t)
	trip := tripNodeIndex(t, inst)
	covered := []circulation.CoveredTrip{{Node: trip, RequiredFlow: 1}}
	net, source, sink := circulation.BuildTimeSpaceNetwork(inst, 0, covered)

	res, err := circulation.Solve(net, source, sink, circulation.Options{})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Flow)

	paths := circulation.DecomposeFlow(net, int32(inst.NodeCount()), source, sink)
	require.Len(t, paths, 1)
	require.Len(t, paths[0], 3) // start depot, trip, end depot
	require.Equal(t, trip, paths[0][1])
	require.True(t, inst.Nodes[paths[0][0]].Kind() == instance.StartDepotNode)
	require.True(t, inst.Nodes[paths[0][2]].Kind() == instance.EndDepotNode)
}
