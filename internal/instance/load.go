package instance

import (
	"math"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"
)

// UnboundedCapacity stands in for "no capacity limit" when depots are
// absent from the input, in which case every location becomes an unbounded
// depot for every type. A finite sentinel (rather than a separate bool flag
// on every capacity check) keeps Schedule's ledger-vs-capacity comparison a
// single, branch-free `<=`.
const UnboundedCapacity = math.MaxInt32

// RouteSegment is one leg of a Route: a scheduled movement between two
// locations.
type RouteSegment struct {
	Origin      LocationIndex
	Destination LocationIndex
}

// Route is an ordered chain of segments; segment i's destination must equal
// segment i+1's origin.
type Route struct {
	Segments []RouteSegment
}

// Departure instantiates a Route at a concrete time, with one departure
// instant, arrival instant, passenger count and seated count per segment.
type Departure struct {
	RouteID           int
	SegmentDepartures []timeutil.Instant
	SegmentArrivals   []timeutil.Instant
	Passengers        []int
	Seated            []int
	VehicleType       VehicleTypeIndex // NoVehicleTypeConstraint if any type may serve it
}

// MaintenanceSlotInput describes one maintenance opportunity.
type MaintenanceSlotInput struct {
	Location   LocationIndex
	Start      timeutil.Instant
	End        timeutil.Instant
	TrackCount int
}

// Input is the fully-parsed, still-unvalidated instance description. The
// JSON (de)serialization seam (internal/api) is responsible for decoding
// the wire format into this shape; everything below this line operates on
// plain Go values and has nothing to do with encoding/json.
type Input struct {
	VehicleTypes     []VehicleType
	Locations        []Location
	Depots           []Depot // nil/empty => unbounded depot at every location
	Routes           []Route
	Departures       []Departure
	MaintenanceSlots []MaintenanceSlotInput
	DeadHeadDurations []timeutil.Duration // row-major, len(Locations)^2
	DeadHeadDistances []int64             // row-major, len(Locations)^2
	Params           Parameters
}

// Load validates and compiles an Input into an immutable Instance, failing
// on missing references, inconsistent route chains, segment-count
// mismatches, and a malformed dead-head matrix.
func Load(in Input) (*Instance, error) {
	numLocations := len(in.Locations)
	numVehicleTypes := len(in.VehicleTypes)

	if err := validateRoutes(in.Routes); err != nil {
		return nil, err
	}

	depots := in.Depots
	if len(depots) == 0 {
		depots = make([]Depot, numLocations)
		for i := range depots {
			perType := make([]int, numVehicleTypes)
			for t := range perType {
				perType[t] = UnboundedCapacity
			}
			depots[i] = Depot{Location: LocationIndex(i), TotalCap: UnboundedCapacity, PerTypeCap: perType}
		}
	}
	for _, d := range depots {
		if int(d.Location) < 0 || int(d.Location) >= numLocations {
			return nil, ErrMissingReference
		}
	}

	deadHead, err := NewDeadHeadTable(numLocations, in.DeadHeadDurations, in.DeadHeadDistances)
	if err != nil {
		return nil, err
	}

	var nodes []Node
	for d := range depots {
		for vt := 0; vt < numVehicleTypes; vt++ {
			if depots[d].CapacityFor(VehicleTypeIndex(vt)) <= 0 {
				continue
			}
			nodes = append(nodes, NewStartDepotNode(DepotIndex(d), depots[d].Location, VehicleTypeIndex(vt)))
			nodes = append(nodes, NewEndDepotNode(DepotIndex(d), depots[d].Location, VehicleTypeIndex(vt)))
		}
	}

	for _, dep := range in.Departures {
		if dep.RouteID < 0 || dep.RouteID >= len(in.Routes) {
			return nil, ErrMissingReference
		}
		route := in.Routes[dep.RouteID]
		n := len(route.Segments)
		if len(dep.SegmentDepartures) != n || len(dep.SegmentArrivals) != n ||
			len(dep.Passengers) != n || len(dep.Seated) != n {
			return nil, ErrSegmentCountMismatch
		}
		if dep.VehicleType != NoVehicleTypeConstraint && (int(dep.VehicleType) < 0 || int(dep.VehicleType) >= numVehicleTypes) {
			return nil, ErrMissingReference
		}
		for i, seg := range route.Segments {
			if int(seg.Origin) < 0 || int(seg.Origin) >= numLocations || int(seg.Destination) < 0 || int(seg.Destination) >= numLocations {
				return nil, ErrMissingReference
			}
			nodes = append(nodes, NewServiceTripNode(
				dep.RouteID, i, seg.Origin, seg.Destination,
				dep.SegmentDepartures[i], dep.SegmentArrivals[i],
				dep.Passengers[i], dep.Seated[i], dep.VehicleType,
			))
		}
	}

	for _, m := range in.MaintenanceSlots {
		if int(m.Location) < 0 || int(m.Location) >= numLocations {
			return nil, ErrMissingReference
		}
		nodes = append(nodes, NewMaintenanceNode(m.Location, m.Start, m.End, m.TrackCount))
	}

	network := BuildNetwork(nodes, deadHead, in.Params)

	return &Instance{
		VehicleTypes: in.VehicleTypes,
		Locations:    in.Locations,
		Depots:       depots,
		Nodes:        nodes,
		DeadHead:     deadHead,
		Network:      network,
		Params:       in.Params,
	}, nil
}

func validateRoutes(routes []Route) error {
	for _, r := range routes {
		for i := 0; i+1 < len(r.Segments); i++ {
			if r.Segments[i].Destination != r.Segments[i+1].Origin {
				return ErrInconsistentRoute
			}
		}
	}

	return nil
}
