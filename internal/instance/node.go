package instance

import "github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"

// NodeKind tags which variant of the Node union a Node holds.
type NodeKind uint8

const (
	StartDepotNode NodeKind = iota
	EndDepotNode
	ServiceTripNode
	MaintenanceNode
)

func (k NodeKind) String() string {
	switch k {
	case StartDepotNode:
		return "StartDepot"
	case EndDepotNode:
		return "EndDepot"
	case ServiceTripNode:
		return "ServiceTrip"
	case MaintenanceNode:
		return "Maintenance"
	default:
		return "Unknown"
	}
}

// NoVehicleTypeConstraint marks a node (a maintenance slot, or a service
// trip open to every type) that accepts any vehicle type.
const NoVehicleTypeConstraint VehicleTypeIndex = -1

// Node is one of {StartDepot, EndDepot, ServiceTrip, Maintenance}. A single
// tagged struct (rather than an interface with four implementations) keeps
// the hot reachability/objective loops free of dynamic dispatch.
type Node struct {
	kind NodeKind

	// StartDepot / EndDepot fields.
	Depot       DepotIndex
	VehicleType VehicleTypeIndex

	// ServiceTrip fields.
	RouteID      int
	SegmentIndex int
	Origin       LocationIndex
	Destination  LocationIndex
	Demand       int
	SeatedDemand int

	// Maintenance fields.
	TrackCount int

	// loc is: the depot's location for StartDepot/EndDepot, the slot's
	// location for Maintenance. ServiceTrip nodes use Origin/Destination
	// instead and leave loc unset.
	loc   LocationIndex
	start timeutil.Instant
	end   timeutil.Instant
}

// Kind reports which variant this Node is.
func (n Node) Kind() NodeKind { return n.kind }

// NewStartDepotNode builds a start-depot node. Its start time is -∞ (it
// reaches everything whose own start time allows it) and it may only ever
// be first in a tour.
func NewStartDepotNode(depot DepotIndex, loc LocationIndex, vt VehicleTypeIndex) Node {
	return Node{kind: StartDepotNode, Depot: depot, VehicleType: vt, loc: loc, start: timeutil.NegInfInstant, end: timeutil.NegInfInstant}
}

// NewEndDepotNode builds an end-depot node, with +∞ start/end time so it can
// only ever be last in a tour.
func NewEndDepotNode(depot DepotIndex, loc LocationIndex, vt VehicleTypeIndex) Node {
	return Node{kind: EndDepotNode, Depot: depot, VehicleType: vt, loc: loc, start: timeutil.PosInfInstant, end: timeutil.PosInfInstant}
}

// NewServiceTripNode builds a timetabled service-trip node.
func NewServiceTripNode(routeID, segment int, origin, dest LocationIndex, start, end timeutil.Instant, demand, seated int, vt VehicleTypeIndex) Node {
	return Node{
		kind: ServiceTripNode, RouteID: routeID, SegmentIndex: segment,
		Origin: origin, Destination: dest, start: start, end: end,
		Demand: demand, SeatedDemand: seated, VehicleType: vt,
	}
}

// NewMaintenanceNode builds a maintenance-slot node.
func NewMaintenanceNode(loc LocationIndex, start, end timeutil.Instant, trackCount int) Node {
	return Node{kind: MaintenanceNode, loc: loc, start: start, end: end, TrackCount: trackCount, VehicleType: NoVehicleTypeConstraint}
}

// StartTime returns the node's activity start instant.
func (n Node) StartTime() timeutil.Instant { return n.start }

// EndTime returns the node's activity end instant.
func (n Node) EndTime() timeutil.Instant { return n.end }

// StartLocation returns the location a vehicle must be at to begin this
// node's activity.
func (n Node) StartLocation() LocationIndex {
	if n.kind == ServiceTripNode {
		return n.Origin
	}

	return n.loc
}

// EndLocation returns the location a vehicle is at after finishing this
// node's activity.
func (n Node) EndLocation() LocationIndex {
	if n.kind == ServiceTripNode {
		return n.Destination
	}

	return n.loc
}

// IsDepot reports whether n is a start- or end-depot node.
func (n Node) IsDepot() bool { return n.kind == StartDepotNode || n.kind == EndDepotNode }

// AcceptsVehicleType reports whether a vehicle of type vt may occupy n. A
// node with NoVehicleTypeConstraint (maintenance slots, unconstrained
// service trips) accepts every type.
func (n Node) AcceptsVehicleType(vt VehicleTypeIndex) bool {
	if n.VehicleType == NoVehicleTypeConstraint {
		return true
	}

	return n.VehicleType == vt
}
