package instance

import "github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"

// Costs bundles the per-second operating cost parameters.
type Costs struct {
	StaffPerSecond       int64
	ServiceTripPerSecond int64
	MaintenancePerSecond int64
	DeadHeadPerSecond    int64
	IdlePerSecond        int64
}

// Parameters holds the solve-time knobs of the request's `parameters`
// object.
type Parameters struct {
	ForbidDeadHeadTrips bool
	ShuntingDuration    timeutil.Duration
	MaximalDistance     int64 // meters accumulated before a maintenance violation; 0 = always violating
	Costs               Costs
}

// Instance is the immutable, post-load artifact every Schedule references.
// It is built once by Load and never mutated afterward: every schedule
// produced during a /solve call shares this same value, so it carries no
// lock.
type Instance struct {
	VehicleTypes []VehicleType
	Locations    []Location
	Depots       []Depot
	Nodes        []Node
	DeadHead     DeadHeadTable
	Network      Network
	Params       Parameters
}

// NodeCount returns the number of nodes in the instance's network.
func (inst *Instance) NodeCount() int { return len(inst.Nodes) }

// Node returns the node at index i.
func (inst *Instance) Node(i int) Node { return inst.Nodes[i] }

// VehicleType returns the vehicle type at index vt.
func (inst *Instance) VehicleType(vt VehicleTypeIndex) VehicleType { return inst.VehicleTypes[vt] }

// DepotAt returns the depot at index d.
func (inst *Instance) DepotAt(d DepotIndex) Depot { return inst.Depots[d] }
