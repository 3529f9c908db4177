package schedule

import (
	"github.com/google/uuid"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
)

// VehicleSlot is the stable internal key for a real vehicle within one
// Schedule lineage: assigned once at spawn time and never reused, even
// across deletions, so that persist.Map keys never collide with a
// since-deleted vehicle. The externally visible identity (the one that
// appears in output JSON and in vehicleCycles) is Vehicle.ID, a uuid.UUID
// minted alongside the slot.
type VehicleSlot int32

// Vehicle is a real vehicle: a minted identity plus its fixed vehicle type.
type Vehicle struct {
	ID          uuid.UUID
	VehicleType instance.VehicleTypeIndex
}

// VehicleAndTour pairs a Vehicle with its current Tour; this is the value
// type stored in Schedule's persistent vehicle map.
type VehicleAndTour struct {
	Vehicle Vehicle
	Tour    Tour
}
