package schedule

// TrainFormation is the ordered list of vehicle slots coupled together to
// serve one non-depot node; index 0 is the front of the formation.
// Formations are small (bounded by a vehicle type's MaxFormationLength) so,
// like Tour, a formation stores a plain copy-on-write slice — only the
// schedule-wide map from node index to formation needs persist.Map's
// O(log n) sharing.
type TrainFormation struct {
	vehicles []VehicleSlot
}

// NewFormation builds a formation from front-to-tail vehicle slots.
func NewFormation(vehicles ...VehicleSlot) TrainFormation {
	cp := make([]VehicleSlot, len(vehicles))
	copy(cp, vehicles)

	return TrainFormation{vehicles: cp}
}

// Len returns the number of vehicles in the formation.
func (f TrainFormation) Len() int { return len(f.vehicles) }

// Vehicles returns the formation's vehicle slots, front to tail.
func (f TrainFormation) Vehicles() []VehicleSlot {
	out := make([]VehicleSlot, len(f.vehicles))
	copy(out, f.vehicles)

	return out
}

// Contains reports whether slot is part of this formation.
func (f TrainFormation) Contains(slot VehicleSlot) bool {
	for _, v := range f.vehicles {
		if v == slot {
			return true
		}
	}

	return false
}

// WithVehicle returns a new formation with slot appended at the tail (a
// no-op copy if slot is already a member).
func (f TrainFormation) WithVehicle(slot VehicleSlot) TrainFormation {
	if f.Contains(slot) {
		return TrainFormation{vehicles: f.Vehicles()}
	}
	out := make([]VehicleSlot, 0, len(f.vehicles)+1)
	out = append(out, f.vehicles...)
	out = append(out, slot)

	return TrainFormation{vehicles: out}
}

// WithoutVehicle returns a new formation with slot removed (a no-op copy if
// slot was absent).
func (f TrainFormation) WithoutVehicle(slot VehicleSlot) TrainFormation {
	out := make([]VehicleSlot, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		if v != slot {
			out = append(out, v)
		}
	}

	return TrainFormation{vehicles: out}
}
