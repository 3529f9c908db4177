package schedule

import (
	"github.com/google/uuid"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/persist"
)

// Schedule is the immutable solution value: the set of real vehicles with
// their tours, the dummy tours, the per-node formation, the depot load
// ledger, and the next-day cycle mapping. Every field is either
// a persist.Map (structurally shared) or a small value type safe to copy;
// Schedule itself is always passed by value or as a read-only pointer and
// never mutated after construction — every package-level function in this
// file returns a new Schedule.
type Schedule struct {
	Instance *instance.Instance

	vehicles   persist.Map[VehicleAndTour] // VehicleSlot -> vehicle + tour
	dummies    []DummyTour
	formations persist.Map[TrainFormation] // node index -> formation
	ledger     Ledger
	cycles     CycleMap
	nextSlot   int32
}

// NewInitialSchedule builds the starting point for local search: every
// service-trip node in its own dummy tour, no real vehicles.
func NewInitialSchedule(inst *instance.Instance) *Schedule {
	var dummies []DummyTour
	for i, n := range inst.Nodes {
		if n.Kind() == instance.ServiceTripNode {
			dummies = append(dummies, NewDummyTour(i))
		}
	}

	return &Schedule{
		Instance:   inst,
		vehicles:   persist.NewMap[VehicleAndTour](),
		dummies:    dummies,
		formations: persist.NewMap[TrainFormation](),
		ledger:     NewLedger(),
		cycles:     NewCycleMap(),
	}
}

// clone returns a shallow copy of s, sharing every persistent field; the
// caller is expected to replace whichever fields actually changed.
func (s *Schedule) clone() *Schedule {
	cp := *s
	cp.dummies = append([]DummyTour(nil), s.dummies...)

	return &cp
}

// Vehicles returns every real vehicle slot, in ascending order.
func (s *Schedule) Vehicles() []VehicleSlot {
	keys := s.vehicles.Keys()
	out := make([]VehicleSlot, len(keys))
	for i, k := range keys {
		out[i] = VehicleSlot(k)
	}

	return out
}

// Vehicle returns the vehicle+tour at slot.
func (s *Schedule) Vehicle(slot VehicleSlot) (VehicleAndTour, bool) {
	return s.vehicles.Get(int64(slot))
}

// VehicleCount returns the number of real vehicles.
func (s *Schedule) VehicleCount() int { return s.vehicles.Len() }

// DummyTours returns every dummy tour.
func (s *Schedule) DummyTours() []DummyTour {
	out := make([]DummyTour, len(s.dummies))
	copy(out, s.dummies)

	return out
}

// Formation returns the train formation explicitly assigned to node index
// n, if any (empty otherwise). Most service-trip nodes never get an
// explicit entry — they are served by whichever single real vehicle's tour
// contains them; use EffectiveFormation to resolve that default.
func (s *Schedule) Formation(n int) TrainFormation {
	f, _ := s.formations.Get(int64(n))

	return f
}

// EffectiveFormation returns the formation actually serving node n: the
// explicit multi-vehicle formation if one was recorded via formations, or
// else the single real vehicle whose tour contains n, or else the empty
// formation (n is unserved, living in a dummy tour).
func (s *Schedule) EffectiveFormation(n int) TrainFormation {
	if f, has := s.formations.Get(int64(n)); has {
		return f
	}
	if slot, _, ok := s.locateNode(n); ok {
		return NewFormation(slot)
	}

	return TrainFormation{}
}

// Ledger returns the schedule's depot load ledger.
func (s *Schedule) Ledger() Ledger { return s.ledger }

// Cycles returns the schedule's next-day cycle mapping.
func (s *Schedule) Cycles() CycleMap { return s.cycles }

// locateNode reports which real vehicle's tour (if any) currently contains
// node n, and its position.
func (s *Schedule) locateNode(n int) (VehicleSlot, int, bool) {
	var found VehicleSlot
	var pos int
	var ok bool
	s.vehicles.Range(func(k int64, vt VehicleAndTour) bool {
		if p, has := vt.Tour.PositionOf(n); has {
			found, pos, ok = VehicleSlot(k), p, true

			return false
		}

		return true
	})

	return found, pos, ok
}

// locateDummy reports the dummy-tour index and position of node n, if it
// currently lives in a dummy tour.
func (s *Schedule) locateDummy(n int) (dummyIdx, pos int, ok bool) {
	for di, d := range s.dummies {
		for pi, idx := range d.nodes {
			if idx == n {
				return di, pi, true
			}
		}
	}

	return 0, 0, false
}

func uuidNew() uuid.UUID { return uuid.New() }
