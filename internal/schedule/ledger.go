package schedule

import (
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/persist"
)

// Ledger tracks, per depot and vehicle type, how many real vehicles
// currently start there and how many end there. Both sides are tracked
// separately: a schedule need not be depot-balanced mid-search (only the
// final cyclic schedule must be, via the next-day mapping), but each side
// must independently respect capacity.
type Ledger struct {
	starts persist.Map[int]
	ends   persist.Map[int]
}

// NewLedger returns the empty ledger.
func NewLedger() Ledger { return Ledger{starts: persist.NewMap[int](), ends: persist.NewMap[int]()} }

func ledgerKey(depot instance.DepotIndex, vt instance.VehicleTypeIndex) int64 {
	return int64(depot)<<32 | int64(uint32(vt))
}

// StartCount returns how many vehicles currently start at (depot, vt).
func (l Ledger) StartCount(depot instance.DepotIndex, vt instance.VehicleTypeIndex) int {
	v, _ := l.starts.Get(ledgerKey(depot, vt))

	return v
}

// EndCount returns how many vehicles currently end at (depot, vt).
func (l Ledger) EndCount(depot instance.DepotIndex, vt instance.VehicleTypeIndex) int {
	v, _ := l.ends.Get(ledgerKey(depot, vt))

	return v
}

// WithStartDelta returns a new Ledger with the start count at (depot, vt)
// adjusted by delta.
func (l Ledger) WithStartDelta(depot instance.DepotIndex, vt instance.VehicleTypeIndex, delta int) Ledger {
	k := ledgerKey(depot, vt)
	cur, _ := l.starts.Get(k)

	return Ledger{starts: l.starts.Set(k, cur+delta), ends: l.ends}
}

// WithEndDelta returns a new Ledger with the end count at (depot, vt)
// adjusted by delta.
func (l Ledger) WithEndDelta(depot instance.DepotIndex, vt instance.VehicleTypeIndex, delta int) Ledger {
	k := ledgerKey(depot, vt)
	cur, _ := l.ends.Get(k)

	return Ledger{starts: l.starts, ends: l.ends.Set(k, cur+delta)}
}

// FitsCapacity reports whether adding one more vehicle of type vt starting
// (if starting=true) or ending at depot would still respect both the
// per-type and the total depot capacity.
func (l Ledger) FitsCapacity(depots []instance.Depot, depot instance.DepotIndex, vt instance.VehicleTypeIndex, starting bool) bool {
	d := depots[depot]
	perTypeCap := d.CapacityFor(vt)
	var current int
	if starting {
		current = l.StartCount(depot, vt)
	} else {
		current = l.EndCount(depot, vt)
	}
	if current+1 > perTypeCap {
		return false
	}
	total := 0
	for vti := range d.PerTypeCap {
		if starting {
			total += l.StartCount(depot, instance.VehicleTypeIndex(vti))
		} else {
			total += l.EndCount(depot, instance.VehicleTypeIndex(vti))
		}
	}

	return total+1 <= d.TotalCap
}
