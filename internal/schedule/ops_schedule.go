package schedule

import (
	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
)

// SpawnVehicleFor creates a new real vehicle seeded with a minimal tour
// start-depot -> path -> end-depot around the given path of non-depot node
// indices. The vehicle takes the vehicle type of path's first node or, when
// that node accepts any type, the type of the chosen start depot. startDepot
// and endDepot are the first depots of that type reachable from/to path's
// ends whose ledger still has room; returns ErrDepotFull if there is no
// such depot (none reachable or all at capacity), ErrInfeasibleModification
// if path is empty or breaks reachability.
func (s *Schedule) SpawnVehicleFor(path []int) (*Schedule, VehicleSlot, error) {
	if len(path) == 0 {
		return s, 0, ErrInfeasibleModification
	}
	net := s.Instance.Network
	first, last := path[0], path[len(path)-1]
	vt := s.Instance.Nodes[first].VehicleType

	startDepot, ok := s.pickStartDepot(net.CompatibleStartDepots(first), vt)
	if !ok {
		return s, 0, ErrDepotFull
	}
	vt = s.Instance.Nodes[startDepot].VehicleType
	endDepot, ok := s.pickEndDepot(net.CompatibleEndDepots(last), vt)
	if !ok {
		return s, 0, ErrDepotFull
	}

	tour, err := NewTour(net, startDepot, path, endDepot)
	if err != nil {
		return s, 0, err
	}

	cp := s.clone()
	slot := VehicleSlot(cp.nextSlot)
	cp.nextSlot++
	vehicle := Vehicle{ID: uuidNew(), VehicleType: vt}
	cp.vehicles = cp.vehicles.Set(int64(slot), VehicleAndTour{Vehicle: vehicle, Tour: tour})

	startNode := s.Instance.Nodes[startDepot]
	endNode := s.Instance.Nodes[endDepot]
	cp.ledger = cp.ledger.WithStartDelta(startNode.Depot, vt, 1).WithEndDelta(endNode.Depot, vt, 1)
	cp.dummies = removeNodesFromDummies(cp.dummies, path)

	// A path node some other tour already carries (a recost re-covering a
	// trip with more than one vehicle, or a shared maintenance slot) gains
	// the new vehicle as a formation member instead of a second implicit
	// owner.
	for _, n := range path {
		if f, has := cp.formations.Get(int64(n)); has {
			cp.formations = cp.formations.Set(int64(n), f.WithVehicle(slot))
		} else if other, _, ok := s.locateNode(n); ok {
			cp.formations = cp.formations.Set(int64(n), NewFormation(other).WithVehicle(slot))
		}
	}

	cp.cycles = RebuildCycles(cp.vehicles, s.Instance.Depots, s.Instance.Nodes)

	return cp, slot, nil
}

// pickStartDepot returns the first candidate start-depot node of type vt
// (of any type when vt is NoVehicleTypeConstraint) whose capacity ledger
// still has room for the node's own type.
func (s *Schedule) pickStartDepot(candidates []int32, vt instance.VehicleTypeIndex) (int, bool) {
	for _, c := range candidates {
		n := s.Instance.Nodes[c]
		if vt != instance.NoVehicleTypeConstraint && n.VehicleType != vt {
			continue
		}
		if s.ledger.FitsCapacity(s.Instance.Depots, n.Depot, n.VehicleType, true) {
			return int(c), true
		}
	}

	return 0, false
}

// pickEndDepot is pickStartDepot's symmetric counterpart for end depots.
func (s *Schedule) pickEndDepot(candidates []int32, vt instance.VehicleTypeIndex) (int, bool) {
	for _, c := range candidates {
		n := s.Instance.Nodes[c]
		if vt != instance.NoVehicleTypeConstraint && n.VehicleType != vt {
			continue
		}
		if s.ledger.FitsCapacity(s.Instance.Depots, n.Depot, n.VehicleType, false) {
			return int(c), true
		}
	}

	return 0, false
}

// DeleteVehicle removes a real vehicle. Its slot leaves every train
// formation it participates in; a service-trip node left with no remaining
// formation member returns to a fresh single-node dummy tour, while a node
// other members still cover stays served. Maintenance nodes simply
// disappear from their formations.
func (s *Schedule) DeleteVehicle(slot VehicleSlot) (*Schedule, error) {
	vt, ok := s.vehicles.Get(int64(slot))
	if !ok {
		return s, ErrInfeasibleModification
	}

	cp := s.clone()
	cp.vehicles = cp.vehicles.Delete(int64(slot))

	startNode := s.Instance.Nodes[vt.Tour.StartDepot()]
	endNode := s.Instance.Nodes[vt.Tour.EndDepot()]
	cp.ledger = cp.ledger.WithStartDelta(startNode.Depot, vt.Vehicle.VehicleType, -1).
		WithEndDelta(endNode.Depot, vt.Vehicle.VehicleType, -1)

	nodes := vt.Tour.Nodes()
	interior := nodes[1 : len(nodes)-1]
	for _, n := range interior {
		stillServed := false
		if f, has := cp.formations.Get(int64(n)); has {
			nf := f.WithoutVehicle(slot)
			if nf.Len() == 0 {
				cp.formations = cp.formations.Delete(int64(n))
			} else {
				cp.formations = cp.formations.Set(int64(n), nf)
				stillServed = true
			}
		}
		if stillServed {
			continue // another formation member keeps covering this node
		}
		if s.Instance.Nodes[n].Kind() == instance.ServiceTripNode {
			cp.dummies = append(cp.dummies, NewDummyTour(n))
		}
	}

	cp.cycles = RebuildCycles(cp.vehicles, s.Instance.Depots, s.Instance.Nodes)

	return cp, nil
}

// AddPathToTour splices path into an existing real vehicle's tour via
// Tour.InsertPath, returning the evicted interior node indices to fresh
// dummy tours.
func (s *Schedule) AddPathToTour(slot VehicleSlot, path []int) (*Schedule, error) {
	vt, ok := s.vehicles.Get(int64(slot))
	if !ok {
		return s, ErrInfeasibleModification
	}
	net := s.Instance.Network
	newTour, evicted, err := vt.Tour.InsertPath(net, path)
	if err != nil {
		return s, err
	}

	cp := s.clone()
	vt.Tour = newTour
	cp.vehicles = cp.vehicles.Set(int64(slot), vt)
	cp.dummies = removeNodesFromDummies(cp.dummies, path)

	// Evicted nodes leave slot's formation; a node still carried by other
	// formation members stays served, everything else returns to a dummy
	// tour (service trips) or simply disappears (maintenance).
	for _, n := range evicted {
		stillServed := false
		if f, has := cp.formations.Get(int64(n)); has {
			nf := f.WithoutVehicle(slot)
			if nf.Len() == 0 {
				cp.formations = cp.formations.Delete(int64(n))
			} else {
				cp.formations = cp.formations.Set(int64(n), nf)
				stillServed = true
			}
		}
		if !stillServed && s.Instance.Nodes[n].Kind() == instance.ServiceTripNode {
			cp.dummies = append(cp.dummies, NewDummyTour(n))
		}
	}

	// A path node some other tour already carries (a shared maintenance
	// slot) gains slot as a formation member.
	for _, n := range path {
		if f, has := cp.formations.Get(int64(n)); has {
			cp.formations = cp.formations.Set(int64(n), f.WithVehicle(slot))
		} else if other, _, ok := s.locateNode(n); ok && other != slot {
			cp.formations = cp.formations.Set(int64(n), NewFormation(other).WithVehicle(slot))
		}
	}

	return cp, nil
}

// detachPath removes path's nodes from wherever they currently live — a
// single contiguous span of one real vehicle's tour, or a set of
// single-node dummy tours — before a reassignment re-homes them. The
// neighborhood only ever produces paths of these two shapes (a provider's
// tour segment, or free service-trip nodes); a path straddling both is
// rejected rather than guessed at.
func (s *Schedule) detachPath(path []int) (*Schedule, error) {
	if len(path) == 0 {
		return s, ErrInfeasibleModification
	}
	if owner, _, ok := s.locateNode(path[0]); ok {
		vt, _ := s.vehicles.Get(int64(owner))
		newTour, removed, err := vt.Tour.RemoveSegment(s.Instance.Network, path[0], path[len(path)-1])
		if err != nil {
			return s, err
		}
		if len(removed) != len(path) {
			return s, ErrInfeasibleModification
		}
		cp := s.clone()
		vt.Tour = newTour
		cp.vehicles = cp.vehicles.Set(int64(owner), vt)
		for _, n := range path {
			if f, has := cp.formations.Get(int64(n)); has {
				nf := f.WithoutVehicle(owner)
				if nf.Len() == 0 {
					cp.formations = cp.formations.Delete(int64(n))
				} else {
					cp.formations = cp.formations.Set(int64(n), nf)
				}
			}
		}

		return cp, nil
	}

	cp := s.clone()
	cp.dummies = removeNodesFromDummies(cp.dummies, path)

	return cp, nil
}

// FitReassign moves the maximal contiguous sub-sequence of path that fits
// into vehicle slot's tour without evicting any existing node; the nodes
// outside that sub-sequence stay where they were.
// Sub-sequences are tried longest-first, earliest-first, so the result is
// deterministic and maximal.
func (s *Schedule) FitReassign(slot VehicleSlot, path []int) (*Schedule, error) {
	for length := len(path); length >= 1; length-- {
		for start := 0; start+length <= len(path); start++ {
			next, err := s.fitReassignExact(slot, path[start:start+length])
			if err == nil {
				return next, nil
			}
		}
	}

	return s, ErrInfeasibleModification
}

// fitReassignExact moves exactly path onto slot's tour, failing if the
// splice would evict anything: detach, a strict pre-flight feasibility
// check, then splice.
func (s *Schedule) fitReassignExact(slot VehicleSlot, path []int) (*Schedule, error) {
	detached, err := s.detachPath(path)
	if err != nil {
		return s, err
	}
	vt, ok := detached.vehicles.Get(int64(slot))
	if !ok {
		return s, ErrInfeasibleModification
	}
	_, evicted, err := vt.Tour.InsertPath(detached.Instance.Network, path)
	if err != nil {
		return s, err
	}
	if len(evicted) != 0 {
		return s, ErrInfeasibleModification
	}

	return detached.AddPathToTour(slot, path)
}

// OverrideReassign moves path onto vehicle slot's tour unconditionally,
// evicting whatever overlaps on the receiving end. Each evicted node is
// offered back to path's previous
// owner (the provider) at its own splice point; nodes the provider cannot
// absorb — or every node, when path came from dummy tours — become fresh
// dummy tours via AddPathToTour's eviction handling.
func (s *Schedule) OverrideReassign(slot VehicleSlot, path []int) (*Schedule, error) {
	if len(path) == 0 {
		return s, ErrInfeasibleModification
	}
	provider, _, hasProvider := s.locateNode(path[0])

	detached, err := s.detachPath(path)
	if err != nil {
		return s, err
	}
	vt, ok := detached.vehicles.Get(int64(slot))
	if !ok {
		return s, ErrInfeasibleModification
	}
	_, evicted, err := vt.Tour.InsertPath(detached.Instance.Network, path)
	if err != nil {
		return s, err
	}
	next, err := detached.AddPathToTour(slot, path)
	if err != nil {
		return s, err
	}

	if hasProvider && provider != slot {
		for _, n := range evicted {
			if rehomed, rerr := next.fitReassignExact(provider, []int{n}); rerr == nil {
				next = rehomed
			}
		}
	}

	return next, nil
}

// CoupleVehicle adds vehicle slot to the train formation serving
// service-trip node, routing slot's own tour through the node as well. The
// trip must already be served by at least one vehicle, slot must be
// type-compatible and not yet a member, the formation must have room under
// slot's type's maximal formation length, and slot's tour must absorb the
// node without evicting anything.
func (s *Schedule) CoupleVehicle(slot VehicleSlot, node int) (*Schedule, error) {
	n := s.Instance.Nodes[node]
	if n.Kind() != instance.ServiceTripNode {
		return s, ErrInfeasibleModification
	}
	vt, ok := s.vehicles.Get(int64(slot))
	if !ok || !n.AcceptsVehicleType(vt.Vehicle.VehicleType) {
		return s, ErrInfeasibleModification
	}
	form := s.EffectiveFormation(node)
	if form.Len() == 0 || form.Contains(slot) {
		return s, ErrInfeasibleModification
	}
	if max := s.Instance.VehicleType(vt.Vehicle.VehicleType).MaxFormationLength; max > 0 && form.Len() >= max {
		return s, ErrInfeasibleModification
	}
	newTour, evicted, err := vt.Tour.InsertPath(s.Instance.Network, []int{node})
	if err != nil {
		return s, err
	}
	if len(evicted) != 0 {
		return s, ErrInfeasibleModification
	}

	cp := s.clone()
	vt.Tour = newTour
	cp.vehicles = cp.vehicles.Set(int64(slot), vt)
	cp.formations = cp.formations.Set(int64(node), form.WithVehicle(slot))

	return cp, nil
}

// removeNodesFromDummies drops any dummy tour whose sole node is in nodes
// (every dummy tour is exactly one service-trip node at construction and
// stays that way, since dummy tours are never merged).
func removeNodesFromDummies(dummies []DummyTour, nodes []int) []DummyTour {
	remove := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		remove[n] = true
	}
	out := make([]DummyTour, 0, len(dummies))
	for _, d := range dummies {
		if d.Len() == 1 && remove[d.nodes[0]] {
			continue
		}
		out = append(out, d)
	}

	return out
}
