package schedule

// DummyTour is an ordered sequence of service-trip node indices
// representing demand not yet assigned to a real vehicle: one dummy vehicle
// per sequence, contributing to the unserved-passengers objective level.
type DummyTour struct {
	nodes []int
}

// NewDummyTour builds a dummy tour from service-trip node indices.
func NewDummyTour(nodes ...int) DummyTour {
	cp := make([]int, len(nodes))
	copy(cp, nodes)

	return DummyTour{nodes: cp}
}

// Nodes returns a defensive copy of the dummy tour's node indices.
func (d DummyTour) Nodes() []int {
	out := make([]int, len(d.nodes))
	copy(out, d.nodes)

	return out
}

// Len returns the number of service-trip nodes in the dummy tour.
func (d DummyTour) Len() int { return len(d.nodes) }
