// Package circulation implements the min-cost circulation subproblem:
// build a time-space flow network from an instance's reachability
// relation, solve a minimum-cost feasible flow at required lower bounds
// (successive shortest augmenting paths with a Bellman-Ford relaxation
// step), and decompose the resulting flow into vehicle tours.
package circulation

import (
	"context"
	"errors"
)

var (
	// ErrInfeasible is returned when no flow satisfies every arc's lower
	// bound; the caller (the local-search driver) relaxes lower bounds —
	// accepting unserved passengers — and retries.
	ErrInfeasible = errors.New("circulation: no feasible flow at required lower bounds")
	// ErrNegativeCycle names a negative cost cycle. A correctly built
	// time-space network (arcs only between reachable, temporally ordered
	// nodes) can never contain one; Solve does not test for one and never
	// returns this error.
	ErrNegativeCycle = errors.New("circulation: negative cost cycle detected")
)

// Options configures the solver. Every capacity and cost in the
// time-space network is an exact int64, so there is no float tolerance to
// configure.
type Options struct {
	// Ctx allows cancelling a long-running solve; nil defaults to
	// context.Background(). Checked once per augmenting path.
	Ctx context.Context
}

func (o Options) normalize() Options {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}

	return o
}

// Arc is one directed edge of the flow network: node index to node index,
// with a capacity, a required lower bound, and a per-unit cost.
type Arc struct {
	From, To   int32
	Lower, Cap int64
	Cost       int64

	flow int64 // current flow, mutated during solve
	rev  int32 // index, within arcs[To], of this arc's reverse residual arc
}

// Network is the time-space flow network: one super-source/super-sink pair
// per vehicle type, plus every instance node, connected by Arc edges built
// from the current structural schedule.
type Network struct {
	n    int // number of nodes, including super source/sink pairs
	arcs [][]Arc
}

// NewNetwork allocates an empty network over n nodes.
func NewNetwork(n int) *Network {
	return &Network{n: n, arcs: make([][]Arc, n)}
}

// AddArc adds a forward arc u->v and its reverse residual arc v->u (cost
// negated, capacity zero, lower bound zero — the standard residual-graph
// construction).
func (net *Network) AddArc(from, to int32, lower, cap, cost int64) {
	fi := int32(len(net.arcs[from]))
	ri := int32(len(net.arcs[to]))
	net.arcs[from] = append(net.arcs[from], Arc{From: from, To: to, Lower: lower, Cap: cap, Cost: cost, rev: ri})
	net.arcs[to] = append(net.arcs[to], Arc{From: to, To: from, Lower: 0, Cap: 0, Cost: -cost, rev: fi})
}

// Arcs returns the arcs leaving node u, for flow decomposition.
func (net *Network) Arcs(u int32) []Arc { return net.arcs[u] }

// FlowOn returns the current flow on the arc at arcs[u][idx].
func (net *Network) FlowOn(u int32, idx int) int64 { return net.arcs[u][idx].flow }
