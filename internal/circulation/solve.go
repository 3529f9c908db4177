package circulation

import "math"

const infCost = math.MaxInt64 / 4

// workArc is the solver's internal residual-arc representation. Unlike the
// public Arc, it tracks residual capacity directly (capacity remaining to
// push) rather than a separate flow/cap pair, since the lower-bound
// reduction below needs an extra synthetic source/sink pair and arcs with
// no counterpart in the caller's Network.
type workArc struct {
	to      int32
	cap     int64 // residual capacity
	cost    int64
	rev     int32 // index, in work[to], of the paired reverse arc
	origU   int32 // -1 for synthetic arcs (SS/TT, sink->source)
	origIdx int32
}

// Result is the outcome of a successful Solve.
type Result struct {
	Cost int64 // total cost of the minimum-cost feasible flow
	Flow int64 // total units sent from source to sink
}

// Solve finds the minimum-cost flow on net from source to sink that
// respects every arc's lower bound, writing the resulting per-arc flow
// back onto net (readable via Network.FlowOn) and returning its total cost
// and value. Returns ErrInfeasible if no flow satisfies every lower bound.
//
// Lower bounds are removed by the standard reduction (shift each arc's
// required minimum to a super source/sink pair, close the loop with a
// sink->source arc of unbounded capacity), then a minimum-cost flow from
// the super source to the super sink is computed by repeated shortest
// augmenting paths, using Bellman-Ford/SPFA (not Dijkstra) to find each
// shortest path, since residual arcs carry negative costs from the very
// first iteration.
func Solve(net *Network, source, sink int32, opts Options) (Result, error) {
	opts = opts.normalize()

	n := int32(net.n)
	ss, tt := n, n+1
	total := int(n) + 2
	work := make([][]workArc, total)
	// workPos[u][idx] records where net.arcs[u][idx] landed in work[u], so
	// the final flow can be written back after solving.
	workPos := make([][]int32, n)
	for u := range workPos {
		workPos[u] = make([]int32, len(net.arcs[u]))
		for i := range workPos[u] {
			workPos[u][i] = -1
		}
	}

	add := func(from, to int32, cap, cost int64, origU, origIdx int32) int32 {
		fi := int32(len(work[from]))
		ri := int32(len(work[to]))
		work[from] = append(work[from], workArc{to: to, cap: cap, cost: cost, rev: ri, origU: origU, origIdx: origIdx})
		work[to] = append(work[to], workArc{to: from, cap: 0, cost: -cost, rev: fi, origU: -1, origIdx: -1})

		return fi
	}

	excess := make([]int64, total)
	for u := int32(0); u < n; u++ {
		for idx, a := range net.arcs[u] {
			if a.Cap == 0 && a.Lower == 0 {
				continue // synthetic reverse-residual placeholder, not a real arc
			}
			pos := add(u, a.To, a.Cap-a.Lower, a.Cost, u, int32(idx))
			workPos[u][idx] = pos
			if a.Lower > 0 {
				excess[a.To] += a.Lower
				excess[u] -= a.Lower
			}
		}
	}
	add(sink, source, infCost, 0, -1, -1)

	var totalDemand int64
	for v := int32(0); v < n; v++ {
		switch {
		case excess[v] > 0:
			add(ss, v, excess[v], 0, -1, -1)
			totalDemand += excess[v]
		case excess[v] < 0:
			add(v, tt, -excess[v], 0, -1, -1)
		}
	}

	var result Result
	for {
		if err := opts.Ctx.Err(); err != nil {
			return Result{}, err
		}
		dist := make([]int64, total)
		inQueue := make([]bool, total)
		prevNode := make([]int32, total)
		prevArc := make([]int32, total)
		for i := range dist {
			dist[i] = infCost
			prevNode[i] = -1
		}
		dist[ss] = 0
		queue := []int32{ss}
		inQueue[ss] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			inQueue[u] = false
			for idx, a := range work[u] {
				if a.cap <= 0 {
					continue
				}
				nd := dist[u] + a.cost
				if nd < dist[a.to] {
					dist[a.to] = nd
					prevNode[a.to] = u
					prevArc[a.to] = int32(idx)
					if !inQueue[a.to] {
						queue = append(queue, a.to)
						inQueue[a.to] = true
					}
				}
			}
		}
		if dist[tt] >= infCost {
			break
		}

		bottleneck := int64(math.MaxInt64)
		for cur := tt; cur != ss; {
			u := prevNode[cur]
			idx := prevArc[cur]
			if work[u][idx].cap < bottleneck {
				bottleneck = work[u][idx].cap
			}
			cur = u
		}
		for cur := tt; cur != ss; {
			u := prevNode[cur]
			idx := prevArc[cur]
			work[u][idx].cap -= bottleneck
			work[cur][work[u][idx].rev].cap += bottleneck
			cur = u
		}
		result.Flow += bottleneck
		result.Cost += bottleneck * dist[tt]
	}

	if result.Flow < totalDemand {
		return Result{}, ErrInfeasible
	}

	// Write the solved flow back onto net, translating residual capacity
	// back into the original [Lower, Cap] range, and total the cost over
	// every real arc so the units forced by lower bounds are charged too.
	var sourceFlow, totalCost int64
	for u := int32(0); u < n; u++ {
		for idx, a := range net.arcs[u] {
			pos := workPos[u][idx]
			if pos < 0 {
				continue
			}
			adjCapInitial := a.Cap - a.Lower
			used := adjCapInitial - work[u][pos].cap
			final := a.Lower + used
			net.arcs[u][idx].flow = final
			net.arcs[a.To][a.rev].flow = -final
			totalCost += final * a.Cost
			if u == source {
				sourceFlow += final
			}
		}
	}

	result.Flow = sourceFlow
	result.Cost = totalCost

	return result, nil
}
