package circulation

// DecomposeFlow walks the positive-flow arcs of a solved network from
// source to sink, one unit at a time, collecting each unit's visited
// arrival-node indices into a path — reconstructing the vehicle tours the
// flow represents. n is the original instance's node count (arrival
// indices are 0..n-1; departure indices n..2n-1 are folded away since they
// name the same instance node).
//
// Cycles cannot occur: every arc in the network the builder constructs
// points from an earlier-time node to a later-reachable one, so a
// decomposition can never revisit a node.
func DecomposeFlow(net *Network, n int32, source, sink int32) [][]int32 {
	var paths [][]int32
	for {
		startIdx := firstPositiveFlowArc(net, source)
		if startIdx < 0 {
			break
		}

		var path []int32
		cur := source
		idx := startIdx
		for {
			a := &net.arcs[cur][idx]
			a.flow--
			net.arcs[a.To][a.rev].flow++

			next := a.To
			if next < n {
				path = append(path, next)
			}
			if next == sink {
				break
			}
			cur = next
			nidx := firstPositiveFlowArc(net, cur)
			if nidx < 0 {
				break // unbalanced flow; stop rather than loop forever
			}
			idx = nidx
		}
		paths = append(paths, path)
	}

	return paths
}

func firstPositiveFlowArc(net *Network, u int32) int {
	for idx, a := range net.arcs[u] {
		if a.flow > 0 {
			return idx
		}
	}

	return -1
}
