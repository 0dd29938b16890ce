package callgraph

// Layering is a topological ordering of the graph's condensation (its
// SCCs treated as supernodes), split into independent layers: every
// component in Layers[k] depends only on components in Layers[0..k-1],
// so all components within one layer can be analyzed in parallel (spec
// §4.3.2 "procedures are ordered so a callee is fully analyzed before
// its caller", §5 "parallelizing procedure analysis" / §9).
type Layering struct {
	// Components holds every SCC, indexed by component id.
	Components []SCC
	// ComponentOf maps a procedure's node index to its component id.
	ComponentOf []int
	// Layers holds component ids, grouped bottom-up: Layers[0] has no
	// dependencies on any other component.
	Layers [][]int
}

// BuildLayering computes strongly connected components and arranges
// them into dependency layers suitable for bottom-up, optionally
// parallel traversal.
func BuildLayering(g *Graph) Layering {
	sccs := StronglyConnectedComponents(g)

	componentOf := make([]int, g.Len())
	for id, scc := range sccs {
		for _, n := range scc.Nodes {
			componentOf[n] = id
		}
	}

	// Condensation adjacency: component -> set of components it calls.
	condAdj := make([][]int, len(sccs))
	seen := make([]map[int]bool, len(sccs))
	for i := range seen {
		seen[i] = make(map[int]bool)
	}
	indegree := make([]int, len(sccs))
	for n := 0; n < g.Len(); n++ {
		from := componentOf[n]
		for _, callee := range g.Callees(n) {
			to := componentOf[callee]
			if to == from || seen[from][to] {
				continue
			}
			seen[from][to] = true
			condAdj[from] = append(condAdj[from], to)
			indegree[to]++
		}
	}

	// Kahn's algorithm, layer by layer: a component enters the current
	// layer once every component it depends on has already been placed
	// in an earlier layer. Since condAdj points caller->callee, we peel
	// from the leaves (zero out-degree in the "depends on" sense) by
	// working over the reverse relation implicitly: indegree here counts
	// callers pointing at a component, so we invert the direction by
	// layering on *out*-degree instead, processing components whose
	// callees have all already been placed.
	remainingOut := make([]int, len(sccs))
	for c, callees := range condAdj {
		remainingOut[c] = len(callees)
	}
	reverseAdj := make([][]int, len(sccs))
	for c, callees := range condAdj {
		for _, to := range callees {
			reverseAdj[to] = append(reverseAdj[to], c)
		}
	}

	placed := make([]bool, len(sccs))
	var layers [][]int
	remaining := len(sccs)
	for remaining > 0 {
		var layer []int
		for c := 0; c < len(sccs); c++ {
			if !placed[c] && remainingOut[c] == 0 {
				layer = append(layer, c)
			}
		}
		if len(layer) == 0 {
			// A residual cycle in the condensation would be a bug in SCC
			// computation itself (the condensation is always a DAG);
			// fall back to placing everything remaining as one final
			// layer rather than looping forever.
			for c := 0; c < len(sccs); c++ {
				if !placed[c] {
					layer = append(layer, c)
				}
			}
		}
		for _, c := range layer {
			placed[c] = true
			remaining--
			for _, caller := range reverseAdj[c] {
				remainingOut[caller]--
			}
		}
		layers = append(layers, layer)
	}

	return Layering{Components: sccs, ComponentOf: componentOf, Layers: layers}
}
