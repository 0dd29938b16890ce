package callgraph

// SCC is one strongly connected component: the node indices belonging
// to it, in the order Tarjan's algorithm discovered them.
type SCC struct {
	Nodes []int
}

// IsMutualRecursion reports whether this component represents genuine
// mutual recursion (more than one procedure) as opposed to a single
// non-recursive procedure or a lone self-recursive one (the caller
// should consult Graph.IsSelfRecursive for the latter).
func (s SCC) IsMutualRecursion() bool { return len(s.Nodes) > 1 }

// tarjanState holds the mutable bookkeeping for one run of Tarjan's
// algorithm, kept separate from Graph so the graph itself stays
// immutable and reusable across repeated SCC computations.
type tarjanState struct {
	g        *Graph
	index    []int // -1 = unvisited
	lowlink  []int
	onStack  []bool
	stack    []int
	counter  int
	sccs     []SCC
}

// stackFrame is one explicit call frame for the iterative DFS, avoiding
// recursion depth proportional to call-chain length on large modules.
type stackFrame struct {
	node     int
	childIdx int
}

// StronglyConnectedComponents computes the graph's SCCs via an
// iterative Tarjan's algorithm (grounded on the standard index/lowlink/
// stack formulation used by graph libraries in this corpus, adapted
// here to an explicit frame stack instead of native recursion per spec
// §9's integer-indexed-storage design note). Components are returned in
// reverse topological order: a component has no edges to any component
// appearing later in the slice.
func StronglyConnectedComponents(g *Graph) []SCC {
	st := &tarjanState{
		g:       g,
		index:   make([]int, g.Len()),
		lowlink: make([]int, g.Len()),
		onStack: make([]bool, g.Len()),
	}
	for i := range st.index {
		st.index[i] = -1
	}
	for i := 0; i < g.Len(); i++ {
		if st.index[i] == -1 {
			st.strongConnect(i)
		}
	}
	return st.sccs
}

func (st *tarjanState) strongConnect(start int) {
	frames := []stackFrame{{node: start, childIdx: 0}}
	st.visit(start)

	for len(frames) > 0 {
		top := &frames[len(frames)-1]
		callees := st.g.Callees(top.node)

		if top.childIdx < len(callees) {
			w := callees[top.childIdx]
			top.childIdx++
			switch {
			case st.index[w] == -1:
				st.visit(w)
				frames = append(frames, stackFrame{node: w, childIdx: 0})
			case st.onStack[w]:
				if st.index[w] < st.lowlink[top.node] {
					st.lowlink[top.node] = st.index[w]
				}
			}
			continue
		}

		// All children processed; pop and propagate lowlink to parent.
		frames = frames[:len(frames)-1]
		if len(frames) > 0 {
			parent := &frames[len(frames)-1]
			if st.lowlink[top.node] < st.lowlink[parent.node] {
				st.lowlink[parent.node] = st.lowlink[top.node]
			}
		}
		if st.lowlink[top.node] == st.index[top.node] {
			st.popComponent(top.node)
		}
	}
}

func (st *tarjanState) visit(v int) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true
}

func (st *tarjanState) popComponent(root int) {
	var nodes []int
	for {
		n := len(st.stack) - 1
		w := st.stack[n]
		st.stack = st.stack[:n]
		st.onStack[w] = false
		nodes = append(nodes, w)
		if w == root {
			break
		}
	}
	st.sccs = append(st.sccs, SCC{Nodes: nodes})
}
