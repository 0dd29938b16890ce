// Package callgraph builds the directed call graph over a module's
// procedures (spec §4.4) and exposes the derived structure the
// extractor needs to resolve inter-procedural recursion in dependency
// order (spec §4.3.2): strongly connected components, a topological
// layering over the condensation, and direct cycle/self-recursion
// queries.
//
// Nodes are stored by integer index rather than by hostiface.Procedure
// directly (spec §9 "graph cycles via integer-indexed storage"): a
// mutually-recursive cluster is a cheap []int, and index equality
// sidesteps ever needing Procedure to be comparable or hashable.
package callgraph

import "github.com/kanso-complexity/complexity/internal/hostiface"

// Graph is a directed, integer-indexed call graph. It is built once
// from a set of procedures and is read-only thereafter.
type Graph struct {
	procedures []hostiface.Procedure
	index      map[string]int // Procedure.Identity() -> node index
	adjacency  [][]int        // adjacency[i] = callees of procedure i, by index
}

// NewGraph builds the call graph for procedures. Edges go from caller
// to callee; a callee symbol that does not resolve to any procedure in
// this set (an external/BCL call) is simply omitted as an edge,
// matching spec §4.4 "edges to procedures outside the analyzed set are
// not represented in the graph".
func NewGraph(procedures []hostiface.Procedure) *Graph {
	g := &Graph{
		procedures: procedures,
		index:      make(map[string]int, len(procedures)),
	}
	for i, p := range procedures {
		g.index[p.Identity()] = i
	}
	g.adjacency = make([][]int, len(procedures))
	for i, p := range procedures {
		seen := make(map[int]struct{})
		for _, callee := range p.DirectCallees() {
			if callee == nil {
				continue
			}
			j, ok := g.index[callee.Identity()]
			if !ok {
				continue // external/BCL call: not represented as an edge
			}
			if _, dup := seen[j]; dup {
				continue
			}
			seen[j] = struct{}{}
			g.adjacency[i] = append(g.adjacency[i], j)
		}
	}
	return g
}

// Len returns the number of procedures in the graph.
func (g *Graph) Len() int { return len(g.procedures) }

// Procedure returns the procedure at index i.
func (g *Graph) Procedure(i int) hostiface.Procedure { return g.procedures[i] }

// IndexOf returns the node index for a procedure identity, or (-1,
// false) if it is not part of this graph.
func (g *Graph) IndexOf(identity string) (int, bool) {
	i, ok := g.index[identity]
	return i, ok
}

// Callees returns the indices of i's direct callees within this graph.
func (g *Graph) Callees(i int) []int { return g.adjacency[i] }

// IsSelfRecursive reports whether procedure i calls itself directly.
func (g *Graph) IsSelfRecursive(i int) bool {
	for _, j := range g.adjacency[i] {
		if j == i {
			return true
		}
	}
	return false
}

// EntryPoints returns the indices of procedures with no incoming edges
// from within this graph (spec §4.4 "entry points").
func (g *Graph) EntryPoints() []int {
	hasIncoming := make([]bool, len(g.procedures))
	for _, callees := range g.adjacency {
		for _, j := range callees {
			hasIncoming[j] = true
		}
	}
	var out []int
	for i, has := range hasIncoming {
		if !has {
			out = append(out, i)
		}
	}
	return out
}

// Leaves returns the indices of procedures with no outgoing edges
// (spec §4.4 "leaves").
func (g *Graph) Leaves() []int {
	var out []int
	for i, callees := range g.adjacency {
		if len(callees) == 0 {
			out = append(out, i)
		}
	}
	return out
}
