package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanso-complexity/complexity/internal/hostiface"
)

// fakeSymbol and fakeProcedure are the minimal stand-ins this package's
// own tests need; the real adapter lives in internal/hostfixture.
type fakeSymbol struct{ id string }

func (s fakeSymbol) Identity() string { return s.id }
func (s fakeSymbol) Name() string     { return s.id }

type fakeProcedure struct {
	id       string
	callees  []hostiface.Symbol
}

func (p *fakeProcedure) Name() string                          { return p.id }
func (p *fakeProcedure) DeclaringTypeName() string              { return "" }
func (p *fakeProcedure) File() string                           { return "fake.go" }
func (p *fakeProcedure) Line() int                              { return 1 }
func (p *fakeProcedure) Parameters() []hostiface.Parameter      { return nil }
func (p *fakeProcedure) Body() hostiface.BlockStmt               { return nil }
func (p *fakeProcedure) ComplexityAnnotation() (string, bool)    { return "", false }
func (p *fakeProcedure) DirectCallees() []hostiface.Symbol      { return p.callees }
func (p *fakeProcedure) Identity() string                       { return p.id }

func sym(id string) hostiface.Symbol { return fakeSymbol{id: id} }

func TestGraphEdgesOmitExternalCalls(t *testing.T) {
	a := &fakeProcedure{id: "A", callees: []hostiface.Symbol{sym("B"), sym("External.Thing")}}
	b := &fakeProcedure{id: "B"}
	g := NewGraph([]hostiface.Procedure{a, b})

	iA, _ := g.IndexOf("A")
	iB, _ := g.IndexOf("B")
	assert.Equal(t, []int{iB}, g.Callees(iA))
	assert.False(t, g.IsSelfRecursive(iA))
}

func TestSelfRecursionDetected(t *testing.T) {
	a := &fakeProcedure{id: "A"}
	a.callees = []hostiface.Symbol{sym("A")}
	g := NewGraph([]hostiface.Procedure{a})
	iA, _ := g.IndexOf("A")
	assert.True(t, g.IsSelfRecursive(iA))
}

func TestStronglyConnectedComponentsDetectsMutualRecursion(t *testing.T) {
	a := &fakeProcedure{id: "A"}
	b := &fakeProcedure{id: "B"}
	c := &fakeProcedure{id: "C"}
	a.callees = []hostiface.Symbol{sym("B")}
	b.callees = []hostiface.Symbol{sym("A"), sym("C")}
	c.callees = nil
	g := NewGraph([]hostiface.Procedure{a, b, c})

	sccs := StronglyConnectedComponents(g)
	var mutual int
	for _, s := range sccs {
		if s.IsMutualRecursion() {
			mutual++
			assert.ElementsMatch(t, []int{0, 1}, s.Nodes)
		}
	}
	assert.Equal(t, 1, mutual)
}

func TestBuildLayeringOrdersCalleesBeforeCallers(t *testing.T) {
	a := &fakeProcedure{id: "A"}
	b := &fakeProcedure{id: "B"}
	c := &fakeProcedure{id: "C"}
	a.callees = []hostiface.Symbol{sym("B")}
	b.callees = []hostiface.Symbol{sym("C")}
	g := NewGraph([]hostiface.Procedure{a, b, c})

	l := BuildLayering(g)
	assert.Len(t, l.Layers, 3)

	iA, _ := g.IndexOf("A")
	iB, _ := g.IndexOf("B")
	iC, _ := g.IndexOf("C")
	layerOf := func(nodeIdx int) int {
		comp := l.ComponentOf[nodeIdx]
		for li, layer := range l.Layers {
			for _, c := range layer {
				if c == comp {
					return li
				}
			}
		}
		return -1
	}
	assert.True(t, layerOf(iC) < layerOf(iB))
	assert.True(t, layerOf(iB) < layerOf(iA))
}

func TestEntryPointsAndLeaves(t *testing.T) {
	a := &fakeProcedure{id: "A"}
	b := &fakeProcedure{id: "B"}
	a.callees = []hostiface.Symbol{sym("B")}
	g := NewGraph([]hostiface.Procedure{a, b})

	iA, _ := g.IndexOf("A")
	iB, _ := g.IndexOf("B")
	assert.Equal(t, []int{iA}, g.EntryPoints())
	assert.Equal(t, []int{iB}, g.Leaves())
}
