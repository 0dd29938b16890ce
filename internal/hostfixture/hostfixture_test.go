package hostfixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanso-complexity/complexity/internal/hostiface"
)

func mustParse(t *testing.T, src string) *SyntaxTree {
	t.Helper()
	tree, err := Parse("fixture.demo", src)
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

func findProc(t *testing.T, tree *SyntaxTree, name string) hostiface.Procedure {
	t.Helper()
	for _, p := range tree.Procedures() {
		if p.Name() == name {
			return p
		}
	}
	t.Fatalf("procedure %q not found", name)
	return nil
}

func TestParseSimpleForLoop(t *testing.T) {
	src := `
proc sumTo(n: int) {
    var total: int = 0;
    for (var i: int = 0; i < n; i = i + 1) {
        total = total + i;
    }
    return total;
}
`
	tree := mustParse(t, src)
	procs := tree.Procedures()
	require.Len(t, procs, 1)

	proc := procs[0]
	assert.Equal(t, "sumTo", proc.Name())
	assert.Equal(t, "sumTo", proc.Identity())
	require.Len(t, proc.Parameters(), 1)
	assert.Equal(t, "n", proc.Parameters()[0].Symbol.Name())

	body := proc.Body()
	require.NotNil(t, body)
	stmts := body.Statements()
	require.Len(t, stmts, 3)
	assert.Equal(t, hostiface.StmtVarDecl, stmts[0].Kind())

	loop, ok := stmts[1].(hostiface.LoopStmt)
	require.True(t, ok, "second statement should be a LoopStmt")
	assert.Equal(t, hostiface.StmtFor, loop.Kind())
	assert.False(t, loop.IsForEach())
	assert.False(t, loop.IsDoWhile())
	require.NotNil(t, loop.Condition())
	require.NotNil(t, loop.Step())
}

func TestParseComplexityAnnotation(t *testing.T) {
	src := `
#[Complexity("O(n log n)")]
proc mergeSort(items: List<int>) {
    return;
}
`
	tree := mustParse(t, src)
	proc := findProc(t, tree, "mergeSort")
	annotation, ok := proc.ComplexityAnnotation()
	assert.True(t, ok)
	assert.Equal(t, "O(n log n)", annotation)

	require.Len(t, proc.Parameters(), 1)
	typ := proc.Parameters()[0].Type
	require.NotNil(t, typ)
	assert.True(t, typ.IsCollection())
	assert.NotNil(t, typ.ElementType())
	assert.Equal(t, "int", typ.ElementType().TypeName())
}

func TestParseForeachOverCollectionInfersElementType(t *testing.T) {
	src := `
proc printAll(items: List<int>) {
    foreach (item in items) {
        var doubled: int = item * 2;
    }
}
`
	tree := mustParse(t, src)
	proc := findProc(t, tree, "printAll")
	stmts := proc.Body().Statements()
	require.Len(t, stmts, 1)

	loop, ok := stmts[0].(hostiface.LoopStmt)
	require.True(t, ok)
	assert.True(t, loop.IsForEach())
	require.NotNil(t, loop.Collection())
	assert.Equal(t, "items", loop.Collection().Text())

	bodyStmts := loop.Body().(hostiface.BlockStmt).Statements()
	require.Len(t, bodyStmts, 1)
	decl, ok := bodyStmts[0].(hostiface.VarDeclStmt)
	require.True(t, ok)
	product, ok := decl.Init().(hostiface.BinaryExpr)
	require.True(t, ok)
	itemType := product.Left().ResolvedType()
	require.NotNil(t, itemType, "foreach variable should carry the collection's element type")
	assert.Equal(t, "int", itemType.TypeName())
}

func TestParseMutualRecursionResolvesCallGraphEdges(t *testing.T) {
	src := `
proc isEven(n: int) {
    if (n == 0) {
        return;
    }
    isOdd(n - 1);
}

proc isOdd(n: int) {
    if (n == 0) {
        return;
    }
    isEven(n - 1);
}
`
	tree := mustParse(t, src)
	isEven := findProc(t, tree, "isEven")
	isOdd := findProc(t, tree, "isOdd")

	require.Len(t, isEven.DirectCallees(), 1)
	assert.Equal(t, isOdd.Identity(), isEven.DirectCallees()[0].Identity())

	require.Len(t, isOdd.DirectCallees(), 1)
	assert.Equal(t, isEven.Identity(), isOdd.DirectCallees()[0].Identity())
}

func TestParseMethodCallDeclaringType(t *testing.T) {
	src := `
proc List.Add(self: List<int>, value: int) {
    return;
}

proc useIt(items: List<int>) {
    items.Add(1);
}
`
	tree := mustParse(t, src)
	add := findProc(t, tree, "Add")
	assert.Equal(t, "List", add.DeclaringTypeName())
	assert.Equal(t, "List.Add", add.Identity())

	useIt := findProc(t, tree, "useIt")
	require.Len(t, useIt.DirectCallees(), 1)
	assert.Equal(t, add.Identity(), useIt.DirectCallees()[0].Identity())
}

func TestParseAssignmentSuffixIsBinaryExpr(t *testing.T) {
	src := `
proc accumulate(n: int) {
    var total: int = 0;
    var i: int = 0;
    while (i < n) {
        total += i;
        i++;
    }
    return total;
}
`
	tree := mustParse(t, src)
	proc := findProc(t, tree, "accumulate")
	stmts := proc.Body().Statements()
	require.Len(t, stmts, 4)

	loop, ok := stmts[2].(hostiface.LoopStmt)
	require.True(t, ok)
	bodyStmts := loop.Body().(hostiface.BlockStmt).Statements()
	require.Len(t, bodyStmts, 2)

	exprStmt, ok := bodyStmts[0].(hostiface.ExprStmt)
	require.True(t, ok)
	assignExpr, ok := exprStmt.Expression().(hostiface.BinaryExpr)
	require.True(t, ok, "compound assignment should satisfy hostiface.BinaryExpr")
	assert.Equal(t, "+=", assignExpr.Operator())
}

func TestParseRejectsMalformedSource(t *testing.T) {
	_, err := Parse("bad.demo", "proc broken( {")
	assert.Error(t, err)
}
