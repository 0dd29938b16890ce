package hostfixture

import "github.com/kanso-complexity/complexity/internal/hostiface"

// This file defines the bound node types hostfixture exposes through
// hostiface — a second, semantic tree distinct from grammar.go's parse
// tree, exactly the way the teacher keeps grammar.Program (participle
// parse tree) and internal/ast.Contract (the bound tree semantic.go
// walks) as two separate layers. bind.go performs the conversion and
// symbol resolution; this file only carries data plus the hostiface
// method implementations.

// symbol is the one hostiface.Symbol implementation: an identity string
// unique within one bound program (parameter/local symbols are
// "name#k" with k a per-program counter, procedure symbols are
// "Declaring.Name", or just "Name" for a procedure with no declaring
// type).
type symbol struct {
	id   string
	name string
}

func (s *symbol) Identity() string { return s.id }
func (s *symbol) Name() string     { return s.name }

// typeInfo is the one hostiface.TypeInfo implementation.
type typeInfo struct {
	name       string
	collection bool
	element    *typeInfo
}

func (t *typeInfo) TypeName() string { return t.name }
func (t *typeInfo) IsCollection() bool { return t.collection }
func (t *typeInfo) ElementType() hostiface.TypeInfo {
	if t.element == nil {
		return nil
	}
	return t.element
}

// --- expressions ---

type boundExpr struct {
	kind     hostiface.ExprKind
	pos      hostiface.Position
	symbol   hostiface.Symbol
	typ      hostiface.TypeInfo
	children []hostiface.Expr
	text     string

	// call-specific fields, populated only when kind == ExprCall.
	callee        hostiface.Symbol
	args          []hostiface.Expr
	declaringType string
	methodName    string

	// binary-specific fields, populated only when kind == ExprBinaryOp.
	operator string
	left     hostiface.Expr
	right    hostiface.Expr
}

func (e *boundExpr) Kind() hostiface.ExprKind        { return e.kind }
func (e *boundExpr) Pos() hostiface.Position         { return e.pos }
func (e *boundExpr) ResolvedSymbol() hostiface.Symbol { return e.symbol }
func (e *boundExpr) ResolvedType() hostiface.TypeInfo { return e.typ }
func (e *boundExpr) Children() []hostiface.Expr      { return e.children }
func (e *boundExpr) Text() string                    { return e.text }

// callExpr wraps boundExpr to also satisfy hostiface.CallExpr.
type callExpr struct{ *boundExpr }

func (c callExpr) Callee() hostiface.Symbol       { return c.callee }
func (c callExpr) Arguments() []hostiface.Expr    { return c.args }
func (c callExpr) DeclaringTypeName() string      { return c.declaringType }
func (c callExpr) MethodName() string             { return c.methodName }

// binaryExpr wraps boundExpr to also satisfy hostiface.BinaryExpr.
type binaryExpr struct{ *boundExpr }

func (b binaryExpr) Operator() string     { return b.operator }
func (b binaryExpr) Left() hostiface.Expr  { return b.left }
func (b binaryExpr) Right() hostiface.Expr { return b.right }

// --- statements ---

type boundStmt struct {
	kind hostiface.StmtKind
	pos  hostiface.Position
}

func (s *boundStmt) Kind() hostiface.StmtKind { return s.kind }
func (s *boundStmt) Pos() hostiface.Position  { return s.pos }

type blockStmt struct {
	*boundStmt
	stmts []hostiface.Stmt
}

func (b *blockStmt) Statements() []hostiface.Stmt { return b.stmts }

type exprStmt struct {
	*boundStmt
	expr hostiface.Expr
}

func (e *exprStmt) Expression() hostiface.Expr { return e.expr }

type varDeclStmt struct {
	*boundStmt
	symbol hostiface.Symbol
	init   hostiface.Expr
}

func (v *varDeclStmt) DeclaredSymbol() hostiface.Symbol { return v.symbol }
func (v *varDeclStmt) Init() hostiface.Expr             { return v.init }

type returnStmt struct {
	*boundStmt
	value hostiface.Expr
}

func (r *returnStmt) Value() hostiface.Expr { return r.value }

type ifStmt struct {
	*boundStmt
	cond hostiface.Expr
	then hostiface.Stmt
	els  hostiface.Stmt
}

func (i *ifStmt) Condition() hostiface.Expr { return i.cond }
func (i *ifStmt) Then() hostiface.Stmt      { return i.then }
func (i *ifStmt) Else() hostiface.Stmt      { return i.els }

type loopStmt struct {
	*boundStmt
	body       hostiface.Stmt
	isForEach  bool
	isDoWhile  bool
	collection hostiface.Expr
	init       hostiface.Stmt
	cond       hostiface.Expr
	step       hostiface.Stmt
}

func (l *loopStmt) Body() hostiface.Stmt          { return l.body }
func (l *loopStmt) IsForEach() bool               { return l.isForEach }
func (l *loopStmt) IsDoWhile() bool               { return l.isDoWhile }
func (l *loopStmt) Collection() hostiface.Expr     { return l.collection }
func (l *loopStmt) Init() hostiface.Stmt          { return l.init }
func (l *loopStmt) Condition() hostiface.Expr      { return l.cond }
func (l *loopStmt) Step() hostiface.Stmt          { return l.step }

// --- procedure / syntax tree ---

type procedure struct {
	name             string
	declaringType    string
	file             string
	line             int
	params           []hostiface.Parameter
	body             hostiface.BlockStmt
	annotation       string
	hasAnnotation    bool
	directCallees    []hostiface.Symbol
	identity         string
}

func (p *procedure) Name() string                     { return p.name }
func (p *procedure) DeclaringTypeName() string         { return p.declaringType }
func (p *procedure) File() string                      { return p.file }
func (p *procedure) Line() int                         { return p.line }
func (p *procedure) Parameters() []hostiface.Parameter { return p.params }
func (p *procedure) Body() hostiface.BlockStmt         { return p.body }
func (p *procedure) ComplexityAnnotation() (string, bool) {
	return p.annotation, p.hasAnnotation
}
func (p *procedure) DirectCallees() []hostiface.Symbol { return p.directCallees }
func (p *procedure) Identity() string                  { return p.identity }

// SyntaxTree is the bound program: every procedure hostfixture parsed
// and resolved from one source file.
type SyntaxTree struct {
	procedures []hostiface.Procedure
}

func (t *SyntaxTree) Procedures() []hostiface.Procedure { return t.procedures }
