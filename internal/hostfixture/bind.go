package hostfixture

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/kanso-complexity/complexity/internal/hostiface"
)

// collectionTypeNames drives TypeRef -> TypeInfo.IsCollection, mirroring
// the teacher's internal/types package recognizing a fixed set of
// built-in container type names.
var collectionTypeNames = map[string]bool{
	"List": true, "Array": true, "Slice": true, "Vector": true,
	"Set": true, "HashSet": true, "Map": true, "HashMap": true,
	"Dictionary": true, "Queue": true, "Stack": true,
}

var demoParser = participle.MustBuild[Program](
	participle.Lexer(DemoLexer),
	participle.Unquote("String"),
	participle.UseLookahead(2),
	participle.Elide("Comment", "Whitespace"),
)

// Parse parses source text in the demo procedural language and binds it
// into a SyntaxTree: resolved symbols, resolved types, and call-graph
// edges, mirroring the split the teacher keeps between grammar.Program
// (parse tree) and internal/ast (the bound tree internal/semantic
// walks).
func Parse(filename, source string) (*SyntaxTree, error) {
	prog, err := demoParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	b := &binder{file: filename, symbolTypes: map[string]hostiface.TypeInfo{}, procSymbols: map[string]*symbol{}}
	return b.bindProgram(prog), nil
}

// scope is a lexical block scope: a chain of name->symbol maps,
// supporting shadowing the way the teacher's own block-scoped binder
// does.
type scope struct {
	parent *scope
	vars   map[string]*symbol
}

func newScope(parent *scope) *scope { return &scope{parent: parent, vars: map[string]*symbol{}} }

func (s *scope) declare(name string, sym *symbol) { s.vars[name] = sym }

func (s *scope) lookup(name string) *symbol {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.vars[name]; ok {
			return sym
		}
	}
	return nil
}

// binder converts one parsed Program into a bound SyntaxTree. It is not
// reentrant; Parse constructs a fresh one per call.
type binder struct {
	file        string
	nextID      int
	symbolTypes map[string]hostiface.TypeInfo
	procSymbols map[string]*symbol
	curCallees  []hostiface.Symbol
}

func procKey(declaringType, name string) string {
	if declaringType == "" {
		return name
	}
	return declaringType + "." + name
}

func (b *binder) newSymbol(name string) *symbol {
	b.nextID++
	return &symbol{id: fmt.Sprintf("%s#%d", name, b.nextID), name: name}
}

func (b *binder) bindProgram(p *Program) *SyntaxTree {
	// Pass 1: register every procedure's identity up front so calls can
	// resolve regardless of declaration order (forward references,
	// mutual recursion).
	for _, pd := range p.Procedures {
		key := procKey(pd.DeclaringType, pd.Name)
		b.procSymbols[key] = &symbol{id: key, name: pd.Name}
	}

	procs := make([]hostiface.Procedure, 0, len(p.Procedures))
	for _, pd := range p.Procedures {
		procs = append(procs, b.bindProcedure(pd))
	}
	return &SyntaxTree{procedures: procs}
}

func (b *binder) bindProcedure(pd *ProcDecl) hostiface.Procedure {
	key := procKey(pd.DeclaringType, pd.Name)
	root := newScope(nil)

	params := make([]hostiface.Parameter, 0, len(pd.Params))
	for _, p := range pd.Params {
		typ := convertType(p.Type)
		sym := b.newSymbol(p.Name)
		b.symbolTypes[sym.id] = asTypeInfo(typ)
		root.declare(p.Name, sym)
		params = append(params, hostiface.Parameter{Symbol: sym, Type: asTypeInfo(typ)})
	}

	b.curCallees = nil
	body := b.convertBlock(pd.Body, root)

	annotation, hasAnnotation := "", false
	if pd.Annotation != nil {
		annotation, hasAnnotation = pd.Annotation.Value, true
	}

	return &procedure{
		name:          pd.Name,
		declaringType: pd.DeclaringType,
		file:          b.file,
		line:          pd.Pos.Line,
		params:        params,
		body:          body,
		annotation:    annotation,
		hasAnnotation: hasAnnotation,
		directCallees: b.curCallees,
		identity:      key,
	}
}

func convertType(t *TypeRef) *typeInfo {
	if t == nil {
		return nil
	}
	var elem *typeInfo
	if len(t.Elements) > 0 {
		elem = convertType(t.Elements[0])
	}
	return &typeInfo{name: t.Name, collection: collectionTypeNames[t.Name], element: elem}
}

func asTypeInfo(t *typeInfo) hostiface.TypeInfo {
	if t == nil {
		return nil
	}
	return t
}

func pos(p lexer.Position, file string) hostiface.Position {
	return hostiface.Position{File: file, Line: p.Line, Column: p.Column}
}

// --- statements ---

func (b *binder) convertBlock(blk *Block, parent *scope) *blockStmt {
	if blk == nil {
		return &blockStmt{boundStmt: &boundStmt{kind: hostiface.StmtBlock}, stmts: nil}
	}
	child := newScope(parent)
	stmts := make([]hostiface.Stmt, 0, len(blk.Stmts))
	for _, s := range blk.Stmts {
		stmts = append(stmts, b.convertStatement(s, child))
	}
	return &blockStmt{boundStmt: &boundStmt{kind: hostiface.StmtBlock, pos: pos(blk.Pos, b.file)}, stmts: stmts}
}

func (b *binder) convertStatement(s *Statement, scope *scope) hostiface.Stmt {
	switch {
	case s.VarDecl != nil:
		return b.convertVarDecl(s.VarDecl, scope)
	case s.If != nil:
		return b.convertIf(s.If, scope)
	case s.For != nil:
		return b.convertFor(s.For, scope)
	case s.Foreach != nil:
		return b.convertForeach(s.Foreach, scope)
	case s.While != nil:
		return b.convertWhile(s.While, scope)
	case s.DoWhile != nil:
		return b.convertDoWhile(s.DoWhile, scope)
	case s.Return != nil:
		return b.convertReturn(s.Return, scope)
	case s.Block != nil:
		return b.convertBlock(s.Block, scope)
	case s.ExprStmt != nil:
		return b.convertExprStmt(s.ExprStmt, scope)
	default:
		return &blockStmt{boundStmt: &boundStmt{kind: hostiface.StmtBlock, pos: pos(s.Pos, b.file)}}
	}
}

func (b *binder) convertVarDecl(v *VarDeclStatement, scope *scope) hostiface.Stmt {
	var initExpr hostiface.Expr
	if v.Init != nil {
		initExpr = b.convertExpression(v.Init, scope)
	}
	var typ *typeInfo
	if v.Type != nil {
		typ = convertType(v.Type)
	} else if initExpr != nil {
		if it, ok := initExpr.ResolvedType().(*typeInfo); ok {
			typ = it
		}
	}
	sym := b.newSymbol(v.Name)
	b.symbolTypes[sym.id] = asTypeInfo(typ)
	scope.declare(v.Name, sym)
	return &varDeclStmt{
		boundStmt: &boundStmt{kind: hostiface.StmtVarDecl, pos: pos(v.Pos, b.file)},
		symbol:    sym, init: initExpr,
	}
}

func (b *binder) convertIf(i *IfStatement, scope *scope) hostiface.Stmt {
	cond := b.convertExpression(i.Cond, scope)
	then := b.convertStatement(i.Then, scope)
	var els hostiface.Stmt
	if i.Else != nil {
		els = b.convertStatement(i.Else, scope)
	}
	return &ifStmt{
		boundStmt: &boundStmt{kind: hostiface.StmtIf, pos: pos(i.Pos, b.file)},
		cond:      cond, then: then, els: els,
	}
}

func (b *binder) convertFor(f *ForStatement, parent *scope) hostiface.Stmt {
	child := newScope(parent)
	initStmt := b.convertVarDecl(f.Init, child)
	cond := b.convertExpression(f.Cond, child)
	stepExpr := b.convertExpression(f.Step, child)
	stepStmt := hostiface.Stmt(&exprStmt{
		boundStmt: &boundStmt{kind: hostiface.StmtExpr, pos: pos(f.Pos, b.file)},
		expr:      stepExpr,
	})
	body := b.convertStatement(f.Body, child)
	return &loopStmt{
		boundStmt: &boundStmt{kind: hostiface.StmtFor, pos: pos(f.Pos, b.file)},
		body:      body, init: initStmt, cond: cond, step: stepStmt,
	}
}

func (b *binder) convertForeach(f *ForeachStatement, parent *scope) hostiface.Stmt {
	coll := b.convertExpression(f.Collection, parent)
	child := newScope(parent)
	var elemType hostiface.TypeInfo
	if coll != nil && coll.ResolvedType() != nil {
		elemType = coll.ResolvedType().ElementType()
	}
	sym := b.newSymbol(f.VarName)
	b.symbolTypes[sym.id] = elemType
	child.declare(f.VarName, sym)
	body := b.convertStatement(f.Body, child)
	return &loopStmt{
		boundStmt:  &boundStmt{kind: hostiface.StmtForEach, pos: pos(f.Pos, b.file)},
		body:       body, isForEach: true, collection: coll,
	}
}

func (b *binder) convertWhile(w *WhileStatement, scope *scope) hostiface.Stmt {
	cond := b.convertExpression(w.Cond, scope)
	body := b.convertStatement(w.Body, scope)
	return &loopStmt{
		boundStmt: &boundStmt{kind: hostiface.StmtWhile, pos: pos(w.Pos, b.file)},
		body:      body, cond: cond,
	}
}

func (b *binder) convertDoWhile(d *DoWhileStatement, scope *scope) hostiface.Stmt {
	body := b.convertStatement(d.Body, scope)
	cond := b.convertExpression(d.Cond, scope)
	return &loopStmt{
		boundStmt: &boundStmt{kind: hostiface.StmtDoWhile, pos: pos(d.Pos, b.file)},
		body:      body, cond: cond, isDoWhile: true,
	}
}

func (b *binder) convertReturn(r *ReturnStatement, scope *scope) hostiface.Stmt {
	var value hostiface.Expr
	if r.Value != nil {
		value = b.convertExpression(r.Value, scope)
	}
	return &returnStmt{
		boundStmt: &boundStmt{kind: hostiface.StmtReturn, pos: pos(r.Pos, b.file)},
		value:     value,
	}
}

func (b *binder) convertExprStmt(e *ExprStatement, scope *scope) hostiface.Stmt {
	expr := b.convertExpression(e.Expr, scope)
	return &exprStmt{
		boundStmt: &boundStmt{kind: hostiface.StmtExpr, pos: pos(e.Pos, b.file)},
		expr:      expr,
	}
}

// --- expressions ---

func (b *binder) convertExpression(e *Expression, scope *scope) hostiface.Expr {
	if e == nil {
		return nil
	}
	left := b.convertAdditive(e.Left, scope)
	if e.Op == "" {
		return left
	}
	right := b.convertAdditive(e.Right, scope)
	return b.binary(pos(e.Pos, b.file), e.Op, left, right)
}

func (b *binder) convertAdditive(a *Additive, scope *scope) hostiface.Expr {
	if a == nil {
		return nil
	}
	left := b.convertMultiplicative(a.Left, scope)
	for _, r := range a.Rest {
		right := b.convertMultiplicative(r.Right, scope)
		left = b.binary(pos(a.Pos, b.file), r.Op, left, right)
	}
	return left
}

func (b *binder) convertMultiplicative(m *Multiplicative, scope *scope) hostiface.Expr {
	if m == nil {
		return nil
	}
	left := b.convertUnary(m.Left, scope)
	for _, r := range m.Rest {
		right := b.convertUnary(r.Right, scope)
		left = b.binary(pos(m.Pos, b.file), r.Op, left, right)
	}
	return left
}

func (b *binder) convertUnary(u *Unary, scope *scope) hostiface.Expr {
	if u == nil {
		return nil
	}
	inner := b.convertPostfix(u.Postfix, scope)
	if u.Op == "" {
		return inner
	}
	return &boundExpr{
		kind: hostiface.ExprUnaryOp, pos: pos(u.Pos, b.file),
		children: []hostiface.Expr{inner}, text: u.Op,
	}
}

func (b *binder) convertPostfix(p *Postfix, scope *scope) hostiface.Expr {
	if p == nil {
		return nil
	}
	cur := b.convertPrimary(p.Primary, scope)
	for _, part := range p.Suffix {
		at := pos(part.Pos, b.file)
		switch {
		case part.MemberCall != nil:
			name := part.MemberCall.Name
			if part.MemberCall.Call != nil {
				args := b.convertArgs(part.MemberCall.Call, scope)
				declType := receiverTypeName(cur)
				cur = b.call(at, declType, name, args, cur)
			} else {
				cur = &boundExpr{
					kind: hostiface.ExprMemberAccess, pos: at,
					children: []hostiface.Expr{cur}, text: name,
				}
			}
		case part.DirectCall != nil:
			name := exprName(cur)
			args := b.convertArgs(part.DirectCall, scope)
			cur = b.call(at, "", name, args, nil)
		case part.Index != nil:
			idx := b.convertExpression(part.Index, scope)
			cur = &boundExpr{
				kind: hostiface.ExprMemberAccess, pos: at,
				children: []hostiface.Expr{cur, idx}, text: "[]",
			}
		case part.Assign != nil:
			val := b.convertExpression(part.Assign.Value, scope)
			cur = binaryExpr{&boundExpr{
				kind: hostiface.ExprAssignment, pos: at,
				children: []hostiface.Expr{cur, val}, text: part.Assign.Op,
				operator: part.Assign.Op, left: cur, right: val,
			}}
		case part.Inc != "":
			cur = &boundExpr{
				kind: hostiface.ExprUnaryOp, pos: at,
				children: []hostiface.Expr{cur}, text: part.Inc,
			}
		}
	}
	return cur
}

func (b *binder) convertPrimary(p *Primary, scope *scope) hostiface.Expr {
	if p == nil {
		return nil
	}
	at := pos(p.Pos, b.file)
	switch {
	case p.New != nil:
		typ := convertType(p.New.Type)
		var args []hostiface.Expr
		if p.New.Args != nil {
			args = b.convertArgs(p.New.Args, scope)
		}
		return &boundExpr{
			kind: hostiface.ExprObjectCreation, pos: at,
			typ: asTypeInfo(typ), children: args, text: "new " + p.New.Type.Name,
		}
	case p.Float != nil:
		return &boundExpr{kind: hostiface.ExprLiteral, pos: at, text: fmt.Sprintf("%v", *p.Float)}
	case p.Int != nil:
		return &boundExpr{kind: hostiface.ExprLiteral, pos: at, text: fmt.Sprintf("%v", *p.Int)}
	case p.Str != nil:
		return &boundExpr{kind: hostiface.ExprLiteral, pos: at, text: *p.Str}
	case p.Ident != "":
		sym := scope.lookup(p.Ident)
		var typ hostiface.TypeInfo
		if sym != nil {
			typ = b.symbolTypes[sym.id]
		}
		var resolved hostiface.Symbol
		if sym != nil {
			resolved = sym
		}
		return &boundExpr{kind: hostiface.ExprIdentifier, pos: at, symbol: resolved, typ: typ, text: p.Ident}
	case p.Nested != nil:
		return b.convertExpression(p.Nested, scope)
	default:
		return &boundExpr{kind: hostiface.ExprLiteral, pos: at}
	}
}

func (b *binder) convertArgs(a *Arguments, scope *scope) []hostiface.Expr {
	if a == nil {
		return nil
	}
	args := make([]hostiface.Expr, 0, len(a.Args))
	for _, e := range a.Args {
		args = append(args, b.convertExpression(e, scope))
	}
	return args
}

func (b *binder) binary(at hostiface.Position, op string, left, right hostiface.Expr) hostiface.Expr {
	return binaryExpr{&boundExpr{
		kind: hostiface.ExprBinaryOp, pos: at,
		children: []hostiface.Expr{left, right}, text: op,
		operator: op, left: left, right: right,
	}}
}

// receiverTypeName derives a method call's declaring-type name: the
// receiver's resolved type when known, else its bare identifier text —
// covering both "list.Sort()" (typed local) and "Math.Sqrt(x)"
// (namespace-style static call with no declared symbol).
func receiverTypeName(receiver hostiface.Expr) string {
	if receiver == nil {
		return ""
	}
	if t := receiver.ResolvedType(); t != nil {
		return t.TypeName()
	}
	if receiver.Kind() == hostiface.ExprIdentifier {
		return receiver.Text()
	}
	return ""
}

func exprName(e hostiface.Expr) string {
	if e == nil {
		return ""
	}
	return e.Text()
}

// call builds a CallExpr, resolving its callee against this program's
// own procedures (spec §4.3.2 call-graph edges) and recording the edge
// on the enclosing procedure's DirectCallees.
func (b *binder) call(at hostiface.Position, declType, name string, args []hostiface.Expr, receiver hostiface.Expr) hostiface.Expr {
	callee := b.resolveCallee(declType, name)
	if callee != nil {
		b.curCallees = append(b.curCallees, callee)
	}
	children := args
	if receiver != nil {
		children = append([]hostiface.Expr{receiver}, args...)
	}
	text := name
	if declType != "" {
		text = declType + "." + name
	}
	be := &boundExpr{
		kind: hostiface.ExprCall, pos: at,
		children: children, text: text,
		callee: callee, args: args, declaringType: declType, methodName: name,
	}
	return callExpr{be}
}

func (b *binder) resolveCallee(declType, name string) hostiface.Symbol {
	if sym, ok := b.procSymbols[procKey(declType, name)]; ok {
		return sym
	}
	if declType == "" {
		return nil
	}
	return nil
}
