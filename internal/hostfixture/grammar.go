// Package hostfixture is the one concrete hostiface.SyntaxTree/Procedure
// implementation in this repository: a minimal procedural demo
// language (loops, branches, calls, allocations — the shapes kanso's
// own contract grammar has no syntax for) parsed with
// github.com/alecthomas/participle/v2, the same parser-combinator
// library the teacher uses for its own contract grammar. The grammar
// here replaces kanso's `grammar`/`token` packages (a Move-like
// contract language with no loop constructs, unusable as a source of
// loop-bound test fixtures), so this package is this analyzer's
// equivalent of the teacher's own grammar+parser pair, aimed at this
// domain instead of smart contracts. Used by tests and by the CLI's
// demo mode (cmd/complexity-cli).
package hostfixture

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// DemoLexer mirrors the teacher's grammar.KansoLexer: a stateful lexer
// with Comment/Ident/Float/Int/String/Operator/Whitespace token classes.
var DemoLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Int", `[0-9]+`, nil},
		{"String", `"(\\.|[^"])*"`, nil},
		{"Operator", `(\|\||&&|==|!=|<=|>=|\+=|-=|\*=|/=|\+\+|--|[-+*/%=<>!.,;:(){}\[\]#&|)]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// Program is the grammar root: a sequence of procedure declarations.
type Program struct {
	Pos        lexer.Position
	Procedures []*ProcDecl `@@*`
}

// Annotation is a Complexity(...) attribute (spec §6 "Optional
// attribute/doc input").
type Annotation struct {
	Pos   lexer.Position
	Value string `"#" "[" "Complexity" "(" @String ")" "]"`
}

// ProcDecl is one procedure or method declaration. DeclaringType is
// set for the "Type.Method(...)" method-declaration form.
type ProcDecl struct {
	Pos           lexer.Position
	Annotation    *Annotation `@@?`
	DeclaringType string      `"proc" [ @Ident "." ]`
	Name          string      `@Ident "("`
	Params        []*ParamDecl `[ @@ { "," @@ } ] ")"`
	ReturnType    *TypeRef    `[ ":" @@ ]`
	Body          *Block      `@@`
}

// ParamDecl is one formal parameter.
type ParamDecl struct {
	Pos  lexer.Position
	Name string  `@Ident ":"`
	Type *TypeRef `@@`
}

// TypeRef names a type, optionally generic (e.g. "List<int>"); IsCollection
// is derived from Name by collectionTypeNames (see bind.go).
type TypeRef struct {
	Pos      lexer.Position
	Name     string     `@Ident`
	Elements []*TypeRef `[ "<" @@ { "," @@ } ">" ]`
}

// Block is a brace-delimited statement sequence.
type Block struct {
	Pos   lexer.Position
	Stmts []*Statement `"{" @@* "}"`
}

// Statement is the sum of every statement shape the grammar accepts.
// Exactly one field is populated per parse.
type Statement struct {
	Pos      lexer.Position
	VarDecl  *VarDeclStatement `  @@`
	If       *IfStatement      `| @@`
	For      *ForStatement     `| @@`
	Foreach  *ForeachStatement `| @@`
	While    *WhileStatement   `| @@`
	DoWhile  *DoWhileStatement `| @@`
	Return   *ReturnStatement  `| @@`
	Block    *Block            `| @@`
	ExprStmt *ExprStatement    `| @@`
}

// VarDeclStatement introduces a local variable.
type VarDeclStatement struct {
	Pos  lexer.Position
	Name string      `"var" @Ident`
	Type *TypeRef    `[ ":" @@ ]`
	Init *Expression `[ "=" @@ ] ";"`
}

// IfStatement models if/else.
type IfStatement struct {
	Pos  lexer.Position
	Cond *Expression `"if" "(" @@ ")"`
	Then *Statement  `@@`
	Else *Statement  `[ "else" @@ ]`
}

// ForStatement models a counted for loop.
type ForStatement struct {
	Pos  lexer.Position
	Init *VarDeclStatement `"for" "(" @@`
	Cond *Expression       `@@ ";"`
	Step *Expression       `@@ ")"`
	Body *Statement        `@@`
}

// ForeachStatement models collection iteration.
type ForeachStatement struct {
	Pos        lexer.Position
	VarName    string      `"foreach" "(" @Ident "in"`
	Collection *Expression `@@ ")"`
	Body       *Statement  `@@`
}

// WhileStatement models a while loop.
type WhileStatement struct {
	Pos  lexer.Position
	Cond *Expression `"while" "(" @@ ")"`
	Body *Statement  `@@`
}

// DoWhileStatement models a do-while loop.
type DoWhileStatement struct {
	Pos  lexer.Position
	Body *Statement  `"do" @@`
	Cond *Expression `"while" "(" @@ ")" ";"`
}

// ReturnStatement exits the enclosing procedure.
type ReturnStatement struct {
	Pos   lexer.Position
	Value *Expression `"return" [ @@ ] ";"`
}

// ExprStatement wraps a bare expression statement.
type ExprStatement struct {
	Pos  lexer.Position
	Expr *Expression `@@ ";"`
}

// Expression is a 4-level precedence climb: comparison > additive >
// multiplicative > unary > postfix > primary.
type Expression struct {
	Pos   lexer.Position
	Left  *Additive `@@`
	Op    string    `[ @( "==" | "!=" | "<=" | ">=" | "<" | ">" )`
	Right *Additive `  @@ ]`
}

type Additive struct {
	Pos   lexer.Position
	Left  *Multiplicative  `@@`
	Rest  []*AdditiveRest `@@*`
}

type AdditiveRest struct {
	Op    string          `@( "+" | "-" )`
	Right *Multiplicative `@@`
}

type Multiplicative struct {
	Pos  lexer.Position
	Left *Unary               `@@`
	Rest []*MultiplicativeRest `@@*`
}

type MultiplicativeRest struct {
	Op    string `@( "*" | "/" | "%" )`
	Right *Unary `@@`
}

// Unary is a prefix-operator application over a Postfix chain.
type Unary struct {
	Pos     lexer.Position
	Op      string   `[ @( "!" | "-" | "++" | "--" ) ]`
	Postfix *Postfix `@@`
}

// Postfix chains member access and call/index suffixes onto a Primary.
type Postfix struct {
	Pos     lexer.Position
	Primary *Primary       `@@`
	Suffix  []*PostfixPart `@@*`
}

// PostfixPart is one postfix suffix: member access (optionally
// immediately called), an index, a compound/plain assignment, or a
// trailing increment/decrement. Exactly one field is populated.
type PostfixPart struct {
	Pos        lexer.Position
	MemberCall *MemberAccess `  @@`
	DirectCall *Arguments    `| @@`
	Index      *Expression   `| "[" @@ "]"`
	Assign     *AssignSuffix `| @@`
	Inc        string        `| @( "++" | "--" )`
}

// MemberAccess is ".Name" optionally immediately invoked as ".Name(args)".
type MemberAccess struct {
	Pos  lexer.Position
	Name string     `"." @Ident`
	Call *Arguments `[ @@ ]`
}

// AssignSuffix is "op= expr" or "= expr" applied to the preceding lvalue.
type AssignSuffix struct {
	Pos   lexer.Position
	Op    string      `@( "+=" | "-=" | "*=" | "/=" | "=" )`
	Value *Expression `@@`
}

// Arguments is a parenthesized, comma-separated argument list.
type Arguments struct {
	Pos  lexer.Position
	Args []*Expression `"(" [ @@ { "," @@ } ] ")"`
}

// Primary is a literal, identifier, parenthesized expression, or
// object-creation ("new Type(args)").
type Primary struct {
	Pos    lexer.Position
	New    *NewExpr    `  @@`
	Float  *float64    `| @Float`
	Int    *int64      `| @Int`
	Str    *string     `| @String`
	Ident  string      `| @Ident`
	Nested *Expression `| "(" @@ ")"`
}

// NewExpr is an object/array allocation site.
type NewExpr struct {
	Pos  lexer.Position
	Type *TypeRef   `"new" @@`
	Args *Arguments `[ @@ ]`
}
