// Package complexity implements the complexity algebra (spec §3, §4.1):
// a canonical symbolic representation of asymptotic expressions with
// normalization, substitution, and evaluation. The sum type follows the
// teacher's own sealed-interface convention (internal/ast.Node's
// unexported isExpr()/NodeType() pair) rather than an OO class
// hierarchy: every variant below implements Expression via an
// unexported marker method plus a Kind() tag, so a new variant forces
// every switch in this module to be revisited.
package complexity

// Kind tags the dynamic variant of an Expression, mirroring the
// teacher's ast.NodeType enum.
type Kind int

const (
	KindConst Kind = iota
	KindVar
	KindLinear
	KindPoly
	KindLog
	KindPolyLog
	KindExp
	KindFactorial
	KindPower
	KindLogOf
	KindExpOf
	KindFactorialOf
	KindBinary
	KindConditional
	KindRecurrence
	KindAmortized
	KindParallel
	KindMemory
	KindProbabilistic
)

// Expression is the sealed sum type at the heart of the algebra. Every
// variant is immutable once constructed.
type Expression interface {
	Kind() Kind
	isExpression()
}

// BinOp enumerates the binary combinators permitted in Binary.
type BinOp int

const (
	OpAdd BinOp = iota
	OpMul
	OpMax
	OpMin
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpMax:
		return "max"
	case OpMin:
		return "min"
	default:
		return "?"
	}
}

// Distribution tags the probability model behind a Probabilistic node.
type Distribution int

const (
	DistUniform Distribution = iota
	DistGeometric
	DistHighProbabilityBound
)

// --- variants ---

// Const is a literal multiplicative/additive constant, k >= 0.
type Const struct{ K float64 }

// Var is O(v): a single free variable with implicit linear growth.
type Var struct{ V Variable }

// Linear is c*v.
type Linear struct {
	C float64
	V Variable
}

// Poly is a sparse polynomial in one variable: degree -> coefficient.
type Poly struct {
	V     Variable
	Terms map[int]float64
}

// Log is c*log_base(v).
type Log struct {
	C    float64
	V    Variable
	Base float64
}

// PolyLog is v^K * log^J(v), K real, J a non-negative integer.
type PolyLog struct {
	K float64
	J int
	V Variable
}

// Exp is coef * base^v.
type Exp struct {
	Base float64
	V    Variable
	Coef float64
}

// Factorial is coef * v!.
type Factorial struct {
	V    Variable
	Coef float64
}

// Power is BaseExpr^Exponent for a composite (non-Variable) base.
type Power struct {
	BaseExpr Expression
	Exponent float64
}

// LogOf is log_Base(Expr) for a composite argument.
type LogOf struct {
	Expr Expression
	Base float64
}

// ExpOf is Base^Expr for a composite exponent.
type ExpOf struct {
	Base float64
	Expr Expression
}

// FactorialOf is Expr! for a composite argument.
type FactorialOf struct{ Expr Expression }

// Binary combines two expressions with +, *, max, or min.
type Binary struct {
	Left  Expression
	Op    BinOp
	Right Expression
}

// Conditional represents a data-dependent branch whose cost could not
// be resolved to a single closed form (kept distinct from Binary(max)
// so the description can be rendered to the user).
type Conditional struct {
	Description string
	Then        Expression
	Else        Expression
}

// RecurrenceTerm is one additive term a*T(b*v) of a Recurrence.
type RecurrenceTerm struct {
	Coefficient    float64
	SubproblemWork Expression
	ScaleFactor    float64
	// SubtractOffset is the subtract-form shift k in T(v-k) (spec §4.5.3
	// "T(n) = sum aᵢ*T(n-i) + f(n)"), non-zero only when this term is
	// subtract-form (ScaleFactor == 1, see IsSubtractForm). It is what
	// distinguishes e.g. a T(n-1) term from a T(n-2) term, both of which
	// otherwise carry the identical ScaleFactor of 1.
	SubtractOffset int
}

// FitsMaster reports whether this term alone, as the sole term of its
// recurrence, satisfies the Master Theorem shape (spec §3).
func (t RecurrenceTerm) FitsMaster() bool {
	return t.Coefficient >= 1 && t.ScaleFactor > 0 && t.ScaleFactor < 1
}

// FitsAkraBazzi reports whether this term is admissible as one term of
// an Akra-Bazzi recurrence.
func (t RecurrenceTerm) FitsAkraBazzi() bool {
	return t.Coefficient > 0 && t.ScaleFactor > 0 && t.ScaleFactor < 1
}

// IsSubtractForm flags a scale factor close enough to 1 that the
// subtract-form linear solver should be tried (spec §3, Open Question
// "Subtract-vs-divide detection").
func (t RecurrenceTerm) IsSubtractForm() bool {
	return t.ScaleFactor >= 0.99 && t.ScaleFactor < 1.0+1e-9
}

// Recurrence is an unsolved T(v) = sum(terms) + non_recursive_work, with
// an optional symbolic base-case expression.
type Recurrence struct {
	Terms            []RecurrenceTerm
	Variable         Variable
	NonRecursiveWork Expression
	Base             Expression
}

// Allocation records one memory allocation site: its size expression and
// the iteration count of its enclosing loop nest (1 if none).
type Allocation struct {
	Size       Expression
	Iterations Expression
}

// Memory bundles the results of the memory sub-analysis (spec §4.3.4).
type Memory struct {
	Total         Expression
	Stack         Expression
	Heap          Expression
	Auxiliary     Expression
	InPlace       bool
	TailRecursive bool
	Allocations   []Allocation
}

// Amortized pairs an amortized bound with its worst-case bound.
type Amortized struct {
	AmortizedExpr Expression
	Worst         Expression
}

// Parallel bundles work/span results from the parallelism sub-analysis.
type Parallel struct {
	Work        Expression
	Span        Expression
	PatternTag  string
	IsTaskBased bool
	HasSync     bool
}

// Probabilistic bundles expected-vs-worst results from the probabilistic
// sub-analysis.
type Probabilistic struct {
	Expected     Expression
	Worst        Expression
	SourceTag    string
	Distribution Distribution
	Assumptions  []string
}

func (Const) isExpression()         {}
func (Var) isExpression()           {}
func (Linear) isExpression()        {}
func (Poly) isExpression()          {}
func (Log) isExpression()           {}
func (PolyLog) isExpression()       {}
func (Exp) isExpression()           {}
func (Factorial) isExpression()     {}
func (Power) isExpression()         {}
func (LogOf) isExpression()         {}
func (ExpOf) isExpression()         {}
func (FactorialOf) isExpression()   {}
func (Binary) isExpression()        {}
func (Conditional) isExpression()   {}
func (Recurrence) isExpression()    {}
func (Amortized) isExpression()     {}
func (Parallel) isExpression()      {}
func (Memory) isExpression()        {}
func (Probabilistic) isExpression() {}

func (Const) Kind() Kind         { return KindConst }
func (Var) Kind() Kind           { return KindVar }
func (Linear) Kind() Kind        { return KindLinear }
func (Poly) Kind() Kind          { return KindPoly }
func (Log) Kind() Kind           { return KindLog }
func (PolyLog) Kind() Kind       { return KindPolyLog }
func (Exp) Kind() Kind           { return KindExp }
func (Factorial) Kind() Kind     { return KindFactorial }
func (Power) Kind() Kind         { return KindPower }
func (LogOf) Kind() Kind         { return KindLogOf }
func (ExpOf) Kind() Kind         { return KindExpOf }
func (FactorialOf) Kind() Kind   { return KindFactorialOf }
func (Binary) Kind() Kind        { return KindBinary }
func (Conditional) Kind() Kind   { return KindConditional }
func (Recurrence) Kind() Kind    { return KindRecurrence }
func (Amortized) Kind() Kind     { return KindAmortized }
func (Parallel) Kind() Kind      { return KindParallel }
func (Memory) Kind() Kind        { return KindMemory }
func (Probabilistic) Kind() Kind { return KindProbabilistic }

// --- constructors ---

// One is the multiplicative identity, hash-consed as a package value per
// the teacher's design-note preference for sharing canonical leaf
// instances (spec §9).
var (
	Zero = Const{K: 0}
	One  = Const{K: 1}
)

// NewConst builds Const(k); negative k is clamped to 0 since costs are
// never negative.
func NewConst(k float64) Expression {
	if k < 0 {
		k = 0
	}
	return Const{K: k}
}

// NewVar builds Var(v).
func NewVar(v Variable) Expression { return Var{V: v} }

// NewLinear builds c*v.
func NewLinear(c float64, v Variable) Expression { return Linear{C: c, V: v} }

// NewPoly builds a sparse polynomial from a degree->coefficient map,
// copying the input so later mutation by the caller is safe.
func NewPoly(v Variable, terms map[int]float64) Expression {
	cp := make(map[int]float64, len(terms))
	for d, c := range terms {
		if c != 0 {
			cp[d] = c
		}
	}
	return Poly{V: v, Terms: cp}
}

// NewLog builds c*log_base(v).
func NewLog(c float64, v Variable, base float64) Expression {
	if base <= 1 {
		base = 2
	}
	return Log{C: c, V: v, Base: base}
}

// NewPolyLog builds v^k * log^j(v).
func NewPolyLog(k float64, j int, v Variable) Expression {
	if j < 0 {
		j = 0
	}
	return PolyLog{K: k, J: j, V: v}
}

// NewExp builds coef*base^v.
func NewExp(base float64, v Variable, coef float64) Expression {
	return Exp{Base: base, V: v, Coef: coef}
}

// NewFactorial builds coef*v!.
func NewFactorial(v Variable, coef float64) Expression {
	return Factorial{V: v, Coef: coef}
}

// NewPower builds baseExpr^exponent.
func NewPower(base Expression, exponent float64) Expression {
	return Power{BaseExpr: base, Exponent: exponent}
}

// NewLogOf builds log_base(expr).
func NewLogOf(expr Expression, base float64) Expression {
	if base <= 1 {
		base = 2
	}
	return LogOf{Expr: expr, Base: base}
}

// NewExpOf builds base^expr.
func NewExpOf(base float64, expr Expression) Expression {
	return ExpOf{Base: base, Expr: expr}
}

// NewFactorialOf builds expr!.
func NewFactorialOf(expr Expression) Expression {
	return FactorialOf{Expr: expr}
}

// Add combines two expressions additively.
func Add(l, r Expression) Expression { return Binary{Left: l, Op: OpAdd, Right: r} }

// Mul combines two expressions multiplicatively.
func Mul(l, r Expression) Expression { return Binary{Left: l, Op: OpMul, Right: r} }

// Max combines two expressions as max(l, r).
func Max(l, r Expression) Expression { return Binary{Left: l, Op: OpMax, Right: r} }

// Min combines two expressions as min(l, r).
func Min(l, r Expression) Expression { return Binary{Left: l, Op: OpMin, Right: r} }

// NewConditional builds a Conditional node.
func NewConditional(description string, then, els Expression) Expression {
	return Conditional{Description: description, Then: then, Else: els}
}

// NewRecurrence builds an unsolved Recurrence node. Per invariant (a)
// (spec §3), a Recurrence must never be nested as an operand of another
// variant's Recurrence field; callers embedding an unsolved recurrence
// into a larger expression should use Var(placeholder) instead (see
// internal/extract's recursion-placeholder handling).
func NewRecurrence(terms []RecurrenceTerm, v Variable, nonRecursive, base Expression) Expression {
	return Recurrence{Terms: terms, Variable: v, NonRecursiveWork: nonRecursive, Base: base}
}
