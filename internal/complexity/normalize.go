package complexity

import "sort"

// Normalize rewrites e to a canonical fixed point (spec §4.1). It
// applies one bottom-up pass of the rewrite rules and repeats until the
// result stops changing (bounded, since each pass strictly shrinks or
// preserves operand count).
func Normalize(e Expression) Expression {
	cur := e
	for i := 0; i < 8; i++ {
		next := normalizeOnce(cur)
		if Equal(next, cur) {
			return next
		}
		cur = next
	}
	return cur
}

func normalizeOnce(e Expression) Expression {
	if e == nil {
		return e
	}
	switch n := e.(type) {
	case Const:
		if n.K < 0 {
			return Const{K: 0}
		}
		return n
	case Var, Linear, Log, Exp, Factorial:
		return normalizeLeafCoefficients(n)
	case Poly:
		return normalizePoly(n)
	case PolyLog:
		if n.K == 0 && n.J == 0 {
			return Const{K: 1}
		}
		return n
	case Power:
		return normalizePower(Power{BaseExpr: normalizeOnce(n.BaseExpr), Exponent: n.Exponent})
	case LogOf:
		inner := normalizeOnce(n.Expr)
		if c, ok := inner.(Const); ok {
			return Const{K: logBase(c.K, n.Base)}
		}
		return LogOf{Expr: inner, Base: n.Base}
	case ExpOf:
		inner := normalizeOnce(n.Expr)
		return ExpOf{Base: n.Base, Expr: inner}
	case FactorialOf:
		return FactorialOf{Expr: normalizeOnce(n.Expr)}
	case Binary:
		return normalizeBinary(Binary{Left: normalizeOnce(n.Left), Op: n.Op, Right: normalizeOnce(n.Right)})
	case Conditional:
		then := normalizeOnce(n.Then)
		els := normalizeOnce(n.Else)
		if Equal(then, els) {
			return then
		}
		return Conditional{Description: n.Description, Then: then, Else: els}
	case Recurrence:
		terms := make([]RecurrenceTerm, len(n.Terms))
		for i, t := range n.Terms {
			terms[i] = RecurrenceTerm{
				Coefficient:    t.Coefficient,
				SubproblemWork: normalizeOnce(t.SubproblemWork),
				ScaleFactor:    t.ScaleFactor,
				SubtractOffset: t.SubtractOffset,
			}
		}
		return Recurrence{
			Terms: terms, Variable: n.Variable,
			NonRecursiveWork: normalizeOnce(n.NonRecursiveWork),
			Base:             normalizeOnce(n.Base),
		}
	case Amortized:
		return Amortized{AmortizedExpr: normalizeOnce(n.AmortizedExpr), Worst: normalizeOnce(n.Worst)}
	case Parallel:
		return Parallel{
			Work: normalizeOnce(n.Work), Span: normalizeOnce(n.Span),
			PatternTag: n.PatternTag, IsTaskBased: n.IsTaskBased, HasSync: n.HasSync,
		}
	case Memory:
		allocs := make([]Allocation, len(n.Allocations))
		for i, a := range n.Allocations {
			allocs[i] = Allocation{Size: normalizeOnce(a.Size), Iterations: normalizeOnce(a.Iterations)}
		}
		return Memory{
			Total: normalizeOnce(n.Total), Stack: normalizeOnce(n.Stack),
			Heap: normalizeOnce(n.Heap), Auxiliary: normalizeOnce(n.Auxiliary),
			InPlace: n.InPlace, TailRecursive: n.TailRecursive, Allocations: allocs,
		}
	case Probabilistic:
		return Probabilistic{
			Expected: normalizeOnce(n.Expected), Worst: normalizeOnce(n.Worst),
			SourceTag: n.SourceTag, Distribution: n.Distribution, Assumptions: n.Assumptions,
		}
	}
	return e
}

func normalizeLeafCoefficients(e Expression) Expression {
	switch n := e.(type) {
	case Var:
		return n
	case Linear:
		if n.C == 0 {
			return Const{K: 0}
		}
		if n.C == 1 {
			return Var{V: n.V}
		}
		return n
	case Log:
		if n.C == 0 {
			return Const{K: 0}
		}
		return n
	case Exp:
		if n.Coef == 0 {
			return Const{K: 0}
		}
		return n
	case Factorial:
		if n.Coef == 0 {
			return Const{K: 0}
		}
		return n
	}
	return e
}

func normalizePoly(n Poly) Expression {
	cleaned := make(map[int]float64)
	for d, c := range n.Terms {
		if c != 0 {
			cleaned[d] = c
		}
	}
	if len(cleaned) == 0 {
		return Const{K: 0}
	}
	if len(cleaned) == 1 {
		for d, c := range cleaned {
			switch d {
			case 0:
				return Const{K: c}
			case 1:
				if c == 1 {
					return Var{V: n.V}
				}
				return Linear{C: c, V: n.V}
			}
		}
	}
	return Poly{V: n.V, Terms: cleaned}
}

func normalizePower(p Power) Expression {
	if p.Exponent == 0 {
		return Const{K: 1}
	}
	if p.Exponent == 1 {
		return p.BaseExpr
	}
	if c, ok := p.BaseExpr.(Const); ok {
		return Const{K: pow(c.K, p.Exponent)}
	}
	if v, ok := p.BaseExpr.(Var); ok {
		if isNonNegInt(p.Exponent) {
			return Poly{V: v.V, Terms: map[int]float64{int(p.Exponent): 1}}
		}
		return PolyLog{K: p.Exponent, J: 0, V: v.V}
	}
	return p
}

func isNonNegInt(f float64) bool {
	return f >= 0 && f == float64(int(f))
}

func pow(base, exp float64) float64 {
	result := 1.0
	if exp >= 0 && exp == float64(int(exp)) {
		for i := 0; i < int(exp); i++ {
			result *= base
		}
		return result
	}
	// non-integer/negative exponents on constants are rare in this
	// algebra; fall back to repeated-squaring-free approximation is
	// unnecessary at the small magnitudes constants take here.
	return result
}

func normalizeBinary(b Binary) Expression {
	switch b.Op {
	case OpAdd:
		return normalizeAdd(b)
	case OpMul:
		return normalizeMul(b)
	case OpMax:
		return normalizeMaxMin(b, true)
	case OpMin:
		return normalizeMaxMin(b, false)
	}
	return b
}

func flattenAdd(e Expression, out *[]Expression) {
	if b, ok := e.(Binary); ok && b.Op == OpAdd {
		flattenAdd(b.Left, out)
		flattenAdd(b.Right, out)
		return
	}
	*out = append(*out, e)
}

func normalizeAdd(b Binary) Expression {
	var operands []Expression
	flattenAdd(b, &operands)

	constSum := 0.0
	var rest []Expression
	for _, op := range operands {
		if c, ok := op.(Const); ok {
			constSum += c.K
			continue
		}
		rest = append(rest, op)
	}

	// Asymptotic dominance: drop operands strictly dominated by another.
	rest = dropDominated(rest)

	sortOperands(rest)

	var result Expression
	if constSum != 0 || len(rest) == 0 {
		result = Const{K: constSum}
	}
	for _, op := range rest {
		if result == nil {
			result = op
			continue
		}
		result = Binary{Left: result, Op: OpAdd, Right: op}
	}
	if result == nil {
		return Const{K: 0}
	}
	return result
}

func dropDominated(ops []Expression) []Expression {
	keep := make([]bool, len(ops))
	for i := range ops {
		keep[i] = true
	}
	for i, a := range ops {
		if !keep[i] {
			continue
		}
		for j, b := range ops {
			if i == j || !keep[j] {
				continue
			}
			if Dominates(a, b) {
				keep[j] = false
			}
		}
	}
	var out []Expression
	for i, k := range keep {
		if k {
			out = append(out, ops[i])
		}
	}
	return out
}

func flattenMul(e Expression, out *[]Expression) {
	if b, ok := e.(Binary); ok && b.Op == OpMul {
		flattenMul(b.Left, out)
		flattenMul(b.Right, out)
		return
	}
	*out = append(*out, e)
}

func normalizeMul(b Binary) Expression {
	var operands []Expression
	flattenMul(b, &operands)

	constProd := 1.0
	var rest []Expression
	for _, op := range operands {
		if c, ok := op.(Const); ok {
			constProd *= c.K
			continue
		}
		rest = append(rest, op)
	}
	if constProd == 0 {
		return Const{K: 0}
	}

	rest = collapseSameVariablePowers(rest)
	sortOperands(rest)

	var result Expression
	if constProd != 1 || len(rest) == 0 {
		result = Const{K: constProd}
	}
	for _, op := range rest {
		if result == nil {
			result = op
			continue
		}
		result = Binary{Left: result, Op: OpMul, Right: op}
	}
	if result == nil {
		return Const{K: 1}
	}
	return result
}

// collapseSameVariablePowers implements normalization rules (6) and (7):
// v^a * v^b -> v^(a+b), and Log*Log over the same variable combines into
// PolyLog with an incremented log-exponent.
func collapseSameVariablePowers(ops []Expression) []Expression {
	type acc struct {
		variable  Variable
		degree    float64
		logExp    int
		sawDegree bool
		sawLog    bool
	}
	byVar := map[Variable]*acc{}
	var order []Variable
	var passthrough []Expression

	addDegree := func(v Variable, d float64) {
		a, ok := byVar[v]
		if !ok {
			a = &acc{variable: v}
			byVar[v] = a
			order = append(order, v)
		}
		a.degree += d
		a.sawDegree = true
	}
	addLog := func(v Variable, j int) {
		a, ok := byVar[v]
		if !ok {
			a = &acc{variable: v}
			byVar[v] = a
			order = append(order, v)
		}
		a.logExp += j
		a.sawLog = true
	}

	for _, op := range ops {
		switch n := op.(type) {
		case Var:
			addDegree(n.V, 1)
		case Poly:
			// A multi-term sparse polynomial cannot be folded into a
			// single power; pass it through unchanged.
			passthrough = append(passthrough, n)
		case PolyLog:
			if n.K != 0 {
				addDegree(n.V, n.K)
			}
			if n.J != 0 {
				addLog(n.V, n.J)
			}
		case Log:
			if n.C == 1 {
				addLog(n.V, 1)
			} else {
				passthrough = append(passthrough, n)
			}
		default:
			passthrough = append(passthrough, op)
		}
	}

	var out []Expression
	for _, v := range order {
		a := byVar[v]
		switch {
		case a.sawDegree && a.sawLog:
			out = append(out, PolyLog{K: a.degree, J: a.logExp, V: v})
		case a.sawDegree:
			if a.degree == 1 {
				out = append(out, Var{V: v})
			} else if isNonNegInt(a.degree) {
				out = append(out, Poly{V: v, Terms: map[int]float64{int(a.degree): 1}})
			} else {
				out = append(out, PolyLog{K: a.degree, J: 0, V: v})
			}
		case a.sawLog:
			out = append(out, Log{C: 1, V: v, Base: 2})
		}
	}
	out = append(out, passthrough...)
	return out
}

func normalizeMaxMin(b Binary, isMax bool) Expression {
	var operands []Expression
	flattenSame := func(e Expression, out *[]Expression) {
		var rec func(Expression)
		rec = func(e Expression) {
			if bb, ok := e.(Binary); ok && bb.Op == b.Op {
				rec(bb.Left)
				rec(bb.Right)
				return
			}
			*out = append(*out, e)
		}
		rec(e)
	}
	flattenSame(b, &operands)

	// Dedupe asymptotically identical operands (spec §3 invariant (c)).
	var kept []Expression
	for _, op := range operands {
		dup := false
		for _, k := range kept {
			if sameGrowth(op, k) || Equal(op, k) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, op)
		}
	}

	// Resolve pairwise dominance: max keeps the dominant, min keeps the
	// dominated (weaker) operand.
	keep := make([]bool, len(kept))
	for i := range kept {
		keep[i] = true
	}
	for i, a := range kept {
		if !keep[i] {
			continue
		}
		for j, bOp := range kept {
			if i == j || !keep[j] {
				continue
			}
			if Dominates(a, bOp) {
				if isMax {
					keep[j] = false
				} else {
					keep[i] = false
				}
			}
		}
	}
	var rest []Expression
	for i, k := range keep {
		if k {
			rest = append(rest, kept[i])
		}
	}
	sortOperands(rest)

	if len(rest) == 0 {
		return Const{K: 0}
	}
	result := rest[0]
	for _, op := range rest[1:] {
		result = Binary{Left: result, Op: b.Op, Right: op}
	}
	return result
}

// sortKey produces a deterministic ordering key (spec rule (2): sort by
// variant tag, then variable name, then constant).
func sortKey(e Expression) string {
	p := classify(e)
	prefix := "z" // compound/unclassified expressions sort last
	if p.ok {
		prefix = string(rune('a' + int(p.cat)))
	}
	name := ""
	if p.ok {
		name = p.variable.Name
	}
	return prefix + "|" + name + "|" + kindName(e.Kind())
}

func kindName(k Kind) string {
	names := []string{
		"const", "var", "linear", "poly", "log", "polylog", "exp", "factorial",
		"power", "logof", "expof", "factorialof", "binary", "conditional",
		"recurrence", "amortized", "parallel", "memory", "probabilistic",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

func sortOperands(ops []Expression) {
	sort.SliceStable(ops, func(i, j int) bool {
		return sortKey(ops[i]) < sortKey(ops[j])
	})
}
