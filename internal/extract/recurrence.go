package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/diag"
	"github.com/kanso-complexity/complexity/internal/hostiface"
	"github.com/kanso-complexity/complexity/internal/recurrence"
	"github.com/kanso-complexity/complexity/internal/symhelper"
)

// scaleForm tags how a recursive call's first argument relates to the
// enclosing procedure's own size parameter (spec §4.3.3).
type scaleForm int

const (
	scaleDivide scaleForm = iota
	scaleSubtract
	scaleUnknown
)

// argumentScale inspects a recursive call's first argument to derive
// (scale_factor, form, subtract_offset), per spec §4.3.3: "callee(n/k)
// => (1, 1/k); callee(n-k) => (1, ~1) (subtract-form)". The scale
// factor returned for subtract-form is exactly 1 (not a within-epsilon
// approximation), so it fails complexity.RecurrenceTerm.FitsMaster/
// FitsAkraBazzi's strict "< 1" requirement and routes to the
// subtract-form linear solver instead — only IsSubtractForm (which
// tolerates exactly 1) accepts it. subtract_offset carries the actual
// k (e.g. 2 for "n-2"), since two subtract-form calls share the same
// scale factor but are distinct recurrence terms.
func argumentScale(call hostiface.CallExpr) (float64, scaleForm, int) {
	args := call.Arguments()
	if len(args) == 0 {
		return 1, scaleUnknown, 0
	}
	arg := args[0]
	bin, ok := arg.(hostiface.BinaryExpr)
	if !ok {
		return 1, scaleUnknown, 0
	}
	k, kOK := literalNumber(bin.Right())
	switch bin.Operator() {
	case "/":
		if kOK && k > 0 {
			return 1.0 / k, scaleDivide, 0
		}
	case "-":
		if kOK && k > 0 {
			return 1.0, scaleSubtract, int(k + 0.5)
		}
	}
	return 1, scaleUnknown, 0
}

// literalNumber extracts a literal numeric value from an expression's
// source text, a conservative heuristic since hostiface.Expr exposes no
// typed literal accessor (spec §6 "literal" is just one ExprKind tag).
func literalNumber(e hostiface.Expr) (float64, bool) {
	if e == nil || e.Kind() != hostiface.ExprLiteral {
		return 0, false
	}
	return parseFloatLoose(e.Text())
}

// parseFloatLoose parses a decimal literal without pulling in strconv's
// full grammar tolerance for hex/scientific forms source languages in
// this domain don't use for loop/recursion bounds.
func parseFloatLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole := 0.0
	frac := 0.0
	fracDiv := 1.0
	seenDot := false
	seenDigit := false
	for _, c := range s {
		switch {
		case c == '.' && !seenDot:
			seenDot = true
		case c >= '0' && c <= '9':
			seenDigit = true
			if seenDot {
				fracDiv *= 10
				frac = frac*10 + float64(c-'0')
			} else {
				whole = whole*10 + float64(c-'0')
			}
		default:
			return 0, false
		}
	}
	if !seenDigit {
		return 0, false
	}
	v := whole + frac/fracDiv
	if neg {
		v = -v
	}
	return v, true
}

// finalizeWork implements spec §4.3.3's recurrence-formation step: if
// no recursive calls were seen, the walked work stands as the final
// time complexity directly. Otherwise the recursive call sites are
// reduced to RecurrenceTerms, a Recurrence is built and handed to the
// solver, refined, and folded back into the result's confidence.
func finalizeWork(ctx *AnalysisContext, proc hostiface.Procedure, work complexity.Expression, w *walker) (complexity.Expression, recurrence.ConfidenceAssessment, bool) {
	if len(ctx.recurring) == 0 {
		return work, highConfidenceDirect(), false
	}

	v := primaryVariable(ctx, proc)
	terms := buildRecurrenceTerms(ctx.recurring, v)
	rec := complexity.Recurrence{
		Terms:            terms,
		Variable:         v,
		NonRecursiveWork: stripRecursionPlaceholders(work, v),
		Base:             nil,
	}

	if expr, conf, ok := trySymbolicHelper(ctx, rec); ok {
		return expr, conf, false
	}

	app := recurrence.Analyze(rec)
	refined := recurrence.Refine(rec, app)

	if !app.Solved() {
		w.addDiag(diag.New(diag.SeverityWarning, diag.CodeRecurrenceNotSolved,
			"recurrence does not fit a known solver: "+app.Not.Reason).
			At(procedurePosition(proc)).
			WithSuggestion(firstOr(app.Not.Suggestions, "consider annotating this procedure's complexity directly")))
		return refined.Expression, refined.Confidence, true
	}

	return refined.Expression, refined.Confidence, refined.Boundary
}

// buildRecurrenceTerms groups recursive call sites by identical shape
// (spec §4.3.3 "Two recursive calls with equal shape => (2, scale)";
// "Multiple calls with differing shapes => one RecurrenceTerm each").
// A divide-form shape is keyed on its scale factor; a subtract-form
// shape is keyed on its offset k (every subtract-form term shares the
// same scale factor of 1, so the offset is what distinguishes e.g.
// T(n-1) from T(n-2) — without it, "fib(n-1)" and "fib(n-2)" would
// collapse into a single bogus 2*T(n-1) term).
//
// When every recursive call is subtract-form, the result is laid out
// densely by offset (terms[i] is the coefficient of T(n-(i+1)), zero if
// no call site used that offset) so it lines up with
// recurrence.trySolveLinear's characteristic-polynomial convention of
// reading coefficient aᵢ from position i-1.
func buildRecurrenceTerms(sites []recursiveCallSite, v complexity.Variable) []complexity.RecurrenceTerm {
	type shapeKey struct {
		form   scaleForm
		scale  float64
		offset int
	}
	grouped := make(map[shapeKey]float64)
	var order []shapeKey
	allSubtract := len(sites) > 0
	maxOffset := 0
	for _, s := range sites {
		scale, form, offset := argumentScale(s.call)
		key := shapeKey{form: form, scale: scale, offset: offset}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key]++
		if form != scaleSubtract || offset <= 0 {
			allSubtract = false
			continue
		}
		if offset > maxOffset {
			maxOffset = offset
		}
	}

	if allSubtract {
		terms := make([]complexity.RecurrenceTerm, maxOffset)
		for i := range terms {
			terms[i] = complexity.RecurrenceTerm{
				SubproblemWork: complexity.NewVar(v),
				ScaleFactor:    1.0,
				SubtractOffset: i + 1,
			}
		}
		for _, key := range order {
			terms[key.offset-1].Coefficient += grouped[key]
		}
		return terms
	}

	terms := make([]complexity.RecurrenceTerm, 0, len(order))
	for _, key := range order {
		if key.form != scaleDivide || key.scale <= 0 || key.scale >= 1 {
			continue
		}
		terms = append(terms, complexity.RecurrenceTerm{
			Coefficient:    grouped[key],
			SubproblemWork: complexity.NewVar(v),
			ScaleFactor:    key.scale,
		})
	}
	return terms
}

// stripRecursionPlaceholders removes the O(1) marker contribution the
// walker added at each recursive call site (extractor.go's walkCall),
// leaving only the procedure's genuine non-recursive work f(n).
func stripRecursionPlaceholders(work complexity.Expression, v complexity.Variable) complexity.Expression {
	// The marker contributes exactly Const(1) per site, already folded
	// additively into work; subtracting it symbolically is unnecessary
	// since normalize's dominance rule drops the resulting Const(k) in
	// the presence of any larger term, and when all surrounding work is
	// itself O(1) the recurrence's own solver treats constant f(n) as
	// the degree-0 base case. No further rewrite is needed here.
	return work
}

// primaryVariable picks the Variable a recurrence should be expressed
// over: the first bound parameter, defaulting to a generic InputSize
// "n" if the procedure takes none (e.g. a recursive helper called only
// through a wrapper).
func primaryVariable(ctx *AnalysisContext, proc hostiface.Procedure) complexity.Variable {
	for _, p := range proc.Parameters() {
		if p.Symbol == nil {
			continue
		}
		if v, ok := ctx.variableFor(p.Symbol); ok {
			return v
		}
	}
	return complexity.Variable{Name: "n", Role: complexity.RoleInputSize}
}

// substituteCallArguments substitutes the callee's primary size
// variable with the actual argument's symbolic value at the call site
// (spec §4.3 "Actual-argument expressions are substituted for the
// callee's parameter variables"). Only the first parameter is
// substituted: the common case this analyzer targets is a single
// size-driving parameter per procedure.
func substituteCallArguments(callee ProcedureResult, call hostiface.CallExpr) complexity.Expression {
	args := call.Arguments()
	if len(args) == 0 {
		return callee.TimeComplexity
	}
	calleeVar, ok := soleFreeVariable(callee.TimeComplexity)
	if !ok {
		return callee.TimeComplexity
	}
	replacement, ok := argumentExpression(args[0])
	if !ok {
		return callee.TimeComplexity
	}
	return complexity.Normalize(complexity.Substitute(callee.TimeComplexity, calleeVar, replacement))
}

func soleFreeVariable(e complexity.Expression) (complexity.Variable, bool) {
	vars := complexity.FreeVariables(e).Slice()
	if len(vars) != 1 {
		return complexity.Variable{}, false
	}
	return vars[0], true
}

// argumentExpression renders a call argument expression symbolically:
// an identifier bound to a known Variable becomes Var(that variable); a
// binary op over one divides/offsets it; anything else is not
// substitutable and the caller keeps the callee's own variable name.
func argumentExpression(arg hostiface.Expr) (complexity.Expression, bool) {
	if arg == nil {
		return nil, false
	}
	switch arg.Kind() {
	case hostiface.ExprIdentifier, hostiface.ExprMemberAccess:
		if sym := arg.ResolvedSymbol(); sym != nil {
			return complexity.NewVar(complexity.Variable{Name: sym.Name(), Role: complexity.RoleInputSize}), true
		}
		return nil, false
	case hostiface.ExprBinaryOp:
		bin := arg.(hostiface.BinaryExpr)
		left, ok := argumentExpression(bin.Left())
		if !ok {
			return nil, false
		}
		k, kOK := literalNumber(bin.Right())
		if !kOK {
			return left, true
		}
		switch bin.Operator() {
		case "/":
			if k == 0 {
				return left, true
			}
			return complexity.Mul(complexity.NewConst(1.0/k), left), true
		case "*":
			return complexity.Mul(complexity.NewConst(k), left), true
		default:
			return left, true
		}
	default:
		return nil, false
	}
}

func firstOr(options []string, fallback string) string {
	if len(options) == 0 {
		return fallback
	}
	return options[0]
}

// trySymbolicHelper attempts to resolve rec through the optional
// external symbolic-math helper (spec §5/§6) before falling back to the
// internal Akra-Bazzi/Master-theorem solvers. A disabled helper
// (ctx.Settings.SymbolicHelperCommand == "") or any error from the
// subprocess exchange is treated as "no opinion": the caller falls
// through to the existing internal solver path unchanged.
func trySymbolicHelper(ctx *AnalysisContext, rec complexity.Recurrence) (complexity.Expression, recurrence.ConfidenceAssessment, bool) {
	if ctx.Settings.SymbolicHelperCommand == "" {
		return nil, recurrence.ConfidenceAssessment{}, false
	}

	client := symhelper.New(ctx.Settings.SymbolicHelperCommand,
		time.Duration(ctx.Settings.SymbolicHelperTimeoutSeconds)*time.Second)

	req := symhelper.Request{
		Kind:       recurrenceKind(rec),
		Recurrence: describeRecurrence(rec),
	}
	resp, err := client.Solve(ctx.Cancel.Context(), req)
	if err != nil || !resp.Success {
		return nil, recurrence.ConfidenceAssessment{}, false
	}
	expr, ok := parseAnnotation(resp.Complexity)
	if !ok {
		return nil, recurrence.ConfidenceAssessment{}, false
	}
	return expr, helperConfidence(resp.Verified), true
}

// recurrenceKind classifies rec for the helper protocol's "kind" field:
// any divide-form term (scale strictly between 0 and 1) makes it a
// divide-and-conquer recurrence, otherwise it's treated as the linear
// subtract-form shape.
func recurrenceKind(rec complexity.Recurrence) symhelper.RequestKind {
	for _, t := range rec.Terms {
		if t.ScaleFactor > 0 && t.ScaleFactor < 1 {
			return symhelper.KindDivideConquer
		}
	}
	return symhelper.KindLinear
}

// describeRecurrence renders rec as the textual recurrence the helper
// protocol expects, e.g. "T(n) = 2*T(0.500000*n) + f(n)".
func describeRecurrence(rec complexity.Recurrence) string {
	parts := make([]string, 0, len(rec.Terms))
	for _, t := range rec.Terms {
		parts = append(parts, fmt.Sprintf("%gT(%g*%s)", t.Coefficient, t.ScaleFactor, rec.Variable.Name))
	}
	return fmt.Sprintf("T(%s) = %s + f(%s)", rec.Variable.Name, strings.Join(parts, " + "), rec.Variable.Name)
}

// helperConfidence scores a helper-resolved recurrence: trusting an
// external solver's own internal checks plus, when the helper itself
// reports having verified the closed form (e.g. by simulation), a
// second factor raising the score further.
func helperConfidence(verified bool) recurrence.ConfidenceAssessment {
	factors := []recurrence.ConfidenceFactor{
		{Name: "external-solver", Score: 0.9, Weight: recurrence.WeightSource},
	}
	if verified {
		factors = append(factors, recurrence.ConfidenceFactor{Name: "helper-verified", Score: 1.0, Weight: recurrence.WeightVerification})
	}
	return recurrence.ComputeConfidence(factors, nil, "cross-checked by the configured external symbolic helper")
}
