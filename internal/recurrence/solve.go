package recurrence

import "github.com/kanso-complexity/complexity/internal/complexity"

// Analyze is the recurrence solver's public operation (spec §4.5):
// analyze(recurrence) -> Applicability. Attempts are made in order —
// Master, then Akra-Bazzi on a Master gap, then the subtract-form
// linear solver, then NotApplicable — exactly as spec §4.5 "Order of
// attempts" prescribes. Nothing panics; every path returns a value.
func Analyze(rec complexity.Recurrence) Applicability {
	if reason := validate(rec); reason != "" {
		return Applicability{Not: &NotApplicable{Reason: reason}}
	}

	master, masterGap := trySolveMaster(rec)
	if master != nil {
		return Applicability{Master: master}
	}

	ab, abGap := trySolveAkraBazzi(rec)
	if ab != nil {
		return Applicability{AkraBazzi: ab}
	}

	lin, linGap := trySolveLinear(rec)
	if lin != nil {
		return Applicability{Linear: lin}
	}

	// Prefer the Master gap's reason when Master was at least shape-
	// eligible (exactly one term); otherwise surface the Akra-Bazzi
	// stage's reason, which is always set once that stage has failed.
	gap := linGap
	if len(rec.Terms) == 1 && masterGap != nil {
		gap = masterGap
	} else if abGap != nil {
		gap = abGap
	}
	if gap == nil {
		gap = &NotApplicable{Reason: "no solver stage could resolve this recurrence"}
	}
	return Applicability{Not: gap}
}

// validate rejects structurally invalid recurrences before any solver
// stage runs (spec §4.5 "Validation"): empty terms and any scale_factor
// outside (0, 1] (the subtract-form flag, scale_factor within
// 0.99..1+eps, is the one value at the boundary and is accepted). A
// negative coefficient is rejected only by the stages that require
// positivity (Master and Akra-Bazzi, via RecurrenceTerm.FitsMaster/
// FitsAkraBazzi); the subtract-form linear solver accepts signed
// coefficients outright, since spec §4.5.3's own worked example
// (`T(n) = 2T(n-1) - T(n-2) + O(1)`) has a negative second coefficient.
func validate(rec complexity.Recurrence) string {
	if len(rec.Terms) == 0 {
		return "recurrence has no terms"
	}
	for _, t := range rec.Terms {
		if t.ScaleFactor >= 1.0+1e-9 {
			return "recurrence term has scale_factor >= 1"
		}
		if t.ScaleFactor <= 0 {
			return "recurrence term has a non-positive scale_factor"
		}
	}
	return ""
}
