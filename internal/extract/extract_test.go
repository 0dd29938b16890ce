package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanso-complexity/complexity/internal/bcl"
	"github.com/kanso-complexity/complexity/internal/config"
	"github.com/kanso-complexity/complexity/internal/hostfixture"
)

func analyzeSource(t *testing.T, src string) ModuleResult {
	t.Helper()
	tree, err := hostfixture.Parse("fixture.demo", src)
	require.NoError(t, err)
	reg := bcl.NewDefaultRegistry().Freeze()
	return AnalyzeModule(context.Background(), tree, reg, config.Default())
}

func findResult(t *testing.T, module ModuleResult, name string) ProcedureResult {
	t.Helper()
	for _, p := range module.Procedures {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no result for procedure %q", name)
	return ProcedureResult{}
}

func TestAnalyzeModuleConstantWork(t *testing.T) {
	module := analyzeSource(t, `
proc addOne(n: int) {
    return n + 1;
}
`)
	result := findResult(t, module, "addOne")
	assert.Equal(t, "O(1)", result.ToBigO())
	assert.False(t, result.RequiresReview)
}

func TestAnalyzeModuleSingleLoopIsLinear(t *testing.T) {
	module := analyzeSource(t, `
proc linearScan(n: int) {
    for (var i: int = 0; i < n; i = i + 1) {
        var x: int = i;
    }
    return;
}
`)
	result := findResult(t, module, "linearScan")
	assert.Equal(t, "O(n)", result.ToBigO())
}

func TestAnalyzeModuleNestedLoopsAreQuadratic(t *testing.T) {
	module := analyzeSource(t, `
proc allPairs(n: int) {
    for (var i: int = 0; i < n; i = i + 1) {
        for (var j: int = 0; j < n; j = j + 1) {
            var x: int = i + j;
        }
    }
    return;
}
`)
	result := findResult(t, module, "allPairs")
	assert.Equal(t, "O(n^2)", result.ToBigO())
}

func TestAnalyzeModuleDivideAndConquerRecursionIsLogarithmic(t *testing.T) {
	module := analyzeSource(t, `
proc binarySearch(n: int) {
    if (n <= 1) {
        return;
    }
    binarySearch(n / 2);
}
`)
	result := findResult(t, module, "binarySearch")
	assert.Contains(t, result.ToBigO(), "log")
}

func TestAnalyzeModuleExponentialRecursionIsDetected(t *testing.T) {
	module := analyzeSource(t, `
proc fib(n: int) {
    if (n <= 1) {
        return;
    }
    fib(n - 1);
    fib(n - 2);
}
`)
	result := findResult(t, module, "fib")
	assert.True(t, strings.Contains(result.ToBigO(), "^n") || strings.Contains(result.ToBigO(), "n!"),
		"expected an exponential-shaped result, got %s", result.ToBigO())
}

// TestAnalyzeModuleFibonacciShapedRecursionSolvesToGoldenRatioBase pins
// down the exact base of the exponential: T(n)=T(n-1)+T(n-2)+O(1)'s
// characteristic polynomial x^2-x-1 has dominant root phi=(1+sqrt(5))/2
// (spec §8 "Fibonacci: T(n) = T(n-1) + T(n-2) + O(1) => Theta(phi^n)").
// Two distinct call shapes (n-1, n-2) must route to the subtract-form
// linear solver as two separate RecurrenceTerms, not collapse into one
// divide-shaped 2*T(n-1) term misrouted through the Master dispatcher.
func TestAnalyzeModuleFibonacciShapedRecursionSolvesToGoldenRatioBase(t *testing.T) {
	module := analyzeSource(t, `
proc fib(n: int) {
    if (n <= 1) {
        return;
    }
    fib(n - 1);
    fib(n - 2);
}
`)
	result := findResult(t, module, "fib")
	assert.Contains(t, result.ToBigO(), "1.618",
		"expected the golden-ratio base phi~=1.618, got %s", result.ToBigO())
	assert.Contains(t, result.ToBigO(), "^n")
	assert.NotContains(t, result.ToBigO(), "n^",
		"a Master-dispatch misrouting would render as n^<huge exponent> instead of <base>^n")
}

func TestAnalyzeModuleTrustsComplexityAnnotation(t *testing.T) {
	module := analyzeSource(t, `
#[Complexity("O(n log n)")]
proc sortItems(items: List<int>) {
    return;
}
`)
	result := findResult(t, module, "sortItems")
	assert.Equal(t, "O(n log n)", result.ToBigO())
	assert.Equal(t, "annotation-trusted", result.Confidence.Factors[0].Name)
}

func TestAnalyzeModuleMutualRecursionFlaggedInModuleDiagnostics(t *testing.T) {
	module := analyzeSource(t, `
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
`)
	require.NotEmpty(t, module.Diagnostics)
	found := false
	for _, d := range module.Diagnostics {
		if strings.Contains(d.Message, "mutually recursive") {
			found = true
		}
	}
	assert.True(t, found, "expected a mutual-recursion diagnostic")
}

func TestAnalyzeModuleCallerUsesCalleeResult(t *testing.T) {
	module := analyzeSource(t, `
proc helperLinear(n: int) {
    for (var i: int = 0; i < n; i = i + 1) {
        var x: int = i;
    }
    return;
}

proc caller(n: int) {
    helperLinear(n);
}
`)
	caller := findResult(t, module, "caller")
	assert.Equal(t, "O(n)", caller.ToBigO())
}
