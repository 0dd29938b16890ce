// Package linear solves the characteristic polynomial of a subtract-
// form recurrence (spec §4.5.3): quadratic formula at order 2,
// companion-matrix eigenvalue decomposition at order >= 3. The
// companion-matrix path uses gonum.org/v1/gonum/mat's general eigenvalue
// decomposition rather than a hand-rolled root finder, since an
// unsymmetric companion matrix's eigenvalues are exactly the
// polynomial's roots and gonum already implements the numerically
// stable QR algorithm for that.
package linear

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Root is one root of the characteristic polynomial, with its detected
// multiplicity (spec §4.5.3 "report the full root set with
// multiplicities").
type Root struct {
	Value        complex128
	Multiplicity int
}

// multiplicityTolerance groups numerically-close roots together; exact
// repeated roots are rare to hit bit-for-bit after an eigenvalue solve.
const multiplicityTolerance = 1e-6

// SolveCharacteristicPolynomial finds the roots of
// x^k - coeffs[0]*x^(k-1) - coeffs[1]*x^(k-2) - ... - coeffs[k-1]
// (spec §4.5.3 step 2), where coeffs[i] is the coefficient aᵢ₊₁ of the
// subtract-form recurrence T(n) = Σ aᵢ·T(n-i) + f(n).
func SolveCharacteristicPolynomial(coeffs []float64) []Root {
	k := len(coeffs)
	switch k {
	case 0:
		return nil
	case 1:
		return groupRoots([]complex128{complex(coeffs[0], 0)})
	case 2:
		return groupRoots(solveQuadratic(coeffs[0], coeffs[1]))
	default:
		return groupRoots(solveViaCompanionMatrix(coeffs))
	}
}

// solveQuadratic solves x^2 - a1*x - a2 = 0.
func solveQuadratic(a1, a2 float64) []complex128 {
	// x^2 - a1 x - a2 = 0  =>  standard form x^2 + bx + c with b=-a1, c=-a2
	b, c := -a1, -a2
	disc := complex(b*b-4*c, 0)
	sq := cmplx.Sqrt(disc)
	r1 := (complex(-b, 0) + sq) / 2
	r2 := (complex(-b, 0) - sq) / 2
	return []complex128{r1, r2}
}

// solveViaCompanionMatrix builds the companion matrix of
// x^k - coeffs[0]*x^(k-1) - ... - coeffs[k-1] and returns its
// eigenvalues, which are exactly the polynomial's roots.
func solveViaCompanionMatrix(coeffs []float64) []complex128 {
	k := len(coeffs)
	data := make([]float64, k*k)
	// First row holds the coefficients a1..ak (the standard companion
	// form for a monic polynomial x^k - a1 x^(k-1) - ... - ak).
	for i := 0; i < k; i++ {
		data[i] = coeffs[i]
	}
	// Sub-diagonal of ones shifts lower-order terms up.
	for i := 1; i < k; i++ {
		data[i*k+(i-1)] = 1
	}
	companion := mat.NewDense(k, k, data)

	var eig mat.Eigen
	ok := eig.Factorize(companion, mat.EigenNone)
	if !ok {
		return nil
	}
	return eig.Values(nil)
}

func groupRoots(roots []complex128) []Root {
	var out []Root
	used := make([]bool, len(roots))
	for i, r := range roots {
		if used[i] {
			continue
		}
		mult := 1
		used[i] = true
		for j := i + 1; j < len(roots); j++ {
			if used[j] {
				continue
			}
			if cmplx.Abs(roots[j]-r) < multiplicityTolerance {
				mult++
				used[j] = true
			}
		}
		out = append(out, Root{Value: r, Multiplicity: mult})
	}
	return out
}

// DominantRoot returns the root of maximum magnitude (spec §4.5.3
// "Dominant root r ... with multiplicity m"), and its magnitude and
// multiplicity.
func DominantRoot(roots []Root) (magnitude float64, multiplicity int) {
	best := -1.0
	for _, r := range roots {
		m := cmplx.Abs(r.Value)
		if m > best {
			best = m
			multiplicity = r.Multiplicity
		}
	}
	if best < 0 {
		return 0, 0
	}
	return best, multiplicity
}

// IsReal reports whether z is real within a small tolerance, for
// callers that want to avoid presenting spurious imaginary noise from
// the eigenvalue solve.
func IsReal(z complex128) bool {
	return math.Abs(imag(z)) < 1e-9
}
