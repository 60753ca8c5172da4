package solvers

import (
	"fmt"
	"math"
)

var (
	ErrNotBracketed  = fmt.Errorf("root is not bracketed: f(lo) and f(hi) must have opposite signs")
	ErrMaxIterations = fmt.Errorf("max iterations exceeded before reaching tolerance")
)

// Func is a scalar function of one variable.
type Func func(x float64) float64

// Bisection finds a root of f on [lo, hi]. The interval must bracket a sign
// change, otherwise ErrNotBracketed is returned.
func Bisection(f Func, lo, hi, tol float64, maxIter int) (float64, error) {
	if lo >= hi {
		return 0, fmt.Errorf("Bisection: invalid interval [%v, %v]", lo, hi)
	}

	fLo := f(lo)
	if fLo == 0 {
		return lo, nil
	}

	fHi := f(hi)
	if fHi == 0 {
		return hi, nil
	}

	if fLo*fHi > 0 {
		return 0, ErrNotBracketed
	}

	mid := lo
	for i := 0; i < maxIter; i++ {
		mid = (lo + hi) / 2.0
		fMid := f(mid)

		if math.Abs(fMid) < tol || (hi-lo)/2.0 < tol {
			return mid, nil
		}

		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo = mid
			fLo = fMid
		}
	}

	return mid, ErrMaxIterations
}

// NewtonBisection runs Newton-Raphson from guess, constrained to the bracket
// [lo, hi]. Whenever a Newton step leaves the bracket, or the derivative is
// too small to trust, the step degrades to a bisection step. The bracket must
// contain a sign change, otherwise ErrNotBracketed is returned.
func NewtonBisection(f, df Func, lo, hi, guess, tol float64, maxIter int) (float64, error) {
	if lo >= hi {
		return 0, fmt.Errorf("NewtonBisection: invalid interval [%v, %v]", lo, hi)
	}

	fLo := f(lo)
	if fLo == 0 {
		return lo, nil
	}

	fHi := f(hi)
	if fHi == 0 {
		return hi, nil
	}

	if fLo*fHi > 0 {
		return 0, ErrNotBracketed
	}

	x := guess
	if x <= lo || x >= hi {
		x = (lo + hi) / 2.0
	}

	const minDerivative = 1e-12

	for i := 0; i < maxIter; i++ {
		fx := f(x)

		if math.Abs(fx) < tol {
			return x, nil
		}

		// shrink the bracket around the current iterate
		if fLo*fx < 0 {
			hi = x
		} else {
			lo = x
			fLo = fx
		}

		if (hi-lo)/2.0 < tol {
			return (lo + hi) / 2.0, nil
		}

		dfx := df(x)
		next := x - fx/dfx

		if math.Abs(dfx) < minDerivative || next <= lo || next >= hi || math.IsNaN(next) {
			next = (lo + hi) / 2.0
		}

		x = next
	}

	return x, ErrMaxIterations
}
