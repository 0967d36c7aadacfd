/*
irr.go - Internal rate of return via bounded Newton-Raphson

ALGORITHM:
  f(r)  = Σ_{t=0..N} cf[t] / (1+r)^t
  f'(r) = Σ_{t=1..N} −t·cf[t] / (1+r)^(t+1)
  r_{n+1} = r_n − f(r_n)/f'(r_n), starting from r_0 = 0.10

  Stops when |f(r_n)| < Tolerance or after MaxIterations.

FAILURE MODES:
  Unguarded Newton-Raphson returns nonsense on series with zero or several
  sign changes. The solver reports failure instead:
  - no sign change in the series      → *DegenerateCashFlowError
  - |f'(r)| below DerivativeFloor     → *IRRConvergenceError
  - r leaves [MinRate, MaxRate]       → *IRRConvergenceError
  - MaxIterations without converging  → *IRRConvergenceError

SEE ALSO:
  - dcf.go: NPV on the same vector
*/
package finance

import "math"

// IRRSolver holds the Newton-Raphson parameters.
type IRRSolver struct {
	InitialGuess    float64
	Tolerance       float64
	MaxIterations   int
	MinRate         float64
	MaxRate         float64
	DerivativeFloor float64
}

// DefaultIRRSolver returns the standard solver parameters.
func DefaultIRRSolver() IRRSolver {
	return IRRSolver{
		InitialGuess:    0.10,
		Tolerance:       1e-5,
		MaxIterations:   100,
		MinRate:         -0.99,
		MaxRate:         10,
		DerivativeFloor: 1e-12,
	}
}

// Solve returns the IRR of v as a fraction (0.25 = 25%).
func (s IRRSolver) Solve(v CashFlowVector) (float64, error) {
	cf := v.floats()
	if !hasSignChange(cf) {
		return 0, &DegenerateCashFlowError{Metric: "IRR", NetAnnualBenefit: v.netAnnualBenefit}
	}

	// Float sums over large flows carry rounding noise; never demand more
	// precision than the magnitude of the series allows.
	scale := 0.0
	for _, c := range cf {
		scale += math.Abs(c)
	}
	tol := math.Max(s.Tolerance, scale*1e-14)

	rate := s.InitialGuess
	for i := 0; i < s.MaxIterations; i++ {
		f, df := npvAndDerivative(cf, rate)
		if math.Abs(f) < tol {
			return rate, nil
		}
		if math.Abs(df) < s.DerivativeFloor {
			return 0, &IRRConvergenceError{Iterations: i, LastRate: rate, Reason: "derivative vanished"}
		}
		rate -= f / df
		if math.IsNaN(rate) || rate < s.MinRate || rate > s.MaxRate {
			return 0, &IRRConvergenceError{Iterations: i + 1, LastRate: rate, Reason: "rate left solver bounds"}
		}
	}

	f, _ := npvAndDerivative(cf, rate)
	if math.Abs(f) < tol {
		return rate, nil
	}
	return 0, &IRRConvergenceError{Iterations: s.MaxIterations, LastRate: rate, Reason: "did not converge"}
}

// SolveIRR solves with DefaultIRRSolver and returns a percentage.
func SolveIRR(v CashFlowVector) (float64, error) {
	r, err := DefaultIRRSolver().Solve(v)
	if err != nil {
		return 0, err
	}
	return r * 100, nil
}

func npvAndDerivative(cf []float64, rate float64) (float64, float64) {
	base := 1 + rate
	f, df := 0.0, 0.0
	for t, c := range cf {
		f += c / math.Pow(base, float64(t))
		if t > 0 {
			df += -float64(t) * c / math.Pow(base, float64(t+1))
		}
	}
	return f, df
}

func hasSignChange(cf []float64) bool {
	pos, neg := false, false
	for _, c := range cf {
		switch {
		case c > 0:
			pos = true
		case c < 0:
			neg = true
		}
	}
	return pos && neg
}
