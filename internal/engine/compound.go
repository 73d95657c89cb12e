package engine

import "math"

// Generic compounding and root-finding primitives used by the ETF model.

const (
	newtonMaxIterations = 100
	newtonTolerance     = 1e-8
	newtonDerivStep     = 1e-7
)

// RootResult is the explicit outcome of an iterative root search. Callers
// inspect Converged instead of recovering from a panic or error.
type RootResult struct {
	Rate       float64
	Iterations int
	Converged  bool
}

// cashFlowNPV discounts the ETF cash-flow schedule at a monthly rate:
// the initial amount plus the first contribution leave at month 0, a
// contribution leaves at each of months 1..months-1, and the final value
// returns at month `months`.
func cashFlowNPV(initial, contribution, finalValue float64, months int, rate float64) float64 {
	if rate <= -1 {
		return math.Inf(1)
	}
	npv := -(initial + contribution)
	for m := 1; m < months; m++ {
		npv -= contribution / math.Pow(1+rate, float64(m))
	}
	npv += finalValue / math.Pow(1+rate, float64(months))
	return npv
}

// solveMonthlyIRR finds the monthly rate at which the schedule's NPV is
// zero, by Newton iteration with a central-difference derivative seeded at
// guess. Non-convergence is reported, never panicked.
func solveMonthlyIRR(initial, contribution, finalValue float64, months int, guess float64) RootResult {
	rate := guess
	for i := 0; i < newtonMaxIterations; i++ {
		f := cashFlowNPV(initial, contribution, finalValue, months, rate)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return RootResult{Rate: rate, Iterations: i, Converged: false}
		}
		if math.Abs(f) < newtonTolerance {
			return RootResult{Rate: rate, Iterations: i, Converged: true}
		}

		fUp := cashFlowNPV(initial, contribution, finalValue, months, rate+newtonDerivStep)
		fDown := cashFlowNPV(initial, contribution, finalValue, months, rate-newtonDerivStep)
		deriv := (fUp - fDown) / (2 * newtonDerivStep)
		if deriv == 0 || math.IsInf(deriv, 0) || math.IsNaN(deriv) {
			return RootResult{Rate: rate, Iterations: i, Converged: false}
		}

		next := rate - f/deriv
		if math.IsNaN(next) || next <= -1 {
			return RootResult{Rate: rate, Iterations: i, Converged: false}
		}
		if math.Abs(next-rate) < newtonTolerance {
			return RootResult{Rate: next, Iterations: i + 1, Converged: true}
		}
		rate = next
	}
	return RootResult{Rate: rate, Iterations: newtonMaxIterations, Converged: false}
}

// annualizeMonthly converts a monthly rate to its annual equivalent.
func annualizeMonthly(monthlyRate float64) float64 {
	return math.Pow(1+monthlyRate, 12) - 1
}
