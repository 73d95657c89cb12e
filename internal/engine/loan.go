package engine

import "math"

// Fixed-rate amortization math shared by the real estate model.

// monthlyLoanPayment returns the level payment that retires principal over
// totalMonths at the given annual rate in percent. A zero rate degenerates
// to straight-line repayment, avoiding the 0/0 in the annuity formula.
func monthlyLoanPayment(principal, annualRatePct float64, totalMonths int) float64 {
	if totalMonths <= 0 || principal <= 0 {
		return 0
	}
	monthlyRate := annualRatePct / 100 / 12
	if monthlyRate == 0 {
		return principal / float64(totalMonths)
	}
	growth := math.Pow(1+monthlyRate, float64(totalMonths))
	return principal * (monthlyRate * growth) / (growth - 1)
}

// remainingLoanBalance returns the outstanding principal after paidMonths
// level payments, i.e. the present value of the remaining annuity.
func remainingLoanBalance(principal, annualRatePct float64, totalMonths, paidMonths int) float64 {
	if principal <= 0 || totalMonths <= 0 {
		return 0
	}
	if paidMonths >= totalMonths {
		return 0
	}
	monthlyRate := annualRatePct / 100 / 12
	if monthlyRate == 0 {
		return principal * float64(totalMonths-paidMonths) / float64(totalMonths)
	}
	growthTotal := math.Pow(1+monthlyRate, float64(totalMonths))
	growthPaid := math.Pow(1+monthlyRate, float64(paidMonths))
	return principal * (growthTotal - growthPaid) / (growthTotal - 1)
}
