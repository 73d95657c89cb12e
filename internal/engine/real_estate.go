package engine

import (
	"math"

	"github.com/baedea/brainfin/internal/models"
)

// RealEstateResult holds the projected outcome of a leveraged property
// purchase under one exit scenario.
type RealEstateResult struct {
	Scenario           models.Scenario `json:"scenario"`
	CashOutflow        float64         `json:"actual_cash_outflow"`
	SaleIncome         float64         `json:"actual_sale_income"`
	CurrentValue       float64         `json:"current_value"`
	Profit             float64         `json:"profit"`
	ROI                float64         `json:"roi"`
	AnnualReturn       float64         `json:"annual_return"`
	MonthlyPayment     float64         `json:"monthly_payment"`
	LoanYears          int             `json:"loan_years"`
	InterestPaid       float64         `json:"interest_paid"`
	TotalLoanPayments  float64         `json:"total_loan_payments"`
	RemainingPrincipal float64         `json:"remaining_principal"`
	HoldingCost        float64         `json:"holding_cost"`
}

// Metrics flattens the result into the normalized metric mapping.
func (r RealEstateResult) Metrics() models.SimulationResult {
	return models.SimulationResult{
		"actual_cash_outflow": r.CashOutflow,
		"actual_sale_income":  r.SaleIncome,
		"current_value":       r.CurrentValue,
		"profit":              r.Profit,
		"roi":                 r.ROI,
		"annual_return":       r.AnnualReturn,
		"monthly_payment":     r.MonthlyPayment,
		"loan_years":          float64(r.LoanYears),
		"interest_paid":       r.InterestPaid,
		"total_loan_payments": r.TotalLoanPayments,
		"remaining_principal": r.RemainingPrincipal,
		"holding_cost":        r.HoldingCost,
	}
}

// AnalyzeRealEstate projects a leveraged house purchase under the selected
// exit scenario.
//
// Scenario A sells after SimulationYears: the property appreciates by the
// TOTAL AppreciationRateA, the outstanding loan is paid off from the sale
// proceeds, and the cash outflow covers the down payment plus payments and
// holding costs for the simulated period only.
//
// Scenario B holds until the loan is retired: appreciation uses
// AppreciationRateB, all totals span the full loan term, and the sale
// carries no payoff deduction.
func AnalyzeRealEstate(p *models.RealEstateParameters) (RealEstateResult, error) {
	if p == nil {
		return RealEstateResult{}, &models.DomainError{Field: "parameters", Message: "real estate parameters are required"}
	}
	if p.HousePrice <= 0 {
		return RealEstateResult{}, &models.DomainError{Field: "house_price", Message: "house price must be greater than 0"}
	}
	if p.DownPayment < 0 || p.DownPayment > p.HousePrice {
		return RealEstateResult{}, &models.DomainError{Field: "down_payment", Message: "down payment must be between 0 and the house price"}
	}
	if p.LoanRate < 0 {
		return RealEstateResult{}, &models.DomainError{Field: "loan_rate", Message: "loan rate cannot be negative"}
	}
	if p.LoanYears <= 0 {
		return RealEstateResult{}, &models.DomainError{Field: "loan_years", Message: "loan years must be greater than 0"}
	}
	if p.SimulationYears <= 0 {
		return RealEstateResult{}, &models.DomainError{Field: "simulation_years", Message: "simulation years must be greater than 0"}
	}
	if p.Scenario != models.ScenarioEarlySale && p.Scenario != models.ScenarioHoldToMaturity {
		return RealEstateResult{}, &models.DomainError{Field: "scenario", Message: "scenario must be A or B"}
	}

	loanAmount := p.HousePrice - p.DownPayment
	totalMonths := p.LoanYears * 12
	payment := monthlyLoanPayment(loanAmount, p.LoanRate, totalMonths)

	var (
		annualReturn       float64
		currentValue       float64
		totalLoanPayments  float64
		interestPaid       float64
		remainingPrincipal float64
		holdingCost        float64
		cashOutflow        float64
		saleIncome         float64
	)

	if p.Scenario == models.ScenarioEarlySale {
		annualReturn = (math.Pow(1+p.AppreciationRateA/100, 1/float64(p.SimulationYears)) - 1) * 100
		currentValue = p.HousePrice * (1 + p.AppreciationRateA/100)

		monthsHeld := p.SimulationYears * 12
		if monthsHeld > totalMonths {
			monthsHeld = totalMonths
		}
		totalLoanPayments = payment * float64(monthsHeld)
		remainingPrincipal = remainingLoanBalance(loanAmount, p.LoanRate, totalMonths, monthsHeld)
		principalPaid := loanAmount - remainingPrincipal
		interestPaid = totalLoanPayments - principalPaid

		holdingCost = p.AnnualCost * float64(p.SimulationYears)
		cashOutflow = p.DownPayment + totalLoanPayments + holdingCost
		// Sale pays off the outstanding balance.
		saleIncome = currentValue - remainingPrincipal
	} else {
		annualReturn = (math.Pow(1+p.AppreciationRateB/100, 1/float64(p.LoanYears)) - 1) * 100
		currentValue = p.HousePrice * (1 + p.AppreciationRateB/100)

		totalLoanPayments = payment * float64(totalMonths)
		interestPaid = totalLoanPayments - loanAmount
		remainingPrincipal = 0

		holdingCost = p.AnnualCost * float64(p.LoanYears)
		cashOutflow = p.DownPayment + totalLoanPayments + holdingCost
		saleIncome = currentValue
	}

	profit := saleIncome - cashOutflow
	roi := 0.0
	if cashOutflow > 0 {
		roi = profit / cashOutflow * 100
	}

	return RealEstateResult{
		Scenario:           p.Scenario,
		CashOutflow:        roundCurrency(cashOutflow),
		SaleIncome:         roundCurrency(saleIncome),
		CurrentValue:       roundCurrency(currentValue),
		Profit:             roundCurrency(profit),
		ROI:                roundRate(roi),
		AnnualReturn:       roundRate(annualReturn),
		MonthlyPayment:     roundCurrency(payment),
		LoanYears:          p.LoanYears,
		InterestPaid:       roundCurrency(interestPaid),
		TotalLoanPayments:  roundCurrency(totalLoanPayments),
		RemainingPrincipal: roundCurrency(remainingPrincipal),
		HoldingCost:        roundCurrency(holdingCost),
	}, nil
}
