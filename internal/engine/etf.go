package engine

import (
	"math"

	"github.com/baedea/brainfin/internal/models"
)

// etfBasePrice is the synthetic share price at month zero. Only the ratio
// of prices matters; the baseline fixes the share-count bookkeeping.
const etfBasePrice = 100.0

// ETFResult holds the outcome of a periodic ETF investment with dividend
// reinvestment.
type ETFResult struct {
	FinalValue       float64 `json:"final_value"`
	TotalInvestment  float64 `json:"total_investment"`
	Profit           float64 `json:"profit"`
	ROI              float64 `json:"roi"`
	IRR              float64 `json:"irr"`
	AnnualizedReturn float64 `json:"annualized_return"`
	DividendIncome   float64 `json:"dividend_income"`
	CapitalGain      float64 `json:"capital_gain"`
	IRRConverged     bool    `json:"-"`
}

// Metrics flattens the result into the normalized metric mapping.
func (r ETFResult) Metrics() models.SimulationResult {
	return models.SimulationResult{
		"final_value":       r.FinalValue,
		"total_investment":  r.TotalInvestment,
		"profit":            r.Profit,
		"roi":               r.ROI,
		"irr":               r.IRR,
		"annualized_return": r.AnnualizedReturn,
		"dividend_income":   r.DividendIncome,
		"capital_gain":      r.CapitalGain,
	}
}

// SimulateETF runs the month-by-month share-count simulation. Dividends and
// price growth compound independently, so a closed-form annuity does not
// apply: each month the price grows first, the month's dividend is accrued
// and immediately reinvested at the new price, and the fixed contribution
// buys shares last. That ordering is part of the model contract.
func SimulateETF(p *models.ETFParameters) (ETFResult, error) {
	if p == nil {
		return ETFResult{}, &models.DomainError{Field: "parameters", Message: "ETF parameters are required"}
	}
	if p.InitialAmount < 0 {
		return ETFResult{}, &models.DomainError{Field: "initial_amount", Message: "initial amount cannot be negative"}
	}
	if p.MonthlyAmount < 0 {
		return ETFResult{}, &models.DomainError{Field: "monthly_amount", Message: "monthly amount cannot be negative"}
	}
	if p.DividendYield < 0 {
		return ETFResult{}, &models.DomainError{Field: "dividend_yield", Message: "dividend yield cannot be negative"}
	}
	if p.Years <= 0 {
		return ETFResult{}, &models.DomainError{Field: "years", Message: "years must be greater than 0"}
	}

	monthlyDividendRate := p.DividendYield / 100 / 12
	monthlyGrowthRate := p.PriceGrowth / 100 / 12
	totalMonths := p.Years * 12

	price := etfBasePrice
	shares := 0.0
	dividendIncome := 0.0

	if p.InitialAmount > 0 {
		shares = p.InitialAmount / price
	}

	for month := 0; month < totalMonths; month++ {
		price *= 1 + monthlyGrowthRate

		dividend := shares * price * monthlyDividendRate
		dividendIncome += dividend
		if dividend > 0 {
			shares += dividend / price
		}

		if p.MonthlyAmount > 0 {
			shares += p.MonthlyAmount / price
		}
	}

	finalValue := shares * price
	totalInvestment := p.InitialAmount + p.MonthlyAmount*float64(totalMonths)
	profit := finalValue - totalInvestment
	capitalGain := finalValue - totalInvestment - dividendIncome

	annualizedReturn := 0.0
	roi := 0.0
	if totalInvestment > 0 {
		annualizedReturn = (math.Pow(finalValue/totalInvestment, 1/float64(p.Years)) - 1) * 100
		roi = profit / totalInvestment * 100
	}

	// Seed the root search at the blended dividend+growth monthly rate.
	guess := (p.DividendYield + p.PriceGrowth) / 100 / 12
	root := solveMonthlyIRR(p.InitialAmount, p.MonthlyAmount, finalValue, totalMonths, guess)
	irr := annualizedReturn
	if root.Converged {
		irr = annualizeMonthly(root.Rate) * 100
	}

	return ETFResult{
		FinalValue:       roundRate(finalValue),
		TotalInvestment:  roundRate(totalInvestment),
		Profit:           roundRate(profit),
		ROI:              roundRate(roi),
		IRR:              roundRate(irr),
		AnnualizedReturn: roundRate(annualizedReturn),
		DividendIncome:   roundRate(dividendIncome),
		CapitalGain:      roundRate(capitalGain),
		IRRConverged:     root.Converged,
	}, nil
}
