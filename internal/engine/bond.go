package engine

import (
	"math"

	"github.com/baedea/brainfin/internal/models"
)

// BondResult holds the nominal and inflation-adjusted outcome of a bond or
// term deposit.
type BondResult struct {
	FinalValue      float64 `json:"final_value"`
	RealValue       float64 `json:"real_value"`
	NominalReturn   float64 `json:"nominal_return"`
	RealReturn      float64 `json:"real_return"`
	InflationImpact float64 `json:"inflation_impact"`
}

// Metrics flattens the result into the normalized metric mapping.
func (r BondResult) Metrics() models.SimulationResult {
	return models.SimulationResult{
		"final_value":      r.FinalValue,
		"real_value":       r.RealValue,
		"nominal_return":   r.NominalReturn,
		"real_return":      r.RealReturn,
		"inflation_impact": r.InflationImpact,
	}
}

// CalculateBondDeposit computes the fixed-income projection: compound or
// simple nominal growth, deflation by the inflation rate, and the real
// return via the Fisher relation.
func CalculateBondDeposit(p *models.BondDepositParameters) (BondResult, error) {
	if p == nil {
		return BondResult{}, &models.DomainError{Field: "parameters", Message: "bond deposit parameters are required"}
	}
	if p.Principal <= 0 {
		return BondResult{}, &models.DomainError{Field: "principal", Message: "principal must be greater than 0"}
	}
	if p.Years <= 0 {
		return BondResult{}, &models.DomainError{Field: "years", Message: "years must be greater than 0"}
	}
	if p.InterestRate < 0 {
		return BondResult{}, &models.DomainError{Field: "interest_rate", Message: "interest rate cannot be negative"}
	}
	inflation := p.Inflation()
	if inflation < 0 {
		return BondResult{}, &models.DomainError{Field: "inflation_rate", Message: "inflation rate cannot be negative"}
	}

	rate := p.InterestRate / 100
	inflationRate := inflation / 100
	years := float64(p.Years)

	var finalValue float64
	if p.Compound() {
		finalValue = p.Principal * math.Pow(1+rate, years)
	} else {
		finalValue = p.Principal * (1 + rate*years)
	}

	deflator := math.Pow(1+inflationRate, years)
	realValue := finalValue / deflator

	// Fisher relation: (1+real) = (1+nominal)/(1+inflation).
	realReturn := ((1+rate)/(1+inflationRate) - 1) * 100

	return BondResult{
		FinalValue:      roundRate(finalValue),
		RealValue:       roundRate(realValue),
		NominalReturn:   roundRate(p.InterestRate),
		RealReturn:      roundRate(realReturn),
		InflationImpact: roundRate(finalValue - realValue),
	}, nil
}
