// Package engine implements the investment simulation core: four pure
// calculation models (real estate, ETF reinvestment, Monte Carlo equity,
// fixed income) and the dispatcher that routes typed parameters to them.
//
// Every model is a stateless computation over its own inputs; the package
// holds no shared mutable state and is safe for concurrent callers.
package engine

import (
	"fmt"
	"math/rand"

	"github.com/baedea/brainfin/internal/models"
)

// Run dispatches validated parameters to the matching model and returns the
// normalized metric mapping. The Monte Carlo model uses a fresh time-seeded
// randomness source; use RunWithRand to inject a seeded one.
func Run(p *models.Parameters) (models.SimulationResult, error) {
	return RunWithRand(p, nil)
}

// RunWithRand is Run with an explicit randomness source for the stochastic
// equity model. rng may be nil; it is ignored by the deterministic models.
func RunWithRand(p *models.Parameters, rng *rand.Rand) (models.SimulationResult, error) {
	if p == nil {
		return nil, &models.DomainError{Field: "parameters", Message: "parameters are required"}
	}

	switch p.Type {
	case models.InvestmentRealEstate:
		result, err := AnalyzeRealEstate(p.RealEstate)
		if err != nil {
			return nil, err
		}
		return result.Metrics(), nil

	case models.InvestmentETFRegular:
		result, err := SimulateETF(p.ETF)
		if err != nil {
			return nil, err
		}
		return result.Metrics(), nil

	case models.InvestmentMutualFund:
		// A mutual fund at a flat annual return is the ETF model with no
		// dividend stream.
		if p.MutualFund == nil {
			return nil, &models.DomainError{Field: "parameters", Message: "mutual fund parameters are required"}
		}
		result, err := SimulateETF(p.MutualFund.AsETF())
		if err != nil {
			return nil, err
		}
		return result.Metrics(), nil

	case models.InvestmentStock:
		result, err := SimulateStock(p.Stock, rng)
		if err != nil {
			return nil, err
		}
		return result.Metrics(), nil

	case models.InvestmentBondDeposit:
		result, err := CalculateBondDeposit(p.Bond)
		if err != nil {
			return nil, err
		}
		return result.Metrics(), nil

	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedType, p.Type)
	}
}
