package engine

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/baedea/brainfin/internal/models"
)

// StockResult aggregates the Monte Carlo trial distribution into the
// reported best/worst/mean outcome bounds.
type StockResult struct {
	Mean            float64 `json:"mean"`
	Percentile5     float64 `json:"percentile_5"`
	Percentile95    float64 `json:"percentile_95"`
	TotalInvestment float64 `json:"total_investment"`
	MeanReturn      float64 `json:"mean_return"`
	WorstCase       float64 `json:"worst_case"`
	BestCase        float64 `json:"best_case"`
}

// Metrics flattens the result into the normalized metric mapping.
func (r StockResult) Metrics() models.SimulationResult {
	return models.SimulationResult{
		"mean":             r.Mean,
		"percentile_5":     r.Percentile5,
		"percentile_95":    r.Percentile95,
		"total_investment": r.TotalInvestment,
		"mean_return":      r.MeanReturn,
		"worst_case":       r.WorstCase,
		"best_case":        r.BestCase,
	}
}

// SimulateStock runs the Monte Carlo equity simulation. Each trial starts
// at the initial amount and, for every year of the horizon, adds the annual
// top-up (the wire field is named monthly_amount for historical reasons)
// and then applies a return drawn from N(expected_return, volatility).
// Draws are annual, not monthly-scaled.
//
// rng is the injected randomness source; pass nil for a time-seeded source.
// A fixed-seed rng makes the output bit-reproducible, so tests can assert
// exact aggregates. rng must not be shared across goroutines.
func SimulateStock(p *models.StockParameters, rng *rand.Rand) (StockResult, error) {
	if p == nil {
		return StockResult{}, &models.DomainError{Field: "parameters", Message: "stock parameters are required"}
	}
	if p.InitialAmount < 0 {
		return StockResult{}, &models.DomainError{Field: "initial_amount", Message: "initial amount cannot be negative"}
	}
	if p.MonthlyAmount < 0 {
		return StockResult{}, &models.DomainError{Field: "monthly_amount", Message: "annual top-up cannot be negative"}
	}
	if p.Volatility < 0 {
		return StockResult{}, &models.DomainError{Field: "volatility", Message: "volatility cannot be negative"}
	}
	if p.Years <= 0 {
		return StockResult{}, &models.DomainError{Field: "years", Message: "years must be greater than 0"}
	}
	trials := p.Simulations
	if trials <= 0 {
		trials = models.DefaultStockSimulations
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	annualTopUp := p.MonthlyAmount
	mean := p.ExpectedReturn / 100
	stddev := p.Volatility / 100

	finalValues := make([]float64, trials)
	for i := 0; i < trials; i++ {
		portfolio := p.InitialAmount
		for year := 0; year < p.Years; year++ {
			portfolio += annualTopUp
			r := mean + stddev*rng.NormFloat64()
			portfolio *= 1 + r
		}
		finalValues[i] = portfolio
	}

	sorted := append([]float64{}, finalValues...)
	sort.Float64s(sorted)

	meanValue := meanOf(finalValues)
	p5 := percentileOf(sorted, 0.05)
	p95 := percentileOf(sorted, 0.95)
	totalInvestment := p.InitialAmount + annualTopUp*float64(p.Years)

	return StockResult{
		Mean:            roundCurrency(meanValue),
		Percentile5:     roundCurrency(p5),
		Percentile95:    roundCurrency(p95),
		TotalInvestment: totalInvestment,
		MeanReturn:      roundRate(annualizedFromFinal(meanValue, totalInvestment, p.Years)),
		WorstCase:       roundRate(annualizedFromFinal(p5, totalInvestment, p.Years)),
		BestCase:        roundRate(annualizedFromFinal(p95, totalInvestment, p.Years)),
	}, nil
}

// annualizedFromFinal converts a final value into an annualized percentage
// return over the horizon. Non-positive totals or values report 0 instead
// of raising on a fractional power of a non-positive base.
func annualizedFromFinal(finalValue, totalInvestment float64, years int) float64 {
	if totalInvestment <= 0 || finalValue <= 0 || years <= 0 {
		return 0
	}
	return (math.Pow(finalValue/totalInvestment, 1/float64(years)) - 1) * 100
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// percentileOf computes the linear-interpolation percentile of a sorted
// sample, p in [0,1].
func percentileOf(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
