package engine

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baedea/brainfin/internal/models"
)

func TestRunDispatchesEveryType(t *testing.T) {
	tests := []struct {
		params     *models.Parameters
		wantMetric string
	}{
		{
			params: &models.Parameters{
				Type: models.InvestmentRealEstate,
				RealEstate: &models.RealEstateParameters{
					HousePrice: 10000000, DownPayment: 2000000, LoanRate: 2.5,
					LoanYears: 20, AppreciationRateA: 30, AppreciationRateB: 50,
					AnnualCost: 50000, SimulationYears: 10, Scenario: models.ScenarioEarlySale,
				},
			},
			wantMetric: "monthly_payment",
		},
		{
			params: &models.Parameters{
				Type: models.InvestmentETFRegular,
				ETF:  &models.ETFParameters{InitialAmount: 10000, MonthlyAmount: 1000, DividendYield: 2, PriceGrowth: 5, Years: 10},
			},
			wantMetric: "irr",
		},
		{
			params: &models.Parameters{
				Type:  models.InvestmentStock,
				Stock: &models.StockParameters{InitialAmount: 10000, ExpectedReturn: 7, Volatility: 15, Years: 10, Simulations: 200},
			},
			wantMetric: "percentile_5",
		},
		{
			params: &models.Parameters{
				Type:       models.InvestmentMutualFund,
				MutualFund: &models.MutualFundParameters{InitialAmount: 10000, AnnualReturn: 6, Years: 10},
			},
			wantMetric: "final_value",
		},
		{
			params: &models.Parameters{
				Type: models.InvestmentBondDeposit,
				Bond: &models.BondDepositParameters{Principal: 1000000, InterestRate: 3, Years: 5},
			},
			wantMetric: "real_value",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.params.Type), func(t *testing.T) {
			result, err := RunWithRand(tt.params, rand.New(rand.NewSource(11)))
			require.NoError(t, err)
			assert.Contains(t, result, tt.wantMetric)
		})
	}
}

func TestRunUnsupportedType(t *testing.T) {
	_, err := Run(&models.Parameters{Type: "crypto"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnsupportedType))
}

func TestRunNilParameters(t *testing.T) {
	_, err := Run(nil)
	require.Error(t, err)
}

func TestRunMutualFundMatchesETFWithoutDividends(t *testing.T) {
	mf, err := Run(&models.Parameters{
		Type:       models.InvestmentMutualFund,
		MutualFund: &models.MutualFundParameters{InitialAmount: 100000, AnnualReturn: 6, Years: 10},
	})
	require.NoError(t, err)

	etf, err := Run(&models.Parameters{
		Type: models.InvestmentETFRegular,
		ETF:  &models.ETFParameters{InitialAmount: 100000, PriceGrowth: 6, Years: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, etf["final_value"], mf["final_value"])
	assert.Equal(t, 0.0, mf["dividend_income"])
}

func TestRunResultsAreFinite(t *testing.T) {
	raw := json.RawMessage(`{"principal": 1, "interest_rate": 0, "years": 1, "inflation_rate": 0}`)
	p, err := models.DecodeParameters(models.InvestmentBondDeposit, raw)
	require.NoError(t, err)

	result, err := Run(p)
	require.NoError(t, err)
	for name, v := range result {
		assert.False(t, v != v, "metric %s is NaN", name)
	}
}
