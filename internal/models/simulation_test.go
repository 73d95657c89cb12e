package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeParametersPerType(t *testing.T) {
	p, err := DecodeParameters(InvestmentRealEstate, json.RawMessage(`{
		"house_price": 10000000, "down_payment": 2000000, "loan_rate": 2.5,
		"loan_years": 20, "appreciation_rate_a": 30, "appreciation_rate_b": 50,
		"annual_cost": 50000, "simulation_years": 10, "scenario": "A"
	}`))
	require.NoError(t, err)
	require.NotNil(t, p.RealEstate)
	assert.Equal(t, ScenarioEarlySale, p.RealEstate.Scenario)
	assert.Equal(t, p.RealEstate, p.Payload())

	p, err = DecodeParameters(InvestmentStock, json.RawMessage(`{
		"initial_amount": 10000, "expected_return": 7, "volatility": 15, "years": 10
	}`))
	require.NoError(t, err)
	require.NotNil(t, p.Stock)
	// Absent trial count defaults.
	assert.Equal(t, DefaultStockSimulations, p.Stock.Simulations)

	p, err = DecodeParameters(InvestmentBondDeposit, json.RawMessage(`{
		"principal": 1000000, "interest_rate": 3, "years": 5
	}`))
	require.NoError(t, err)
	require.NotNil(t, p.Bond)
	assert.True(t, p.Bond.Compound())
	assert.Equal(t, DefaultInflationRate, p.Bond.Inflation())
}

func TestDecodeParametersExplicitZeroInflation(t *testing.T) {
	p, err := DecodeParameters(InvestmentBondDeposit, json.RawMessage(`{
		"principal": 1000, "interest_rate": 2, "years": 3,
		"is_compound": false, "inflation_rate": 0
	}`))
	require.NoError(t, err)

	// Explicit zero must not be replaced by the default.
	assert.False(t, p.Bond.Compound())
	assert.Equal(t, 0.0, p.Bond.Inflation())
}

func TestDecodeParametersUnsupportedType(t *testing.T) {
	_, err := DecodeParameters("crypto", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestDecodeParametersMalformed(t *testing.T) {
	_, err := DecodeParameters(InvestmentETFRegular, json.RawMessage(`{"years": "ten"}`))
	require.Error(t, err)
	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "parameters", de.Field)

	_, err = DecodeParameters(InvestmentETFRegular, nil)
	require.Error(t, err)
}

func TestMutualFundAsETF(t *testing.T) {
	mf := &MutualFundParameters{InitialAmount: 5000, AnnualReturn: 4, Years: 8}
	etf := mf.AsETF()

	assert.Equal(t, 5000.0, etf.InitialAmount)
	assert.Equal(t, 4.0, etf.PriceGrowth)
	assert.Equal(t, 0.0, etf.DividendYield)
	assert.Equal(t, 8, etf.Years)
}

func TestSimulationRequestPersistDefault(t *testing.T) {
	var req SimulationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"investment_type": "stock", "parameters": {}}`), &req))
	assert.True(t, req.ShouldPersist())

	require.NoError(t, json.Unmarshal([]byte(`{"investment_type": "stock", "parameters": {}, "persist": false}`), &req))
	assert.False(t, req.ShouldPersist())
}

func TestInvestmentTypeValid(t *testing.T) {
	for _, valid := range []InvestmentType{InvestmentRealEstate, InvestmentETFRegular, InvestmentStock, InvestmentMutualFund, InvestmentBondDeposit} {
		assert.True(t, valid.Valid())
	}
	assert.False(t, InvestmentType("crypto").Valid())
	assert.False(t, InvestmentType("").Valid())
}
