// Package models defines the canonical domain types for the investment
// simulation service: one parameter shape per investment type, the result
// mapping produced by the engine, and the persisted simulation record.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvestmentType identifies one of the supported investment vehicles.
type InvestmentType string

const (
	InvestmentRealEstate  InvestmentType = "real_estate"
	InvestmentETFRegular  InvestmentType = "etf_regular"
	InvestmentStock       InvestmentType = "stock"
	InvestmentMutualFund  InvestmentType = "mutual_fund"
	InvestmentBondDeposit InvestmentType = "bond_deposit"
)

// Valid reports whether t is a known investment type.
func (t InvestmentType) Valid() bool {
	switch t {
	case InvestmentRealEstate, InvestmentETFRegular, InvestmentStock, InvestmentMutualFund, InvestmentBondDeposit:
		return true
	default:
		return false
	}
}

// Scenario selects the real estate exit strategy.
type Scenario string

const (
	// ScenarioEarlySale sells the property after SimulationYears.
	ScenarioEarlySale Scenario = "A"
	// ScenarioHoldToMaturity holds the property until the loan is retired.
	ScenarioHoldToMaturity Scenario = "B"
)

// RealEstateParameters describes a leveraged property purchase.
//
// AppreciationRateA/B are the expected TOTAL price appreciation over the
// holding period, in percent — not an annualized rate. The reported
// annual_return metric back-solves the implied annual rate from the total.
type RealEstateParameters struct {
	HousePrice        float64  `json:"house_price" validate:"required,gt=0"`
	DownPayment       float64  `json:"down_payment" validate:"gte=0,ltefield=HousePrice"`
	LoanRate          float64  `json:"loan_rate" validate:"gte=0"`
	LoanYears         int      `json:"loan_years" validate:"required,gt=0"`
	AppreciationRateA float64  `json:"appreciation_rate_a"`
	AppreciationRateB float64  `json:"appreciation_rate_b"`
	AnnualCost        float64  `json:"annual_cost" validate:"gte=0"`
	SimulationYears   int      `json:"simulation_years" validate:"required,gt=0"`
	Scenario          Scenario `json:"scenario" validate:"required,oneof=A B"`
}

// ETFParameters describes a periodic ETF investment with dividends
// reinvested monthly at the then-current price.
type ETFParameters struct {
	InitialAmount float64 `json:"initial_amount" validate:"gte=0"`
	MonthlyAmount float64 `json:"monthly_amount" validate:"gte=0"`
	DividendYield float64 `json:"dividend_yield" validate:"gte=0"`
	PriceGrowth   float64 `json:"price_growth"`
	Years         int     `json:"years" validate:"required,gt=0"`
}

// StockParameters describes a Monte Carlo equity simulation.
//
// MonthlyAmount is applied ONCE PER YEAR as a lump top-up; the wire name is
// kept for compatibility with existing clients, but the engine treats it as
// an annual contribution.
type StockParameters struct {
	InitialAmount  float64 `json:"initial_amount" validate:"gte=0"`
	MonthlyAmount  float64 `json:"monthly_amount" validate:"gte=0"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility" validate:"gte=0"`
	Years          int     `json:"years" validate:"required,gt=0"`
	Simulations    int     `json:"simulations" validate:"gte=0"`
}

// DefaultStockSimulations is the trial count used when none is supplied.
const DefaultStockSimulations = 10000

// Normalize fills defaults for optional fields.
func (p *StockParameters) Normalize() {
	if p.Simulations == 0 {
		p.Simulations = DefaultStockSimulations
	}
}

// MutualFundParameters describes a mutual fund held at a flat expected
// annual return. It is computed by the ETF model with no dividend stream.
type MutualFundParameters struct {
	InitialAmount float64 `json:"initial_amount" validate:"gte=0"`
	AnnualReturn  float64 `json:"annual_return"`
	Years         int     `json:"years" validate:"required,gt=0"`
}

// AsETF converts mutual fund parameters into the equivalent ETF model input.
func (p *MutualFundParameters) AsETF() *ETFParameters {
	return &ETFParameters{
		InitialAmount: p.InitialAmount,
		PriceGrowth:   p.AnnualReturn,
		Years:         p.Years,
	}
}

// BondDepositParameters describes a fixed-income instrument.
//
// IsCompound and InflationRate are pointers so that an absent field can be
// distinguished from an explicit zero; absent values default to compound
// interest and DefaultInflationRate.
type BondDepositParameters struct {
	Principal     float64  `json:"principal" validate:"required,gt=0"`
	InterestRate  float64  `json:"interest_rate" validate:"gte=0"`
	Years         int      `json:"years" validate:"required,gt=0"`
	IsCompound    *bool    `json:"is_compound,omitempty"`
	InflationRate *float64 `json:"inflation_rate,omitempty" validate:"omitempty,gte=0"`
}

// DefaultInflationRate is the assumed annual inflation in percent when the
// caller does not supply one.
const DefaultInflationRate = 2.0

// Compound returns the compounding flag, defaulting to true.
func (p *BondDepositParameters) Compound() bool {
	if p.IsCompound == nil {
		return true
	}
	return *p.IsCompound
}

// Inflation returns the inflation rate in percent, defaulting to
// DefaultInflationRate.
func (p *BondDepositParameters) Inflation() float64 {
	if p.InflationRate == nil {
		return DefaultInflationRate
	}
	return *p.InflationRate
}

// Parameters is the tagged union handed to the engine. Exactly one of the
// pointer fields matching Type is non-nil.
type Parameters struct {
	Type       InvestmentType
	RealEstate *RealEstateParameters
	ETF        *ETFParameters
	Stock      *StockParameters
	MutualFund *MutualFundParameters
	Bond       *BondDepositParameters
}

// DecodeParameters unmarshals a raw parameter payload into the shape
// required by the investment type.
func DecodeParameters(t InvestmentType, raw json.RawMessage) (*Parameters, error) {
	if len(raw) == 0 {
		return nil, &DomainError{Field: "parameters", Message: "parameters are required"}
	}

	p := &Parameters{Type: t}
	var err error
	switch t {
	case InvestmentRealEstate:
		p.RealEstate = &RealEstateParameters{}
		err = json.Unmarshal(raw, p.RealEstate)
	case InvestmentETFRegular:
		p.ETF = &ETFParameters{}
		err = json.Unmarshal(raw, p.ETF)
	case InvestmentStock:
		p.Stock = &StockParameters{}
		err = json.Unmarshal(raw, p.Stock)
		if err == nil {
			p.Stock.Normalize()
		}
	case InvestmentMutualFund:
		p.MutualFund = &MutualFundParameters{}
		err = json.Unmarshal(raw, p.MutualFund)
	case InvestmentBondDeposit:
		p.Bond = &BondDepositParameters{}
		err = json.Unmarshal(raw, p.Bond)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, t)
	}
	if err != nil {
		return nil, &DomainError{Field: "parameters", Message: fmt.Sprintf("malformed parameters for %s: %v", t, err)}
	}
	return p, nil
}

// Payload returns the active parameter struct for validation and storage.
func (p *Parameters) Payload() interface{} {
	switch p.Type {
	case InvestmentRealEstate:
		return p.RealEstate
	case InvestmentETFRegular:
		return p.ETF
	case InvestmentStock:
		return p.Stock
	case InvestmentMutualFund:
		return p.MutualFund
	case InvestmentBondDeposit:
		return p.Bond
	default:
		return nil
	}
}

// SimulationResult is the flat mapping of named numeric metrics produced by
// one engine model. All values are finite and rounded for display.
type SimulationResult map[string]float64

// SimulationRequest is the unified compute request accepted by the API.
type SimulationRequest struct {
	InvestmentType InvestmentType  `json:"investment_type" validate:"required"`
	Parameters     json.RawMessage `json:"parameters" validate:"required"`
	Persist        *bool           `json:"persist,omitempty"`
	UserSession    string          `json:"user_session,omitempty"`
}

// ShouldPersist reports whether the computed record should be stored.
// Persistence defaults to on, matching the original API contract.
func (r *SimulationRequest) ShouldPersist() bool {
	if r.Persist == nil {
		return true
	}
	return *r.Persist
}

// UpdateSimulationRequest carries replacement parameters for an existing
// record; the engine recomputes the result from them.
type UpdateSimulationRequest struct {
	Parameters json.RawMessage `json:"parameters" validate:"required"`
}

// SimulationRecord is the persisted entity for one accepted simulation.
type SimulationRecord struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	InvestmentType InvestmentType   `db:"investment_type" json:"investment_type"`
	Parameters     json.RawMessage  `db:"parameters" json:"parameters"`
	Result         SimulationResult `db:"result" json:"result"`
	UserSession    *string          `db:"user_session" json:"user_session,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// RecordFilter narrows List queries.
type RecordFilter struct {
	InvestmentType *InvestmentType
	UserSession    *string
	Limit          int
}
