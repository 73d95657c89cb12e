package service

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/baedea/brainfin/internal/models"
)

// MockSimulationRepository mocks the simulation record repository
type MockSimulationRepository struct {
	mock.Mock
}

func (m *MockSimulationRepository) Create(ctx context.Context, record *models.SimulationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSimulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SimulationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimulationRecord), args.Error(1)
}

func (m *MockSimulationRepository) List(ctx context.Context, filter models.RecordFilter) ([]*models.SimulationRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SimulationRecord), args.Error(1)
}

func (m *MockSimulationRepository) Update(ctx context.Context, record *models.SimulationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSimulationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSimulationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(repo *MockSimulationRepository) *SimulationService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewSimulationService(repo, NewRecordCache(time.Minute, 100), log, 100000)
}

func boolPtr(b bool) *bool { return &b }

func TestCalculatePersistsByDefault(t *testing.T) {
	repo := &MockSimulationRepository{}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.SimulationRecord")).Return(nil)
	svc := newTestService(repo)

	record, err := svc.Calculate(context.Background(), &models.SimulationRequest{
		InvestmentType: models.InvestmentBondDeposit,
		Parameters:     json.RawMessage(`{"principal": 1000000, "interest_rate": 3.0, "years": 5}`),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, models.InvestmentBondDeposit, record.InvestmentType)
	assert.InDelta(t, 1159274.07, record.Result["final_value"], 0.01)
	repo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*models.SimulationRecord"))
}

func TestCalculateSkipsPersistenceWhenOptedOut(t *testing.T) {
	repo := &MockSimulationRepository{}
	svc := newTestService(repo)

	record, err := svc.Calculate(context.Background(), &models.SimulationRequest{
		InvestmentType: models.InvestmentETFRegular,
		Parameters:     json.RawMessage(`{"initial_amount": 10000, "monthly_amount": 500, "dividend_yield": 2.0, "price_growth": 5.0, "years": 10}`),
		Persist:        boolPtr(false),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, record.Result)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCalculateStoresUserSession(t *testing.T) {
	repo := &MockSimulationRepository{}
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(repo)

	record, err := svc.Calculate(context.Background(), &models.SimulationRequest{
		InvestmentType: models.InvestmentBondDeposit,
		Parameters:     json.RawMessage(`{"principal": 5000, "interest_rate": 1.0, "years": 1}`),
		UserSession:    "session-abc",
	})
	require.NoError(t, err)

	require.NotNil(t, record.UserSession)
	assert.Equal(t, "session-abc", *record.UserSession)
}

func TestCalculateRejectsUnknownType(t *testing.T) {
	repo := &MockSimulationRepository{}
	svc := newTestService(repo)

	_, err := svc.Calculate(context.Background(), &models.SimulationRequest{
		InvestmentType: "crypto",
		Parameters:     json.RawMessage(`{}`),
	})
	assert.ErrorIs(t, err, models.ErrUnsupportedType)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCalculateRejectsInvalidParameters(t *testing.T) {
	repo := &MockSimulationRepository{}
	svc := newTestService(repo)

	_, err := svc.Calculate(context.Background(), &models.SimulationRequest{
		InvestmentType: models.InvestmentRealEstate,
		Parameters:     json.RawMessage(`{"house_price": 0, "loan_years": 20, "simulation_years": 5, "scenario": "A"}`),
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCalculateCapsMonteCarloTrials(t *testing.T) {
	repo := &MockSimulationRepository{}
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewSimulationService(repo, nil, log, 1000)

	_, err := svc.Calculate(context.Background(), &models.SimulationRequest{
		InvestmentType: models.InvestmentStock,
		Parameters:     json.RawMessage(`{"initial_amount": 10000, "expected_return": 7.0, "volatility": 15.0, "years": 10, "simulations": 5000}`),
	})

	var domainErr *models.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "simulations", domainErr.Field)
}

func TestGetServesRepeatReadsFromCache(t *testing.T) {
	id := uuid.New()
	stored := &models.SimulationRecord{
		ID:             id,
		InvestmentType: models.InvestmentBondDeposit,
		Parameters:     json.RawMessage(`{"principal": 1000, "interest_rate": 2.0, "years": 3}`),
		Result:         models.SimulationResult{"final_value": 1061.21},
	}

	repo := &MockSimulationRepository{}
	repo.On("GetByID", mock.Anything, id).Return(stored, nil).Once()
	svc := newTestService(repo)

	first, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestGetNotFound(t *testing.T) {
	id := uuid.New()
	repo := &MockSimulationRepository{}
	repo.On("GetByID", mock.Anything, id).Return(nil, models.ErrNotFound)
	svc := newTestService(repo)

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListRejectsUnknownTypeFilter(t *testing.T) {
	repo := &MockSimulationRepository{}
	svc := newTestService(repo)

	bad := models.InvestmentType("lottery")
	_, err := svc.List(context.Background(), models.RecordFilter{InvestmentType: &bad})

	var domainErr *models.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "investment_type", domainErr.Field)
}

func TestUpdateRecomputesResult(t *testing.T) {
	id := uuid.New()
	stored := &models.SimulationRecord{
		ID:             id,
		InvestmentType: models.InvestmentBondDeposit,
		Parameters:     json.RawMessage(`{"principal": 1000, "interest_rate": 2.0, "years": 3}`),
		Result:         models.SimulationResult{"final_value": 1061.21},
		CreatedAt:      time.Now().Add(-time.Hour),
	}

	repo := &MockSimulationRepository{}
	repo.On("GetByID", mock.Anything, id).Return(stored, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.SimulationRecord")).Return(nil)
	svc := newTestService(repo)

	updated, err := svc.Update(context.Background(), id, &models.UpdateSimulationRequest{
		Parameters: json.RawMessage(`{"principal": 1000000, "interest_rate": 3.0, "years": 5}`),
	})
	require.NoError(t, err)

	assert.InDelta(t, 1159274.07, updated.Result["final_value"], 0.01)
	assert.Equal(t, models.InvestmentBondDeposit, updated.InvestmentType)
	repo.AssertCalled(t, "Update", mock.Anything, mock.AnythingOfType("*models.SimulationRecord"))
}

func TestUpdateNotFound(t *testing.T) {
	id := uuid.New()
	repo := &MockSimulationRepository{}
	repo.On("GetByID", mock.Anything, id).Return(nil, models.ErrNotFound)
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), id, &models.UpdateSimulationRequest{
		Parameters: json.RawMessage(`{"principal": 1000, "interest_rate": 2.0, "years": 3}`),
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	id := uuid.New()
	stored := &models.SimulationRecord{
		ID:             id,
		InvestmentType: models.InvestmentBondDeposit,
		Result:         models.SimulationResult{"final_value": 1061.21},
	}

	repo := &MockSimulationRepository{}
	repo.On("GetByID", mock.Anything, id).Return(stored, nil).Once()
	repo.On("Delete", mock.Anything, id).Return(nil)
	svc := newTestService(repo)

	_, err := svc.Get(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), id))

	// Cache no longer holds the record, so the next read hits the repository.
	repo.On("GetByID", mock.Anything, id).Return(nil, models.ErrNotFound)
	_, err = svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecordCacheStats(t *testing.T) {
	c := NewRecordCache(time.Minute, 10)
	record := &models.SimulationRecord{ID: uuid.New()}

	assert.Nil(t, c.Get(record.ID))
	c.Set(record)
	assert.NotNil(t, c.Get(record.ID))

	hits, misses, ratio := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}
