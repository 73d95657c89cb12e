package service

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/baedea/brainfin/internal/engine"
	"github.com/baedea/brainfin/internal/logger"
	"github.com/baedea/brainfin/internal/metrics"
	"github.com/baedea/brainfin/internal/models"
	"github.com/baedea/brainfin/internal/repository"
)

// SimulationService runs simulations and manages their persisted records.
type SimulationService struct {
	repo      repository.SimulationRepository
	cache     *RecordCache
	validate  *validator.Validate
	simLogger *logger.SimulationLogger
	maxTrials int
}

// NewSimulationService creates a new simulation service. maxTrials caps the
// Monte Carlo trial count per request; 0 disables the cap.
func NewSimulationService(repo repository.SimulationRepository, cache *RecordCache, log *logrus.Logger, maxTrials int) *SimulationService {
	return &SimulationService{
		repo:      repo,
		cache:     cache,
		validate:  newParameterValidator(),
		simLogger: logger.NewSimulationLogger(log),
		maxTrials: maxTrials,
	}
}

// newParameterValidator builds a validator that reports wire field names
// (json tags) rather than Go struct field names.
func newParameterValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Calculate validates the request, runs the matching model and, unless the
// caller opted out, persists the outcome as a new record.
func (s *SimulationService) Calculate(ctx context.Context, req *models.SimulationRequest) (*models.SimulationRecord, error) {
	params, err := s.prepareParameters(req.InvestmentType, req.Parameters)
	if err != nil {
		metrics.RecordSimulationFailure(string(req.InvestmentType))
		s.simLogger.LogSimulationFailure(string(req.InvestmentType), err.Error())
		return nil, err
	}

	started := time.Now()
	result, err := engine.Run(params)
	if err != nil {
		metrics.RecordSimulationFailure(string(req.InvestmentType))
		s.simLogger.LogSimulationFailure(string(req.InvestmentType), err.Error())
		return nil, err
	}
	elapsed := time.Since(started)
	metrics.RecordSimulation(string(req.InvestmentType), elapsed.Seconds())
	if params.Type == models.InvestmentStock {
		s.simLogger.LogMonteCarloRun(params.Stock.Simulations, params.Stock.Years, float64(elapsed.Milliseconds()))
	}

	canonical, err := json.Marshal(params.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}

	now := time.Now().UTC()
	record := &models.SimulationRecord{
		ID:             uuid.New(),
		InvestmentType: req.InvestmentType,
		Parameters:     canonical,
		Result:         result,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.UserSession != "" {
		session := req.UserSession
		record.UserSession = &session
	}

	if req.ShouldPersist() {
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, err
		}
		metrics.RecordPersisted()
		s.simLogger.LogRecordPersisted(record.ID.String(), string(record.InvestmentType))
		if s.cache != nil {
			s.cache.Set(record)
		}
	}

	s.simLogger.LogSimulationRun(string(req.InvestmentType), req.ShouldPersist(), float64(elapsed.Milliseconds()))
	return record, nil
}

// Get returns a stored record, serving repeat reads from cache.
func (s *SimulationService) Get(ctx context.Context, id uuid.UUID) (*models.SimulationRecord, error) {
	if s.cache != nil {
		if record := s.cache.Get(id); record != nil {
			return record, nil
		}
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(record)
	}
	return record, nil
}

// List returns stored records newest first, narrowed by the filter.
func (s *SimulationService) List(ctx context.Context, filter models.RecordFilter) ([]*models.SimulationRecord, error) {
	if filter.InvestmentType != nil && !filter.InvestmentType.Valid() {
		return nil, &models.DomainError{Field: "investment_type", Message: fmt.Sprintf("unknown investment type %q", *filter.InvestmentType)}
	}
	return s.repo.List(ctx, filter)
}

// Update replaces a record's parameters, recomputes its result and stores
// both. The investment type of a record never changes.
func (s *SimulationService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateSimulationRequest) (*models.SimulationRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	params, err := s.prepareParameters(record.InvestmentType, req.Parameters)
	if err != nil {
		metrics.RecordSimulationFailure(string(record.InvestmentType))
		return nil, err
	}

	started := time.Now()
	result, err := engine.Run(params)
	if err != nil {
		metrics.RecordSimulationFailure(string(record.InvestmentType))
		return nil, err
	}
	metrics.RecordSimulation(string(record.InvestmentType), time.Since(started).Seconds())

	canonical, err := json.Marshal(params.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}

	record.Parameters = canonical
	record.Result = result
	record.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(id)
	}
	return record, nil
}

// Delete removes a stored record.
func (s *SimulationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(id)
	}
	s.simLogger.LogRecordDeleted(id.String())
	return nil
}

// prepareParameters decodes, defaults and validates a raw parameter payload
// for the given investment type.
func (s *SimulationService) prepareParameters(t models.InvestmentType, raw json.RawMessage) (*models.Parameters, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedType, t)
	}

	params, err := models.DecodeParameters(t, raw)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params.Payload()); err != nil {
		return nil, err
	}

	if params.Type == models.InvestmentStock {
		if s.maxTrials > 0 && params.Stock.Simulations > s.maxTrials {
			return nil, &models.DomainError{
				Field:   "simulations",
				Message: fmt.Sprintf("simulations must not exceed %d", s.maxTrials),
			}
		}
		metrics.RecordMonteCarloTrials(params.Stock.Simulations)
	}

	return params, nil
}
