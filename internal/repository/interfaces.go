// Package repository provides data access for persisted simulation records.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baedea/brainfin/internal/models"
)

// SimulationRepository defines storage operations for simulation records.
// Each operation is a single atomic unit on one record; operations are
// never transactionally linked across records.
type SimulationRepository interface {
	Create(ctx context.Context, record *models.SimulationRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SimulationRecord, error)
	List(ctx context.Context, filter models.RecordFilter) ([]*models.SimulationRecord, error)
	Update(ctx context.Context, record *models.SimulationRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
