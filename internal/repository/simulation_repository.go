package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baedea/brainfin/internal/database"
	"github.com/baedea/brainfin/internal/models"
)

const defaultListLimit = 50

// PostgresSimulationRepository implements SimulationRepository for PostgreSQL
type PostgresSimulationRepository struct {
	db *database.DB
}

// NewPostgresSimulationRepository creates a new simulation record repository
func NewPostgresSimulationRepository(db *database.DB) SimulationRepository {
	return &PostgresSimulationRepository{db: db}
}

// Create inserts a new simulation record
func (r *PostgresSimulationRepository) Create(ctx context.Context, record *models.SimulationRecord) error {
	query := `
		INSERT INTO simulation_records (id, investment_type, parameters, result, user_session, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		record.ID, record.InvestmentType, record.Parameters, record.Result,
		record.UserSession, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create simulation record: %w", err)
	}

	return nil
}

// GetByID retrieves a simulation record by ID
func (r *PostgresSimulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SimulationRecord, error) {
	query := `
		SELECT id, investment_type, parameters, result, user_session, created_at, updated_at
		FROM simulation_records WHERE id = $1
	`

	record := &models.SimulationRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&record.ID, &record.InvestmentType, &record.Parameters, &record.Result,
		&record.UserSession, &record.CreatedAt, &record.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation record: %w", err)
	}

	return record, nil
}

// List retrieves simulation records newest first, optionally filtered by
// investment type and user session
func (r *PostgresSimulationRepository) List(ctx context.Context, filter models.RecordFilter) ([]*models.SimulationRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, investment_type, parameters, result, user_session, created_at, updated_at
		FROM simulation_records
		WHERE ($1::text IS NULL OR investment_type = $1)
		  AND ($2::text IS NULL OR user_session = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, filter.InvestmentType, filter.UserSession, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation records: %w", err)
	}
	defer rows.Close()

	var records []*models.SimulationRecord
	for rows.Next() {
		record := &models.SimulationRecord{}
		err := rows.Scan(
			&record.ID, &record.InvestmentType, &record.Parameters, &record.Result,
			&record.UserSession, &record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Update replaces a record's parameters and result
func (r *PostgresSimulationRepository) Update(ctx context.Context, record *models.SimulationRecord) error {
	query := `
		UPDATE simulation_records SET
			parameters = $2, result = $3, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, record.ID, record.Parameters, record.Result)
	if err != nil {
		return fmt.Errorf("failed to update simulation record: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a simulation record
func (r *PostgresSimulationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	commandTag, err := r.db.GetPool().Exec(ctx, `DELETE FROM simulation_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete simulation record: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteOlderThan removes records created before the cutoff and returns the
// number removed. Used by the retention sweeper.
func (r *PostgresSimulationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	commandTag, err := r.db.GetPool().Exec(ctx, `DELETE FROM simulation_records WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune simulation records: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
