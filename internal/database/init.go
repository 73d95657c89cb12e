package database

import (
	"context"
	"fmt"

	"github.com/baedea/brainfin/internal/config"
)

// schema is applied on startup. Statements are idempotent so repeated
// startups are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS simulation_records (
		id UUID PRIMARY KEY,
		investment_type TEXT NOT NULL,
		parameters JSONB NOT NULL,
		result JSONB NOT NULL,
		user_session TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_simulation_records_type
		ON simulation_records (investment_type)`,
	`CREATE INDEX IF NOT EXISTS idx_simulation_records_created_at
		ON simulation_records (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_simulation_records_user_session
		ON simulation_records (user_session)
		WHERE user_session IS NOT NULL`,
}

// Initialize creates a database connection pool and ensures the schema
// exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the simulation record schema.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
