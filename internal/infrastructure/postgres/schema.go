package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitSchema crea las tablas si no existen. Los CHECK de sweets son la red de
// seguridad final de los invariantes quantity >= 0 y price >= 0; el FK con
// ON DELETE CASCADE hace que el historial desaparezca solo si el dulce se
// elimina del catálogo.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sweets (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			quantity BIGINT NOT NULL DEFAULT 0,
			description TEXT,
			image_url VARCHAR(500),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT positive_price CHECK (price >= 0),
			CONSTRAINT positive_quantity CHECK (quantity >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS stock_events (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			sweet_id UUID NOT NULL REFERENCES sweets(id) ON DELETE CASCADE,
			type VARCHAR(20) NOT NULL,
			delta BIGINT NOT NULL,
			resulting_quantity BIGINT NOT NULL,
			total_value DECIMAL(12, 2) NOT NULL DEFAULT 0,
			actor_id VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT non_negative_result CHECK (resulting_quantity >= 0)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sweets_category ON sweets(category)`,
		`CREATE INDEX IF NOT EXISTS idx_sweets_name ON sweets(name)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_events_sweet ON stock_events(sweet_id, created_at, seq)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
