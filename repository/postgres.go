package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bilbometro/api/models"
)

// PostgresVisitorRepository tracks unique daily visitors using Postgres.
// Selected over SQLite when DATABASE_URL is configured.
type PostgresVisitorRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVisitorRepository connects to Postgres and ensures the
// visit schema exists.
func NewPostgresVisitorRepository(databaseURL string) (*PostgresVisitorRepository, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS visits (
			day TEXT NOT NULL,
			visitor_hash TEXT NOT NULL,
			snapshot_id UUID NOT NULL,
			first_seen_utc TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (day, visitor_hash)
		)
	`
	if _, err := pool.Exec(context.Background(), schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create visits table: %w", err)
	}

	return &PostgresVisitorRepository{pool: pool}, nil
}

// Close releases the connection pool.
func (r *PostgresVisitorRepository) Close() {
	r.pool.Close()
}

// Ping verifies database connectivity.
func (r *PostgresVisitorRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// RecordVisit stores a visitor hash for a day. Returns true when the
// visitor had not been seen that day yet.
func (r *PostgresVisitorRepository) RecordVisit(ctx context.Context, day, visitorHash string) (bool, error) {
	query := `
		INSERT INTO visits (day, visitor_hash, snapshot_id, first_seen_utc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day, visitor_hash) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, day, visitorHash, uuid.New(), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to record visit: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountDay returns the number of unique visitors for a day.
func (r *PostgresVisitorRepository) CountDay(ctx context.Context, day string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM visits WHERE day = $1`
	if err := r.pool.QueryRow(ctx, query, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

// CountByDay returns unique-visitor counts for every tracked day, most
// recent first.
func (r *PostgresVisitorRepository) CountByDay(ctx context.Context) ([]models.VisitorDay, error) {
	query := `
		SELECT day, COUNT(*) AS unique_visitors
		FROM visits
		GROUP BY day
		ORDER BY day DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var days []models.VisitorDay
	for rows.Next() {
		var d models.VisitorDay
		if err := rows.Scan(&d.Date, &d.UniqueVisitors); err != nil {
			return nil, fmt.Errorf("failed to scan visit row: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visit rows: %w", err)
	}
	return days, nil
}
