package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bilbometro/api/models"

	_ "modernc.org/sqlite"
)

// SQLiteDB wraps a SQL database connection for SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection and ensures the
// visit schema exists
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := ensureSQLiteSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteDB{db: db}, nil
}

func ensureSQLiteSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS visits (
			day TEXT NOT NULL,
			visitor_hash TEXT NOT NULL,
			snapshot_id TEXT NOT NULL,
			first_seen_utc TEXT NOT NULL,
			PRIMARY KEY (day, visitor_hash)
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create visits table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *SQLiteDB) GetDB() *sql.DB {
	return s.db
}

// SQLiteVisitorRepository tracks unique daily visitors using SQLite
type SQLiteVisitorRepository struct {
	db *sql.DB
}

// NewSQLiteVisitorRepository creates a new SQLiteVisitorRepository
func NewSQLiteVisitorRepository(db *sql.DB) *SQLiteVisitorRepository {
	return &SQLiteVisitorRepository{db: db}
}

// Ping verifies database connectivity
func (r *SQLiteVisitorRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// RecordVisit stores a visitor hash for a day. Returns true when the
// visitor had not been seen that day yet.
func (r *SQLiteVisitorRepository) RecordVisit(ctx context.Context, day, visitorHash string) (bool, error) {
	query := `
		INSERT OR IGNORE INTO visits (day, visitor_hash, snapshot_id, first_seen_utc)
		VALUES (?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, day, visitorHash,
		uuid.New().String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("failed to record visit: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return rows > 0, nil
}

// CountDay returns the number of unique visitors for a day
func (r *SQLiteVisitorRepository) CountDay(ctx context.Context, day string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM visits WHERE day = ?`
	if err := r.db.QueryRowContext(ctx, query, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

// CountByDay returns unique-visitor counts for every tracked day, most
// recent first
func (r *SQLiteVisitorRepository) CountByDay(ctx context.Context) ([]models.VisitorDay, error) {
	query := `
		SELECT day, COUNT(*) AS unique_visitors
		FROM visits
		GROUP BY day
		ORDER BY day DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
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
