package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bilbometro/api/models"
)

func setupVisitorRepo(t *testing.T) *SQLiteVisitorRepository {
	t.Helper()

	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "visits.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewSQLiteVisitorRepository(db.GetDB())
}

func TestRecordVisitDeduplicatesWithinDay(t *testing.T) {
	repo := setupVisitorRepo(t)
	ctx := context.Background()

	hash := models.HashVisitor("203.0.113.7", "2025-06-14")

	isNew, err := repo.RecordVisit(ctx, "2025-06-14", hash)
	if err != nil {
		t.Fatalf("RecordVisit failed: %v", err)
	}
	if !isNew {
		t.Error("first visit not reported as new")
	}

	isNew, err = repo.RecordVisit(ctx, "2025-06-14", hash)
	if err != nil {
		t.Fatalf("RecordVisit failed on repeat: %v", err)
	}
	if isNew {
		t.Error("repeat visit reported as new")
	}

	count, err := repo.CountDay(ctx, "2025-06-14")
	if err != nil {
		t.Fatalf("CountDay failed: %v", err)
	}
	if count != 1 {
		t.Errorf("unique visitors = %d, expected 1", count)
	}
}

func TestSameVisitorCountsAgainNextDay(t *testing.T) {
	repo := setupVisitorRepo(t)
	ctx := context.Background()

	// The visitor hash incorporates the day, so the same client hashes
	// differently across days.
	day1 := models.HashVisitor("203.0.113.7", "2025-06-14")
	day2 := models.HashVisitor("203.0.113.7", "2025-06-15")
	if day1 == day2 {
		t.Fatal("visitor hash does not vary by day")
	}

	if _, err := repo.RecordVisit(ctx, "2025-06-14", day1); err != nil {
		t.Fatalf("RecordVisit failed: %v", err)
	}
	isNew, err := repo.RecordVisit(ctx, "2025-06-15", day2)
	if err != nil {
		t.Fatalf("RecordVisit failed: %v", err)
	}
	if !isNew {
		t.Error("same client on a new day not reported as new")
	}
}

func TestCountByDayOrdersRecentFirst(t *testing.T) {
	repo := setupVisitorRepo(t)
	ctx := context.Background()

	visits := map[string][]string{
		"2025-06-13": {"a", "b"},
		"2025-06-14": {"c"},
	}
	for day, hashes := range visits {
		for _, h := range hashes {
			if _, err := repo.RecordVisit(ctx, day, models.HashVisitor(h, day)); err != nil {
				t.Fatalf("RecordVisit failed: %v", err)
			}
		}
	}

	days, err := repo.CountByDay(ctx)
	if err != nil {
		t.Fatalf("CountByDay failed: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, expected 2", len(days))
	}
	if days[0].Date != "2025-06-14" || days[0].UniqueVisitors != 1 {
		t.Errorf("days[0] = %+v, expected 2025-06-14 with 1 visitor", days[0])
	}
	if days[1].Date != "2025-06-13" || days[1].UniqueVisitors != 2 {
		t.Errorf("days[1] = %+v, expected 2025-06-13 with 2 visitors", days[1])
	}
}

func TestPing(t *testing.T) {
	repo := setupVisitorRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
