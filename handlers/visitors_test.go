package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bilbometro/api/models"
)

var errTest = errors.New("store unavailable")

type fakeVisitorRepo struct {
	visits  map[string]map[string]bool // day -> hash set
	pingErr error
}

func newFakeVisitorRepo() *fakeVisitorRepo {
	return &fakeVisitorRepo{visits: make(map[string]map[string]bool)}
}

func (f *fakeVisitorRepo) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeVisitorRepo) RecordVisit(ctx context.Context, day, visitorHash string) (bool, error) {
	if f.visits[day] == nil {
		f.visits[day] = make(map[string]bool)
	}
	if f.visits[day][visitorHash] {
		return false, nil
	}
	f.visits[day][visitorHash] = true
	return true, nil
}

func (f *fakeVisitorRepo) CountDay(ctx context.Context, day string) (int, error) {
	return len(f.visits[day]), nil
}

func (f *fakeVisitorRepo) CountByDay(ctx context.Context) ([]models.VisitorDay, error) {
	var days []models.VisitorDay
	for day, hashes := range f.visits {
		days = append(days, models.VisitorDay{Date: day, UniqueVisitors: len(hashes)})
	}
	return days, nil
}

func TestMiddlewareRecordsUniqueVisitors(t *testing.T) {
	repo := newFakeVisitorRepo()
	h := NewVisitorHandler(repo, quietLogger())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := h.Middleware(next)

	// Two requests from the same client, one from another.
	for _, addr := range []string{"203.0.113.7:1234", "203.0.113.7:9999", "198.51.100.1:80"} {
		req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	total := 0
	for _, hashes := range repo.visits {
		total += len(hashes)
	}
	// Ports are stripped before hashing, so the repeat client dedupes.
	if total != 2 {
		t.Errorf("unique visitors recorded = %d, expected 2", total)
	}
}

func TestGetVisitors(t *testing.T) {
	repo := newFakeVisitorRepo()
	repo.visits["2025-06-14"] = map[string]bool{"a": true, "b": true}
	h := NewVisitorHandler(repo, quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/visitors", nil)
	rec := httptest.NewRecorder()
	h.GetVisitors(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	var stats models.VisitorStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if stats.Today == "" {
		t.Error("today field missing")
	}
	if len(stats.Days) != 1 || stats.Days[0].UniqueVisitors != 2 {
		t.Errorf("days = %+v", stats.Days)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4321"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	if ip := clientIP(req); ip != "203.0.113.7" {
		t.Errorf("clientIP = %q, expected forwarded address", ip)
	}

	req.Header.Del("X-Forwarded-For")
	if ip := clientIP(req); ip != "10.0.0.1" {
		t.Errorf("clientIP = %q, expected host without port", ip)
	}
}
