package memory

import (
	"context"
	"testing"
	"time"

	"github.com/umar-b/BSMS-2/internal/domain"
)

func makeReading(lux float64, ts time.Time) *domain.Reading {
	r := domain.NewReading(domain.Reading{Lux: lux})
	r.Timestamp = ts
	return r
}

func TestSaveAndGetReading(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	reading := makeReading(500, time.Now())
	if err := repo.SaveReading(ctx, reading); err != nil {
		t.Fatalf("SaveReading failed: %v", err)
	}
	if reading.ID != 1 {
		t.Fatalf("expected first ID to be 1, got %d", reading.ID)
	}

	// Mutating the caller's copy must not leak into storage
	reading.Lux = 0

	got, err := repo.GetReading(ctx, 1)
	if err != nil {
		t.Fatalf("GetReading failed: %v", err)
	}
	if got.Lux != 500 {
		t.Errorf("got lux %v, want 500", got.Lux)
	}
}

func TestGetLatestReading(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	if _, err := repo.GetLatestReading(ctx); err != domain.ErrReadingNotFound {
		t.Fatalf("expected ErrReadingNotFound on empty repo, got %v", err)
	}

	now := time.Now()
	_ = repo.SaveReading(ctx, makeReading(100, now.Add(-time.Minute)))
	_ = repo.SaveReading(ctx, makeReading(300, now))
	_ = repo.SaveReading(ctx, makeReading(200, now.Add(-time.Hour)))

	latest, err := repo.GetLatestReading(ctx)
	if err != nil {
		t.Fatalf("GetLatestReading failed: %v", err)
	}
	if latest.Lux != 300 {
		t.Errorf("expected latest lux 300, got %v", latest.Lux)
	}
}

func TestGetReadingsInRange_HalfOpen(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	start := time.Now().Truncate(time.Second)
	end := start.Add(time.Minute)

	_ = repo.SaveReading(ctx, makeReading(1, start.Add(-time.Second)))
	_ = repo.SaveReading(ctx, makeReading(3, start.Add(30*time.Second)))
	_ = repo.SaveReading(ctx, makeReading(2, start))
	_ = repo.SaveReading(ctx, makeReading(4, end))

	results, err := repo.GetReadingsInRange(ctx, start, end)
	if err != nil {
		t.Fatalf("GetReadingsInRange failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(results))
	}
	if results[0].Lux != 2 || results[1].Lux != 3 {
		t.Errorf("expected readings [2 3] in time order, got [%v %v]", results[0].Lux, results[1].Lux)
	}
}

func TestDeleteOldReadings(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	old := makeReading(100, time.Now().Add(-48*time.Hour))
	recent := makeReading(200, time.Now().Add(-time.Hour))
	_ = repo.SaveReading(ctx, old)
	_ = repo.SaveReading(ctx, recent)

	if err := repo.DeleteOldReadings(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldReadings failed: %v", err)
	}

	if _, err := repo.GetReading(ctx, old.ID); err != domain.ErrReadingNotFound {
		t.Errorf("expected old reading to be deleted, got err: %v", err)
	}
	if _, err := repo.GetReading(ctx, recent.ID); err != nil {
		t.Errorf("expected recent reading to remain, got err: %v", err)
	}
}
