package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/umar-b/BSMS-2/internal/domain"
)

func newTestRepo(t *testing.T) *ReadingRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewReadingRepository(dbPath)
	if err != nil {
		t.Fatalf("failed to create SQLite repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func makeReading(lux float64, ts time.Time) *domain.Reading {
	r := domain.NewReading(domain.Reading{Lux: lux})
	r.Timestamp = ts
	return r
}

func TestSaveAndGetReading(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	reading := domain.NewReading(domain.Reading{
		Lux:                  812.5,
		SmoothedLux:          790.25,
		LuxChange:            22.25,
		AdjustedSpeed:        200.67,
		AdjustedAcceleration: 100.22,
		TargetPosition:       743,
		CurrentPosition:      701,
	})

	if err := repo.SaveReading(ctx, reading); err != nil {
		t.Fatalf("SaveReading failed: %v", err)
	}
	if reading.ID == 0 {
		t.Fatal("expected ID to be set after save")
	}

	got, err := repo.GetReading(ctx, reading.ID)
	if err != nil {
		t.Fatalf("GetReading failed: %v", err)
	}
	if !got.Timestamp.Equal(reading.Timestamp) {
		t.Errorf("got timestamp %v, want %v", got.Timestamp, reading.Timestamp)
	}
	got.Timestamp = reading.Timestamp
	if *got != *reading {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", *got, *reading)
	}
}

func TestGetReading_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetReading(context.Background(), 99)
	if err != domain.ErrReadingNotFound {
		t.Errorf("expected ErrReadingNotFound, got %v", err)
	}
}

func TestGetLatestReading_Empty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetLatestReading(ctx)
	if err != domain.ErrReadingNotFound {
		t.Errorf("expected ErrReadingNotFound, got %v", err)
	}
}

func TestGetLatestReading(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	_ = repo.SaveReading(ctx, makeReading(300, now))
	_ = repo.SaveReading(ctx, makeReading(100, now.Add(-time.Hour)))

	latest, err := repo.GetLatestReading(ctx)
	if err != nil {
		t.Fatalf("GetLatestReading failed: %v", err)
	}
	if latest.Lux != 300 {
		t.Errorf("expected latest lux 300, got %v", latest.Lux)
	}
}

func TestGetReadingsInRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	_ = repo.SaveReading(ctx, makeReading(100, now.Add(-2*time.Hour)))
	_ = repo.SaveReading(ctx, makeReading(200, now.Add(-1*time.Hour)))
	_ = repo.SaveReading(ctx, makeReading(300, now.Add(1*time.Hour)))

	// Range [now-90m, now) holds only the within reading
	results, err := repo.GetReadingsInRange(ctx, now.Add(-90*time.Minute), now)
	if err != nil {
		t.Fatalf("GetReadingsInRange failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(results))
	}
	if results[0].Lux != 200 {
		t.Errorf("expected lux 200, got %v", results[0].Lux)
	}
}

func TestGetReadingsInRange_InclusiveStart(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ts := time.Now().UTC().Truncate(time.Second)
	_ = repo.SaveReading(ctx, makeReading(100, ts))

	results, err := repo.GetReadingsInRange(ctx, ts, ts.Add(time.Second))
	if err != nil {
		t.Fatalf("GetReadingsInRange failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result (inclusive start), got %d", len(results))
	}
}

func TestGetReadingsInRange_ExclusiveEnd(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ts := time.Now().UTC().Truncate(time.Second)
	_ = repo.SaveReading(ctx, makeReading(100, ts))

	results, err := repo.GetReadingsInRange(ctx, ts.Add(-time.Second), ts)
	if err != nil {
		t.Fatalf("GetReadingsInRange failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results (exclusive end), got %d", len(results))
	}
}

func TestDeleteOldReadings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	old := makeReading(100, now.Add(-48*time.Hour))
	recent := makeReading(200, now.Add(-1*time.Hour))
	_ = repo.SaveReading(ctx, old)
	_ = repo.SaveReading(ctx, recent)

	if err := repo.DeleteOldReadings(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldReadings failed: %v", err)
	}

	_, err := repo.GetReading(ctx, old.ID)
	if err != domain.ErrReadingNotFound {
		t.Errorf("expected old reading to be deleted, got err: %v", err)
	}

	_, err = repo.GetReading(ctx, recent.ID)
	if err != nil {
		t.Errorf("expected recent reading to remain, got err: %v", err)
	}
}
