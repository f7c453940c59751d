package domain

import (
	"context"
	"time"
)

// ReadingRepository stores fetched telemetry.
// Implemented by the memory and SQLite adapters.
type ReadingRepository interface {
	// SaveReading persists a reading and assigns its ID
	SaveReading(ctx context.Context, reading *Reading) error

	// GetReading retrieves a specific reading by ID
	GetReading(ctx context.Context, id int64) (*Reading, error)

	// GetReadingsInRange retrieves all readings within time range.
	// Uses a half-open interval: inclusive start, exclusive end [start, end).
	GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*Reading, error)

	// GetLatestReading retrieves the most recent reading
	GetLatestReading(ctx context.Context) (*Reading, error)

	// DeleteOldReadings removes readings older than specified duration
	DeleteOldReadings(ctx context.Context, olderThan time.Duration) error
}
