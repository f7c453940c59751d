package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/umar-b/BSMS-2/internal/domain"
)

const selectColumns = `id, lux, smoothed_lux, lux_change, adjusted_speed,
	adjusted_acceleration, target_position, current_position, timestamp`

// ReadingRepository implements domain.ReadingRepository with SQLite.
// Timestamps are stored as unix nanoseconds so range queries compare integers.
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository creates a SQLite-backed repository
func NewReadingRepository(dbPath string) (*ReadingRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS iris_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lux REAL NOT NULL,
		smoothed_lux REAL NOT NULL,
		lux_change REAL NOT NULL,
		adjusted_speed REAL NOT NULL,
		adjusted_acceleration REAL NOT NULL,
		target_position INTEGER NOT NULL,
		current_position INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_iris_readings_timestamp ON iris_readings(timestamp);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &ReadingRepository{db: db}, nil
}

// SaveReading stores a reading in SQLite
func (r *ReadingRepository) SaveReading(ctx context.Context, reading *domain.Reading) error {
	query := `INSERT INTO iris_readings (lux, smoothed_lux, lux_change, adjusted_speed,
		adjusted_acceleration, target_position, current_position, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		reading.Lux, reading.SmoothedLux, reading.LuxChange, reading.AdjustedSpeed,
		reading.AdjustedAcceleration, reading.TargetPosition, reading.CurrentPosition,
		reading.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert id: %w", err)
	}

	reading.ID = id
	return nil
}

// GetReading retrieves a reading by ID
func (r *ReadingRepository) GetReading(ctx context.Context, id int64) (*domain.Reading, error) {
	query := `SELECT ` + selectColumns + ` FROM iris_readings WHERE id = ?`

	reading, err := scanReading(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reading: %w", err)
	}
	return reading, nil
}

// GetReadingsInRange returns all readings in [start, end), oldest first
func (r *ReadingRepository) GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*domain.Reading, error) {
	query := `SELECT ` + selectColumns + `
		FROM iris_readings
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []*domain.Reading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// GetLatestReading returns the most recent reading
func (r *ReadingRepository) GetLatestReading(ctx context.Context) (*domain.Reading, error) {
	query := `SELECT ` + selectColumns + `
		FROM iris_readings
		ORDER BY timestamp DESC, id DESC
		LIMIT 1`

	reading, err := scanReading(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}
	return reading, nil
}

// DeleteOldReadings removes readings older than specified duration
func (r *ReadingRepository) DeleteOldReadings(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	query := `DELETE FROM iris_readings WHERE timestamp < ?`

	if _, err := r.db.ExecContext(ctx, query, cutoff.UnixNano()); err != nil {
		return fmt.Errorf("failed to delete old readings: %w", err)
	}

	return nil
}

// Close closes the database connection
func (r *ReadingRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReading(s scanner) (*domain.Reading, error) {
	var reading domain.Reading
	var ts int64

	err := s.Scan(
		&reading.ID, &reading.Lux, &reading.SmoothedLux, &reading.LuxChange,
		&reading.AdjustedSpeed, &reading.AdjustedAcceleration,
		&reading.TargetPosition, &reading.CurrentPosition, &ts,
	)
	if err != nil {
		return nil, err
	}

	reading.Timestamp = time.Unix(0, ts)
	return &reading, nil
}
