package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/umar-b/BSMS-2/internal/domain"
)

// DefaultRetention is how long stored readings are kept.
const DefaultRetention = 30 * 24 * time.Hour

// DefaultInterval replaces a non-positive polling interval
const DefaultInterval = 30 * time.Second

// Recorder polls the device and stores what it reports
type Recorder struct {
	fetcher   Fetcher
	repo      domain.ReadingRepository
	sinks     []Sink
	interval  time.Duration
	retention time.Duration
}

// NewRecorder creates a new background recorder
func NewRecorder(fetcher Fetcher, repo domain.ReadingRepository, interval time.Duration, sinks ...Sink) *Recorder {
	if interval <= 0 {
		log.Warn().Dur("interval", interval).Dur("default", DefaultInterval).Msg("non-positive record interval, using default")
		interval = DefaultInterval
	}
	return &Recorder{
		fetcher:   fetcher,
		repo:      repo,
		sinks:     sinks,
		interval:  interval,
		retention: DefaultRetention,
	}
}

// Start begins periodic polling.
// This runs in a goroutine until context is cancelled
func (r *Recorder) Start(ctx context.Context) {
	log.Info().
		Dur("interval", r.interval).
		Int("sinks", len(r.sinks)).
		Msg("starting background recorder")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(24 * time.Hour)
	defer cleanupTicker.Stop()

	// Record immediately on start
	r.record(ctx)

	for {
		select {
		case <-ticker.C:
			r.record(ctx)

		case <-cleanupTicker.C:
			if err := r.repo.DeleteOldReadings(ctx, r.retention); err != nil {
				log.Error().Err(err).Msg("failed to delete old readings")
			} else {
				log.Info().Dur("retention", r.retention).Msg("deleted expired readings")
			}

		case <-ctx.Done():
			log.Info().Msg("stopping background recorder")
			return
		}
	}
}

// Interval is the polling period in effect
func (r *Recorder) Interval() time.Duration {
	return r.interval
}

func (r *Recorder) record(ctx context.Context) {
	if _, err := r.RecordOnce(ctx); err != nil {
		log.Error().Err(err).Msg("failed to record reading")
	}
}

// RecordOnce fetches one reading, saves it and publishes it to every sink.
// A failing sink is logged and does not fail the call.
func (r *Recorder) RecordOnce(ctx context.Context) (*domain.Reading, error) {
	log.Debug().Msg("fetching reading")

	reading, err := r.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reading: %w", err)
	}

	if err := r.repo.SaveReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("failed to save reading: %w", err)
	}

	for _, s := range r.sinks {
		if err := s.Publish(ctx, reading); err != nil {
			log.Error().Err(err).Str("sink", s.Name()).Msg("failed to publish reading")
		}
	}

	log.Info().
		Float64("lux", reading.Lux).
		Float64("smoothed_lux", reading.SmoothedLux).
		Int("target", reading.TargetPosition).
		Int("current", reading.CurrentPosition).
		Str("category", reading.LightCategory()).
		Msg("recorded iris reading")

	return reading, nil
}
