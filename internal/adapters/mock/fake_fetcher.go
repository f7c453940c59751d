package mock

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/umar-b/BSMS-2/internal/domain"
)

// DefaultDelay simulates the device's network round trip
const DefaultDelay = 1000 * time.Millisecond

// Upper bounds of the fabricated values. Positions are in [0, MaxPosition).
const (
	MaxLux                  = 10000.0
	MaxLuxChange            = 50.0
	MaxAdjustedSpeed        = 500.0
	MaxAdjustedAcceleration = 200.0
	MaxPosition             = 2048
)

// FakeFetcher fabricates iris readings for development without a device.
// It implements ports.Fetcher.
type FakeFetcher struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFakeFetcher creates a fetcher that answers after delay
func NewFakeFetcher(delay time.Duration) *FakeFetcher {
	return NewFakeFetcherWithSource(delay, rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewFakeFetcherWithSource is NewFakeFetcher with a caller-supplied random
// source, for reproducible sequences.
func NewFakeFetcherWithSource(delay time.Duration, src rand.Source) *FakeFetcher {
	return &FakeFetcher{
		delay: delay,
		rng:   rand.New(src),
	}
}

// Fetch waits for the configured delay and returns uniformly random values.
// It only fails when ctx is done before the delay elapses.
func (f *FakeFetcher) Fetch(ctx context.Context) (*domain.Reading, error) {
	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	f.mu.Lock()
	r := domain.Reading{
		Lux:                  f.uniform(MaxLux),
		SmoothedLux:          f.uniform(MaxLux),
		LuxChange:            f.uniform(MaxLuxChange),
		AdjustedSpeed:        f.uniform(MaxAdjustedSpeed),
		AdjustedAcceleration: f.uniform(MaxAdjustedAcceleration),
		TargetPosition:       f.rng.IntN(MaxPosition),
		CurrentPosition:      f.rng.IntN(MaxPosition),
	}
	f.mu.Unlock()

	return domain.NewReading(r), nil
}

// uniform returns a value in [0, limit] rounded to two decimals
func (f *FakeFetcher) uniform(limit float64) float64 {
	return math.Round(f.rng.Float64()*limit*100) / 100
}
