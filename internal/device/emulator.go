// Package device emulates the ESP32 iris controller's HTTP interface.
package device

import (
	"context"
	"encoding/json"
	"math"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/umar-b/BSMS-2/internal/domain"
)

// UpdateInterval is how often the firmware samples the light sensor
const UpdateInterval = 120 * time.Millisecond

// LuxSource produces light sensor samples
type LuxSource interface {
	Next() float64
}

// RandomWalk drifts lux on a log10 scale, so the iris sees both dim and
// bright scenes over time.
type RandomWalk struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logLux float64
	sigma  float64
}

// NewRandomWalk starts a walk at lux with per-sample log10 deviation sigma
func NewRandomWalk(lux, sigma float64, src rand.Source) *RandomWalk {
	return &RandomWalk{
		rng:    rand.New(src),
		logLux: math.Log10(math.Max(lux, 1)),
		sigma:  sigma,
	}
}

// Next returns the next sample, bounded to [1, ~16000] lux
func (w *RandomWalk) Next() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logLux = math.Max(0, math.Min(4.2, w.logLux+w.rng.NormFloat64()*w.sigma))
	return math.Round(math.Pow(10, w.logLux)*100) / 100
}

// Emulator runs the iris control loop against a LuxSource and serves the
// resulting telemetry the way the device does.
type Emulator struct {
	source LuxSource

	mu      sync.RWMutex
	ctrl    *domain.IrisController
	reading domain.Reading
}

// NewEmulator creates an emulator seeded with one sample from source
func NewEmulator(source LuxSource) *Emulator {
	e := &Emulator{
		source: source,
		ctrl:   domain.NewIrisController(),
	}
	e.ctrl.Update(source.Next())
	e.reading = e.ctrl.Reading()
	return e
}

// Step runs the motor for dt, then samples the sensor once
func (e *Emulator) Step(dt time.Duration) {
	lux := e.source.Next()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctrl.Advance(dt)
	e.ctrl.Update(lux)
	e.reading = e.ctrl.Reading()
}

// Snapshot returns the latest telemetry
func (e *Emulator) Snapshot() domain.Reading {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reading
}

// Run steps the emulator every UpdateInterval until ctx is cancelled
func (e *Emulator) Run(ctx context.Context) {
	ticker := time.NewTicker(UpdateInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			e.Step(now.Sub(last))
			last = now
		case <-ctx.Done():
			return
		}
	}
}

// Handler serves GET /data like the firmware's web server
func (e *Emulator) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/data", e.handleData).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return router
}

func (e *Emulator) handleData(w http.ResponseWriter, r *http.Request) {
	reading := e.Snapshot()
	log.Debug().
		Float64("lux", reading.Lux).
		Int("target", reading.TargetPosition).
		Int("current", reading.CurrentPosition).
		Msg("serving telemetry")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reading); err != nil {
		log.Error().Err(err).Msg("failed to encode telemetry")
	}
}
