package device

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/umar-b/BSMS-2/internal/adapters/esp"
	"github.com/umar-b/BSMS-2/internal/domain"
)

// sequence replays fixed samples, repeating the last one
type sequence struct {
	samples []float64
	i       int
}

func (s *sequence) Next() float64 {
	v := s.samples[s.i]
	if s.i < len(s.samples)-1 {
		s.i++
	}
	return v
}

func TestRandomWalk_Bounded(t *testing.T) {
	w := NewRandomWalk(500, 0.5, rand.NewPCG(3, 4))

	for i := 0; i < 2000; i++ {
		lux := w.Next()
		if lux < 1 || lux > 15849 {
			t.Fatalf("sample %d out of bounds: %v", i, lux)
		}
	}
}

func TestEmulator_TracksController(t *testing.T) {
	e := NewEmulator(&sequence{samples: []float64{100, 100, 10100}})

	first := e.Snapshot()
	if first.Lux != 100 || first.TargetPosition != 512 || first.CurrentPosition != 0 {
		t.Fatalf("unexpected initial snapshot %+v", first)
	}

	e.Step(time.Second)
	if got := e.Snapshot().CurrentPosition; got != 200 {
		t.Errorf("expected iris to travel 200 steps in 1s, got %d", got)
	}

	e.Step(time.Second)
	r := e.Snapshot()
	if r.TargetPosition != domain.MaxIrisPosition {
		t.Errorf("expected fully open target after bright sample, got %d", r.TargetPosition)
	}
	if r.AdjustedSpeed != domain.MaxSpeed {
		t.Errorf("expected max speed after a 10000 lux jump, got %v", r.AdjustedSpeed)
	}
}

func TestEmulator_RunStopsOnCancel(t *testing.T) {
	e := NewEmulator(NewRandomWalk(500, 0.1, rand.NewPCG(1, 1)))

	ctx, cancel := context.WithTimeout(context.Background(), 3*UpdateInterval)
	defer cancel()

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context expired")
	}
}

func TestEmulator_ServesFetchableTelemetry(t *testing.T) {
	e := NewEmulator(&sequence{samples: []float64{1000}})
	e.Step(500 * time.Millisecond)

	srv := httptest.NewServer(e.Handler())
	t.Cleanup(srv.Close)

	got, err := esp.NewFetcher(srv.URL+"/data", nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	want := e.Snapshot()
	got.Timestamp = time.Time{}
	if *got != want {
		t.Errorf("fetched %+v, want %+v", *got, want)
	}
}

func TestEmulator_RejectsOtherMethods(t *testing.T) {
	e := NewEmulator(&sequence{samples: []float64{1}})

	req := httptest.NewRequest(http.MethodPost, "/data", nil)
	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
