package esp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/umar-b/BSMS-2/internal/domain"
)

const devicePayload = `{
	"lux": 812.5,
	"smoothedLux": 790.25,
	"luxChange": 22.25,
	"adjustedSpeed": 200.67,
	"adjustedAcceleration": 100.22,
	"targetPosition": 743,
	"currentPosition": 701
}`

func newDevice(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_DecodesReading(t *testing.T) {
	srv := newDevice(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/data" {
			t.Errorf("expected path /data, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(devicePayload))
	})

	f := NewFetcher(srv.URL+"/data", nil)
	got, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	want := domain.Reading{
		Lux:                  812.5,
		SmoothedLux:          790.25,
		LuxChange:            22.25,
		AdjustedSpeed:        200.67,
		AdjustedAcceleration: 100.22,
		TargetPosition:       743,
		CurrentPosition:      701,
	}
	if got.Timestamp.IsZero() {
		t.Error("expected fetched reading to be timestamped")
	}
	got.Timestamp = time.Time{}
	if *got != want {
		t.Errorf("got %+v, want %+v", *got, want)
	}
}

func TestFetch_IgnoresUnknownFields(t *testing.T) {
	srv := newDevice(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lux": 12, "firmware": "1.2.0"}`))
	})

	got, err := NewFetcher(srv.URL, nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got.Lux != 12 || got.TargetPosition != 0 {
		t.Errorf("unexpected reading %+v", *got)
	}
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := newDevice(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sensor offline", http.StatusServiceUnavailable)
	})

	_, err := NewFetcher(srv.URL, nil).Fetch(context.Background())

	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *domain.NetworkError, got %T: %v", err, err)
	}
	if netErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", netErr.StatusCode)
	}
	if !errors.Is(err, domain.ErrUnexpectedStatus) {
		t.Errorf("expected error to wrap ErrUnexpectedStatus, got %v", err)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(url, nil).Fetch(context.Background())

	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *domain.NetworkError, got %T: %v", err, err)
	}
	if netErr.StatusCode != 0 {
		t.Errorf("expected no status for a failed dial, got %d", netErr.StatusCode)
	}
	if netErr.URL != url {
		t.Errorf("expected URL %q, got %q", url, netErr.URL)
	}
}

func TestFetch_MalformedBody(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target any
	}{
		{name: "truncated json", body: `{"lux": 1`, target: new(*json.SyntaxError)},
		{name: "wrong shape", body: `[1, 2, 3]`, target: new(*json.UnmarshalTypeError)},
		{name: "wrong field type", body: `{"targetPosition": "open"}`, target: new(*json.UnmarshalTypeError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newDevice(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := NewFetcher(srv.URL, nil).Fetch(context.Background())
			if err == nil {
				t.Fatal("expected decode error, got nil")
			}
			if !errors.As(err, tt.target) {
				t.Errorf("expected %T in chain, got %v", tt.target, err)
			}
			var netErr *domain.NetworkError
			if errors.As(err, &netErr) {
				t.Errorf("decode failure should not be a NetworkError: %v", err)
			}
		})
	}
}

func TestFetch_ClientTimeout(t *testing.T) {
	srv := newDevice(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	client := &http.Client{Timeout: 20 * time.Millisecond}
	_, err := NewFetcher(srv.URL, client).Fetch(context.Background())

	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *domain.NetworkError on timeout, got %T: %v", err, err)
	}
}

func TestNewFetcher_LeavesCallerClientUntouched(t *testing.T) {
	srv := newDevice(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(devicePayload))
	})

	client := &http.Client{Timeout: time.Second}
	if _, err := NewFetcher(srv.URL, client).Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if client.Transport != nil {
		t.Errorf("expected caller's Transport to stay nil, got %T", client.Transport)
	}
	if client.Jar != nil {
		t.Errorf("expected caller's Jar to stay nil, got %T", client.Jar)
	}
	if client.Timeout != time.Second {
		t.Errorf("expected caller's Timeout to stay 1s, got %v", client.Timeout)
	}
}
