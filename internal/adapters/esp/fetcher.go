package esp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/umar-b/BSMS-2/internal/domain"
)

// DefaultURL is where the iris controller serves its telemetry
const DefaultURL = "http://172.20.10.5/data"

// DefaultTimeout bounds a single fetch when no client is supplied
const DefaultTimeout = 10 * time.Second

// Fetcher reads telemetry from the ESP32 over HTTP.
// It implements ports.Fetcher.
type Fetcher struct {
	url    string
	client *resty.Client
}

// NewFetcher creates a fetcher for url. A nil client gets DefaultTimeout.
// hc is copied, so resty's defaults never leak into the caller's client.
func NewFetcher(url string, hc *http.Client) *Fetcher {
	c := http.Client{Timeout: DefaultTimeout}
	if hc != nil {
		c = *hc
	}
	return &Fetcher{
		url:    url,
		client: resty.NewWithClient(&c).SetHeader("Accept", "application/json"),
	}
}

// Fetch issues one GET and decodes the body into a Reading.
// Transport failures and non-2xx answers are returned as *domain.NetworkError;
// a body that does not decode returns the decoder's error.
func (f *Fetcher) Fetch(ctx context.Context) (*domain.Reading, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return nil, &domain.NetworkError{URL: f.url, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &domain.NetworkError{URL: f.url, StatusCode: resp.StatusCode(), Err: domain.ErrUnexpectedStatus}
	}

	var r domain.Reading
	if err := json.Unmarshal(resp.Body(), &r); err != nil {
		return nil, fmt.Errorf("failed to decode reading: %w", err)
	}

	return domain.NewReading(r), nil
}
