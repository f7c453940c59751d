package influx

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/umar-b/BSMS-2/internal/domain"
)

// Measurement is the InfluxDB measurement every reading is written to
const Measurement = "iris_telemetry"

// Sink writes readings to InfluxDB, one point per reading.
// It implements ports.Sink.
type Sink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	device   string
}

// NewSink creates a sink writing to org/bucket, tagging points with device
func NewSink(url, token, org, bucket, device string) *Sink {
	client := influxdb2.NewClient(url, token)
	return &Sink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		bucket:   bucket,
		device:   device,
	}
}

// Name identifies the sink in logs
func (s *Sink) Name() string {
	return "influx"
}

// Health checks that the InfluxDB server is ready
func (s *Sink) Health(ctx context.Context) error {
	health, err := s.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if health.Status != "pass" {
		msg := ""
		if health.Message != nil {
			msg = *health.Message
		}
		return fmt.Errorf("InfluxDB health check failed: %s", msg)
	}
	return nil
}

// Publish writes the reading as a single point at its timestamp
func (s *Sink) Publish(ctx context.Context, reading *domain.Reading) error {
	if err := s.writeAPI.WritePoint(ctx, NewPoint(s.device, reading)); err != nil {
		return fmt.Errorf("error writing to InfluxDB bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Close releases the client's resources
func (s *Sink) Close() error {
	s.client.Close()
	return nil
}

// NewPoint converts a reading into an InfluxDB point
func NewPoint(device string, r *domain.Reading) *write.Point {
	return influxdb2.NewPoint(
		Measurement,
		map[string]string{"device": device},
		map[string]interface{}{
			"lux":                  r.Lux,
			"smoothedLux":          r.SmoothedLux,
			"luxChange":            r.LuxChange,
			"adjustedSpeed":        r.AdjustedSpeed,
			"adjustedAcceleration": r.AdjustedAcceleration,
			"targetPosition":       r.TargetPosition,
			"currentPosition":      r.CurrentPosition,
		},
		r.Timestamp,
	)
}
