package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/umar-b/BSMS-2/internal/domain"
)

// DefaultTopic receives iris telemetry when no topic is configured
const DefaultTopic = "iris.telemetry"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is the JSON value published for each reading.
// EventID is unique per publish so consumers can drop redeliveries.
type Message struct {
	EventID   string    `json:"eventId"`
	Device    string    `json:"device"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	domain.Reading
}

// Sink publishes readings to a Kafka topic, keyed by device.
// It implements ports.Sink.
type Sink struct {
	writer messageWriter
	device string
}

// NewSink creates a sink writing to topic on brokers
func NewSink(brokers []string, topic, device string) *Sink {
	return newSink(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}, device)
}

func newSink(w messageWriter, device string) *Sink {
	return &Sink{writer: w, device: device}
}

// Name identifies the sink in logs
func (s *Sink) Name() string {
	return "kafka"
}

// Publish writes one message for the reading
func (s *Sink) Publish(ctx context.Context, reading *domain.Reading) error {
	b, err := json.Marshal(Message{
		EventID:   uuid.NewString(),
		Device:    s.device,
		ID:        reading.ID,
		Timestamp: reading.Timestamp,
		Reading:   *reading,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(s.device),
		Value:   b,
		Time:    reading.Timestamp,
		Headers: []kafka.Header{{Key: "content-type", Value: []byte("application/json")}},
	})
	if err != nil {
		return fmt.Errorf("kafka write failed: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the writer
func (s *Sink) Close() error {
	return s.writer.Close()
}
