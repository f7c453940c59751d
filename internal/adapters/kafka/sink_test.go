package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/umar-b/BSMS-2/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	w := &fakeWriter{}
	sink := newSink(w, "iris-01")

	ts := time.Unix(1700000000, 0).UTC()
	r := &domain.Reading{ID: 7, Timestamp: ts, Lux: 812.5, TargetPosition: 743}

	if err := sink.Publish(context.Background(), r); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != "iris-01" {
		t.Errorf("expected key iris-01, got %q", msg.Key)
	}
	if !msg.Time.Equal(ts) {
		t.Errorf("expected message time %v, got %v", ts, msg.Time)
	}

	var got map[string]any
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("message value is not JSON: %v", err)
	}
	if got["device"] != "iris-01" || got["lux"] != 812.5 || got["targetPosition"] != float64(743) || got["id"] != float64(7) {
		t.Errorf("unexpected message body %v", got)
	}
	if id, _ := got["eventId"].(string); id == "" {
		t.Error("expected a non-empty eventId")
	}
	if _, ok := got["Reading"]; ok {
		t.Error("expected reading fields to be flattened")
	}
}

func TestPublish_EventIDsAreUnique(t *testing.T) {
	w := &fakeWriter{}
	sink := newSink(w, "iris-01")
	r := &domain.Reading{ID: 1, Timestamp: time.Now()}

	for i := 0; i < 2; i++ {
		if err := sink.Publish(context.Background(), r); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	var first, second Message
	json.Unmarshal(w.msgs[0].Value, &first)
	json.Unmarshal(w.msgs[1].Value, &second)
	if first.EventID == second.EventID {
		t.Errorf("expected distinct event IDs, got %q twice", first.EventID)
	}
}

func TestPublish_WriterError(t *testing.T) {
	boom := errors.New("leader not available")
	sink := newSink(&fakeWriter{err: boom}, "iris-01")

	err := sink.Publish(context.Background(), &domain.Reading{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped writer error, got %v", err)
	}
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	if err := newSink(w, "iris-01").Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !w.closed {
		t.Error("expected writer to be closed")
	}
}
