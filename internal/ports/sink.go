package ports

import (
	"context"

	"github.com/umar-b/BSMS-2/internal/domain"
)

// Sink receives every reading the recorder stores (InfluxDB, Kafka).
type Sink interface {
	Name() string
	Publish(ctx context.Context, reading *domain.Reading) error
	Close() error
}
