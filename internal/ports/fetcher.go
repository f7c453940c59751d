package ports

import (
	"context"

	"github.com/umar-b/BSMS-2/internal/domain"
)

// Fetcher retrieves one telemetry reading from the iris controller.
// Adapters (ESP HTTP, Mock) implement it.
type Fetcher interface {
	// Fetch returns the controller's current reading
	Fetch(ctx context.Context) (*domain.Reading, error)
}
