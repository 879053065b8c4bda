package repo

import (
	"context"
	"time"

	"github.com/hamed0406/wsprobe/internal/domain"
	"github.com/hamed0406/wsprobe/internal/probe"
)

// Ports (interfaces) — swap in any DB adapter later.
type EndpointStore interface {
	Add(ctx context.Context, e *domain.Endpoint) error
	List(ctx context.Context) ([]*domain.Endpoint, error)
	GetByURL(ctx context.Context, url string) (*domain.Endpoint, error)
}

type RecordStore interface {
	Append(ctx context.Context, r *domain.ProbeRecord) error
	// Latest returns the most recent record per endpoint.
	Latest(ctx context.Context) ([]LatestRow, error)
}

// LatestRow is the read-model row for status views and alerting.
type LatestRow struct {
	EndpointID string              `json:"endpoint_id"`
	URL        string              `json:"url"`
	Up         bool                `json:"up"`
	Reason     probe.FailureReason `json:"reason,omitempty"`
	LatencyMS  *float64            `json:"latency_ms"` // pointer to allow nil
	CheckedAt  time.Time           `json:"checked_at"`
}
