package domain

import (
	"time"

	"github.com/hamed0406/wsprobe/internal/probe"
)

type EndpointID string

// Endpoint is a registered WebSocket target that the service re-probes.
type Endpoint struct {
	ID        EndpointID `json:"id"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
}

// ProbeRecord is one stored probe outcome for an endpoint.
type ProbeRecord struct {
	EndpointID EndpointID          `json:"endpoint_id"`
	Up         bool                `json:"up"`
	Reason     probe.FailureReason `json:"reason,omitempty"`
	Message    string              `json:"message,omitempty"`
	LatencyMS  float64             `json:"latency_ms"`
	CheckedAt  time.Time           `json:"checked_at"`
}

// FromResult builds a record from a probe result.
func FromResult(id EndpointID, r probe.Result, at time.Time) *ProbeRecord {
	return &ProbeRecord{
		EndpointID: id,
		Up:         r.Succeeded,
		Reason:     r.Reason,
		Message:    r.Message,
		LatencyMS:  r.LatencyMS,
		CheckedAt:  at,
	}
}
