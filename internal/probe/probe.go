package probe

import "context"

// FailureReason classifies why a probe did not succeed.
type FailureReason string

const (
	ReasonConfigurationErr  FailureReason = "configuration_error"
	ReasonTimeout           FailureReason = "timeout"
	ReasonConnectionRefused FailureReason = "connection_refused"
	ReasonResolutionFailure FailureReason = "resolution_failure"
	ReasonProtocolError     FailureReason = "protocol_error"
	ReasonUnknown           FailureReason = "unknown"
)

// Result is the outcome of a single probe attempt.
//
// Fields:
// - Reason: set if and only if Succeeded is false.
// - Message: original diagnostic from the transport, kept for display.
// - LatencyMS: attempt start to resolution; 0 when validation failed before
//   any network activity.
type Result struct {
	Succeeded bool          `json:"succeeded"`
	Target    string        `json:"target"`
	Reason    FailureReason `json:"failure_reason,omitempty"`
	Message   string        `json:"message,omitempty"`
	LatencyMS float64       `json:"latency_ms,omitempty"`
}

// Checker performs a single reachability check for a given target URL.
type Checker interface {
	Check(ctx context.Context, target string) Result
}
