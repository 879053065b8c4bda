package repo

import (
	"context"
	"time"
)

// AlertRecord holds last-known state and the last time we sent a notification
// for an endpoint. LastState is the last UP/DOWN we saw, LastSentAt is the
// last time we sent a notification (used for cooldown).
type AlertRecord struct {
	EndpointID string
	LastState  bool
	LastSentAt *time.Time
}

// AlertStore is implemented by a persistence layer to store alert state.
type AlertStore interface {
	// Get returns nil, nil if there's no record yet.
	Get(ctx context.Context, endpointID string) (*AlertRecord, error)
	// Set upserts the record. If sentAt.IsZero() we store no send time.
	Set(ctx context.Context, endpointID string, lastState bool, sentAt time.Time) error
}
