package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hamed0406/wsprobe/internal/probe"
	"github.com/hamed0406/wsprobe/internal/repo"
)

func probeReason(s string) probe.FailureReason {
	return probe.FailureReason(s)
}

func (s *Store) Get(ctx context.Context, endpointID string) (*repo.AlertRecord, error) {
	const q = `SELECT last_state, last_sent_at FROM alerts WHERE endpoint_id=$1`
	var r repo.AlertRecord
	r.EndpointID = endpointID
	var lastSent *time.Time
	err := s.pool.QueryRow(ctx, q, endpointID).Scan(&r.LastState, &lastSent)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	r.LastSentAt = lastSent
	return &r, nil
}

func (s *Store) Set(ctx context.Context, endpointID string, lastState bool, sentAt time.Time) error {
	const q = `
		INSERT INTO alerts (endpoint_id, last_state, last_sent_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (endpoint_id)
		DO UPDATE SET last_state=EXCLUDED.last_state, last_sent_at=EXCLUDED.last_sent_at
	`
	var ts *time.Time
	if !sentAt.IsZero() {
		ts = &sentAt
	}
	_, err := s.pool.Exec(ctx, q, endpointID, lastState, ts)
	return err
}

var _ repo.AlertStore = (*Store)(nil)
