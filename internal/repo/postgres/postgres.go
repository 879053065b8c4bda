package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamed0406/wsprobe/internal/domain"
	"github.com/hamed0406/wsprobe/internal/repo"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		p.Close()
		return nil, err
	}
	return &Store{pool: p}, nil
}

func (s *Store) Close() { s.pool.Close() }

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS endpoints (
    id         TEXT PRIMARY KEY,
    url        TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS probes (
    id          BIGSERIAL PRIMARY KEY,
    endpoint_id TEXT NOT NULL REFERENCES endpoints(id),
    up          BOOLEAN NOT NULL,
    reason      TEXT NOT NULL DEFAULT '',
    message     TEXT NOT NULL DEFAULT '',
    latency_ms  DOUBLE PRECISION NOT NULL DEFAULT 0,
    checked_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS probes_endpoint_checked ON probes (endpoint_id, checked_at DESC);
CREATE TABLE IF NOT EXISTS alerts (
    endpoint_id  TEXT PRIMARY KEY,
    last_state   BOOLEAN NOT NULL,
    last_sent_at TIMESTAMPTZ
);`)
	return err
}

// ---- EndpointStore ----

func (s *Store) Add(ctx context.Context, e *domain.Endpoint) error {
	if e.ID == "" {
		e.ID = domain.EndpointID(time.Now().UTC().Format("20060102T150405.000000000"))
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO endpoints (id, url, created_at)
		 VALUES ($1,$2,$3)
		 ON CONFLICT (url) DO NOTHING`,
		e.ID, e.URL, e.CreatedAt)
	return err
}

func (s *Store) List(ctx context.Context) ([]*domain.Endpoint, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, url, created_at FROM endpoints ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Endpoint
	for rows.Next() {
		var e domain.Endpoint
		if err := rows.Scan(&e.ID, &e.URL, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (s *Store) GetByURL(ctx context.Context, url string) (*domain.Endpoint, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, url, created_at FROM endpoints WHERE url = $1`, url)
	var e domain.Endpoint
	if err := row.Scan(&e.ID, &e.URL, &e.CreatedAt); err != nil {
		return nil, nil // not found
	}
	return &e, nil
}

// ---- RecordStore ----

func (s *Store) Append(ctx context.Context, r *domain.ProbeRecord) error {
	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO probes (endpoint_id, up, reason, message, latency_ms, checked_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		r.EndpointID, r.Up, string(r.Reason), r.Message, r.LatencyMS, r.CheckedAt)
	return err
}

func (s *Store) Latest(ctx context.Context) ([]repo.LatestRow, error) {
	rows, err := s.pool.Query(ctx, `
SELECT DISTINCT ON (p.endpoint_id)
       p.endpoint_id,
       e.url,
       p.up,
       p.reason,
       p.latency_ms,
       p.checked_at
  FROM probes p
  JOIN endpoints e ON e.id = p.endpoint_id
 ORDER BY p.endpoint_id, p.checked_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repo.LatestRow
	for rows.Next() {
		var (
			row     repo.LatestRow
			reason  string
			latency float64
		)
		if err := rows.Scan(&row.EndpointID, &row.URL, &row.Up, &reason, &latency, &row.CheckedAt); err != nil {
			return nil, err
		}
		row.Reason = probeReason(reason)
		lat := latency
		row.LatencyMS = &lat
		out = append(out, row)
	}
	return out, rows.Err()
}

var _ repo.EndpointStore = (*Store)(nil)
var _ repo.RecordStore = (*Store)(nil)
