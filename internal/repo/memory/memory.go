package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/wsprobe/internal/domain"
	"github.com/hamed0406/wsprobe/internal/repo"
)

type Store struct {
	mu        sync.RWMutex
	endpoints map[domain.EndpointID]*domain.Endpoint
	records   []*domain.ProbeRecord
	alerts    map[string]*repo.AlertRecord
}

func New() *Store {
	return &Store{
		endpoints: make(map[domain.EndpointID]*domain.Endpoint),
		records:   make([]*domain.ProbeRecord, 0, 128),
		alerts:    make(map[string]*repo.AlertRecord),
	}
}

func (m *Store) Add(ctx context.Context, e *domain.Endpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = domain.EndpointID(time.Now().UTC().Format("20060102T150405.000000000"))
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.endpoints[e.ID] = e
	return nil
}

func (m *Store) List(ctx context.Context) ([]*domain.Endpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Endpoint, 0, len(m.endpoints))
	for _, e := range m.endpoints {
		out = append(out, e)
	}
	return out, nil
}

func (m *Store) GetByURL(ctx context.Context, url string) (*domain.Endpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.endpoints {
		if e.URL == url {
			return e, nil
		}
	}
	return nil, nil
}

func (m *Store) Append(ctx context.Context, r *domain.ProbeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *Store) Latest(ctx context.Context) ([]repo.LatestRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latest := make(map[domain.EndpointID]*domain.ProbeRecord)
	for _, r := range m.records {
		cur := latest[r.EndpointID]
		if cur == nil || r.CheckedAt.After(cur.CheckedAt) {
			latest[r.EndpointID] = r
		}
	}

	out := make([]repo.LatestRow, 0, len(latest))
	for eid, r := range latest {
		var lat *float64
		if r.LatencyMS != 0 {
			v := r.LatencyMS
			lat = &v
		}
		url := ""
		if e := m.endpoints[eid]; e != nil {
			url = e.URL
		}
		out = append(out, repo.LatestRow{
			EndpointID: string(eid),
			URL:        url,
			Up:         r.Up,
			Reason:     r.Reason,
			LatencyMS:  lat,
			CheckedAt:  r.CheckedAt,
		})
	}
	return out, nil
}

func (m *Store) Get(ctx context.Context, endpointID string) (*repo.AlertRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec := m.alerts[endpointID]
	if rec == nil {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *Store) Set(ctx context.Context, endpointID string, lastState bool, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &repo.AlertRecord{EndpointID: endpointID, LastState: lastState}
	if !sentAt.IsZero() {
		t := sentAt
		rec.LastSentAt = &t
	}
	m.alerts[endpointID] = rec
	return nil
}
