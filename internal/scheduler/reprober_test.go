package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/wsprobe/internal/domain"
	"github.com/hamed0406/wsprobe/internal/probe"
	"github.com/hamed0406/wsprobe/internal/repo"
)

// --- fakes ---

type fakeEndpoints struct {
	once sync.Once
	e    []*domain.Endpoint
}

func (f *fakeEndpoints) Add(ctx context.Context, e *domain.Endpoint) error { return nil }
func (f *fakeEndpoints) List(ctx context.Context) ([]*domain.Endpoint, error) {
	f.once.Do(func() {
		f.e = []*domain.Endpoint{{
			ID:        domain.EndpointID("E1"),
			URL:       "ws://localhost:9090",
			CreatedAt: time.Now().UTC(),
		}}
	})
	return f.e, nil
}
func (f *fakeEndpoints) GetByURL(ctx context.Context, url string) (*domain.Endpoint, error) {
	return nil, nil
}

type fakeRecords struct {
	mu   sync.Mutex
	n    int
	last *domain.ProbeRecord
	rows []repo.LatestRow // for alerter tests
}

func (f *fakeRecords) Append(ctx context.Context, r *domain.ProbeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	cp := *r
	f.last = &cp
	return nil
}

func (f *fakeRecords) Latest(ctx context.Context) ([]repo.LatestRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows != nil {
		return f.rows, nil
	}
	return nil, nil
}

type alwaysUp struct{}

func (a *alwaysUp) Check(ctx context.Context, target string) probe.Result {
	return probe.Result{Succeeded: true, Target: target, LatencyMS: 1}
}

// --- test ---

func TestReprober_RunOnceViaLoop_AppendsRecord(t *testing.T) {
	log := zap.NewNop()
	estore := &fakeEndpoints{}
	rstore := &fakeRecords{}
	chk := &alwaysUp{}

	rp := NewReprober(
		log,
		estore,
		rstore,
		chk,
		2*time.Millisecond, // Interval (immediate pass + ticks)
		200*time.Millisecond,
		1,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go rp.Run(ctx)

	// Wait a tiny bit for the immediate pass to execute.
	time.Sleep(10 * time.Millisecond)

	rstore.mu.Lock()
	n := rstore.n
	last := rstore.last
	rstore.mu.Unlock()

	if n == 0 || last == nil {
		t.Fatalf("expected at least one Append call, got n=%d", n)
	}
	if last.EndpointID != domain.EndpointID("E1") || !last.Up {
		t.Fatalf("unexpected last record: %+v", last)
	}
}

func TestReprober_ZeroIntervalDisabled(t *testing.T) {
	rp := NewReprober(zap.NewNop(), &fakeEndpoints{}, &fakeRecords{}, &alwaysUp{}, 0, time.Second, 1)
	done := make(chan struct{})
	go func() {
		rp.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("disabled reprober should return immediately")
	}
}
