package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/hamed0406/wsprobe/internal/domain"
	"github.com/hamed0406/wsprobe/internal/probe"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return s
}

func TestPostgresStore_Add_List_Append_Latest(t *testing.T) {
	s := openStore(t)
	defer s.Close()
	ctx := context.Background()

	ep := &domain.Endpoint{URL: "ws://localhost:9090"}
	if err := s.Add(ctx, ep); err != nil {
		t.Fatalf("Add: %v", err)
	}

	eps, err := s.List(ctx)
	if err != nil || len(eps) == 0 {
		t.Fatalf("List: %v (%d rows)", err, len(eps))
	}

	got, err := s.GetByURL(ctx, "ws://localhost:9090")
	if err != nil || got == nil {
		t.Fatalf("GetByURL: %v, %v", got, err)
	}

	rec := domain.FromResult(got.ID, probe.Result{
		Succeeded: false,
		Target:    got.URL,
		Reason:    probe.ReasonConnectionRefused,
		Message:   "dial tcp: connect: connection refused",
		LatencyMS: 0.3,
	}, time.Now().UTC())
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	rows, err := s.Latest(ctx)
	if err != nil || len(rows) == 0 {
		t.Fatalf("Latest: %v (%d rows)", err, len(rows))
	}
	found := false
	for _, r := range rows {
		if r.EndpointID == string(got.ID) {
			found = true
			if r.Up || r.Reason != probe.ReasonConnectionRefused {
				t.Fatalf("unexpected latest row: %+v", r)
			}
		}
	}
	if !found {
		t.Fatalf("endpoint %s missing from latest rows", got.ID)
	}
}

func TestPostgresStore_AlertsCRUD(t *testing.T) {
	s := openStore(t)
	defer s.Close()
	ctx := context.Background()

	ep := &domain.Endpoint{URL: "ws://localhost:9191"}
	if err := s.Add(ctx, ep); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, _ := s.GetByURL(ctx, "ws://localhost:9191")
	id := string(got.ID)

	if err := s.Set(ctx, id, false, time.Time{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	rec, err := s.Get(ctx, id)
	if err != nil || rec == nil || rec.LastSentAt != nil || rec.LastState {
		t.Fatalf("unexpected: %+v err=%v", rec, err)
	}

	now := time.Now()
	if err := s.Set(ctx, id, true, now); err != nil {
		t.Fatalf("Set with send time: %v", err)
	}
	rec, err = s.Get(ctx, id)
	if err != nil || rec == nil || rec.LastSentAt == nil || !rec.LastState {
		t.Fatalf("unexpected: %+v err=%v", rec, err)
	}
}
