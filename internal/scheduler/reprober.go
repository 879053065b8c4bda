package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/wsprobe/internal/domain"
	"github.com/hamed0406/wsprobe/internal/probe"
	"github.com/hamed0406/wsprobe/internal/repo"
)

// Reprober periodically re-probes every registered endpoint.
type Reprober struct {
	Logger      *zap.Logger
	Endpoints   repo.EndpointStore
	Records     repo.RecordStore
	Checker     probe.Checker
	Interval    time.Duration
	Timeout     time.Duration
	Concurrency int
}

func NewReprober(
	logger *zap.Logger,
	es repo.EndpointStore,
	rs repo.RecordStore,
	checker probe.Checker,
	interval time.Duration,
	timeout time.Duration,
	concurrency int,
) *Reprober {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < 0 {
		interval = 0
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Reprober{
		Logger:      logger,
		Endpoints:   es,
		Records:     rs,
		Checker:     checker,
		Interval:    interval,
		Timeout:     timeout,
		Concurrency: concurrency,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (r *Reprober) Run(ctx context.Context) {
	if r.Interval == 0 {
		// disabled
		r.Logger.Info("reprober_disabled")
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	// immediate pass
	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("reprober_stopped")
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reprober) runOnce(ctx context.Context) {
	eps, err := r.Endpoints.List(ctx)
	if err != nil {
		r.Logger.Warn("reprober_list_error", zap.Error(err))
		return
	}
	if len(eps) == 0 {
		return
	}

	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	for _, ep := range eps {
		e := ep
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			out := r.Checker.Check(cctx, e.URL)

			rec := domain.FromResult(e.ID, out, time.Now().UTC())
			if err := r.Records.Append(ctx, rec); err != nil {
				r.Logger.Warn("reprober_append_error",
					zap.String("endpoint_id", string(e.ID)),
					zap.String("url", e.URL),
					zap.Error(err),
				)
			} else {
				r.Logger.Debug("reprober_checked",
					zap.String("endpoint_id", string(e.ID)),
					zap.String("url", e.URL),
					zap.Bool("up", out.Succeeded),
					zap.String("reason", string(out.Reason)),
					zap.Float64("latency_ms", out.LatencyMS),
				)
			}
		}()
	}

	wg.Wait()
}
