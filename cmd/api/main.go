package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/wsprobe/internal/config"
	"github.com/hamed0406/wsprobe/internal/domain"
	"github.com/hamed0406/wsprobe/internal/httpapi"
	apimw "github.com/hamed0406/wsprobe/internal/httpapi/middleware"
	"github.com/hamed0406/wsprobe/internal/logging"
	"github.com/hamed0406/wsprobe/internal/notify"
	"github.com/hamed0406/wsprobe/internal/probe"
	"github.com/hamed0406/wsprobe/internal/repo"
	"github.com/hamed0406/wsprobe/internal/repo/memory"
	"github.com/hamed0406/wsprobe/internal/repo/postgres"
	"github.com/hamed0406/wsprobe/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var (
		endpoints repo.EndpointStore
		records   repo.RecordStore
		alerts    repo.AlertStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		endpoints, records, alerts = pg, pg, pg
		logger.Info("store_postgres")
	} else {
		mem := memory.New()
		endpoints, records, alerts = mem, mem, mem
		logger.Info("store_memory")
	}

	checker := probe.NewWSChecker(cfg.ProbeTimeout)

	// Endpoints from the YAML file are registered before anything starts.
	entries, err := config.LoadEndpoints(cfg.EndpointsFile)
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range entries {
		if existing, _ := endpoints.GetByURL(ctx, e.URL); existing != nil {
			continue
		}
		ep := &domain.Endpoint{URL: e.URL, CreatedAt: time.Now().UTC()}
		if err := endpoints.Add(ctx, ep); err != nil {
			logger.Warn("endpoint_preload_failed", zap.String("url", e.URL), zap.Error(err))
		}
	}
	if len(entries) > 0 {
		logger.Info("endpoints_preloaded", zap.Int("count", len(entries)))
	}

	if cfg.ReprobeInterval > 0 {
		// The reprober gets caller-side retries; each inner attempt is still
		// a single handshake.
		rp := scheduler.NewReprober(
			logger,
			endpoints,
			records,
			&probe.RetryChecker{Inner: checker, Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff},
			cfg.ReprobeInterval,
			cfg.ProbeTimeout,
			cfg.MaxConcurrent,
		)
		go rp.Run(ctx)

		if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
			al := scheduler.NewAlerter(records, alerts, notify.Multi{slack}, scheduler.AlerterConfig{
				AlertOnRecovery: cfg.AlertOnRecovery,
				Cooldown:        cfg.AlertCooldown,
				PollInterval:    cfg.ReprobeInterval,
			})
			go func() { _ = al.Run(ctx) }()
		}
	}

	api := httpapi.NewServer(logger, endpoints, records, checker, cfg.ProbeTimeout)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, api.Router(keys, nil, 120, 60, 60, 30)); err != nil {
		log.Fatal(err)
	}
}
