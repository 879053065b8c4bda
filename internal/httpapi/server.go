package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/wsprobe/internal/domain"
	apimw "github.com/hamed0406/wsprobe/internal/httpapi/middleware"
	"github.com/hamed0406/wsprobe/internal/probe"
	"github.com/hamed0406/wsprobe/internal/repo"
)

type Server struct {
	Logger       *zap.Logger
	Endpoints    repo.EndpointStore
	Records      repo.RecordStore
	Checker      probe.Checker
	ProbeTimeout time.Duration
}

func NewServer(l *zap.Logger, es repo.EndpointStore, rs repo.RecordStore, c probe.Checker, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Server{Logger: l, Endpoints: es, Records: rs, Checker: c, ProbeTimeout: timeout}
}

func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, pubRPM, pubBurst, admRPM, admBurst int) http.Handler {
	r := chi.NewRouter()

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "X-API-Key", "Content-Type"},
		}))
	} else {
		r.Use(cors.AllowAll().Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// read routes: any valid key
	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAny(keys))
		r.Use(apimw.RateLimit(pubRPM, pubBurst))
		r.Get("/api/endpoints", s.handleListEndpoints)
		r.Get("/api/status", s.handleStatus)
	})

	// mutating routes: admin key
	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAdmin(keys))
		r.Use(apimw.RateLimit(admRPM, admBurst))
		r.Post("/api/endpoints", s.handleAddEndpoint)
		r.Post("/api/probe", s.handleProbeOnce)
	})

	return r
}

type probePayload struct {
	URL       string `json:"url"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`
}

func (s *Server) handleAddEndpoint(w http.ResponseWriter, r *http.Request) {
	var p probePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.URL == "" {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	target := normalizeWSURL(p.URL)
	if !isValidWSURL(target) {
		http.Error(w, "not a ws:// or wss:// URL", http.StatusBadRequest)
		return
	}

	ep, err := s.Endpoints.GetByURL(r.Context(), target)
	if err != nil {
		http.Error(w, "lookup error", http.StatusInternalServerError)
		return
	}
	if ep == nil {
		ep = &domain.Endpoint{URL: target, CreatedAt: time.Now().UTC()}
		if err := s.Endpoints.Add(r.Context(), ep); err != nil {
			http.Error(w, "could not add", http.StatusInternalServerError)
			return
		}
	}

	// Run a single probe synchronously for immediate feedback
	out := s.runProbe(r.Context(), target, p.TimeoutMS)

	rec := domain.FromResult(ep.ID, out, time.Now().UTC())
	_ = s.Records.Append(r.Context(), rec)

	s.Logger.Info("endpoint_added",
		zap.String("url", target),
		zap.Bool("up", out.Succeeded),
		zap.String("reason", string(out.Reason)),
		zap.Float64("latency_ms", out.LatencyMS),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"endpoint": ep, "result": out,
	})
}

func (s *Server) handleProbeOnce(w http.ResponseWriter, r *http.Request) {
	var p probePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.URL == "" {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	out := s.runProbe(r.Context(), p.URL, p.TimeoutMS)

	s.Logger.Info("probe_once",
		zap.String("url", p.URL),
		zap.Bool("up", out.Succeeded),
		zap.String("reason", string(out.Reason)),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// runProbe bounds the check and adds DNS diagnosis for resolution trouble.
func (s *Server) runProbe(ctx context.Context, target string, timeoutMS int) probe.Result {
	timeout := s.ProbeTimeout
	if timeoutMS > 0 {
		timeout = time.Duration(timeoutMS) * time.Millisecond
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := s.Checker.Check(cctx, target)

	if out.Reason == probe.ReasonResolutionFailure || out.Reason == probe.ReasonUnknown {
		dns := probe.CheckDNS(probe.HostOf(target))
		s.Logger.Info("dns_check",
			zap.String("host", dns.Host),
			zap.String("class", dns.Class),
			zap.String("resolver_error", dns.ResolverError),
		)
	}
	return out
}

func (s *Server) handleListEndpoints(w http.ResponseWriter, r *http.Request) {
	eps, err := s.Endpoints.List(r.Context())
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(eps)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Records.Latest(r.Context())
	if err != nil {
		http.Error(w, "status error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

func isValidWSURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "ws" || u.Scheme == "wss") && u.Host != ""
}

// normalizeWSURL lowercases the host and drops default ports and a bare
// trailing slash so duplicates collapse to one endpoint.
func normalizeWSURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "ws" && strings.HasSuffix(u.Host, ":80") {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "wss" && strings.HasSuffix(u.Host, ":443") {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	if u.Path == "/" {
		u.Path = ""
	}
	return u.String()
}
