package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the bot's Prometheus metrics.
type MetricsManager struct {
	Registry                *prometheus.Registry
	ListingsCreatedTotal    prometheus.Counter
	ListingsDeletedTotal    *prometheus.CounterVec // by reason: owner, sold, admin
	ListingsRenewedTotal    prometheus.Counter
	ReviewsSubmittedTotal   prometheus.Counter
	ReviewsModeratedTotal   *prometheus.CounterVec // by decision: approved, rejected
	GateDeniedTotal         *prometheus.CounterVec // by reason: banned, quota
	NotificationsFailed     *prometheus.CounterVec // by kind
	EventsHandledTotal      *prometheus.CounterVec // by kind and outcome
	EventHandlingLatency    *prometheus.HistogramVec
	BackgroundRunsTotal     *prometheus.CounterVec // by loop and outcome
	ActiveListingsLastCheck prometheus.Gauge
}

// NewMetricsManager creates and registers the metrics on a private registry.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()
	ns := sanitize(serviceName)
	if ns == "" {
		ns = "bot"
	}

	m := &MetricsManager{
		Registry: registry,
		ListingsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "listings_created_total",
			Help:      "Total number of listings created.",
		}),
		ListingsDeletedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "listings_deleted_total",
			Help:      "Total number of listings deleted by reason.",
		}, []string{"reason"}),
		ListingsRenewedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "listings_renewed_total",
			Help:      "Total number of listing renewals.",
		}),
		ReviewsSubmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "reviews_submitted_total",
			Help:      "Total number of reviews submitted for moderation.",
		}),
		ReviewsModeratedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "reviews_moderated_total",
			Help:      "Total number of moderation decisions.",
		}, []string{"decision"}),
		GateDeniedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "gate_denied_total",
			Help:      "Listing creation attempts denied by the access gate.",
		}, []string{"reason"}),
		NotificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "notifications_failed_total",
			Help:      "Outbound notifications that could not be delivered.",
		}, []string{"kind"}),
		EventsHandledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "events_handled_total",
			Help:      "Inbound chat events handled by kind and outcome.",
		}, []string{"kind", "outcome"}),
		EventHandlingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "event_handling_latency_seconds",
			Help:      "Latency of inbound event handling by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		BackgroundRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "background_runs_total",
			Help:      "Background loop iterations by loop and outcome.",
		}, []string{"loop", "outcome"}),
		ActiveListingsLastCheck: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "active_listings",
			Help:      "Active listings counted by the last /status or /stats call.",
		}),
	}

	registry.MustRegister(
		m.ListingsCreatedTotal,
		m.ListingsDeletedTotal,
		m.ListingsRenewedTotal,
		m.ReviewsSubmittedTotal,
		m.ReviewsModeratedTotal,
		m.GateDeniedTotal,
		m.NotificationsFailed,
		m.EventsHandledTotal,
		m.EventHandlingLatency,
		m.BackgroundRunsTotal,
		m.ActiveListingsLastCheck,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// NewNopMetricsManager returns a manager whose metrics are registered on
// a throwaway registry. Tests use it.
func NewNopMetricsManager() *MetricsManager {
	return NewMetricsManager("test")
}

func sanitize(s string) string {
	b := []byte(s)
	for i, c := range b {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			b[i] = '_'
		}
	}
	return string(b)
}

// NewRouter exposes /metrics and /healthz. ready reports whether the
// process dependencies are reachable; nil means always ready.
func NewRouter(registry *prometheus.Registry, ready func(ctx context.Context) error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if ready != nil {
			if err := ready(req.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Server is the ops HTTP server.
type Server struct {
	srv    *http.Server
	logger *logger.Logger
}

// NewServer returns nil when port is empty.
func NewServer(port string, handler http.Handler, appLogger *logger.Logger) *Server {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}
	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: appLogger.Named("MetricsServer"),
	}
}

// Start serves in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Prometheus metrics server starting", zap.String("addr", s.srv.Addr), zap.String("path", "/metrics"))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
