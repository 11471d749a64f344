package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/api/handler"
	apimw "github.com/projectdolphin/notification-pipeline/internal/api/middleware"
	"github.com/projectdolphin/notification-pipeline/internal/health"
	"github.com/projectdolphin/notification-pipeline/internal/service"
)

// NewRouter wires the chi router for the submission and admin API. It is
// the single source of truth for that HTTP surface area.
func NewRouter(
	submissions *service.SubmissionService,
	admin *service.AdminService,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1 << 20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	sh := handler.NewSubmitHandler(submissions, logger)
	ah := handler.NewApplicationHandler(admin, logger)
	kh := handler.NewAPIKeyHandler(admin, logger)
	auh := handler.NewAuditHandler(admin, logger)
	hh := handler.NewHealthHandler(nil)

	// --- routes ---
	r.Get("/health", hh.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/notifications", sh.Submit)

		r.Post("/applications", ah.Create)
		r.Get("/applications", ah.List)
		r.Get("/applications/{id}", ah.GetByID)
		r.Put("/applications/{id}", ah.Update)
		r.Delete("/applications/{id}", ah.Delete)

		r.Post("/applications/{id}/keys", kh.Create)
		r.Get("/applications/{id}/keys", kh.List)
		r.Delete("/applications/{id}/keys/{keyID}", kh.Delete)

		r.Get("/audit", auh.List)
	})

	return r
}

// NewWorkerRouter wires the worker process's read-only surface: the
// liveness snapshot and the raw Prometheus scrape endpoint.
func NewWorkerRouter(tracker *health.Tracker, reg prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(apimw.RequestLogger(logger))

	hh := handler.NewHealthHandler(tracker)
	r.Get("/health", hh.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}
