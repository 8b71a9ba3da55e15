package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trendscout/internal/db"
	"trendscout/internal/handlers"
	"trendscout/internal/jobstore"
	"trendscout/internal/pipeline"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, runner *pipeline.Runner, jobs *jobstore.Store) {
	trendHandler := handlers.NewTrendHandler(database)
	scrapeHandler := handlers.NewScrapeHandler(runner, jobs)
	probeHandler := handlers.NewProbeHandler(database)

	// Pipeline invocation routes. Registered before the :id route so the
	// static "scrape" segment is not captured as a trend id.
	s.App.Get("/api/trends/scrape", scrapeHandler.Stream)
	s.App.Post("/api/trends/scrape/batch", scrapeHandler.Batch)
	s.App.Post("/api/trends/scrape/jobs", scrapeHandler.CreateJob)
	s.App.Get("/api/trends/scrape/jobs/:id", scrapeHandler.GetJob)

	// Trend query routes
	s.App.Get("/api/trends", trendHandler.List)
	s.App.Get("/api/trends/:id", trendHandler.Get)
	s.App.Delete("/api/trends", trendHandler.DeleteAll)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
