package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendscout/internal/ai"
	"trendscout/internal/config"
	"trendscout/internal/db"
	"trendscout/internal/jobs"
	"trendscout/internal/jobstore"
	"trendscout/internal/metrics"
	"trendscout/internal/pipeline"
	"trendscout/internal/server"
	"trendscout/internal/sources"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Register Prometheus collectors
	metrics.Init(database)

	// Async job results live in Redis
	jobStore := jobstore.New(cfg.RedisURL, 24*time.Hour)
	defer jobStore.Close()

	runner := buildRunner(cfg, yamlCfg, database)

	// Background scrape loop
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	if cfg.ScrapeInterval > 0 {
		scheduler := jobs.NewScheduler(runner, database, cfg.ScrapeInterval, cfg.ArchiveAfter)
		go scheduler.Start(schedulerCtx)
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(database, runner, jobStore)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopScheduler()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// buildRunner wires the source list, blacklist, and AI clients from config.
func buildRunner(cfg *config.Config, yamlCfg *config.YAMLConfig, database *db.DB) *pipeline.Runner {
	var srcCfg config.SourcesConfig
	var seeds, extraBlacklist []string
	if yamlCfg != nil {
		srcCfg = yamlCfg.Sources
		seeds = yamlCfg.SeedKeywords
		extraBlacklist = yamlCfg.ExtraBlacklist
	}

	var srcs []pipeline.Source
	if config.Enabled(srcCfg.Google) {
		srcs = append(srcs, sources.NewGoogleTrends(cfg.GoogleGeo, 20))
	}
	if config.Enabled(srcCfg.TikTok) {
		srcs = append(srcs, sources.NewTikTok(cfg.TrendRegions))
	}
	if config.Enabled(srcCfg.Pinterest) {
		srcs = append(srcs, sources.NewPinterest(cfg.TrendRegions))
	}
	if config.Enabled(srcCfg.Redbubble) {
		srcs = append(srcs, sources.NewRedbubble(20))
	}
	if config.Enabled(srcCfg.Seed) {
		srcs = append(srcs, sources.NewSeed(seeds))
	}

	primary := ai.NewChatClient(cfg.ScoringBaseURL, cfg.ScoringAPIKey, cfg.ScoringModel)
	fallback := ai.NewChatClient(cfg.FallbackBaseURL, cfg.FallbackAPIKey, cfg.FallbackModel)
	scorer := ai.NewScorer(primary, fallback,
		"Groq ("+cfg.ScoringModel+")",
		"OpenAI ("+cfg.FallbackModel+")")
	analyzer := ai.NewAnalyzer(cfg.AnalysisBaseURL, cfg.AnalysisAPIKey, cfg.AnalysisModel)

	runnerCfg := pipeline.DefaultRunnerConfig()
	runnerCfg.ScoreCap = cfg.ScoreCap
	runnerCfg.AnalysisCap = cfg.AnalysisCap
	runnerCfg.AnalysisCost = cfg.AnalysisCost

	return pipeline.NewRunner(
		pipeline.NewAggregator(srcs...),
		pipeline.NewBlacklist(extraBlacklist...),
		database,
		scorer,
		analyzer,
		runnerCfg,
	)
}
