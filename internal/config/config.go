package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis (async batch job results)
	RedisURL string

	// Fast classifier (Stage A): an OpenAI-compatible endpoint, free tier
	ScoringAPIKey  string
	ScoringBaseURL string
	ScoringModel   string

	// Fallback classifier, used when the primary fails
	FallbackAPIKey  string
	FallbackBaseURL string
	FallbackModel   string

	// Deep analysis (Stage B): Anthropic messages API
	AnalysisAPIKey  string
	AnalysisBaseURL string
	AnalysisModel   string

	// Pipeline spend budget
	ScoreCap       int           // keywords scored per run
	AnalysisCap    int           // deep analyses per run
	AnalysisCost   float64       // per-call estimate in USD
	ScrapeInterval time.Duration // background runs, 0 disables
	ArchiveAfter   time.Duration // archive keywords unseen this long

	// Sources
	TrendRegions []string // tiktok/pinterest markets
	GoogleGeo    string

	// CORS
	CORSOrigins string // Comma-separated allowed origins
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/trendscout?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),

		ScoringAPIKey:  getEnv("SCORING_API_KEY", ""),
		ScoringBaseURL: getEnv("SCORING_BASE_URL", "https://api.groq.com/openai/v1"),
		ScoringModel:   getEnv("SCORING_MODEL", "llama-3.1-8b-instant"),

		FallbackAPIKey:  getEnv("FALLBACK_API_KEY", ""),
		FallbackBaseURL: getEnv("FALLBACK_BASE_URL", "https://api.openai.com/v1"),
		FallbackModel:   getEnv("FALLBACK_MODEL", "gpt-3.5-turbo"),

		AnalysisAPIKey:  getEnv("ANALYSIS_API_KEY", ""),
		AnalysisBaseURL: getEnv("ANALYSIS_BASE_URL", "https://api.anthropic.com"),
		AnalysisModel:   getEnv("ANALYSIS_MODEL", "claude-3-haiku-20240307"),

		ScoreCap:       getEnvInt("SCORE_CAP", 20),
		AnalysisCap:    getEnvInt("ANALYSIS_CAP", 5),
		AnalysisCost:   getEnvFloat("ANALYSIS_COST", 0.003),
		ScrapeInterval: getEnvDuration("SCRAPE_INTERVAL", 0),
		ArchiveAfter:   getEnvDuration("ARCHIVE_AFTER", 30*24*time.Hour),

		TrendRegions: []string{"US", "GB", "DE", "AU", "CA"},
		GoogleGeo:    getEnv("GOOGLE_TRENDS_GEO", "US"),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
