package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want :3000", cfg.ServerAddr)
	}
	if cfg.ScoreCap != 20 || cfg.AnalysisCap != 5 {
		t.Errorf("caps = %d/%d, want 20/5", cfg.ScoreCap, cfg.AnalysisCap)
	}
	if cfg.ScrapeInterval != 0 {
		t.Errorf("ScrapeInterval = %v, want disabled by default", cfg.ScrapeInterval)
	}
	if len(cfg.TrendRegions) == 0 {
		t.Error("TrendRegions is empty")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCORE_CAP", "7")
	t.Setenv("ANALYSIS_COST", "0.01")
	t.Setenv("SCRAPE_INTERVAL", "6h")

	cfg := Load()
	if cfg.ScoreCap != 7 {
		t.Errorf("ScoreCap = %d, want 7", cfg.ScoreCap)
	}
	if cfg.AnalysisCost != 0.01 {
		t.Errorf("AnalysisCost = %f, want 0.01", cfg.AnalysisCost)
	}
	if cfg.ScrapeInterval != 6*time.Hour {
		t.Errorf("ScrapeInterval = %v, want 6h", cfg.ScrapeInterval)
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("SCORE_CAP", "lots")
	t.Setenv("SCRAPE_INTERVAL", "sometimes")

	cfg := Load()
	if cfg.ScoreCap != 20 {
		t.Errorf("ScoreCap = %d, want default 20", cfg.ScoreCap)
	}
	if cfg.ScrapeInterval != 0 {
		t.Errorf("ScrapeInterval = %v, want default 0", cfg.ScrapeInterval)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	content := `
seed_keywords:
  - cat dad
  - retro sunset
extra_blacklist:
  - badword
sources:
  pinterest: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadYAMLConfig()
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadYAMLConfig() = nil for an existing file")
	}

	if len(cfg.SeedKeywords) != 2 || cfg.SeedKeywords[0] != "cat dad" {
		t.Errorf("SeedKeywords = %v", cfg.SeedKeywords)
	}
	if len(cfg.ExtraBlacklist) != 1 {
		t.Errorf("ExtraBlacklist = %v", cfg.ExtraBlacklist)
	}

	if Enabled(cfg.Sources.Pinterest) {
		t.Error("pinterest toggle not honored")
	}
	if !Enabled(cfg.Sources.Google) {
		t.Error("missing toggle should default to enabled")
	}
}

func TestLoadYAMLConfigMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadYAMLConfig()
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v, want nil for missing file", err)
	}
	if cfg != nil {
		t.Errorf("cfg = %+v, want nil", cfg)
	}
}
