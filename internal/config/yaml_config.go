package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the pipeline.yaml file: the seed
// keyword list and blacklist additions curated by operators, easier to
// maintain in YAML than env vars.
type YAMLConfig struct {
	SeedKeywords   []string      `yaml:"seed_keywords"`
	ExtraBlacklist []string      `yaml:"extra_blacklist"`
	Sources        SourcesConfig `yaml:"sources"`
}

// SourcesConfig toggles individual feeds.
type SourcesConfig struct {
	Google    *bool `yaml:"google,omitempty"`
	TikTok    *bool `yaml:"tiktok,omitempty"`
	Pinterest *bool `yaml:"pinterest,omitempty"`
	Redbubble *bool `yaml:"redbubble,omitempty"`
	Seed      *bool `yaml:"seed,omitempty"`
}

// Enabled treats a missing toggle as on.
func Enabled(toggle *bool) bool {
	return toggle == nil || *toggle
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "pipeline.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "pipeline.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
