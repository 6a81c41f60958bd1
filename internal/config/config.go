// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

// Package config loads layered configuration: struct defaults, then an
// optional YAML file, then environment variables. Later layers win.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/inkfeed/inkfeed/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched
// in order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/inkfeed/config.yaml",
	"/etc/inkfeed/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Enabled bool `koanf:"enabled"`

	// Path is the on-disk cache directory. Empty uses an in-memory
	// cache.
	Path string `koanf:"path"`

	// TTL is how long a cached response stays valid.
	TTL time.Duration `koanf:"ttl"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`

	// Caller adds file:line to log events.
	Caller bool `koanf:"caller"`
}

// RecommendConfig mirrors the engine configuration in koanf form.
type RecommendConfig struct {
	WeightContent    float64 `koanf:"weight_content"`
	WeightBehavior   float64 `koanf:"weight_behavior"`
	WeightPopularity float64 `koanf:"weight_popularity"`
	WeightRecency    float64 `koanf:"weight_recency"`

	InterestFetch int `koanf:"interest_fetch"`
	TrendingFetch int `koanf:"trending_fetch"`
	DefaultK      int `koanf:"default_k"`
	MaxK          int `koanf:"max_k"`

	MaxPeers            int `koanf:"max_peers"`
	PeerScanLimit       int `koanf:"peer_scan_limit"`
	StrongClapThreshold int `koanf:"strong_clap_threshold"`

	RecencyDecayDays float64 `koanf:"recency_decay_days"`
}

// EngineConfig converts the koanf section into the engine's config,
// starting from engine defaults so unset fields keep their documented
// values.
func (r RecommendConfig) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()

	cfg.Weights.Content = r.WeightContent
	cfg.Weights.Behavior = r.WeightBehavior
	cfg.Weights.Popularity = r.WeightPopularity
	cfg.Weights.Recency = r.WeightRecency

	if r.InterestFetch > 0 {
		cfg.Limits.InterestFetch = r.InterestFetch
	}
	if r.TrendingFetch > 0 {
		cfg.Limits.TrendingFetch = r.TrendingFetch
	}
	if r.DefaultK > 0 {
		cfg.Limits.DefaultK = r.DefaultK
	}
	if r.MaxK > 0 {
		cfg.Limits.MaxK = r.MaxK
	}

	if r.MaxPeers > 0 {
		cfg.Peers.MaxPeers = r.MaxPeers
	}
	if r.PeerScanLimit > 0 {
		cfg.Peers.ScanLimit = r.PeerScanLimit
	}
	if r.StrongClapThreshold > 0 {
		cfg.Peers.StrongClapThreshold = r.StrongClapThreshold
	}

	if r.RecencyDecayDays > 0 {
		cfg.Recency.DecayDays = r.RecencyDecayDays
	}

	return cfg
}

// defaultConfig returns the Config defaults applied before the file
// and environment layers.
func defaultConfig() *Config {
	engineDefaults := recommend.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "/data/inkfeed.db",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "",
			TTL:     5 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			WeightContent:       engineDefaults.Weights.Content,
			WeightBehavior:      engineDefaults.Weights.Behavior,
			WeightPopularity:    engineDefaults.Weights.Popularity,
			WeightRecency:       engineDefaults.Weights.Recency,
			InterestFetch:       engineDefaults.Limits.InterestFetch,
			TrendingFetch:       engineDefaults.Limits.TrendingFetch,
			DefaultK:            engineDefaults.Limits.DefaultK,
			MaxK:                engineDefaults.Limits.MaxK,
			MaxPeers:            engineDefaults.Peers.MaxPeers,
			PeerScanLimit:       engineDefaults.Peers.ScanLimit,
			StrongClapThreshold: engineDefaults.Peers.StrongClapThreshold,
			RecencyDecayDays:    engineDefaults.Recency.DecayDays,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and environment variables, in that order of increasing priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors, including the embedded
// engine section.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when cache is enabled, got %s", c.Cache.TTL)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables are skipped so unrelated environment noise never
// reaches the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",

		"database_path": "database.path",

		"cache_enabled": "cache.enabled",
		"cache_path":    "cache.path",
		"cache_ttl":     "cache.ttl",

		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		"recommend_weight_content":        "recommend.weight_content",
		"recommend_weight_behavior":       "recommend.weight_behavior",
		"recommend_weight_popularity":     "recommend.weight_popularity",
		"recommend_weight_recency":        "recommend.weight_recency",
		"recommend_interest_fetch":        "recommend.interest_fetch",
		"recommend_trending_fetch":        "recommend.trending_fetch",
		"recommend_default_k":             "recommend.default_k",
		"recommend_max_k":                 "recommend.max_k",
		"recommend_max_peers":             "recommend.max_peers",
		"recommend_peer_scan_limit":       "recommend.peer_scan_limit",
		"recommend_strong_clap_threshold": "recommend.strong_clap_threshold",
		"recommend_recency_decay_days":    "recommend.recency_decay_days",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
