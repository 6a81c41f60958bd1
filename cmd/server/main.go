// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

// Package main is the entry point for the Inkfeed recommendation server.
//
// Inkfeed serves personalized article feeds, similar-article lookups, and
// collaborative recommendations over a REST API backed by SQLite.
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Logging: zerolog, JSON or console format
//  3. Store: SQLite content database (modernc driver, WAL mode)
//  4. Cache: optional BadgerDB response cache with TTL expiry
//  5. Engine: the recommendation engine with configured weights
//  6. HTTP server: chi router under a suture supervisor tree
//
// Graceful shutdown runs on SIGINT and SIGTERM: the supervisor cancels
// its services, the HTTP server drains in-flight requests, then the
// cache and database close.
//
// Example usage:
//
//	export DATABASE_PATH=/var/lib/inkfeed/content.db
//	export CACHE_ENABLED=true
//	export CACHE_PATH=/var/lib/inkfeed/cache
//	./inkfeed
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkfeed/inkfeed/internal/api"
	"github.com/inkfeed/inkfeed/internal/cache"
	"github.com/inkfeed/inkfeed/internal/config"
	"github.com/inkfeed/inkfeed/internal/logging"
	"github.com/inkfeed/inkfeed/internal/recommend"
	"github.com/inkfeed/inkfeed/internal/store"
	"github.com/inkfeed/inkfeed/internal/supervisor"
	"github.com/inkfeed/inkfeed/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Int("port", cfg.Server.Port).
		Msg("Starting Inkfeed")

	db, err := store.Open(cfg.Database.Path, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open content database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	// The cache is optional; a nil *cache.Cache disables response
	// caching throughout.
	var respCache *cache.Cache
	if cfg.Cache.Enabled {
		respCache, err = cache.Open(cfg.Cache.Path, cfg.Cache.TTL, logging.Logger())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open response cache")
		}
		defer func() {
			if err := respCache.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing cache")
			}
		}()
		logging.Info().Str("path", cfg.Cache.Path).Dur("ttl", cfg.Cache.TTL).Msg("Response cache enabled")
	}

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid recommendation configuration")
	}

	recHandler := api.NewRecommendHandler(engine, db, respCache)
	healthHandler := api.NewHealthHandler(db)

	router := api.NewRouter(api.RouterConfig{
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitReqs:     cfg.Security.RateLimitReqs,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
	}, recHandler, healthHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// The supervisor logs through slog; bridge it to zerolog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, supervisor.DefaultTreeConfig().ShutdownTimeout))
	if respCache != nil && cfg.Cache.Path != "" {
		tree.AddDataService(services.NewCacheGCService(respCache, 0, logging.Logger()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", server.Addr).Msg("Server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor stopped with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor exited unexpectedly")
			os.Exit(1)
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop cleanly")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
