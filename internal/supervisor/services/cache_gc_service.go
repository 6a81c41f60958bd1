// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// GCRunner is one round of value-log garbage collection. Implemented
// by *cache.Cache.
type GCRunner interface {
	RunGC(discardRatio float64) error
}

// CacheGCService periodically reclaims space from the response cache's
// Badger value log. Badger never runs value-log GC on its own; without
// this loop an on-disk cache grows until restart.
type CacheGCService struct {
	cache        GCRunner
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
}

// NewCacheGCService creates the GC loop. A non-positive interval
// defaults to 5 minutes; a non-positive discard ratio defaults to 0.5,
// the value Badger's documentation recommends.
func NewCacheGCService(c GCRunner, interval time.Duration, logger zerolog.Logger) *CacheGCService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheGCService{
		cache:        c,
		interval:     interval,
		discardRatio: 0.5,
		logger:       logger.With().Str("component", "cache-gc").Logger(),
	}
}

// Serve implements suture.Service. Each tick runs GC rounds until
// Badger reports nothing left to rewrite.
func (s *CacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rounds := 0
			for {
				err := s.cache.RunGC(s.discardRatio)
				if errors.Is(err, badger.ErrNoRewrite) {
					break
				}
				if err != nil {
					s.logger.Warn().Err(err).Msg("Cache GC round failed")
					break
				}
				rounds++
			}
			if rounds > 0 {
				s.logger.Debug().Int("rounds", rounds).Msg("Cache GC reclaimed space")
			}
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *CacheGCService) String() string {
	return "cache-gc"
}
