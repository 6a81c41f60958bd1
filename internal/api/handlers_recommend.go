// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/inkfeed/inkfeed/internal/cache"
	"github.com/inkfeed/inkfeed/internal/logging"
	"github.com/inkfeed/inkfeed/internal/metrics"
	"github.com/inkfeed/inkfeed/internal/models"
	"github.com/inkfeed/inkfeed/internal/recommend"
)

// requestTimeout bounds a single recommendation computation.
const requestTimeout = 10 * time.Second

// RecommendHandler serves the recommendation endpoints. The engine is
// swapped atomically on configuration updates, so reads go through the
// mutex-guarded accessor.
type RecommendHandler struct {
	mu     sync.RWMutex
	engine *recommend.Engine

	source recommend.Source
	cache  *cache.Cache
}

// NewRecommendHandler creates a handler backed by the given engine and
// data source. The cache may be nil to disable response caching.
func NewRecommendHandler(engine *recommend.Engine, source recommend.Source, c *cache.Cache) *RecommendHandler {
	engine.SetSource(source)
	return &RecommendHandler{
		engine: engine,
		source: source,
		cache:  c,
	}
}

func (h *RecommendHandler) getEngine() *recommend.Engine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.engine
}

// GetFeed handles GET /api/v1/recommendations/feed/{userID}.
func (h *RecommendHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "feed", "userID", func(ctx context.Context, id int64, limit int) ([]models.ArticleSummary, error) {
		return h.getEngine().PersonalizedFeed(ctx, id, limit)
	})
}

// GetSimilar handles GET /api/v1/recommendations/similar/{articleID}.
func (h *RecommendHandler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "similar", "articleID", func(ctx context.Context, id int64, limit int) ([]models.ArticleSummary, error) {
		return h.getEngine().MoreLikeThis(ctx, id, limit)
	})
}

// GetCollaborative handles GET /api/v1/recommendations/collaborative/{userID}.
func (h *RecommendHandler) GetCollaborative(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "collaborative", "userID", func(ctx context.Context, id int64, limit int) ([]models.ArticleSummary, error) {
		return h.getEngine().CollaborativeRecommendations(ctx, id, limit)
	})
}

// serve runs the shared request flow: parse the ID and limit, consult
// the cache, compute, record metrics, respond.
func (h *RecommendHandler) serve(
	w http.ResponseWriter,
	r *http.Request,
	operation, idParam string,
	compute func(ctx context.Context, id int64, limit int) ([]models.ArticleSummary, error),
) {
	rw := NewResponseWriter(w, r)

	id, err := strconv.ParseInt(chi.URLParam(r, idParam), 10, 64)
	if err != nil {
		rw.BadRequest("invalid " + idParam)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			rw.BadRequest("invalid limit")
			return
		}
		limit = parsed
	}

	cacheKey := fmt.Sprintf("%s:%d:%d", operation, id, limit)
	if cached, err := h.cache.Get(cacheKey); err == nil {
		metrics.RecordCacheHit("response")
		var summaries []models.ArticleSummary
		if err := json.Unmarshal(cached, &summaries); err == nil {
			rw.SuccessWithMeta(summaries, &APIMeta{Count: len(summaries), Cached: true})
			return
		}
		// Unreadable entry; fall through and recompute.
	} else if errors.Is(err, cache.ErrNotCached) {
		metrics.RecordCacheMiss("response")
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	start := time.Now()
	summaries, err := compute(ctx, id, limit)
	metrics.RecordRecommendation(operation, time.Since(start), len(summaries), err)

	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			rw.NotFound(err.Error())
			return
		}
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).
			Str("operation", operation).
			Int64("id", id).
			Msg("Recommendation failed")
		rw.InternalError("failed to compute recommendations")
		return
	}

	if summaries == nil {
		summaries = []models.ArticleSummary{}
	}

	if payload, err := json.Marshal(summaries); err == nil {
		if err := h.cache.Set(cacheKey, payload); err != nil {
			logger := logging.Ctx(r.Context())
			logger.Warn().Err(err).Msg("Response cache write failed")
		}
	}

	rw.SuccessWithMeta(summaries, &APIMeta{Count: len(summaries)})
}

// GetConfig handles GET /api/v1/recommendations/config.
func (h *RecommendHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.getEngine().Config())
}

// UpdateConfig handles PUT /api/v1/recommendations/config. The new
// configuration replaces the engine atomically and invalidates all
// cached responses, since cached rankings reflect the old weights.
func (h *RecommendHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var cfg recommend.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}

	engine, err := recommend.NewEngine(&cfg, logging.Logger())
	if err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeInvalidConfig, err.Error())
		return
	}
	engine.SetSource(h.source)

	h.mu.Lock()
	h.engine = engine
	h.mu.Unlock()

	for _, prefix := range []string{"feed:", "similar:", "collaborative:"} {
		if err := h.cache.Invalidate(prefix); err != nil {
			logger := logging.Ctx(r.Context())
			logger.Warn().Err(err).Msg("Cache invalidation failed")
		}
	}

	logger := logging.Ctx(r.Context())
	logger.Info().Msg("Recommendation configuration updated")
	rw.Success(map[string]string{"message": "configuration updated"})
}
