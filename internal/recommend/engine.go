// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkfeed/inkfeed/internal/metrics"
	"github.com/inkfeed/inkfeed/internal/models"
)

// Engine produces article recommendations from a read-only data
// source. It holds no per-request state: every operation builds what
// it needs from the Source and returns, so a single Engine is safe for
// concurrent use once the source is set.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger
	source Source

	// now is swapped in tests for deterministic recency scoring.
	now func() time.Time
}

// NewEngine creates a recommendation engine with the given
// configuration. The configuration is cloned and its weights
// normalized, so later mutation of cfg by the caller has no effect.
// Call SetSource before invoking any operation.
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	cfg = cfg.Clone()
	cfg.Weights = cfg.Weights.Normalize()

	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		now:    time.Now,
	}, nil
}

// SetSource attaches the data source. Must be called before any
// operation; not safe to call concurrently with operations.
func (e *Engine) SetSource(s Source) {
	e.source = s
}

// Config returns a copy of the engine's effective configuration,
// weights already normalized.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// clampLimit applies the default and maximum result-size bounds.
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.Limits.DefaultK
	}
	if limit > e.cfg.Limits.MaxK {
		return e.cfg.Limits.MaxK
	}
	return limit
}

// PersonalizedFeed returns up to limit articles ranked for the user by
// the weighted blend of content affinity, behavior fit, popularity,
// and recency. A user with no history still gets a feed: the candidate
// pool falls back to trending and the profile components score from
// their defaults. Returns models.ErrNotFound (wrapped) when the user
// does not exist.
func (e *Engine) PersonalizedFeed(ctx context.Context, userID int64, limit int) ([]models.ArticleSummary, error) {
	start := e.now()
	requestID := uuid.NewString()
	limit = e.clampLimit(limit)

	profile, err := e.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := e.personalizedCandidates(ctx, profile)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredArticle, len(candidates))
	for i, article := range candidates {
		scored[i] = ScoredArticle{
			Article: article,
			Score:   e.personalizedScore(profile, article),
		}
	}

	ranked := rankTop(scored, limit)
	metrics.RecordCandidatePool("feed", len(candidates))

	e.logger.Debug().
		Str("request_id", requestID).
		Int64("user_id", userID).
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Dur("duration", e.now().Sub(start)).
		Msg("Personalized feed computed")

	return summarizeAll(ranked), nil
}

// MoreLikeThis returns up to limit published articles similar to the
// given article, ranked by tag-overlap similarity. The source article
// is never included. An untagged source yields an empty result.
// Returns models.ErrNotFound (wrapped) when the article does not
// exist.
func (e *Engine) MoreLikeThis(ctx context.Context, articleID int64, limit int) ([]models.ArticleSummary, error) {
	start := e.now()
	requestID := uuid.NewString()
	limit = e.clampLimit(limit)

	source, err := e.source.GetArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}

	candidates, err := e.similarCandidates(ctx, source, limit)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredArticle, len(candidates))
	for i, article := range candidates {
		scored[i] = ScoredArticle{
			Article: article,
			Score:   ContentSimilarity(source.Tags, article.Tags),
		}
	}

	ranked := rankTop(scored, limit)
	metrics.RecordCandidatePool("similar", len(candidates))

	e.logger.Debug().
		Str("request_id", requestID).
		Int64("article_id", articleID).
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Dur("duration", e.now().Sub(start)).
		Msg("Similar articles computed")

	return summarizeAll(ranked), nil
}

// CollaborativeRecommendations returns up to limit articles that
// similar readers engaged with strongly, ranked by log-damped total
// peer clap magnitude. Articles the user already read, and unpublished
// articles, are excluded. Returns models.ErrNotFound (wrapped) when
// the user does not exist.
func (e *Engine) CollaborativeRecommendations(ctx context.Context, userID int64, limit int) ([]models.ArticleSummary, error) {
	start := e.now()
	requestID := uuid.NewString()
	limit = e.clampLimit(limit)

	if _, err := e.source.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	peers, err := e.findPeers(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, totals, err := e.collaborativeCandidates(ctx, peers)
	if err != nil {
		return nil, err
	}

	readIDs, err := e.source.GetReadArticleIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get read article ids: %w", err)
	}
	read := make(map[int64]struct{}, len(readIDs))
	for _, id := range readIDs {
		read[id] = struct{}{}
	}

	eligible := order[:0:0]
	for _, id := range order {
		if _, ok := read[id]; !ok {
			eligible = append(eligible, id)
		}
	}

	articles, err := e.source.GetArticlesByIDs(ctx, eligible)
	if err != nil {
		return nil, fmt.Errorf("get articles by ids: %w", err)
	}

	scored := make([]ScoredArticle, 0, len(articles))
	for _, article := range articles {
		if !article.Published {
			continue
		}
		scored = append(scored, ScoredArticle{
			Article: article,
			Score:   collaborativeScore(totals[article.ID]),
		})
	}

	ranked := rankTop(scored, limit)
	metrics.RecordCandidatePool("collaborative", len(scored))

	e.logger.Debug().
		Str("request_id", requestID).
		Int64("user_id", userID).
		Int("peers", len(peers)).
		Int("candidates", len(scored)).
		Int("returned", len(ranked)).
		Dur("duration", e.now().Sub(start)).
		Msg("Collaborative recommendations computed")

	return summarizeAll(ranked), nil
}
