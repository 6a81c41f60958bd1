// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/inkfeed/inkfeed/internal/models"
)

// personalizedCandidates assembles the deduplicated candidate pool for
// a user: interest-matched articles (skipped when the profile has no
// interests) unioned with globally trending articles. Articles the
// user has already read and unpublished articles are excluded. The
// fetch caps in Limits bound the pool regardless of the downstream
// ranking limit; final truncation happens in the ranker.
func (e *Engine) personalizedCandidates(ctx context.Context, profile *BehaviorProfile) ([]models.Article, error) {
	var interestMatched []models.Article
	if len(profile.Interests) > 0 {
		tags := make([]string, 0, len(profile.Interests))
		for tag := range profile.Interests {
			tags = append(tags, tag)
		}
		// Stable query argument order keeps paged fetches reproducible.
		sort.Strings(tags)

		var err error
		interestMatched, err = e.source.GetArticlesByTags(ctx, tags, e.cfg.Limits.InterestFetch)
		if err != nil {
			return nil, fmt.Errorf("get interest-matched articles: %w", err)
		}
	}

	trending, err := e.source.GetTrendingArticles(ctx, e.cfg.Limits.TrendingFetch)
	if err != nil {
		return nil, fmt.Errorf("get trending articles: %w", err)
	}

	seen := make(map[int64]struct{}, len(interestMatched)+len(trending))
	pool := make([]models.Article, 0, len(interestMatched)+len(trending))

	appendEligible := func(articles []models.Article) {
		for i := range articles {
			art := articles[i]
			if _, dup := seen[art.ID]; dup {
				continue
			}
			seen[art.ID] = struct{}{}

			if !art.Published {
				continue
			}
			if _, read := profile.ReadArticleIDs[art.ID]; read {
				continue
			}
			pool = append(pool, art)
		}
	}

	appendEligible(interestMatched)
	appendEligible(trending)

	return pool, nil
}

// similarCandidates assembles the pool for "more like this": articles
// sharing at least one tag with the source, fetched up to twice the
// requested limit, with the source itself removed. An untagged source
// yields an empty pool without querying.
func (e *Engine) similarCandidates(ctx context.Context, source *models.Article, limit int) ([]models.Article, error) {
	if len(source.Tags) == 0 {
		return nil, nil
	}

	fetched, err := e.source.GetArticlesByTags(ctx, source.Tags, 2*limit)
	if err != nil {
		return nil, fmt.Errorf("get tag-matched articles: %w", err)
	}

	pool := make([]models.Article, 0, len(fetched))
	for i := range fetched {
		if fetched[i].ID == source.ID {
			continue
		}
		if !fetched[i].Published {
			continue
		}
		pool = append(pool, fetched[i])
	}

	return pool, nil
}
