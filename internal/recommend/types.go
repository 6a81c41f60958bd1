// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

import (
	"context"

	"github.com/inkfeed/inkfeed/internal/models"
)

// Source defines the read-only accessors the engine consumes. It is
// typically implemented by the store layer; the engine performs no I/O
// of its own beyond these calls, and any failure from them propagates
// unchanged to the caller.
type Source interface {
	// GetUser returns the user or models.ErrNotFound.
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// GetArticle returns the article or models.ErrNotFound.
	GetArticle(ctx context.Context, articleID int64) (*models.Article, error)

	// GetArticlesByIDs returns the articles that exist among ids,
	// preserving the order of ids. Missing ids are skipped silently.
	GetArticlesByIDs(ctx context.Context, ids []int64) ([]models.Article, error)

	// GetReadArticles returns the articles the user has read, ordered
	// most-recent-first. One entry per article.
	GetReadArticles(ctx context.Context, userID int64) ([]models.Article, error)

	// GetReadArticleIDs returns the ids of articles the user has read.
	GetReadArticleIDs(ctx context.Context, userID int64) ([]int64, error)

	// GetClapsByUser returns all clap events recorded by the user.
	GetClapsByUser(ctx context.Context, userID int64) ([]models.Clap, error)

	// GetArticlesByTags returns up to limit published articles tagged
	// with at least one of tags.
	GetArticlesByTags(ctx context.Context, tags []string, limit int) ([]models.Article, error)

	// GetTrendingArticles returns up to limit published articles
	// ordered by view count desc, like count desc, comment count desc.
	GetTrendingArticles(ctx context.Context, limit int) ([]models.Article, error)

	// ListPeerCandidates returns up to limit user ids excluding
	// excludeUserID, most recently active first.
	ListPeerCandidates(ctx context.Context, excludeUserID int64, limit int) ([]int64, error)
}

// BehaviorProfile summarizes a user's historical reading and engagement.
// It is built per request and never persisted.
type BehaviorProfile struct {
	// UserID is the profiled user.
	UserID int64

	// Interests is the union of tag names across all read articles.
	// Membership only; no recency or frequency weighting.
	Interests map[string]struct{}

	// EngagementLevel is the normalized clap activity in [0, 1].
	EngagementLevel float64

	// AverageReadTime is the mean estimated read time in minutes of
	// the user's read articles.
	AverageReadTime float64

	// PreferredContentLength is the mean character length of the
	// user's read articles.
	PreferredContentLength int

	// ReadArticleIDs is the exclusion set for candidate generation.
	ReadArticleIDs map[int64]struct{}

	// ReadAuthorIDs is the set of authors the user has read before.
	ReadAuthorIDs map[int64]struct{}
}

// ScoredArticle pairs an article with its request-scoped score. Used
// only during ranking.
type ScoredArticle struct {
	Article models.Article
	Score   float64
}
