// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

import (
	"sort"

	"github.com/inkfeed/inkfeed/internal/models"
)

// rankTop sorts scored articles by score descending with a stable sort,
// so equal scores keep their candidate-generation order, then truncates
// to limit. The input slice is sorted in place.
func rankTop(scored []ScoredArticle, limit int) []ScoredArticle {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// summarize maps a ranked article onto the feed projection. All list
// responses go through this single mapping so the wire shape cannot
// drift between endpoints.
func summarize(a models.Article) models.ArticleSummary {
	return models.ArticleSummary{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		Summary:         a.Summary,
		CoverImageURL:   a.CoverImageURL,
		AuthorID:        a.AuthorID,
		AuthorUsername:  a.AuthorUsername,
		Tags:            a.Tags,
		ViewCount:       a.ViewCount,
		LikeCount:       a.LikeCount,
		CommentCount:    a.CommentCount,
		ReadTimeMinutes: a.ReadTimeMinutes,
		PublishedAt:     a.PublishedAt,
	}
}

// summarizeAll applies the feed projection to a ranked slice.
func summarizeAll(scored []ScoredArticle) []models.ArticleSummary {
	out := make([]models.ArticleSummary, len(scored))
	for i, s := range scored {
		out[i] = summarize(s.Article)
	}
	return out
}
