// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

import (
	"math"

	"github.com/inkfeed/inkfeed/internal/models"
)

// personalizedScore blends the four scoring components with the
// configured weights. Every component is bounded [0, 1], so the blend
// is bounded by the weight sum (1.0 after normalization).
func (e *Engine) personalizedScore(profile *BehaviorProfile, article models.Article) float64 {
	w := e.cfg.Weights
	return w.Content*contentAffinity(profile, article) +
		w.Behavior*e.behaviorScore(profile, article) +
		w.Popularity*popularityScore(article) +
		w.Recency*e.recencyScore(article)
}

// contentAffinity is the share of the reader's interests the article
// covers: |tags ∩ interests| / |interests|. Unlike ContentSimilarity
// it is asymmetric; an article matching every interest scores 1.0
// regardless of how many extra tags it carries.
func contentAffinity(profile *BehaviorProfile, article models.Article) float64 {
	if len(profile.Interests) == 0 || len(article.Tags) == 0 {
		return 0
	}

	intersection := 0
	for tag := range tagSet(article.Tags) {
		if _, ok := profile.Interests[tag]; ok {
			intersection++
		}
	}

	return float64(intersection) / float64(len(profile.Interests))
}

// behaviorScore rewards fit with the reader's observed habits: a bonus
// for content length near the preferred length, a bonus for authors the
// reader has already read, and a bonus for popular articles when the
// reader is highly engaged. Capped at the sum of the three bonuses
// (0.7 with defaults).
func (e *Engine) behaviorScore(profile *BehaviorProfile, article models.Article) float64 {
	b := e.cfg.Behavior
	score := 0.0

	if profile.PreferredContentLength > 0 {
		diff := math.Abs(float64(article.ContentLength - profile.PreferredContentLength))
		if diff < float64(b.LengthWindow) {
			score += b.LengthBonus
		}
	}

	if _, ok := profile.ReadAuthorIDs[article.AuthorID]; ok {
		score += b.AuthorBonus
	}

	if profile.EngagementLevel > b.EngagementThreshold && article.LikeCount > b.LikeThreshold {
		score += b.EngagementBonus
	}

	return score
}

// popularityScore averages log-damped views, likes, and comments.
// log10 keeps viral outliers from dominating; the /10 divisor maps
// counts up to ~10^10 into [0, 1].
func popularityScore(article models.Article) float64 {
	views := math.Log10(float64(article.ViewCount)+1) / 10
	likes := math.Log10(float64(article.LikeCount)+1) / 10
	comments := math.Log10(float64(article.CommentCount)+1) / 10
	return (views + likes + comments) / 3
}

// recencyScore decays linearly from 1.0 at publication to the
// configured floor at DecayDays. Undated articles get a neutral
// mid score, and future publication dates clamp to 1.0.
func (e *Engine) recencyScore(article models.Article) float64 {
	r := e.cfg.Recency
	if article.PublishedAt == nil {
		return r.UndatedScore
	}

	days := e.now().Sub(*article.PublishedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	score := 1 - days/r.DecayDays
	return math.Max(r.Floor, math.Min(1, score))
}

// collaborativeScore maps the total peer clap magnitude for an article
// into a bounded score using the same log damping as popularity.
func collaborativeScore(totalClaps int) float64 {
	return math.Log10(float64(totalClaps)+1) / 10
}
