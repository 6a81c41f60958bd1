// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

import (
	"context"
	"fmt"

	"github.com/inkfeed/inkfeed/internal/models"
)

// buildProfile derives a behavior profile for the user from their
// reading history and clap events. A user with no history gets the
// configured fallback values; only a missing user is an error.
func (e *Engine) buildProfile(ctx context.Context, userID int64) (*BehaviorProfile, error) {
	if _, err := e.source.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	history, err := e.source.GetReadArticles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get reading history: %w", err)
	}

	claps, err := e.source.GetClapsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get claps: %w", err)
	}

	profile := &BehaviorProfile{
		UserID:         userID,
		Interests:      make(map[string]struct{}),
		ReadArticleIDs: make(map[int64]struct{}, len(history)),
		ReadAuthorIDs:  make(map[int64]struct{}),
	}

	for i := range history {
		art := &history[i]
		profile.ReadArticleIDs[art.ID] = struct{}{}
		profile.ReadAuthorIDs[art.AuthorID] = struct{}{}
		for _, tag := range art.Tags {
			profile.Interests[tag] = struct{}{}
		}
	}

	profile.EngagementLevel = e.engagementLevel(claps)
	profile.AverageReadTime = e.averageReadTime(history)
	profile.PreferredContentLength = e.preferredContentLength(history)

	return profile, nil
}

// engagementLevel normalizes the user's total clap magnitude into
// [0, 1]. Zero claps means zero engagement.
func (e *Engine) engagementLevel(claps []models.Clap) float64 {
	if len(claps) == 0 {
		return 0
	}

	total := 0
	for _, c := range claps {
		total += c.Count
	}

	level := float64(total) / e.cfg.Profile.EngagementDivisor
	if level > 1 {
		level = 1
	}
	return level
}

// averageReadTime is the mean estimated read time of the user's read
// articles in minutes. Articles without an estimate count as the
// default; no history yields the default outright.
func (e *Engine) averageReadTime(history []models.Article) float64 {
	if len(history) == 0 {
		return e.cfg.Profile.DefaultReadTimeMinutes
	}

	var sum float64
	for i := range history {
		if history[i].ReadTimeMinutes > 0 {
			sum += float64(history[i].ReadTimeMinutes)
		} else {
			sum += e.cfg.Profile.DefaultReadTimeMinutes
		}
	}

	return sum / float64(len(history))
}

// preferredContentLength is the mean character length of the user's
// read articles, or the default with no history.
func (e *Engine) preferredContentLength(history []models.Article) int {
	if len(history) == 0 {
		return e.cfg.Profile.DefaultContentLength
	}

	var sum int64
	for i := range history {
		sum += int64(history[i].ContentLength)
	}

	return int(sum / int64(len(history)))
}
