// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

// Package recommend implements the article recommendation and similarity
// scoring engine for the Inkfeed content platform.
//
// # Architecture
//
// The engine produces ranked article lists from multiple weighted signals:
//
//   - Content: share of the reader's interests covered by article tags
//   - Behavior: per-user profile built from reading history and claps
//   - Popularity: log-scaled view/like/comment counts
//   - Recency: linear decay over a year of article age
//   - Collaborative: strong clap signals from similar readers
//
// # Design Principles
//
//   - Deterministic: identical inputs produce identical scores; every
//     scoring function is pure
//   - Explainable: rule-based arithmetic, no trained models or embeddings
//   - Stateless: all derived state (profiles, candidate pools, scores) is
//     built per request and discarded with the response
//   - Auditable: every operation logs structured fields with a request ID
//
// # Degenerate Inputs
//
// Missing users and articles fail with models.ErrNotFound. Everything
// else is a valid degenerate input with a defined fallback: users with no
// history get default profile values and trending candidates, untagged
// articles score 0.0 similarity, users with no claps have engagement 0.0.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	engine.SetSource(store)
//
//	feed, err := engine.PersonalizedFeed(ctx, userID, 20)
//	similar, err := engine.MoreLikeThis(ctx, articleID, 10)
//	peersPicks, err := engine.CollaborativeRecommendations(ctx, userID, 20)
//
// # Thread Safety
//
// The engine holds no mutable cross-request state; all public operations
// may be invoked concurrently.
package recommend
