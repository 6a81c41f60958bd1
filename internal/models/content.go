// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

// Package models defines the read-model entities the recommendation
// engine consumes. All types are snapshots: the engine never mutates
// them, and the platform's write paths live outside this repository.
package models

import (
	"errors"
	"time"
)

// ErrNotFound indicates a referenced user or article does not exist.
// It is the only error class the engine treats specially; everything
// else propagates as a wrapped accessor failure.
var ErrNotFound = errors.New("not found")

// Article is a read-only snapshot of a published (or draft) article.
type Article struct {
	// ID is the article's unique identifier.
	ID int64 `json:"id"`

	// AuthorID references the authoring user.
	AuthorID int64 `json:"author_id"`

	// AuthorUsername is denormalized for response projection.
	AuthorUsername string `json:"author_username,omitempty"`

	// Title is the article title.
	Title string `json:"title"`

	// Slug is the URL-safe identifier.
	Slug string `json:"slug"`

	// Summary is the short teaser text.
	Summary string `json:"summary,omitempty"`

	// CoverImageURL is the CDN URL of the cover image, if any.
	CoverImageURL string `json:"cover_image_url,omitempty"`

	// Tags is the article's tag-name set. Names are unique and
	// case-normalized by the tagging service before they reach us.
	Tags []string `json:"tags"`

	// ViewCount is the lifetime view counter.
	ViewCount int64 `json:"view_count"`

	// LikeCount is the lifetime like counter.
	LikeCount int64 `json:"like_count"`

	// CommentCount is the lifetime comment counter.
	CommentCount int64 `json:"comment_count"`

	// ContentLength is the article body length in characters.
	ContentLength int `json:"content_length"`

	// ReadTimeMinutes is the estimated read time. Zero means the
	// estimator has not run for this article yet.
	ReadTimeMinutes int `json:"read_time_minutes,omitempty"`

	// Published reports whether the article is publicly visible.
	// Unpublished articles are never recommendation candidates.
	Published bool `json:"published"`

	// PublishedAt is when the article went live; nil for drafts or
	// legacy rows migrated without a timestamp.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// CreatedAt is when the article row was created.
	CreatedAt time.Time `json:"created_at"`
}

// User is a read-only snapshot of a platform user.
type User struct {
	// ID is the user's unique identifier.
	ID int64 `json:"id"`

	// Username is the unique handle.
	Username string `json:"username"`

	// Email is the account email.
	Email string `json:"email,omitempty"`

	// Bio is the profile text.
	Bio string `json:"bio,omitempty"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// Clap is a graded positive-engagement event (magnitude 1-50).
// Magnitude is clamped by the engagement service; the engine does not
// re-validate it.
type Clap struct {
	// UserID is the clapping user.
	UserID int64 `json:"user_id"`

	// ArticleID is the clapped article.
	ArticleID int64 `json:"article_id"`

	// Count is the clap magnitude in [1, 50].
	Count int `json:"count"`
}

// ArticleSummary is the response projection shared by every
// recommendation operation. It deliberately omits the article body.
type ArticleSummary struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Summary         string     `json:"summary,omitempty"`
	CoverImageURL   string     `json:"cover_image_url,omitempty"`
	Tags            []string   `json:"tags"`
	ReadTimeMinutes int        `json:"read_time_minutes,omitempty"`
	ViewCount       int64      `json:"view_count"`
	LikeCount       int64      `json:"like_count"`
	CommentCount    int64      `json:"comment_count"`
	AuthorID        int64      `json:"author_id"`
	AuthorUsername  string     `json:"author_username,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}
