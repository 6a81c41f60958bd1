// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/inkfeed/inkfeed/internal/models"
)

// UpsertUser inserts or replaces a user row.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) (err error) {
	defer observeQuery("upsert_user", time.Now(), &err)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, bio, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   username = excluded.username,
		   email = excluded.email,
		   bio = excluded.bio`,
		u.ID, u.Username, u.Email, u.Bio, u.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	return nil
}

// UpsertArticle inserts or replaces an article row and its tag set.
func (s *Store) UpsertArticle(ctx context.Context, a *models.Article) (err error) {
	defer observeQuery("upsert_article", time.Now(), &err)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert article %d: %w", a.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var publishedAt any
	if a.PublishedAt != nil {
		publishedAt = a.PublishedAt.Unix()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (
		   id, author_id, title, slug, summary, cover_image_url,
		   content_length, read_time_minutes, view_count, like_count,
		   comment_count, published, published_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   author_id = excluded.author_id,
		   title = excluded.title,
		   slug = excluded.slug,
		   summary = excluded.summary,
		   cover_image_url = excluded.cover_image_url,
		   content_length = excluded.content_length,
		   read_time_minutes = excluded.read_time_minutes,
		   view_count = excluded.view_count,
		   like_count = excluded.like_count,
		   comment_count = excluded.comment_count,
		   published = excluded.published,
		   published_at = excluded.published_at`,
		a.ID, a.AuthorID, a.Title, a.Slug, a.Summary, a.CoverImageURL,
		a.ContentLength, a.ReadTimeMinutes, a.ViewCount, a.LikeCount,
		a.CommentCount, boolToInt(a.Published), publishedAt, a.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert article %d: %w", a.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM article_tags WHERE article_id = ?`, a.ID); err != nil {
		return fmt.Errorf("clear tags for article %d: %w", a.ID, err)
	}
	for _, tag := range a.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO article_tags (article_id, tag) VALUES (?, ?)`,
			a.ID, tag); err != nil {
			return fmt.Errorf("insert tag %q for article %d: %w", tag, a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert article %d: %w", a.ID, err)
	}
	return nil
}

// RecordRead records that a user read an article at the given time.
// Re-reading updates the timestamp.
func (s *Store) RecordRead(ctx context.Context, userID, articleID int64, readAt time.Time) (err error) {
	defer observeQuery("record_read", time.Now(), &err)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reads (user_id, article_id, read_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id, article_id) DO UPDATE SET read_at = excluded.read_at`,
		userID, articleID, readAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record read user=%d article=%d: %w", userID, articleID, err)
	}
	return nil
}

// AddClap adds clap magnitude to a user's clap record for an article.
func (s *Store) AddClap(ctx context.Context, userID, articleID int64, count int) (err error) {
	defer observeQuery("add_clap", time.Now(), &err)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO claps (user_id, article_id, count)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id, article_id) DO UPDATE SET count = count + excluded.count`,
		userID, articleID, count,
	)
	if err != nil {
		return fmt.Errorf("add clap user=%d article=%d: %w", userID, articleID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
