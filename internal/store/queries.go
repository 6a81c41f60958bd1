// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkfeed/inkfeed/internal/models"
)

const articleColumns = `a.id, a.author_id, u.username, a.title, a.slug,
	a.summary, a.cover_image_url, a.content_length, a.read_time_minutes,
	a.view_count, a.like_count, a.comment_count, a.published,
	a.published_at, a.created_at`

// GetUser returns the user or models.ErrNotFound.
func (s *Store) GetUser(ctx context.Context, userID int64) (_ *models.User, err error) {
	defer observeQuery("get_user", time.Now(), &err)

	var (
		u         models.User
		createdAt int64
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT id, username, email, bio, created_at FROM users WHERE id = ?`,
		userID,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Bio, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user %d: %w", userID, err)
	}

	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// GetUserByUsername returns the user or models.ErrNotFound.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (_ *models.User, err error) {
	defer observeQuery("get_user_by_username", time.Now(), &err)

	var (
		u         models.User
		createdAt int64
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT id, username, email, bio, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Bio, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user %q: %w", username, err)
	}

	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// GetArticle returns the article with its tags, or models.ErrNotFound.
func (s *Store) GetArticle(ctx context.Context, articleID int64) (_ *models.Article, err error) {
	defer observeQuery("get_article", time.Now(), &err)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+`
		 FROM articles a JOIN users u ON u.id = a.author_id
		 WHERE a.id = ?`,
		articleID,
	)

	a, err := scanArticleRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %d: %w", articleID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query article %d: %w", articleID, err)
	}

	if err := s.attachTags(ctx, []*models.Article{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// GetArticlesByIDs returns the articles that exist among ids in the
// order of ids. Missing ids are skipped.
func (s *Store) GetArticlesByIDs(ctx context.Context, ids []int64) (_ []models.Article, err error) {
	defer observeQuery("get_articles_by_ids", time.Now(), &err)

	if len(ids) == 0 {
		return nil, nil
	}

	placeholders, args := inClauseInt64(ids)
	articles, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+`
		 FROM articles a JOIN users u ON u.id = a.author_id
		 WHERE a.id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query articles by ids: %w", err)
	}

	byID := make(map[int64]models.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}

	out := make([]models.Article, 0, len(articles))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// GetReadArticles returns the articles the user has read, most recent
// read first.
func (s *Store) GetReadArticles(ctx context.Context, userID int64) (_ []models.Article, err error) {
	defer observeQuery("get_read_articles", time.Now(), &err)

	articles, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+`
		 FROM reads r
		 JOIN articles a ON a.id = r.article_id
		 JOIN users u ON u.id = a.author_id
		 WHERE r.user_id = ?
		 ORDER BY r.read_at DESC, a.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query read articles for user %d: %w", userID, err)
	}
	return articles, nil
}

// GetReadArticleIDs returns the ids of articles the user has read.
func (s *Store) GetReadArticleIDs(ctx context.Context, userID int64) (_ []int64, err error) {
	defer observeQuery("get_read_article_ids", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		`SELECT article_id FROM reads WHERE user_id = ? ORDER BY read_at DESC, article_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query read ids for user %d: %w", userID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan read id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetClapsByUser returns all clap records for the user.
func (s *Store) GetClapsByUser(ctx context.Context, userID int64) (_ []models.Clap, err error) {
	defer observeQuery("get_claps_by_user", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, article_id, count FROM claps WHERE user_id = ? ORDER BY article_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query claps for user %d: %w", userID, err)
	}
	defer rows.Close()

	var claps []models.Clap
	for rows.Next() {
		var c models.Clap
		if err := rows.Scan(&c.UserID, &c.ArticleID, &c.Count); err != nil {
			return nil, fmt.Errorf("scan clap: %w", err)
		}
		claps = append(claps, c)
	}
	return claps, rows.Err()
}

// GetArticlesByTags returns up to limit published articles carrying at
// least one of tags, newest publication first.
func (s *Store) GetArticlesByTags(ctx context.Context, tags []string, limit int) (_ []models.Article, err error) {
	defer observeQuery("get_articles_by_tags", time.Now(), &err)

	if len(tags) == 0 || limit <= 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(tags)), ", ")
	args := make([]any, 0, len(tags)+1)
	for _, t := range tags {
		args = append(args, t)
	}
	args = append(args, limit)

	articles, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+`
		 FROM articles a
		 JOIN users u ON u.id = a.author_id
		 WHERE a.published = 1 AND a.id IN (
		   SELECT DISTINCT article_id FROM article_tags WHERE tag IN (`+placeholders+`)
		 )
		 ORDER BY a.published_at DESC, a.id ASC
		 LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query articles by tags: %w", err)
	}
	return articles, nil
}

// GetTrendingArticles returns up to limit published articles ordered
// by views, then likes, then comments.
func (s *Store) GetTrendingArticles(ctx context.Context, limit int) (_ []models.Article, err error) {
	defer observeQuery("get_trending_articles", time.Now(), &err)

	if limit <= 0 {
		return nil, nil
	}

	articles, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+`
		 FROM articles a JOIN users u ON u.id = a.author_id
		 WHERE a.published = 1
		 ORDER BY a.view_count DESC, a.like_count DESC, a.comment_count DESC, a.id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query trending articles: %w", err)
	}
	return articles, nil
}

// ListPeerCandidates returns up to limit user ids excluding
// excludeUserID, most recently active reader first. Users with no
// reading activity rank last by id.
func (s *Store) ListPeerCandidates(ctx context.Context, excludeUserID int64, limit int) (_ []int64, err error) {
	defer observeQuery("list_peer_candidates", time.Now(), &err)

	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT us.id
		 FROM users us
		 LEFT JOIN reads r ON r.user_id = us.id
		 WHERE us.id != ?
		 GROUP BY us.id
		 ORDER BY COALESCE(MAX(r.read_at), 0) DESC, us.id ASC
		 LIMIT ?`,
		excludeUserID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query peer candidates: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan peer candidate: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// queryArticles runs an article SELECT (articleColumns shape) and
// attaches tags before returning.
func (s *Store) queryArticles(ctx context.Context, query string, args ...any) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		a, err := scanArticleRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*models.Article, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := s.attachTags(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

// scanArticleRow scans one articleColumns row.
func scanArticleRow(scan func(dest ...any) error) (*models.Article, error) {
	var (
		a           models.Article
		published   int
		publishedAt sql.NullInt64
		createdAt   int64
	)
	err := scan(
		&a.ID, &a.AuthorID, &a.AuthorUsername, &a.Title, &a.Slug,
		&a.Summary, &a.CoverImageURL, &a.ContentLength, &a.ReadTimeMinutes,
		&a.ViewCount, &a.LikeCount, &a.CommentCount, &published,
		&publishedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.Published = published != 0
	if publishedAt.Valid {
		t := time.Unix(publishedAt.Int64, 0).UTC()
		a.PublishedAt = &t
	}
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &a, nil
}

// attachTags loads the tag sets for the given articles in one query.
func (s *Store) attachTags(ctx context.Context, articles []*models.Article) error {
	if len(articles) == 0 {
		return nil
	}

	ids := make([]int64, len(articles))
	byID := make(map[int64]*models.Article, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
		byID[a.ID] = a
	}

	placeholders, args := inClauseInt64(ids)
	rows, err := s.db.QueryContext(ctx,
		`SELECT article_id, tag FROM article_tags
		 WHERE article_id IN (`+placeholders+`)
		 ORDER BY article_id ASC, tag ASC`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("query article tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			articleID int64
			tag       string
		)
		if err := rows.Scan(&articleID, &tag); err != nil {
			return fmt.Errorf("scan article tag: %w", err)
		}
		if a, ok := byID[articleID]; ok {
			a.Tags = append(a.Tags, tag)
		}
	}
	return rows.Err()
}

// inClauseInt64 builds a placeholder list and argument slice for an
// IN clause over int64 ids.
func inClauseInt64(ids []int64) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders, args
}
