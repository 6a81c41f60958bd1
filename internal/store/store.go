// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

// Package store provides SQLite-backed persistence for the platform
// read model: users, articles, tags, read events, and claps. It
// implements recommend.Source.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/inkfeed/inkfeed/internal/metrics"
)

// Store wraps the SQLite connection and provides data access methods.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY,
	author_id INTEGER NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	summary TEXT NOT NULL DEFAULT '',
	cover_image_url TEXT NOT NULL DEFAULT '',
	content_length INTEGER NOT NULL DEFAULT 0,
	read_time_minutes INTEGER NOT NULL DEFAULT 0,
	view_count INTEGER NOT NULL DEFAULT 0,
	like_count INTEGER NOT NULL DEFAULT 0,
	comment_count INTEGER NOT NULL DEFAULT 0,
	published INTEGER NOT NULL DEFAULT 0,
	published_at INTEGER,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS article_tags (
	article_id INTEGER NOT NULL REFERENCES articles(id),
	tag TEXT NOT NULL,
	PRIMARY KEY (article_id, tag)
);

CREATE TABLE IF NOT EXISTS reads (
	user_id INTEGER NOT NULL REFERENCES users(id),
	article_id INTEGER NOT NULL REFERENCES articles(id),
	read_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, article_id)
);

CREATE TABLE IF NOT EXISTS claps (
	user_id INTEGER NOT NULL REFERENCES users(id),
	article_id INTEGER NOT NULL REFERENCES articles(id),
	count INTEGER NOT NULL,
	PRIMARY KEY (user_id, article_id)
);

CREATE INDEX IF NOT EXISTS idx_article_tags_tag ON article_tags(tag);
CREATE INDEX IF NOT EXISTS idx_articles_trending
	ON articles(published, view_count DESC, like_count DESC, comment_count DESC);
CREATE INDEX IF NOT EXISTS idx_reads_user ON reads(user_id, read_at DESC);
CREATE INDEX IF NOT EXISTS idx_claps_user ON claps(user_id);
`

// Open opens the SQLite database at path, creating the schema if it
// does not exist. Pass ":memory:" for an in-process database (tests).
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrency and keeps :memory: databases from
	// fragmenting into one empty db per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Database opened")

	return &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// observeQuery records query timing and errors. Defer it with the
// method's named error so the final outcome is captured:
//
//	defer observeQuery("get_user", time.Now(), &err)
func observeQuery(operation string, start time.Time, err *error) {
	metrics.RecordDBQuery(operation, time.Since(start), *err)
}
