// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

// Package cache provides a BadgerDB-backed response cache with TTL
// expiry. Keys are request-shaped strings, values are serialized
// response payloads. A nil *Cache is a valid no-op cache.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// ErrNotCached indicates the key is absent or expired.
var ErrNotCached = errors.New("not cached")

// Cache is a TTL key-value cache backed by BadgerDB.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// Open creates a cache at dir. An empty dir uses an in-memory Badger
// instance, which is sufficient for a response cache that may be cold
// after restart.
func Open(dir string, ttl time.Duration, logger zerolog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	// Badger logs through its own interface; route it to zerolog.
	opts = opts.WithLogger(badgerLogger{logger.With().Str("component", "cache").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached value for key, or ErrNotCached.
func (c *Cache) Get(key string) ([]byte, error) {
	if c == nil {
		return nil, ErrNotCached
	}

	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotCached
		}
		if err != nil {
			return fmt.Errorf("get %q: %w", key, err)
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set stores value under key with the cache's TTL.
func (c *Cache) Set(key string, value []byte) error {
	if c == nil {
		return nil
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// RunGC runs one round of Badger value-log garbage collection.
// Returns badger.ErrNoRewrite when there is nothing to reclaim; the
// caller decides whether to loop. In-memory instances have no value
// log, so GC is a no-op for them.
func (c *Cache) RunGC(discardRatio float64) error {
	if c == nil || c.db.Opts().InMemory {
		return badger.ErrNoRewrite
	}
	return c.db.RunValueLogGC(discardRatio)
}

// Invalidate removes all entries with the given key prefix. Used when
// engine configuration changes make cached rankings stale.
func (c *Cache) Invalidate(prefix string) error {
	if c == nil {
		return nil
	}

	return c.db.DropPrefix([]byte(prefix))
}

// badgerLogger adapts zerolog to badger.Logger.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msgf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msgf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msgf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug().Msgf(format, args...)
}
