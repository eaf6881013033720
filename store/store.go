// Package store persists the reading library in a Badger key-value database.
//
// The whole Book collection is serialized as a single JSON document on every
// mutation; goal, settings, and the streak cache are separate documents. The
// four groups are logically independent: each may be missing or malformed on
// its own and defaults safely at load.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/readleafapp/readleaf-core/errors"
)

// Keys for the persisted groups.
const (
	keyBooks    = "library:books"
	keyGoal     = "library:goal"
	keySettings = "library:settings"
	keyStreak   = "library:streak"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the library database at the given path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Writes survive crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("library database opened", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing library database")
	}
	return s.db.Close()
}

// get retrieves a value by key. Returns badger.ErrKeyNotFound when absent.
func (s *Store) get(key string, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// save persists one group, converting failures to coded storage errors.
// The write is not retried; callers decide on retry policy.
func (s *Store) save(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.set(key, value); err != nil {
		return apperrors.Wrapf(err, apperrors.CodeStorage, "persisting %s", key)
	}
	return nil
}

// tryLoad decodes one group into dest, reporting whether it succeeded.
// A missing key or malformed document is absorbed: the caller's default
// stands, and only genuine corruption is logged. Corrupt local state must
// never block startup.
func (s *Store) tryLoad(key string, dest any) bool {
	err := s.get(key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, badger.ErrKeyNotFound) && s.logger != nil {
		s.logger.Warn("discarding unreadable persisted group",
			"key", key,
			"error", err)
	}
	return false
}
