// Package store is the Badger-backed key/value cache for cover lookups.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrNotFound is returned when a key is absent or has expired.
var ErrNotFound = errors.New("store: not found")

// Store wraps a Badger database instance.
type Store struct {
	db       *badger.DB
	logger   *slog.Logger
	inMemory bool
}

// New opens a Badger database at path. An empty path opens an in-memory
// database that lives as long as the process.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true
		opts.CompactL0OnClose = true
	}
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		if path == "" {
			logger.Info("Badger cache opened in memory")
		} else {
			logger.Info("Badger cache opened", "path", path)
		}
	}

	return &Store{db: db, logger: logger, inMemory: path == ""}, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing cover cache")
	}
	return s.db.Close()
}

// InMemory reports whether the store has no backing directory.
func (s *Store) InMemory() bool {
	return s.inMemory
}

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// set stores a value by key. A positive ttl makes the entry expire.
func (s *Store) set(key []byte, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// count returns the number of live keys under prefix.
func (s *Store) count(prefix string) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
