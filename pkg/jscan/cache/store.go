package cache

import (
	"errors"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no outcome is cached for a path.
var ErrNotFound = errors.New("cache entry not found")

// Store wraps Badger for probe-outcome persistence. Keys are the absolute
// binary paths.
type Store struct {
	db *badger.DB
}

// DefaultPath returns the default cache database location,
// $XDG_CACHE_HOME/jscan/probes.
func DefaultPath() string {
	return filepath.Join(xdg.CacheHome, "jscan", "probes")
}

// Open opens or creates a store at the given path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the cached outcome for a binary path.
func (s *Store) Get(path string) (*Entry, error) {
	var entry Entry

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(entry.Decode)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Put stores a single outcome.
func (s *Store) Put(path string, entry *Entry) error {
	value, err := entry.Encode()
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(path), value)
	})
}

// PutBatch stores the outcomes of a whole scan in one write batch.
func (s *Store) PutBatch(entries map[string]*Entry) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for path, entry := range entries {
		value, err := entry.Encode()
		if err != nil {
			return err
		}
		if err := wb.Set([]byte(path), value); err != nil {
			return err
		}
	}

	return wb.Flush()
}

// Clear drops every cached outcome.
func (s *Store) Clear() error {
	return s.db.DropAll()
}
