package voiceprint

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// voiceprintKey is the single key a BadgerStore writes under.
var voiceprintKey = []byte("voiceprint:owner")

// BadgerStore persists the voiceprint in a BadgerDB database, for
// deployments that already run one for other state. The stored value
// is byte-identical to what FileStore writes, so profiles can be
// migrated between backends by copying the payload.
type BadgerStore struct {
	db  *badger.DB
	key []byte
}

var _ Store = (*BadgerStore)(nil)

// BadgerStoreOptions configures a BadgerStore.
type BadgerStoreOptions struct {
	// Dir is the directory for BadgerDB data files. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs BadgerDB in memory-only mode. Useful for testing
	// with a real badger engine.
	InMemory bool

	// Secret is the operator-supplied secret the XOR mask is derived
	// from. Required.
	Secret string

	// Logger sets the badger logger. If nil, badger output is
	// suppressed below the error level.
	Logger badger.Logger
}

// NewBadgerStore opens (or creates) the backing database. An empty
// secret fails immediately with ErrMissingSecret.
func NewBadgerStore(opts BadgerStoreOptions) (*BadgerStore, error) {
	if opts.Secret == "" {
		return nil, ErrMissingSecret
	}
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("voiceprint: BadgerStoreOptions.Dir is required for on-disk mode")
	}

	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	if opts.Logger != nil {
		dbOpts = dbOpts.WithLogger(opts.Logger)
	} else {
		dbOpts = dbOpts.WithLoggingLevel(badger.ERROR)
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("voiceprint: open badger store: %w", err)
	}
	return &BadgerStore{db: db, key: deriveKey(opts.Secret)}, nil
}

// Save persists the embedding, replacing any prior voiceprint.
func (s *BadgerStore) Save(embedding []float32) error {
	payload := encodeEmbedding(embedding, s.key)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(voiceprintKey, payload)
	})
	if err != nil {
		return fmt.Errorf("voiceprint: save: %w", err)
	}
	return nil
}

// Load retrieves the most recently saved embedding.
func (s *BadgerStore) Load() ([]float32, error) {
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(voiceprintKey)
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("voiceprint: load: %w", err)
	}
	return decodeEmbedding(payload, s.key)
}

// Exists reports whether an owner voiceprint is present.
func (s *BadgerStore) Exists() bool {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(voiceprintKey)
		return err
	})
	return err == nil
}

// Close releases the backing database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
