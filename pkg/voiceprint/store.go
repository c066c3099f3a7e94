package voiceprint

import (
	"errors"
	"fmt"
	"os"
)

// Store persists exactly one owner embedding. Save overwrites any
// prior value; there is no partial update. Load returns ErrNotFound
// when nothing was ever saved. Exists is a pure check with no side
// effects.
//
// Concurrent Save and Load against the same underlying location is
// not contractually safe; callers running multiple conversations over
// one profile must serialize access externally.
type Store interface {
	Save(embedding []float32) error
	Load() ([]float32, error)
	Exists() bool
}

// FileStore persists the voiceprint as a single flat file.
type FileStore struct {
	path string
	key  []byte
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore writing to path. The secret is
// required; an empty secret fails immediately with ErrMissingSecret
// rather than on first use.
func NewFileStore(path, secret string) (*FileStore, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &FileStore{path: path, key: deriveKey(secret)}, nil
}

// Save persists the embedding, replacing any prior voiceprint.
func (s *FileStore) Save(embedding []float32) error {
	payload := encodeEmbedding(embedding, s.key)
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("voiceprint: save: %w", err)
	}
	return nil
}

// Load retrieves the most recently saved embedding.
func (s *FileStore) Load() ([]float32, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("voiceprint: load: %w", err)
	}
	return decodeEmbedding(payload, s.key)
}

// Exists reports whether a voiceprint file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the voiceprint file path.
func (s *FileStore) Path() string { return s.path }
