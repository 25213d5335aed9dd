package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/label"
)

// FileStore keeps each collection as a JSON file in a config directory.
// This is the CLI's default backend.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-backed store. An empty baseDir defaults to
// ~/.config/labelforge/collections.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "labelforge", "collections")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create collection dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Load reads the named collection. A missing file is an empty collection.
func (s *FileStore) Load(ctx context.Context, name string) (*label.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return label.NewCollection(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read collection %q", name)
	}

	var col label.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "parse collection %q", name)
	}
	return &col, nil
}

// Save writes the collection atomically via a temp file rename.
func (s *FileStore) Save(ctx context.Context, name string, col *label.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "marshal collection %q", name)
	}

	path := s.path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write collection %q", name)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeStore, err, "replace collection %q", name)
	}
	return nil
}

// Delete removes the named collection. Deleting an absent name is a no-op.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "remove collection %q", name)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the base directory for collection files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
