package snapshot

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/phroun/dirtree"
)

// Store keeps encoded snapshots by key.
type Store interface {
	// Set stores data under key, replacing any previous value.
	Set(key string, data []byte) error

	// Get returns the data stored under key. Missing keys return an
	// error satisfying errors.Is(err, fs.ErrNotExist).
	Get(key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Save encodes t and stores it under key.
func Save(s Store, key string, t *dirtree.Tree, c Compression) error {
	data, err := Encode(t, c)
	if err != nil {
		return err
	}
	if err := s.Set(key, data); err != nil {
		return fmt.Errorf("saving snapshot %s: %w", key, err)
	}
	return nil
}

// Restore loads and decodes the snapshot stored under key.
func Restore(s Store, key string, opts dirtree.Options) (*dirtree.Tree, error) {
	data, err := s.Get(key)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", key, err)
	}
	t, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", key, err)
	}
	return t, nil
}

// FileStore keeps one file per key under a base directory. Writes go to a
// temporary file that is renamed into place, so readers never see a
// partial snapshot.
type FileStore struct {
	basePath string
}

// NewFileStore returns a store rooted at basePath. The directory is
// created on first write.
func NewFileStore(basePath string) *FileStore {
	return &FileStore{basePath: basePath}
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid snapshot key %q", key)
	}
	return filepath.Join(s.basePath, key), nil
}

func (s *FileStore) Set(key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.basePath, "."+key+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStore keeps snapshots in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Set(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.items[key]
	if !ok {
		return nil, fmt.Errorf("snapshot %q: %w", key, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
