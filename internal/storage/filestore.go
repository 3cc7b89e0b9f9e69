package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements KeyValue with one file per key under a
// directory. Keys are path-escaped so namespaced keys like
// "games:memory:animals" stay valid file names.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the file contents for key, with ok=false when absent.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	contents, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("os.ReadFile > %w", err)
	}
	return contents, true, nil
}

// Set writes the value for key atomically via a temp-file rename.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".kv-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("os.Rename > %w", err)
	}
	return nil
}

// Remove deletes the file for key. A missing file is not an error.
func (s *FileStore) Remove(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove > %w", err)
	}
	return nil
}

// Scan reads every stored pair whose key starts with prefix.
func (s *FileStore) Scan(_ context.Context, prefix string) (map[string][]byte, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir > %w", err)
	}

	values := make(map[string][]byte)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		key, err := url.PathUnescape(entry.Name())
		if err != nil || !strings.HasPrefix(key, prefix) {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("key: %s, os.ReadFile > %w", key, err)
		}
		values[key] = contents
	}
	return values, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key))
}
