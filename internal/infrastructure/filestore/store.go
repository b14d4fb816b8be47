package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists JSON documents under a root directory, one file per key.
// The filesystem is the single source of truth: callers read fresh per
// request and write whole documents, never partial patches.
type Store struct {
	root  string
	mu    sync.RWMutex
	locks map[string]*sync.Mutex
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Store{
		root:  root,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Lock acquires the advisory lock for key and returns the unlock func.
// Serializes read-modify-write cycles on the same document; documents with
// different keys stay independent.
func (s *Store) Lock(key string) func() {
	s.mu.RLock()
	m, exists := s.locks[key]
	s.mu.RUnlock()

	if !exists {
		s.mu.Lock()
		// Double-check pattern
		if m, exists = s.locks[key]; !exists {
			m = &sync.Mutex{}
			s.locks[key] = m
		}
		s.mu.Unlock()
	}

	m.Lock()
	return m.Unlock
}

// ReadJSON loads the document at relPath into v. Returns an os.IsNotExist
// error when the document is absent.
func (s *Store) ReadJSON(relPath string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.root, relPath))
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

// WriteJSON persists v as the whole document at relPath. The write goes to
// a temp file in the same directory followed by a rename, so readers never
// observe a half-written document.
func (s *Store) WriteJSON(relPath string, v interface{}) error {
	path := filepath.Join(s.root, relPath)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
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

// IsNotExist reports whether err came from reading a document that is not
// there, as opposed to a document that could not be read or decoded.
func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

// Remove deletes the document at relPath; absent documents are not an error.
func (s *Store) Remove(relPath string) error {
	err := os.Remove(filepath.Join(s.root, relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a document is present at relPath.
func (s *Store) Exists(relPath string) bool {
	_, err := os.Stat(filepath.Join(s.root, relPath))
	return err == nil
}

// ListDocuments returns the names (without extension) of the JSON documents
// directly under relDir. A missing directory yields an empty listing.
func (s *Store) ListDocuments(relDir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, relDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}

	return names, nil
}
