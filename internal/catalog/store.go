package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store owns the catalog document and its JSON file on disk.
//
// Reads take a read lock and work on the live document (callers receive
// deep copies). Mutations take the write lock, apply the change to a deep
// copy, flush the copy to disk, and swap it in only after the flush
// succeeds. A failed flush therefore leaves both the in-memory document
// and the file untouched.
type Store struct {
	path string

	mu  sync.RWMutex
	doc *Catalog
}

// Open loads the catalog file at path, creating an empty document if the
// file does not exist yet. The parent directory must exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.doc = NewCatalog()
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	doc := &Catalog{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	doc.normalize()
	s.doc = doc
	return s, nil
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.DeepCopy()
}

// View runs fn against the live document under the read lock. fn must not
// retain or mutate the document.
func (s *Store) View(fn func(*Catalog)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

// Mutate applies fn to a deep copy of the document, stamps the root
// lastUpdate, flushes the copy to disk, and swaps it in. If fn or the
// flush fails, the previous document stays current.
func (s *Store) Mutate(fn func(*Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.doc.DeepCopy()
	if err := fn(work); err != nil {
		return err
	}
	work.LastUpdate = Now()

	if err := s.flush(work); err != nil {
		return err
	}
	s.doc = work
	return nil
}

// flush writes the document atomically: serialise to a temp file in the
// same directory, fsync, then rename over the target.
func (s *Store) flush(doc *Catalog) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("creating temp catalog file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp catalog file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp catalog file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp catalog file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing catalog file: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}
