// Package store persists application state as whole-blob JSON documents
// under fixed keys, mirroring browser key-value storage semantics: every
// write is a full overwrite, last writer wins, and a corrupt blob is cleared
// on load rather than partially recovered.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	bookforge "github.com/opd-ai/bookforge/src"
)

// Fixed storage keys; each maps to one JSON file in the data directory.
const (
	draftKey   = "current_book"
	historyKey = "book_history"
)

// Draft is the resumable in-progress state: the form inputs plus whatever
// has been generated so far.
type Draft struct {
	Spec bookforge.BookSpec `json:"spec"`
	Book bookforge.Book     `json:"book"`
}

// Store reads and writes the two persisted blobs. All access is serialized;
// it is safe for concurrent use by HTTP handlers.
type Store struct {
	dir   string
	mu    sync.Mutex
	cache *cache.Cache
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{
		dir:   dir,
		cache: cache.New(24*time.Hour, time.Hour),
	}, nil
}

// SaveDraft overwrites the in-progress book blob.
func (s *Store) SaveDraft(d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(draftKey, d); err != nil {
		return err
	}
	s.cache.Set(draftKey, d, cache.DefaultExpiration)
	return nil
}

// LoadDraft returns the saved draft and whether one exists. A corrupt blob
// is cleared and reported as absent.
func (s *Store) LoadDraft() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(draftKey); ok {
		if d, ok := v.(Draft); ok {
			return d, true
		}
	}

	var d Draft
	ok := s.read(draftKey, &d)
	if ok {
		s.cache.Set(draftKey, d, cache.DefaultExpiration)
	}
	return d, ok
}

// ClearDraft removes the in-progress blob.
func (s *Store) ClearDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(draftKey)
	return s.remove(draftKey)
}

// AppendHistory adds a finished book to the history blob.
func (s *Store) AppendHistory(b bookforge.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []bookforge.Book
	s.read(historyKey, &history)
	history = append(history, b)

	if err := s.write(historyKey, history); err != nil {
		return err
	}
	s.cache.Set(historyKey, history, cache.DefaultExpiration)
	return nil
}

// History returns all finished books, oldest first. A corrupt blob is
// cleared and an empty history returned.
func (s *Store) History() []bookforge.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(historyKey); ok {
		if h, ok := v.([]bookforge.Book); ok {
			return h
		}
	}

	var history []bookforge.Book
	if s.read(historyKey, &history) {
		s.cache.Set(historyKey, history, cache.DefaultExpiration)
	}
	return history
}

// ClearHistory removes the history blob.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(historyKey)
	return s.remove(historyKey)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// write marshals v and replaces the key's file atomically so a crash cannot
// leave a half-written blob behind.
func (s *Store) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

// read unmarshals the key's file into v, reporting whether a usable blob
// existed. Unparseable blobs are deleted outright.
func (s *Store) read(key string, v any) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("clearing corrupt store blob")
		if rmErr := os.Remove(s.path(key)); rmErr != nil {
			log.Warn().Str("key", key).Err(rmErr).Msg("failed to remove corrupt blob")
		}
		s.cache.Delete(key)
		return false
	}
	return true
}

func (s *Store) remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}
