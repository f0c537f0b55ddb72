package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one pretty-printed JSON file per site key inside a data
// directory. Writes go to a temp file first and are renamed into place, so a
// concurrent Get never observes a partial document.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *FileStore) siteLock(siteKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[siteKey]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[siteKey] = lock
	}
	return lock
}

func (s *FileStore) path(siteKey string) string {
	return filepath.Join(s.dir, sanitizeSiteKey(siteKey)+".json")
}

func (s *FileStore) Get(ctx context.Context, siteKey string) (ContentDocument, error) {
	lock := s.siteLock(siteKey)
	lock.Lock()
	defer lock.Unlock()

	raw, err := os.ReadFile(s.path(siteKey))
	if errors.Is(err, os.ErrNotExist) {
		// Lazily materialize the default document so the first admin session
		// and the public site see the same content.
		doc := DefaultDocument()
		if err := s.write(siteKey, doc); err != nil {
			return ContentDocument{}, err
		}
		return doc, nil
	}
	if err != nil {
		return ContentDocument{}, fmt.Errorf("read site %s: %w", siteKey, err)
	}

	var doc ContentDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ContentDocument{}, fmt.Errorf("decode site %s: %w", siteKey, err)
	}
	return doc, nil
}

func (s *FileStore) Put(ctx context.Context, siteKey string, doc ContentDocument) error {
	lock := s.siteLock(siteKey)
	lock.Lock()
	defer lock.Unlock()
	return s.write(siteKey, doc)
}

func (s *FileStore) write(siteKey string, doc ContentDocument) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal site %s: %w", siteKey, err)
	}
	path := s.path(siteKey)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write site %s: %w", siteKey, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace site %s: %w", siteKey, err)
	}
	return nil
}

func (s *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("data dir unavailable: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// sanitizeSiteKey strips path separators and dots so a site key can never
// escape the data directory.
func sanitizeSiteKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}
