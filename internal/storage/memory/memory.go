// Package memory keeps uploaded files in process memory. It backs
// development and tests, and serves the files itself.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/ShaikhZaamir/vendor-portal/internal/storage"
)

// PathPrefix is where Handler expects to be mounted.
const PathPrefix = "/media/"

type fileEntry struct {
	ContentType string
	Data        []byte
}

// Storage implements storage.Storage using an in-memory map.
type Storage struct {
	mu      sync.RWMutex
	files   map[string]*fileEntry
	baseURL string
}

// New creates a new in-memory storage instance. URLs are baseURL joined with
// PathPrefix and the key; an empty baseURL gives root-relative URLs.
func New(baseURL string) *Storage {
	return &Storage{
		files:   make(map[string]*fileEntry),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload reads the whole body and stores it under input.Key.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[input.Key] = &fileEntry{ContentType: input.ContentType, Data: data}

	return &storage.UploadResult{
		Key: input.Key,
		URL: s.baseURL + PathPrefix + input.Key,
	}, nil
}

// Ping implements storage.Storage.
func (s *Storage) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored files.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Handler serves stored files under PathPrefix.
func (s *Storage) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, PathPrefix)

		s.mu.RLock()
		entry, ok := s.files[key]
		s.mu.RUnlock()
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", entry.ContentType)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = io.Copy(w, bytes.NewReader(entry.Data))
	})
}
