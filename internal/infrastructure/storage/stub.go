package storage

import (
	"context"
	"errors"
	"sync"

	appfinance "github.com/kincat201/syncargo-be-sub000/internal/application/finance"
)

// Ensure MemoryFileStorage implements FileStorage
var _ appfinance.FileStorage = (*MemoryFileStorage)(nil)

// MemoryFileStorage keeps uploaded attachments in memory. It stands in for
// S3-compatible storage in local development when no credentials are
// configured.
type MemoryFileStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileStorage creates a new MemoryFileStorage
func NewMemoryFileStorage() *MemoryFileStorage {
	return &MemoryFileStorage{files: make(map[string][]byte)}
}

// Upload stores the given attachments in memory
func (s *MemoryFileStorage) Upload(ctx context.Context, files []appfinance.FileUpload) ([]appfinance.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]appfinance.StoredFile, 0, len(files))
	for _, f := range files {
		if f.FileName == "" {
			return stored, errors.New("file name is required")
		}
		data := make([]byte, len(f.Data))
		copy(data, f.Data)
		s.files[f.FileName] = data
		stored = append(stored, appfinance.StoredFile{
			FileName: f.FileName,
			URL:      "memory://" + f.FileName,
		})
	}
	return stored, nil
}

// Delete removes the named attachments. Missing names are ignored.
func (s *MemoryFileStorage) Delete(ctx context.Context, fileNames []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range fileNames {
		delete(s.files, name)
	}
	return nil
}

// Get returns the stored content of a file
func (s *MemoryFileStorage) Get(fileName string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[fileName]
	return data, ok
}

// Len returns the number of stored files
func (s *MemoryFileStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
