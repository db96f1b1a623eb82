package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StubStorage is an in-process stand-in for object storage, used in
// development and tests when no S3 endpoint is available. Keys become
// "uploaded" as soon as an upload URL is issued for them.
type StubStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]bool
}

// NewStubStorage creates a stub storage instance
func NewStubStorage(baseURL string) *StubStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/storefront-images"
	}
	return &StubStorage{
		baseURL: baseURL,
		objects: make(map[string]bool),
	}
}

// GenerateUploadURL returns a fake upload URL and marks the key as present
func (s *StubStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	s.mu.Lock()
	s.objects[storageKey] = true
	s.mu.Unlock()

	return fmt.Sprintf("%s/%s?upload=1", s.baseURL, storageKey), time.Now().Add(expiresIn), nil
}

// GenerateDownloadURL returns a fake download URL for the key
func (s *StubStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return fmt.Sprintf("%s/%s", s.baseURL, storageKey), time.Now().Add(expiresIn), nil
}

// DeleteObject removes the key
func (s *StubStorage) DeleteObject(ctx context.Context, storageKey string) error {
	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether an upload URL was issued for the key
func (s *StubStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[storageKey], nil
}
