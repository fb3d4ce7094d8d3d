package storage

import (
	"context"
	"sync"
)

// Object is a stored blob and its content type.
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStore keeps objects in process memory.
type MemoryStore struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{baseURL: baseURL, objects: make(map[string]Object)}
}

func (s *MemoryStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ValidKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	s.mu.Unlock()
	return nil
}

// Get returns the object stored under key.
func (s *MemoryStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

func (s *MemoryStore) PublicURL(key string) string {
	return publicURL(s.baseURL, key)
}
