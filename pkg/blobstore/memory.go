package blobstore

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
	// failPut makes every Put fail; used to exercise persistence failures.
	failPut error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]string{}}
}

func (s *MemoryStore) Get(ctx context.Context, namespace, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[namespace][key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) Put(ctx context.Context, namespace, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut != nil {
		return s.failPut
	}
	if s.data[namespace] == nil {
		s.data[namespace] = map[string]string{}
	}
	s.data[namespace][key] = value
	return nil
}

// FailWrites makes subsequent Puts return err. A nil err restores normal writes.
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	s.failPut = err
	s.mu.Unlock()
}
