package memory

import (
	"context"
	"sync"

	"github.com/bqpools/pool-client/pkg/wallet/store"
)

type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// New returns an in-process store.Store.
func New() store.Store {
	return &memoryStore{
		values: make(map[string][]byte),
	}
}

func (s *memoryStore) reset() {
	s.mu.Lock()
	s.values = make(map[string][]byte)
	s.mu.Unlock()
}

// Get implements store.Store.Get
func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}

	return append([]byte(nil), value...), nil
}

// Put implements store.Store.Put
func (s *memoryStore) Put(_ context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements store.Store.Delete
func (s *memoryStore) Delete(_ context.Context, key string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
