package testutil

import (
	"context"
	"sync"

	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// FakeSecureStore implements capability.SecureStore over an in-memory
// map, standing in for a platform keychain in tests.
type FakeSecureStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewFakeSecureStore() *FakeSecureStore {
	return &FakeSecureStore{values: make(map[string][]byte)}
}

func (s *FakeSecureStore) SetSecret(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)

	return nil
}

func (s *FakeSecureStore) GetSecret(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, coreerr.NotFound("secret", key)
	}

	return append([]byte(nil), v...), nil
}

func (s *FakeSecureStore) DeleteSecret(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	return nil
}

func (s *FakeSecureStore) HasSecret(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.values[key]

	return ok, nil
}

func (s *FakeSecureStore) ListKeys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}

	return keys, nil
}

func (s *FakeSecureStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string][]byte)

	return nil
}
