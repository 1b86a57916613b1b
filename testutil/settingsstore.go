package testutil

import (
	"context"
	"sync"

	"github.com/tonimelisma/musiccore/internal/capability"
)

// FakeSettingsStore implements capability.SettingsStore over an
// in-memory map.
type FakeSettingsStore struct {
	mu     sync.Mutex
	values map[string]capability.SettingsValue
}

func NewFakeSettingsStore() *FakeSettingsStore {
	return &FakeSettingsStore{values: make(map[string]capability.SettingsValue)}
}

func (s *FakeSettingsStore) Get(ctx context.Context, key string) (capability.SettingsValue, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]

	return v, ok, nil
}

func (s *FakeSettingsStore) Set(ctx context.Context, key string, value capability.SettingsValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	return nil
}

func (s *FakeSettingsStore) Begin(ctx context.Context) (capability.SettingsTx, error) {
	return &fakeSettingsTx{store: s, pending: make(map[string]capability.SettingsValue)}, nil
}

// fakeSettingsTx buffers writes until Commit, mirroring a real
// transaction's isolation without needing an actual DB underneath.
type fakeSettingsTx struct {
	store   *FakeSettingsStore
	pending map[string]capability.SettingsValue
}

func (t *fakeSettingsTx) Set(ctx context.Context, key string, value capability.SettingsValue) error {
	t.pending[key] = value
	return nil
}

func (t *fakeSettingsTx) Get(ctx context.Context, key string) (capability.SettingsValue, bool, error) {
	if v, ok := t.pending[key]; ok {
		return v, true, nil
	}

	return t.store.Get(ctx, key)
}

func (t *fakeSettingsTx) Commit(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for k, v := range t.pending {
		t.store.values[k] = v
	}

	return nil
}

func (t *fakeSettingsTx) Rollback(ctx context.Context) error {
	t.pending = nil
	return nil
}

var _ capability.SettingsStore = (*FakeSettingsStore)(nil)
