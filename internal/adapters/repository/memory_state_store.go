package repository

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

var _ domain.StateStore = (*InMemoryStateStore)(nil)

type InMemoryStateStore struct {
	store map[string][]byte

	mu sync.RWMutex
}

func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		store: make(map[string][]byte),
	}
}

func (r *InMemoryStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blob, ok := r.store[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return append([]byte(nil), blob...), nil
}

func (r *InMemoryStateStore) Put(ctx context.Context, key string, blob []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[key] = append([]byte(nil), blob...)
	return nil
}

func (r *InMemoryStateStore) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.store))
	for k := range r.store {
		keys = append(keys, k)
	}
	return keys
}
