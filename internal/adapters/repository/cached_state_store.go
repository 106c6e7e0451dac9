package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

const DefaultCacheTTL = 30 * time.Minute

var _ domain.StateStore = (*CachedStateStore)(nil)

// CachedStateStore reads through Redis and invalidates on every write.
// Redis failures only cost a trip to the underlying store.
type CachedStateStore struct {
	next  domain.StateStore
	cache *redis.Client
	ttl   time.Duration
}

func NewCachedStateStore(next domain.StateStore, cache *redis.Client, ttl time.Duration) *CachedStateStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStateStore{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

func (r *CachedStateStore) cacheKey(key string) string {
	return fmt.Sprintf("state:%s", key)
}

func (r *CachedStateStore) invalidate(ctx context.Context, key string) {
	if err := r.cache.Del(ctx, r.cacheKey(key)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate %s: %v", key, err)
	}
}

func (r *CachedStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	ck := r.cacheKey(key)

	val, err := r.cache.Get(ctx, ck).Bytes()
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	blob, err := r.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if setErr := r.cache.Set(ctx, ck, blob, r.ttl).Err(); setErr != nil {
		log.Printf("[CACHE] Redis set error: %v", setErr)
	}
	return blob, nil
}

func (r *CachedStateStore) Put(ctx context.Context, key string, blob []byte) error {
	if err := r.next.Put(ctx, key, blob); err != nil {
		return err
	}
	r.invalidate(ctx, key)
	return nil
}
