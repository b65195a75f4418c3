package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireProviderLock attempts to acquire a lock for the given provider so
// two concurrent matches cannot assign the same provider.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireProviderLock(ctx context.Context, providerID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:provider:%s", providerID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseProviderLock releases the lock for the given provider.
func (s *LockStore) ReleaseProviderLock(ctx context.Context, providerID string) error {
	key := fmt.Sprintf("lock:provider:%s", providerID)

	return s.client.Del(ctx, key).Err()
}

// AcquireRequestLock locks a request during matching to prevent concurrent
// assignment of two providers to the same request.
func (s *LockStore) AcquireRequestLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:request:%s", requestID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseRequestLock releases the matching lock for the given request.
func (s *LockStore) ReleaseRequestLock(ctx context.Context, requestID string) error {
	key := fmt.Sprintf("lock:request:%s", requestID)

	return s.client.Del(ctx, key).Err()
}
