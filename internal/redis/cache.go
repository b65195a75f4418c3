package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles request status caching in Redis. The customer view
// polls status on a fixed interval, so the hot read is served from here
// and invalidated on every transition.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// RequestCacheTTL is short because status changes drive the whole UI.
const RequestCacheTTL = 5 * time.Second

const requestCachePrefix = "cache:request:"

// CachedStatus is the polled view of a request.
type CachedStatus struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ProviderName string `json:"provider_name"`
	ETAMinutes   int    `json:"eta_minutes"`
}

// GetStatus retrieves a request's cached status view. Returns nil on a miss.
func (s *CacheStore) GetStatus(ctx context.Context, requestID string) (*CachedStatus, error) {
	data, err := s.client.Get(ctx, requestCachePrefix+requestID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cached CachedStatus
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// SetStatus stores a request's status view.
func (s *CacheStore) SetStatus(ctx context.Context, status *CachedStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, requestCachePrefix+status.ID, data, RequestCacheTTL).Err()
}

// InvalidateStatus removes a request's status view from cache.
func (s *CacheStore) InvalidateStatus(ctx context.Context, requestID string) error {
	return s.client.Del(ctx, requestCachePrefix+requestID).Err()
}
