package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireProviderLock(ctx context.Context, providerID string, ttl time.Duration) (bool, error)
	ReleaseProviderLock(ctx context.Context, providerID string) error
	AcquireRequestLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error)
	ReleaseRequestLock(ctx context.Context, requestID string) error
}

// CacheStoreInterface defines the interface for the request status cache.
type CacheStoreInterface interface {
	GetStatus(ctx context.Context, requestID string) (*CachedStatus, error)
	SetStatus(ctx context.Context, status *CachedStatus) error
	InvalidateStatus(ctx context.Context, requestID string) error
}

// ETAStoreInterface defines the interface for the arrival countdown store.
type ETAStoreInterface interface {
	SetBaseline(ctx context.Context, requestID string, minutes int) error
	StartDecay(ctx context.Context, requestID string, from time.Time) error
	Remaining(ctx context.Context, requestID string, now time.Time) (int, bool, error)
	Clear(ctx context.Context, requestID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
	_ ETAStoreInterface   = (*ETAStore)(nil)
)
