package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"roadside/internal/domain"
	"roadside/internal/redis"
	"roadside/internal/repository"
	"roadside/internal/repository/postgres"
)

const (
	providerLockTTL = 10 * time.Second
	requestLockTTL  = 30 * time.Second // lock request during matching

	// defaultETAMinutes is the arrival estimate fixed at acceptance.
	defaultETAMinutes = 15
)

// MatchingService assigns an available provider to a new request.
type MatchingService struct {
	db           *sql.DB
	lockStore    redis.LockStoreInterface
	etaStore     redis.ETAStoreInterface
	cacheStore   redis.CacheStoreInterface
	providerRepo repository.ProviderRepository
	requestRepo  repository.RequestRepository
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(
	db *sql.DB,
	lockStore redis.LockStoreInterface,
	etaStore redis.ETAStoreInterface,
	cacheStore redis.CacheStoreInterface,
	providerRepo repository.ProviderRepository,
	requestRepo repository.RequestRepository,
) *MatchingService {
	return &MatchingService{
		db:           db,
		lockStore:    lockStore,
		etaStore:     etaStore,
		cacheStore:   cacheStore,
		providerRepo: providerRepo,
		requestRepo:  requestRepo,
	}
}

// MatchRequest contains the parameters for matching a request.
type MatchRequest struct {
	RequestID   string
	ServiceType domain.ServiceType
}

// MatchResult contains the result of a successful match.
type MatchResult struct {
	Provider *domain.Provider
	Request  *domain.ServiceRequest
}

// Match finds the first available provider with the requested specialty and
// assigns it atomically. Per-provider locks prevent two concurrent matches
// from claiming the same provider; the request lock prevents two providers
// from being assigned to one request.
func (s *MatchingService) Match(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRequestLock(ctx, req.RequestID, requestLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			// Another matching process is handling this request.
			return nil, ErrRequestNotInRequestedState
		}
		defer s.lockStore.ReleaseRequestLock(ctx, req.RequestID)
	}

	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	if request.Status != domain.StatusRequested {
		return nil, ErrRequestNotInRequestedState
	}

	candidates, err := s.providerRepo.GetAvailableByServiceType(ctx, req.ServiceType)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, ErrNoProviderAvailable
	}

	for _, candidate := range candidates {
		if s.lockStore != nil {
			locked, err := s.lockStore.AcquireProviderLock(ctx, candidate.ID, providerLockTTL)
			if err != nil {
				return nil, err
			}
			if !locked {
				// Provider is being assigned to another request.
				continue
			}
		}

		// Re-verify under the lock; the roster query may be stale.
		fresh, err := s.providerRepo.GetByID(ctx, candidate.ID)
		if err != nil {
			s.releaseProviderLock(ctx, candidate.ID)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}

		if fresh.Status != domain.ProviderStatusAvailable {
			s.releaseProviderLock(ctx, candidate.ID)
			continue
		}

		result, err := s.assignProvider(ctx, request, fresh)
		if err != nil {
			s.releaseProviderLock(ctx, candidate.ID)
			return nil, err
		}

		if s.etaStore != nil {
			_ = s.etaStore.SetBaseline(ctx, request.ID, result.Request.ETAMinutes)
		}
		if s.cacheStore != nil {
			_ = s.cacheStore.InvalidateStatus(ctx, request.ID)
		}

		// Success - provider lock expires via TTL.
		return result, nil
	}

	return nil, ErrNoProviderAvailable
}

func (s *MatchingService) releaseProviderLock(ctx context.Context, providerID string) {
	if s.lockStore != nil {
		_ = s.lockStore.ReleaseProviderLock(ctx, providerID)
	}
}

// assignProvider moves the request to ACCEPTED and the provider to BUSY in
// one transaction.
func (s *MatchingService) assignProvider(ctx context.Context, request *domain.ServiceRequest, provider *domain.Provider) (*MatchResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txRequestRepo := postgres.NewRequestRepositoryWithTx(tx)
	txProviderRepo := postgres.NewProviderRepositoryWithTx(tx)

	request.Status = domain.StatusAccepted
	request.ProviderID = provider.ID
	request.ProviderName = provider.Name
	request.ETAMinutes = defaultETAMinutes
	request.AcceptedAt = time.Now()

	// Guarded on REQUESTED: a cancel landing between the match read and
	// this write aborts the assignment.
	if err = txRequestRepo.UpdateFromStatus(ctx, request, domain.StatusRequested); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			err = ErrRequestNotInRequestedState
		}
		return nil, err
	}

	if err = txProviderRepo.UpdateStatus(ctx, provider.ID, domain.ProviderStatusBusy); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	provider.Status = domain.ProviderStatusBusy

	return &MatchResult{
		Provider: provider,
		Request:  request,
	}, nil
}
