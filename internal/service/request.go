package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"roadside/internal/domain"
	"roadside/internal/redis"
	"roadside/internal/repository"
)

// MatchingServiceInterface defines the matching contract.
// This interface allows for testing with mock implementations.
type MatchingServiceInterface interface {
	Match(ctx context.Context, req MatchRequest) (*MatchResult, error)
}

// Ensure MatchingService implements MatchingServiceInterface.
var _ MatchingServiceInterface = (*MatchingService)(nil)

// RequestService owns the request lifecycle: creation, the status state
// machine, and cancellation. Every transition goes through the legality
// table in the domain package, so a stale writer (simulator tick racing an
// explicit provider action) fails the check instead of clobbering fresher
// state.
type RequestService struct {
	requestRepo  repository.RequestRepository
	providerRepo repository.ProviderRepository
	matching     MatchingServiceInterface
	notifier     *NotificationService
	cacheStore   redis.CacheStoreInterface
	etaStore     redis.ETAStoreInterface
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repository.RequestRepository,
	providerRepo repository.ProviderRepository,
	matching MatchingServiceInterface,
	notifier *NotificationService,
	cacheStore redis.CacheStoreInterface,
	etaStore redis.ETAStoreInterface,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		providerRepo: providerRepo,
		matching:     matching,
		notifier:     notifier,
		cacheStore:   cacheStore,
		etaStore:     etaStore,
	}
}

// CreateRequestParams contains the parameters for creating a request.
type CreateRequestParams struct {
	CustomerID  string
	ServiceType string
	Location    string
}

// CreateRequestResponse contains the result of creating a request.
type CreateRequestResponse struct {
	Request *domain.ServiceRequest
}

// CreateRequest validates the submission, fixes the price from the catalog,
// persists the request and matches a provider synchronously. If no provider
// with the requested specialty is available, the request is removed again:
// a failed submission never leaves an active request behind.
func (s *RequestService) CreateRequest(ctx context.Context, params CreateRequestParams) (*CreateRequestResponse, error) {
	if params.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if params.Location == "" {
		return nil, ErrMissingLocation
	}

	serviceType := domain.ServiceType(params.ServiceType)
	price, ok := domain.PriceFor(serviceType)
	if !ok {
		return nil, ErrInvalidServiceType
	}

	// One live request per customer.
	active, err := s.requestRepo.GetActiveByCustomerID(ctx, params.CustomerID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveRequestExists
	}

	request := &domain.ServiceRequest{
		ID:          uuid.New().String(),
		CustomerID:  params.CustomerID,
		ServiceType: serviceType,
		Location:    params.Location,
		Status:      domain.StatusRequested,
		Price:       price,
		CreatedAt:   time.Now(),
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		// A concurrent submission may slip past the active-request read;
		// the partial unique index catches it at insert time.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrActiveRequestExists
		}
		return nil, err
	}

	result, err := s.matching.Match(ctx, MatchRequest{
		RequestID:   request.ID,
		ServiceType: serviceType,
	})
	if err != nil {
		// No match means no persisted active request.
		_ = s.requestRepo.Delete(ctx, request.ID)
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyStatusChanged(ctx, result.Request)
	}

	return &CreateRequestResponse{Request: result.Request}, nil
}

// GetRequest retrieves the full request record.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*domain.ServiceRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	return s.requestRepo.GetByID(ctx, requestID)
}

// StatusView is the polled customer view of a request.
type StatusView struct {
	RequestID    string
	Status       domain.RequestStatus
	ProviderName string
	ETAMinutes   int
}

// GetStatusView returns the current status, provider name and decayed ETA
// for a request. The hot path is served from cache; misses fall through to
// the repository and refill it.
func (s *RequestService) GetStatusView(ctx context.Context, requestID string) (*StatusView, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetStatus(ctx, requestID)
		if err == nil && cached != nil {
			return &StatusView{
				RequestID:    cached.ID,
				Status:       domain.RequestStatus(cached.Status),
				ProviderName: cached.ProviderName,
				ETAMinutes:   cached.ETAMinutes,
			}, nil
		}
		// Cache errors degrade to a repository read.
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	view := &StatusView{
		RequestID:    request.ID,
		Status:       request.Status,
		ProviderName: request.ProviderName,
		ETAMinutes:   s.displayETA(ctx, request),
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetStatus(ctx, &redis.CachedStatus{
			ID:           view.RequestID,
			Status:       string(view.Status),
			ProviderName: view.ProviderName,
			ETAMinutes:   view.ETAMinutes,
		})
	}

	return view, nil
}

// displayETA prefers the countdown store; when it has no entry the value is
// derived from the request's own baseline timestamps.
func (s *RequestService) displayETA(ctx context.Context, request *domain.ServiceRequest) int {
	if request.Status != domain.StatusAccepted && request.Status != domain.StatusEnRoute {
		return 0
	}
	if s.etaStore != nil {
		if minutes, ok, err := s.etaStore.Remaining(ctx, request.ID, time.Now()); err == nil && ok {
			return minutes
		}
	}
	return request.ETARemaining(time.Now())
}

// ListOpen retrieves all non-terminal requests for the provider view.
func (s *RequestService) ListOpen(ctx context.Context) ([]*domain.ServiceRequest, error) {
	return s.requestRepo.GetOpen(ctx)
}

// GetByStatus retrieves all requests in a given status.
func (s *RequestService) GetByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.ServiceRequest, error) {
	return s.requestRepo.GetByStatus(ctx, status)
}

// AdvanceParams contains the parameters for a provider-driven status change.
type AdvanceParams struct {
	RequestID    string
	Target       domain.RequestStatus
	ServiceNotes string
}

// Advance moves a request exactly one step forward along the lifecycle.
// ACCEPTED is reserved for matching and PAID for the payment flow; EN_ROUTE,
// ARRIVED and COMPLETED are the provider's explicit actions. Completion
// requires sign-off notes. A CANCELLED target is routed to Cancel.
func (s *RequestService) Advance(ctx context.Context, params AdvanceParams) (*domain.ServiceRequest, error) {
	if params.RequestID == "" {
		return nil, ErrInvalidRequestID
	}
	if !params.Target.IsValid() {
		return nil, ErrInvalidStatusValue
	}

	if params.Target == domain.StatusCancelled {
		return s.Cancel(ctx, CancelParams{
			RequestID:   params.RequestID,
			CancelledBy: "provider",
		})
	}

	switch params.Target {
	case domain.StatusEnRoute, domain.StatusArrived, domain.StatusCompleted:
		// Provider actions.
	default:
		// REQUESTED/ACCEPTED/PAID are owned by creation, matching and
		// payment respectively.
		return nil, ErrInvalidTransition
	}

	request, err := s.requestRepo.GetByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(request.Status, params.Target) {
		return nil, ErrInvalidTransition
	}

	from := request.Status
	now := time.Now()
	switch params.Target {
	case domain.StatusEnRoute:
		request.EnRouteAt = now
		if s.etaStore != nil {
			_ = s.etaStore.StartDecay(ctx, request.ID, now)
		}
	case domain.StatusArrived:
		if s.etaStore != nil {
			_ = s.etaStore.Clear(ctx, request.ID)
		}
	case domain.StatusCompleted:
		if params.ServiceNotes == "" {
			return nil, ErrServiceNotesRequired
		}
		request.ServiceNotes = params.ServiceNotes
		request.CompletedAt = now
		if s.etaStore != nil {
			_ = s.etaStore.Clear(ctx, request.ID)
		}
	}

	request.Status = params.Target

	// Guarded write: the row must still hold the status we read. A stale
	// advance that raced a cancel (or another advance) loses here instead
	// of overwriting the fresher state.
	if err := s.requestRepo.UpdateFromStatus(ctx, request, from); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	// The provider's job is done at completion; free them for the next
	// request.
	if params.Target == domain.StatusCompleted && request.ProviderID != "" {
		if err := s.providerRepo.UpdateStatus(ctx, request.ProviderID, domain.ProviderStatusAvailable); err != nil &&
			!errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	s.invalidateStatus(ctx, request.ID)

	if s.notifier != nil {
		_ = s.notifier.NotifyStatusChanged(ctx, request)
	}

	return request, nil
}

// CancelParams contains the parameters for cancelling a request.
type CancelParams struct {
	RequestID   string
	CancelledBy string // customer or provider id
	Reason      string
}

// maxCancelRetries bounds how often Cancel re-reads after losing a guarded
// write to a concurrent status change.
const maxCancelRetries = 3

// Cancel marks a request CANCELLED, frees the assigned provider, and halts
// the countdown. Cancelling an already-cancelled request is a no-op that
// returns the request unchanged. The write is guarded on the status read;
// losing the guard to a concurrent writer triggers a re-read, so a cancel
// racing a completion is rejected rather than applied on top of it.
func (s *RequestService) Cancel(ctx context.Context, params CancelParams) (*domain.ServiceRequest, error) {
	if params.RequestID == "" {
		return nil, ErrInvalidRequestID
	}

	var request *domain.ServiceRequest
	for attempt := 0; ; attempt++ {
		var err error
		request, err = s.requestRepo.GetByID(ctx, params.RequestID)
		if err != nil {
			return nil, err
		}

		if request.Status == domain.StatusCancelled {
			return request, nil
		}

		if !request.Status.Cancellable() {
			return nil, ErrRequestCannotBeCancelled
		}

		from := request.Status
		request.Status = domain.StatusCancelled
		request.CancelledAt = time.Now()
		request.CancelReason = params.Reason

		err = s.requestRepo.UpdateFromStatus(ctx, request, from)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrStatusConflict) {
			return nil, err
		}
		if attempt >= maxCancelRetries {
			return nil, ErrRequestCannotBeCancelled
		}
	}

	if request.ProviderID != "" {
		if err := s.providerRepo.UpdateStatus(ctx, request.ProviderID, domain.ProviderStatusAvailable); err != nil &&
			!errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if s.etaStore != nil {
		_ = s.etaStore.Clear(ctx, request.ID)
	}
	s.invalidateStatus(ctx, request.ID)

	if s.notifier != nil {
		_ = s.notifier.NotifyStatusChanged(ctx, request)
	}

	return request, nil
}

func (s *RequestService) invalidateStatus(ctx context.Context, requestID string) {
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateStatus(ctx, requestID)
	}
}
