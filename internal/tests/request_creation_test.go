package tests

import (
	"context"
	"errors"
	"testing"

	"roadside/internal/domain"
	"roadside/internal/repository"
	"roadside/internal/service"
)

// newRequestService wires a RequestService against mocks. The returned
// matching mock starts with no provider configured.
func newRequestService(requestRepo *MockRequestRepository, providerRepo *MockProviderRepository) (*service.RequestService, *MockMatchingService) {
	matching := NewMockMatchingService(requestRepo)
	notifier := service.NewNotificationService(nil)
	svc := service.NewRequestService(requestRepo, providerRepo, matching, notifier, NewMockCacheStore(), NewMockETAStore())
	return svc, matching
}

func TestCreateRequest_AssignsProviderAndFixesPrice(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	svc, matching := newRequestService(requestRepo, providerRepo)

	matching.Provider = &domain.Provider{
		ID:          "provider-1",
		Name:        "Quick Tow",
		ServiceType: domain.ServiceTowing,
		Status:      domain.ProviderStatusAvailable,
	}

	resp, err := svc.CreateRequest(context.Background(), service.CreateRequestParams{
		CustomerID:  "customer-1",
		ServiceType: "towing",
		Location:    "I-95 exit 12, northbound shoulder",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := resp.Request
	if req.Status != domain.StatusAccepted {
		t.Errorf("expected status %s, got %s", domain.StatusAccepted, req.Status)
	}
	if req.ProviderName != "Quick Tow" {
		t.Errorf("expected provider Quick Tow, got %s", req.ProviderName)
	}
	// Price comes from the catalog, fixed at creation.
	if req.Price != 120.00 {
		t.Errorf("expected price 120.00, got %.2f", req.Price)
	}
	if req.ETAMinutes <= 0 {
		t.Errorf("expected a positive ETA, got %d", req.ETAMinutes)
	}
	if requestRepo.CountRequests() != 1 {
		t.Errorf("expected 1 persisted request, got %d", requestRepo.CountRequests())
	}
}

func TestCreateRequest_ValidatesInput(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	svc, _ := newRequestService(requestRepo, providerRepo)

	cases := []struct {
		name    string
		params  service.CreateRequestParams
		wantErr error
	}{
		{
			name:    "missing customer id",
			params:  service.CreateRequestParams{ServiceType: "towing", Location: "Main St"},
			wantErr: service.ErrInvalidCustomerID,
		},
		{
			name:    "missing location",
			params:  service.CreateRequestParams{CustomerID: "customer-1", ServiceType: "towing"},
			wantErr: service.ErrMissingLocation,
		},
		{
			name:    "unknown service type",
			params:  service.CreateRequestParams{CustomerID: "customer-1", ServiceType: "helicopter", Location: "Main St"},
			wantErr: service.ErrInvalidServiceType,
		},
		{
			name:    "empty service type",
			params:  service.CreateRequestParams{CustomerID: "customer-1", Location: "Main St"},
			wantErr: service.ErrInvalidServiceType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRequest(context.Background(), tc.params)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	// Nothing persisted on validation failure.
	if requestRepo.CountRequests() != 0 {
		t.Errorf("expected 0 requests, got %d", requestRepo.CountRequests())
	}
}

func TestCreateRequest_NoProviderLeavesNothingBehind(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	svc, matching := newRequestService(requestRepo, providerRepo)

	// matching.Provider stays nil: no provider for this specialty.
	_, err := svc.CreateRequest(context.Background(), service.CreateRequestParams{
		CustomerID:  "customer-1",
		ServiceType: "locksmith",
		Location:    "4th and Pine",
	})
	if !errors.Is(err, service.ErrNoProviderAvailable) {
		t.Fatalf("expected ErrNoProviderAvailable, got %v", err)
	}

	// The unmatched request must be removed again.
	if requestRepo.CountRequests() != 0 {
		t.Errorf("expected 0 requests after failed match, got %d", requestRepo.CountRequests())
	}
	if matching.MatchCallCount != 1 {
		t.Errorf("expected 1 match attempt, got %d", matching.MatchCallCount)
	}
}

func TestCreateRequest_RejectsSecondActiveRequest(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	svc, matching := newRequestService(requestRepo, providerRepo)

	matching.Provider = &domain.Provider{
		ID:          "provider-1",
		Name:        "Spark Crew",
		ServiceType: domain.ServiceEmergency,
		Status:      domain.ProviderStatusAvailable,
	}

	if _, err := svc.CreateRequest(context.Background(), service.CreateRequestParams{
		CustomerID:  "customer-1",
		ServiceType: "emergency",
		Location:    "Hwy 9 mile 42",
	}); err != nil {
		t.Fatalf("unexpected error on first request: %v", err)
	}

	_, err := svc.CreateRequest(context.Background(), service.CreateRequestParams{
		CustomerID:  "customer-1",
		ServiceType: "flat-tire",
		Location:    "Hwy 9 mile 42",
	})
	if !errors.Is(err, service.ErrActiveRequestExists) {
		t.Errorf("expected ErrActiveRequestExists, got %v", err)
	}

	if requestRepo.CountRequests() != 1 {
		t.Errorf("expected 1 request, got %d", requestRepo.CountRequests())
	}
}

func TestCreateRequest_DuplicateInsertMapsToActiveRequest(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	svc, _ := newRequestService(requestRepo, providerRepo)

	// A concurrent submission can pass the active-request read before the
	// first insert commits; the unique index then rejects the insert.
	requestRepo.CreateError = repository.ErrDuplicate

	_, err := svc.CreateRequest(context.Background(), service.CreateRequestParams{
		CustomerID:  "customer-1",
		ServiceType: "towing",
		Location:    "I-95 exit 12",
	})
	if !errors.Is(err, service.ErrActiveRequestExists) {
		t.Errorf("expected ErrActiveRequestExists, got %v", err)
	}
}

func TestCreateRequest_AllowsNewRequestAfterTerminal(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	svc, matching := newRequestService(requestRepo, providerRepo)

	matching.Provider = &domain.Provider{
		ID:          "provider-1",
		Name:        "Spark Crew",
		ServiceType: domain.ServiceEmergency,
		Status:      domain.ProviderStatusAvailable,
	}

	resp, err := svc.CreateRequest(context.Background(), service.CreateRequestParams{
		CustomerID:  "customer-1",
		ServiceType: "emergency",
		Location:    "Hwy 9 mile 42",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cancel the first request; the customer may then submit again.
	if _, err := svc.Cancel(context.Background(), service.CancelParams{
		RequestID:   resp.Request.ID,
		CancelledBy: "customer-1",
	}); err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}

	matching.Provider.Status = domain.ProviderStatusAvailable

	if _, err := svc.CreateRequest(context.Background(), service.CreateRequestParams{
		CustomerID:  "customer-1",
		ServiceType: "emergency",
		Location:    "Hwy 9 mile 43",
	}); err != nil {
		t.Errorf("expected new request after cancellation, got %v", err)
	}
}

func TestGetStatusView_ServedFromCacheAfterMiss(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	cacheStore := NewMockCacheStore()
	matching := NewMockMatchingService(requestRepo)
	notifier := service.NewNotificationService(nil)
	svc := service.NewRequestService(requestRepo, providerRepo, matching, notifier, cacheStore, NewMockETAStore())

	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:           "req-1",
		CustomerID:   "customer-1",
		ServiceType:  domain.ServiceFlatTire,
		Status:       domain.StatusEnRoute,
		ProviderName: "Quick Tow",
	})

	// First read misses the cache and refills it.
	view, err := svc.GetStatusView(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Status != domain.StatusEnRoute {
		t.Errorf("expected status %s, got %s", domain.StatusEnRoute, view.Status)
	}
	if !cacheStore.HasEntry("req-1") {
		t.Error("expected cache to be refilled after miss")
	}

	// Second read is served from cache.
	getsBefore := cacheStore.GetCallCount
	if _, err := svc.GetStatusView(context.Background(), "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cacheStore.GetCallCount != getsBefore+1 {
		t.Errorf("expected one more cache read, got %d", cacheStore.GetCallCount-getsBefore)
	}
	if cacheStore.SetCallCount != 1 {
		t.Errorf("expected a single cache fill, got %d", cacheStore.SetCallCount)
	}
}
