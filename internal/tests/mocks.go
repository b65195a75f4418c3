package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"roadside/internal/domain"
	"roadside/internal/redis"
	"roadside/internal/repository"
	"roadside/internal/service"
)

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.ServiceRequest

	// Counters for verification
	CreateCallCount           int32
	UpdateCallCount           int32
	UpdateFromStatusCallCount int32
	DeleteCallCount           int32

	// Error injection
	CreateError           error
	UpdateError           error
	UpdateFromStatusError error
	DeleteError           error

	// GetByIDHook runs after GetByID has taken its snapshot, letting a
	// test mutate the store while the caller still holds the stale read.
	GetByIDHook func(id string)
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.ServiceRequest),
	}
}

// AddRequest adds a request to the mock repository.
func (m *MockRequestRepository) AddRequest(req *domain.ServiceRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
}

func (m *MockRequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	m.mu.RLock()
	req, ok := m.requests[id]
	if !ok {
		m.mu.RUnlock()
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *req
	m.mu.RUnlock()

	if m.GetByIDHook != nil {
		m.GetByIDHook(id)
	}
	return &copy, nil
}

func (m *MockRequestRepository) GetActiveByCustomerID(ctx context.Context, customerID string) (*domain.ServiceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.requests {
		if r.CustomerID == customerID && !r.Status.IsTerminal() {
			copy := *r
			return &copy, nil
		}
	}
	return nil, nil // No active request
}

func (m *MockRequestRepository) GetOpen(ctx context.Context) ([]*domain.ServiceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ServiceRequest, 0, len(m.requests))
	for _, r := range m.requests {
		if r.Status.IsTerminal() {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRequestRepository) GetByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.ServiceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ServiceRequest, 0)
	for _, r := range m.requests {
		if r.Status == status {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRequestRepository) Update(ctx context.Context, req *domain.ServiceRequest) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		return repository.ErrNotFound
	}
	m.requests[req.ID] = req
	return nil
}

func (m *MockRequestRepository) UpdateFromStatus(ctx context.Context, req *domain.ServiceRequest, from domain.RequestStatus) error {
	atomic.AddInt32(&m.UpdateFromStatusCallCount, 1)
	if m.UpdateFromStatusError != nil {
		return m.UpdateFromStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.requests[req.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrStatusConflict
	}
	m.requests[req.ID] = req
	return nil
}

func (m *MockRequestRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.requests, id)
	return nil
}

// GetRequest returns the request by ID (for test assertions).
func (m *MockRequestRepository) GetRequest(id string) *domain.ServiceRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[id]
}

// CountRequests returns the number of requests.
func (m *MockRequestRepository) CountRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// ──────────────────────────────────────────────
// MOCK PROVIDER REPOSITORY
// ──────────────────────────────────────────────

// MockProviderRepository is a mock implementation of ProviderRepository.
type MockProviderRepository struct {
	mu        sync.RWMutex
	providers map[string]*domain.Provider
	order     []string

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockProviderRepository creates a new mock provider repository.
func NewMockProviderRepository() *MockProviderRepository {
	return &MockProviderRepository{
		providers: make(map[string]*domain.Provider),
	}
}

// AddProvider adds a provider to the mock repository.
func (m *MockProviderRepository) AddProvider(provider *domain.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[provider.ID]; !ok {
		m.order = append(m.order, provider.ID)
	}
	m.providers[provider.ID] = provider
}

func (m *MockProviderRepository) Create(ctx context.Context, provider *domain.Provider) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[provider.ID]; !ok {
		m.order = append(m.order, provider.ID)
	}
	m.providers[provider.ID] = provider
	return nil
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	provider, ok := m.providers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *provider
	return &copy, nil
}

func (m *MockProviderRepository) GetByPhone(ctx context.Context, phone string) (*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.providers {
		if p.Phone == phone {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockProviderRepository) GetAvailableByServiceType(ctx context.Context, serviceType domain.ServiceType) ([]*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Provider, 0)
	// Roster order matters for deterministic matching assertions.
	for _, id := range m.order {
		p := m.providers[id]
		if p.ServiceType == serviceType && p.Status == domain.ProviderStatusAvailable {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockProviderRepository) GetAll(ctx context.Context) ([]*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Provider, 0, len(m.providers))
	for _, id := range m.order {
		copy := *m.providers[id]
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockProviderRepository) UpdateStatus(ctx context.Context, id string, status domain.ProviderStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	provider, ok := m.providers[id]
	if !ok {
		return repository.ErrNotFound
	}
	provider.Status = status
	return nil
}

// GetProvider returns provider for test assertions.
func (m *MockProviderRepository) GetProvider(id string) *domain.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.providers[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.IdempotencyKey == key {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil // Not found, but not an error for idempotency check
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// GetPaymentByRequestID returns the payment for a request.
func (m *MockPaymentRepository) GetPaymentByRequestID(requestID string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.RequestID == requestID {
			return p
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK FEEDBACK REPOSITORY
// ──────────────────────────────────────────────

// MockFeedbackRepository is a mock implementation of FeedbackRepository.
type MockFeedbackRepository struct {
	mu      sync.RWMutex
	entries []*domain.Feedback

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockFeedbackRepository creates a new mock feedback repository.
func NewMockFeedbackRepository() *MockFeedbackRepository {
	return &MockFeedbackRepository{}
}

func (m *MockFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.entries {
		if existing.RequestID == fb.RequestID && existing.Role == fb.Role {
			return repository.ErrDuplicate
		}
	}
	copy := *fb
	m.entries = append(m.entries, &copy)
	return nil
}

func (m *MockFeedbackRepository) GetByRequestID(ctx context.Context, requestID string) ([]*domain.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Feedback
	for _, fb := range m.entries {
		if fb.RequestID == requestID {
			copy := *fb
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountFeedback returns the number of stored entries.
func (m *MockFeedbackRepository) CountFeedback() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

func (m *MockLockStore) AcquireProviderLock(ctx context.Context, providerID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:provider:"+providerID, ttl)
}

func (m *MockLockStore) ReleaseProviderLock(ctx context.Context, providerID string) error {
	return m.release("lock:provider:" + providerID)
}

func (m *MockLockStore) AcquireRequestLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:request:"+requestID, ttl)
}

func (m *MockLockStore) ReleaseRequestLock(ctx context.Context, requestID string) error {
	return m.release("lock:request:" + requestID)
}

// IsProviderLocked checks if a provider is locked (for test assertions).
func (m *MockLockStore) IsProviderLocked(providerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:provider:"+providerID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu      sync.RWMutex
	entries map[string]*redis.CachedStatus

	// Counters
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		entries: make(map[string]*redis.CachedStatus),
	}
}

func (m *MockCacheStore) GetStatus(ctx context.Context, requestID string) (*redis.CachedStatus, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[requestID]
	if !ok {
		return nil, nil
	}
	copy := *entry
	return &copy, nil
}

func (m *MockCacheStore) SetStatus(ctx context.Context, status *redis.CachedStatus) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *status
	m.entries[status.ID] = &copy
	return nil
}

func (m *MockCacheStore) InvalidateStatus(ctx context.Context, requestID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, requestID)
	return nil
}

// HasEntry checks whether a request is cached (for test assertions).
func (m *MockCacheStore) HasEntry(requestID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[requestID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK ETA STORE
// ──────────────────────────────────────────────

// MockETAStore is a mock implementation of ETAStoreInterface.
type MockETAStore struct {
	mu        sync.RWMutex
	baselines map[string]int
	decayFrom map[string]time.Time

	// Counters
	SetBaselineCallCount int32
	StartDecayCallCount  int32
	ClearCallCount       int32
}

// NewMockETAStore creates a new mock ETA store.
func NewMockETAStore() *MockETAStore {
	return &MockETAStore{
		baselines: make(map[string]int),
		decayFrom: make(map[string]time.Time),
	}
}

func (m *MockETAStore) SetBaseline(ctx context.Context, requestID string, minutes int) error {
	atomic.AddInt32(&m.SetBaselineCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baselines[requestID] = minutes
	return nil
}

func (m *MockETAStore) StartDecay(ctx context.Context, requestID string, from time.Time) error {
	atomic.AddInt32(&m.StartDecayCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decayFrom[requestID] = from
	return nil
}

func (m *MockETAStore) Remaining(ctx context.Context, requestID string, now time.Time) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	baseline, ok := m.baselines[requestID]
	if !ok {
		return 0, false, nil
	}
	return domain.RemainingETA(baseline, m.decayFrom[requestID], now), true, nil
}

func (m *MockETAStore) Clear(ctx context.Context, requestID string) error {
	atomic.AddInt32(&m.ClearCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.baselines, requestID)
	delete(m.decayFrom, requestID)
	return nil
}

// HasBaseline checks whether a countdown exists (for test assertions).
func (m *MockETAStore) HasBaseline(requestID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.baselines[requestID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK MATCHING SERVICE
// ──────────────────────────────────────────────

// MockMatchingService is a mock implementation of MatchingServiceInterface.
// It assigns the configured provider without touching a database.
type MockMatchingService struct {
	mu sync.Mutex

	// Provider to assign; nil means no provider available.
	Provider *domain.Provider

	// Error injection overrides Provider.
	MatchError error

	// Counters
	MatchCallCount int32

	// Requests repository used to load and persist the matched request.
	Requests *MockRequestRepository
}

// NewMockMatchingService creates a new mock matching service.
func NewMockMatchingService(requests *MockRequestRepository) *MockMatchingService {
	return &MockMatchingService{Requests: requests}
}

func (m *MockMatchingService) Match(ctx context.Context, req service.MatchRequest) (*service.MatchResult, error) {
	atomic.AddInt32(&m.MatchCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.MatchError != nil {
		return nil, m.MatchError
	}
	if m.Provider == nil {
		return nil, service.ErrNoProviderAvailable
	}

	request, err := m.Requests.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	request.Status = domain.StatusAccepted
	request.ProviderID = m.Provider.ID
	request.ProviderName = m.Provider.Name
	request.ETAMinutes = 15
	request.AcceptedAt = time.Now()

	if err := m.Requests.Update(ctx, request); err != nil {
		return nil, err
	}

	m.Provider.Status = domain.ProviderStatusBusy

	return &service.MatchResult{
		Provider: m.Provider,
		Request:  request,
	}, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock payment gateway.
type MockGateway struct {
	mu sync.Mutex

	// Control behavior
	ShouldFail bool
	FailError  error

	// Counters
	ChargeCallCount int32
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Charge(ctx context.Context, amount float64) (bool, error) {
	atomic.AddInt32(&m.ChargeCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailError != nil {
		return false, m.FailError
	}
	if m.ShouldFail {
		return false, nil
	}
	return true, nil
}

// SetFailure configures the gateway to decline charges.
func (m *MockGateway) SetFailure(shouldFail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShouldFail = shouldFail
	m.FailError = err
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
