package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"roadside/internal/domain"
	"roadside/internal/repository"
)

// ProviderService handles provider roster operations.
type ProviderService struct {
	providerRepo repository.ProviderRepository
}

// NewProviderService creates a new ProviderService.
func NewProviderService(providerRepo repository.ProviderRepository) *ProviderService {
	return &ProviderService{providerRepo: providerRepo}
}

// RegisterProviderParams contains the parameters for registering a provider.
type RegisterProviderParams struct {
	Name        string
	Phone       string
	ServiceType string
	Plate       string
}

// Register adds a provider to the roster as AVAILABLE. Registration is
// keyed by phone number; re-registering returns the existing provider.
func (s *ProviderService) Register(ctx context.Context, params RegisterProviderParams) (*domain.Provider, bool, error) {
	if params.Name == "" || params.Phone == "" {
		return nil, false, ErrMissingProviderDetails
	}

	serviceType := domain.ServiceType(params.ServiceType)
	if _, ok := domain.Catalog[serviceType]; !ok {
		return nil, false, ErrInvalidServiceType
	}

	existing, err := s.providerRepo.GetByPhone(ctx, params.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	provider := &domain.Provider{
		ID:          uuid.New().String(),
		Name:        params.Name,
		Phone:       params.Phone,
		ServiceType: serviceType,
		Status:      domain.ProviderStatusAvailable,
		Plate:       params.Plate,
	}

	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return nil, false, err
	}

	return provider, true, nil
}

// SetAvailability toggles a provider between AVAILABLE and OFFLINE.
// BUSY is owned by assignment and completion; a provider on an active job
// cannot change availability manually.
func (s *ProviderService) SetAvailability(ctx context.Context, providerID string, status domain.ProviderStatus) (*domain.Provider, error) {
	if providerID == "" {
		return nil, ErrInvalidProviderID
	}

	if status != domain.ProviderStatusAvailable && status != domain.ProviderStatusOffline {
		return nil, ErrInvalidProviderStatus
	}

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if provider.Status == domain.ProviderStatusBusy {
		return nil, ErrProviderBusy
	}

	if err := s.providerRepo.UpdateStatus(ctx, providerID, status); err != nil {
		return nil, err
	}

	provider.Status = status
	return provider, nil
}

// ListProviders retrieves the full roster.
func (s *ProviderService) ListProviders(ctx context.Context) ([]*domain.Provider, error) {
	return s.providerRepo.GetAll(ctx)
}
