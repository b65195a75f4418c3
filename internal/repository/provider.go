package repository

import (
	"context"

	"roadside/internal/domain"
)

// ProviderRepository defines the persistence operations for providers.
type ProviderRepository interface {
	// Create adds a new provider to the roster.
	Create(ctx context.Context, provider *domain.Provider) error

	// GetByID retrieves a provider by ID.
	GetByID(ctx context.Context, id string) (*domain.Provider, error)

	// GetByPhone retrieves a provider by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.Provider, error)

	// GetAvailableByServiceType retrieves AVAILABLE providers with the
	// given specialty, in roster order.
	GetAvailableByServiceType(ctx context.Context, serviceType domain.ServiceType) ([]*domain.Provider, error)

	// GetAll retrieves the full roster.
	GetAll(ctx context.Context) ([]*domain.Provider, error)

	// UpdateStatus updates the status of a provider.
	UpdateStatus(ctx context.Context, id string, status domain.ProviderStatus) error
}
