package repository

import (
	"context"

	"roadside/internal/domain"
)

// RequestRepository defines the persistence operations for service requests.
type RequestRepository interface {
	// Create persists a new service request.
	Create(ctx context.Context, req *domain.ServiceRequest) error

	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error)

	// GetActiveByCustomerID retrieves the customer's live (non-terminal)
	// request. Returns nil if the customer has none.
	GetActiveByCustomerID(ctx context.Context, customerID string) (*domain.ServiceRequest, error)

	// GetOpen retrieves all non-terminal requests, newest first.
	GetOpen(ctx context.Context) ([]*domain.ServiceRequest, error)

	// GetByStatus retrieves all requests currently in the given status.
	GetByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.ServiceRequest, error)

	// Update updates an existing request.
	Update(ctx context.Context, req *domain.ServiceRequest) error

	// UpdateFromStatus updates an existing request only if its stored
	// status still equals from. Returns ErrStatusConflict when a
	// concurrent writer got there first.
	UpdateFromStatus(ctx context.Context, req *domain.ServiceRequest, from domain.RequestStatus) error

	// Delete removes a request. Used when matching fails at creation so
	// no unmatched request is left behind as active.
	Delete(ctx context.Context, id string) error
}
