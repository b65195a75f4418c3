package repository

import (
	"context"

	"roadside/internal/domain"
)

// FeedbackRepository defines the persistence operations for feedback.
type FeedbackRepository interface {
	// Create persists a new feedback entry. Returns ErrDuplicate when the
	// same role already rated the request.
	Create(ctx context.Context, fb *domain.Feedback) error

	// GetByRequestID retrieves all feedback left on a request.
	GetByRequestID(ctx context.Context, requestID string) ([]*domain.Feedback, error)
}
