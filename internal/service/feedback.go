package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"roadside/internal/domain"
	"roadside/internal/repository"
)

// FeedbackService handles ratings on finished requests. Feedback runs both
// ways: the customer rates the provider and the provider rates the customer,
// each at most once per request.
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	requestRepo  repository.RequestRepository
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, requestRepo repository.RequestRepository) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		requestRepo:  requestRepo,
	}
}

// SubmitFeedbackParams contains the parameters for submitting feedback.
type SubmitFeedbackParams struct {
	RequestID   string
	SubmittedBy string
	Role        string
	Rating      int
	Comment     string
}

// SubmitFeedback records a rating on a request that reached COMPLETED or
// PAID. Cancelled and in-flight requests take no feedback.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, params SubmitFeedbackParams) (*domain.Feedback, error) {
	if params.RequestID == "" {
		return nil, ErrInvalidRequestID
	}
	if params.SubmittedBy == "" {
		return nil, ErrInvalidSubmitterID
	}

	role := domain.FeedbackRole(strings.ToUpper(params.Role))
	if !role.IsValid() {
		return nil, ErrInvalidFeedbackRole
	}
	if params.Rating < domain.MinFeedbackRating || params.Rating > domain.MaxFeedbackRating {
		return nil, ErrInvalidRating
	}

	comment := strings.TrimSpace(params.Comment)
	if len(comment) > domain.MaxFeedbackCommentLength {
		return nil, ErrCommentTooLong
	}

	request, err := s.requestRepo.GetByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.StatusCompleted && request.Status != domain.StatusPaid {
		return nil, ErrRequestNotFinished
	}

	feedback := &domain.Feedback{
		ID:          uuid.New().String(),
		RequestID:   params.RequestID,
		SubmittedBy: params.SubmittedBy,
		Role:        role,
		Rating:      params.Rating,
		Comment:     comment,
		CreatedAt:   time.Now(),
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrFeedbackAlreadySubmitted
		}
		return nil, err
	}

	return feedback, nil
}

// ListFeedback retrieves all feedback left on a request.
func (s *FeedbackService) ListFeedback(ctx context.Context, requestID string) ([]*domain.Feedback, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	// The request must exist; an unknown id is a 404, not an empty list.
	if _, err := s.requestRepo.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.feedbackRepo.GetByRequestID(ctx, requestID)
}
