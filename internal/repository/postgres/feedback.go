package postgres

import (
	"context"
	"database/sql"

	"roadside/internal/domain"
	"roadside/internal/repository"
)

// FeedbackRepository is a PostgreSQL implementation of repository.FeedbackRepository.
type FeedbackRepository struct {
	q Querier
}

// NewFeedbackRepository creates a new PostgreSQL feedback repository.
func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{q: db}
}

// Create persists a new feedback entry. The unique index on
// (request_id, role) maps to ErrDuplicate.
func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	query := `
		INSERT INTO feedback (id, request_id, submitted_by, role, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		fb.ID,
		fb.RequestID,
		fb.SubmittedBy,
		fb.Role,
		fb.Rating,
		nullString(fb.Comment),
		fb.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// GetByRequestID retrieves all feedback left on a request, oldest first.
func (r *FeedbackRepository) GetByRequestID(ctx context.Context, requestID string) ([]*domain.Feedback, error) {
	query := `
		SELECT id, request_id, submitted_by, role, rating, comment, created_at
		FROM feedback
		WHERE request_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		var comment sql.NullString
		if err := rows.Scan(&fb.ID, &fb.RequestID, &fb.SubmittedBy, &fb.Role, &fb.Rating, &comment, &fb.CreatedAt); err != nil {
			return nil, err
		}
		fb.Comment = comment.String
		entries = append(entries, &fb)
	}
	return entries, rows.Err()
}
