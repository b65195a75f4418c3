package domain

import "time"

// FeedbackRole identifies which side of a finished request is rating the
// other. Each role may submit at most once per request.
type FeedbackRole string

const (
	FeedbackRoleCustomer FeedbackRole = "CUSTOMER" // customer rates the provider
	FeedbackRoleProvider FeedbackRole = "PROVIDER" // provider rates the customer
)

// IsValid reports whether r is a known feedback role.
func (r FeedbackRole) IsValid() bool {
	return r == FeedbackRoleCustomer || r == FeedbackRoleProvider
}

// Rating bounds and comment limit for feedback submissions.
const (
	MinFeedbackRating        = 1
	MaxFeedbackRating        = 5
	MaxFeedbackCommentLength = 500
)

// Feedback is one rating left on a finished request.
type Feedback struct {
	ID          string
	RequestID   string
	SubmittedBy string // id of the rater
	Role        FeedbackRole
	Rating      int
	Comment     string
	CreatedAt   time.Time
}
