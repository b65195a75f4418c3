package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roadside/internal/repository"
	"roadside/internal/service"
)

// ErrorResponse is the failure envelope shared by all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Success: false, Message: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found. No provider available is a 404 by API contract: the
	// submission fails and nothing is persisted as active.
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoProviderAvailable):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidRequestID),
		errors.Is(err, service.ErrInvalidServiceType),
		errors.Is(err, service.ErrMissingLocation),
		errors.Is(err, service.ErrInvalidStatusValue),
		errors.Is(err, service.ErrServiceNotesRequired),
		errors.Is(err, service.ErrInvalidProviderID),
		errors.Is(err, service.ErrMissingProviderDetails),
		errors.Is(err, service.ErrInvalidProviderStatus),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidPaymentAmount),
		errors.Is(err, service.ErrPaymentAmountMismatch),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrRequestNotCompleted),
		errors.Is(err, service.ErrInvalidSubmitterID),
		errors.Is(err, service.ErrInvalidFeedbackRole),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrCommentTooLong),
		errors.Is(err, service.ErrRequestNotFinished):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrActiveRequestExists),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRequestNotInRequestedState),
		errors.Is(err, service.ErrRequestCannotBeCancelled),
		errors.Is(err, service.ErrProviderBusy),
		errors.Is(err, service.ErrFeedbackAlreadySubmitted):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
