package service

import "errors"

var (
	// ErrNoProviderAvailable is returned when no provider with the requested
	// specialty can be matched.
	ErrNoProviderAvailable = errors.New("no provider available for requested service")

	// ErrRequestNotInRequestedState is returned when trying to match a
	// request that is not in REQUESTED state.
	ErrRequestNotInRequestedState = errors.New("request not in requested state")

	// ErrInvalidCustomerID is returned when the customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidRequestID is returned when the request ID is empty.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrInvalidServiceType is returned when the service type is missing or
	// not in the catalog.
	ErrInvalidServiceType = errors.New("invalid service type")

	// ErrMissingLocation is returned when the location is empty.
	ErrMissingLocation = errors.New("location is required")

	// ErrActiveRequestExists is returned when the customer already has a
	// live request. Only one non-terminal request per customer is allowed.
	ErrActiveRequestExists = errors.New("customer already has an active request")

	// ErrInvalidStatusValue is returned when a status update names an
	// unknown status.
	ErrInvalidStatusValue = errors.New("invalid status value")

	// ErrInvalidTransition is returned when a status change would skip a
	// step, move backwards, or touch a terminal request.
	ErrInvalidTransition = errors.New("status transition not permitted")

	// ErrServiceNotesRequired is returned when completion is attempted
	// without the provider's sign-off notes.
	ErrServiceNotesRequired = errors.New("service notes required to complete request")

	// ErrRequestCannotBeCancelled is returned when cancellation is attempted
	// at or after COMPLETED.
	ErrRequestCannotBeCancelled = errors.New("request cannot be cancelled in current state")

	// ErrRequestNotCompleted is returned when payment is attempted before
	// the request reaches COMPLETED.
	ErrRequestNotCompleted = errors.New("request not completed")

	// ErrInvalidProviderID is returned when the provider ID is empty.
	ErrInvalidProviderID = errors.New("invalid provider id")

	// ErrMissingProviderDetails is returned when registration lacks a name
	// or phone number.
	ErrMissingProviderDetails = errors.New("provider name and phone are required")

	// ErrProviderBusy is returned when a provider on an active job tries to
	// change availability manually.
	ErrProviderBusy = errors.New("provider is busy on an active request")

	// ErrInvalidProviderStatus is returned for an unknown availability value.
	ErrInvalidProviderStatus = errors.New("invalid provider status")

	// ErrInvalidPaymentID is returned when the payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrInvalidPaymentAmount is returned when the payment amount is not positive.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrPaymentAmountMismatch is returned when the offered amount differs
	// from the price fixed at creation.
	ErrPaymentAmountMismatch = errors.New("payment amount does not match request price")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidSubmitterID is returned when feedback names no submitter.
	ErrInvalidSubmitterID = errors.New("invalid submitter id")

	// ErrInvalidFeedbackRole is returned for an unknown feedback role.
	ErrInvalidFeedbackRole = errors.New("invalid feedback role")

	// ErrInvalidRating is returned when a rating falls outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrCommentTooLong is returned when a feedback comment exceeds the
	// length limit.
	ErrCommentTooLong = errors.New("feedback comment too long")

	// ErrRequestNotFinished is returned when feedback is attempted before
	// the request reaches COMPLETED or PAID.
	ErrRequestNotFinished = errors.New("request not finished")

	// ErrFeedbackAlreadySubmitted is returned when the same role rates a
	// request twice.
	ErrFeedbackAlreadySubmitted = errors.New("feedback already submitted for this request")
)
