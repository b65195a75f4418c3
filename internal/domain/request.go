package domain

import (
	"math"
	"time"
)

// RequestStatus represents the current status of a service request.
type RequestStatus string

const (
	StatusRequested RequestStatus = "REQUESTED"
	StatusAccepted  RequestStatus = "ACCEPTED"
	StatusEnRoute   RequestStatus = "EN_ROUTE"
	StatusArrived   RequestStatus = "ARRIVED"
	StatusCompleted RequestStatus = "COMPLETED"
	StatusPaid      RequestStatus = "PAID"
	StatusCancelled RequestStatus = "CANCELLED"
)

// forwardTransitions is the single legal forward path a request can take.
// CANCELLED is handled separately: it is reachable from any pre-COMPLETED state.
var forwardTransitions = map[RequestStatus]RequestStatus{
	StatusRequested: StatusAccepted,
	StatusAccepted:  StatusEnRoute,
	StatusEnRoute:   StatusArrived,
	StatusArrived:   StatusCompleted,
	StatusCompleted: StatusPaid,
}

// IsValid reports whether s is a known status value.
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusRequested, StatusAccepted, StatusEnRoute, StatusArrived,
		StatusCompleted, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Cancellable reports whether a request in this status may still be cancelled.
// Cancellation is allowed from any state before COMPLETED.
func (s RequestStatus) Cancellable() bool {
	switch s {
	case StatusRequested, StatusAccepted, StatusEnRoute, StatusArrived:
		return true
	}
	return false
}

// CanTransition reports whether moving from -> to is legal. Forward moves
// follow the fixed ordering one step at a time; the only side branch is
// CANCELLED, which is terminal.
func CanTransition(from, to RequestStatus) bool {
	if to == StatusCancelled {
		return from.Cancellable()
	}
	return forwardTransitions[from] == to
}

// ServiceRequest represents one customer request for roadside assistance.
type ServiceRequest struct {
	ID           string
	CustomerID   string
	ServiceType  ServiceType
	Location     string
	Status       RequestStatus
	ProviderID   string
	ProviderName string
	Price        float64
	ETAMinutes   int // baseline set when the request is accepted
	ServiceNotes string
	CreatedAt    time.Time
	AcceptedAt   time.Time
	EnRouteAt    time.Time // countdown baseline; zero until EN_ROUTE
	CompletedAt  time.Time
	PaidAt       time.Time
	CancelledAt  time.Time
	CancelReason string
}

// RemainingETA computes the decayed display ETA in minutes given a countdown
// baseline. The value is ceiling-rounded and clamped at a floor of 1 so the
// display never reads "0 min" while the provider is still on the way. A zero
// decayFrom means the countdown has not started and the baseline is returned
// unchanged.
func RemainingETA(baselineMinutes int, decayFrom, now time.Time) int {
	if baselineMinutes <= 0 {
		return 0
	}
	if decayFrom.IsZero() || now.Before(decayFrom) {
		return baselineMinutes
	}
	remaining := time.Duration(baselineMinutes)*time.Minute - now.Sub(decayFrom)
	if remaining <= 0 {
		return 1
	}
	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// ETARemaining returns the display ETA for the request at the given time.
// It is non-zero only while a provider is assigned and not yet arrived.
func (r *ServiceRequest) ETARemaining(now time.Time) int {
	switch r.Status {
	case StatusAccepted:
		return r.ETAMinutes
	case StatusEnRoute:
		return RemainingETA(r.ETAMinutes, r.EnRouteAt, now)
	default:
		return 0
	}
}
