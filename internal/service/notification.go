package service

import (
	"context"
	"log"
	"time"

	"roadside/internal/domain"
	"roadside/internal/events"
)

// StatusPublisher publishes lifecycle events to an external channel.
// Satisfied by *events.Publisher; nil means log-only delivery.
type StatusPublisher interface {
	PublishStatusChange(ctx context.Context, ev events.StatusEvent) error
}

// NotificationService delivers status-change notifications to both
// observers. Delivery is at most once per transition: each notification is
// sent from the single code path that performed the transition.
type NotificationService struct {
	publisher StatusPublisher
}

// NewNotificationService creates a new NotificationService. publisher may be
// nil, in which case notifications are logged only.
func NewNotificationService(publisher StatusPublisher) *NotificationService {
	return &NotificationService{publisher: publisher}
}

// NotifyStatusChanged announces a request's new status.
func (s *NotificationService) NotifyStatusChanged(ctx context.Context, req *domain.ServiceRequest) error {
	log.Printf("[NOTIFY] request=%s customer=%s provider=%s status=%s",
		req.ID, req.CustomerID, req.ProviderID, req.Status)

	if s.publisher == nil {
		return nil
	}

	err := s.publisher.PublishStatusChange(ctx, events.StatusEvent{
		RequestID:   req.ID,
		CustomerID:  req.CustomerID,
		ProviderID:  req.ProviderID,
		ServiceType: string(req.ServiceType),
		Status:      string(req.Status),
		ETAMinutes:  req.ETARemaining(time.Now()),
		OccurredAt:  time.Now(),
	})
	if err != nil {
		// Broker failures never block the request flow.
		log.Printf("[NOTIFY] publish failed for request=%s: %v", req.ID, err)
	}
	return nil
}

// NotifyPaymentResult announces the outcome of a payment attempt.
func (s *NotificationService) NotifyPaymentResult(ctx context.Context, payment *domain.Payment, customerID string) error {
	log.Printf("[NOTIFY] payment=%s request=%s customer=%s status=%s amount=%.2f",
		payment.ID, payment.RequestID, customerID, payment.Status, payment.Amount)
	return nil
}
