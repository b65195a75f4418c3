package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"roadside/internal/domain"
	"roadside/internal/redis"
	"roadside/internal/repository"
)

// PaymentGateway is the interface for a payment processor.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64) (bool, error)
}

// SimulatedGateway is a deterministic in-process gateway. Every charge is
// approved; real PSP integration is out of scope.
type SimulatedGateway struct{}

// NewSimulatedGateway creates a new simulated gateway.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

// Charge approves the payment.
func (g *SimulatedGateway) Charge(ctx context.Context, amount float64) (bool, error) {
	return true, nil
}

// PaymentService handles payment at completion. A successful payment is the
// COMPLETED -> PAID transition.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	requestRepo repository.RequestRepository
	gateway     PaymentGateway
	notifier    *NotificationService
	cacheStore  redis.CacheStoreInterface
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	requestRepo repository.RequestRepository,
	gateway PaymentGateway,
	notifier *NotificationService,
	cacheStore redis.CacheStoreInterface,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		requestRepo: requestRepo,
		gateway:     gateway,
		notifier:    notifier,
		cacheStore:  cacheStore,
	}
}

// ProcessPaymentParams contains the parameters for paying a request.
type ProcessPaymentParams struct {
	RequestID string
	Method    string
	Amount    float64
}

// ProcessPayment charges the stored price for a COMPLETED request and, on
// success, moves the request to PAID. Repeated calls for the same request
// are idempotent and return the original payment.
func (s *PaymentService) ProcessPayment(ctx context.Context, params ProcessPaymentParams) (*domain.Payment, error) {
	if params.RequestID == "" {
		return nil, ErrInvalidRequestID
	}

	method, err := ValidatePaymentMethod(params.Method)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}

	// Idempotency: a repeat attempt after success finds the request PAID.
	idempotencyKey := fmt.Sprintf("payment:%s", params.RequestID)
	existing, err := s.paymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == domain.PaymentStatusSuccess {
		return existing, nil
	}

	if request.Status != domain.StatusCompleted {
		return nil, ErrRequestNotCompleted
	}

	if params.Amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}
	if params.Amount != request.Price {
		return nil, ErrPaymentAmountMismatch
	}

	payment := existing
	if payment == nil {
		payment = &domain.Payment{
			ID:             uuid.New().String(),
			RequestID:      params.RequestID,
			Amount:         request.Price,
			Method:         method,
			Status:         domain.PaymentStatusPending,
			IdempotencyKey: idempotencyKey,
			CreatedAt:      time.Now(),
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, err
		}
	}

	approved, err := s.gateway.Charge(ctx, payment.Amount)
	if err != nil || !approved {
		payment.Status = domain.PaymentStatusFailed
		_ = s.paymentRepo.Update(ctx, payment)
		if s.notifier != nil {
			_ = s.notifier.NotifyPaymentResult(ctx, payment, request.CustomerID)
		}
		return payment, nil
	}

	payment.Status = domain.PaymentStatusSuccess
	payment.TransactionID = uuid.New().String()
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	if domain.CanTransition(request.Status, domain.StatusPaid) {
		request.Status = domain.StatusPaid
		request.PaidAt = time.Now()
		// Guarded on COMPLETED. A conflict means the row already moved;
		// the payment itself stands either way.
		if err := s.requestRepo.UpdateFromStatus(ctx, request, domain.StatusCompleted); err != nil &&
			!errors.Is(err, repository.ErrStatusConflict) {
			return nil, err
		}
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateStatus(ctx, request.ID)
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyPaymentResult(ctx, payment, request.CustomerID)
		_ = s.notifier.NotifyStatusChanged(ctx, request)
	}

	return payment, nil
}

// GetPayment retrieves a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}
	return s.paymentRepo.GetByID(ctx, paymentID)
}

// ValidatePaymentMethod validates a payment method string, case
// insensitively. An empty method defaults to CARD.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	m := domain.PaymentMethod(strings.ToUpper(method))
	switch m {
	case domain.PaymentMethodCard, domain.PaymentMethodCash, domain.PaymentMethodWallet:
		return m, nil
	case "":
		return domain.PaymentMethodCard, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
