package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// PaymentMethod represents how the customer pays at completion.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodWallet PaymentMethod = "WALLET"
)

// Payment represents a payment for a completed service request.
type Payment struct {
	ID             string
	RequestID      string
	Amount         float64
	Method         PaymentMethod
	Status         PaymentStatus
	TransactionID  string
	IdempotencyKey string
	CreatedAt      time.Time
}
