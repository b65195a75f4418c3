package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roadside/internal/domain"
	"roadside/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ProcessPaymentBody is the HTTP request body for paying a request.
type ProcessPaymentBody struct {
	Method string  `json:"paymentMethod"`
	Amount float64 `json:"amount"`
}

// PaymentResponse is the HTTP response for a payment.
type PaymentResponse struct {
	Success       bool    `json:"success"`
	PaymentID     string  `json:"paymentId"`
	RequestID     string  `json:"requestId"`
	TransactionID string  `json:"transactionId,omitempty"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

// Process handles POST /api/payment/:requestId
func (h *PaymentHandler) Process(c *gin.Context) {
	var body ProcessPaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	payment, err := h.paymentService.ProcessPayment(c.Request.Context(), service.ProcessPaymentParams{
		RequestID: c.Param("requestId"),
		Method:    body.Method,
		Amount:    body.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PaymentResponse{
		Success:       payment.Status == domain.PaymentStatusSuccess,
		PaymentID:     payment.ID,
		RequestID:     payment.RequestID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		Method:        string(payment.Method),
		Status:        string(payment.Status),
		CreatedAt:     payment.CreatedAt.Format(time.RFC3339),
	})
}

// Get handles GET /api/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PaymentResponse{
		Success:       payment.Status == domain.PaymentStatusSuccess,
		PaymentID:     payment.ID,
		RequestID:     payment.RequestID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		Method:        string(payment.Method),
		Status:        string(payment.Status),
		CreatedAt:     payment.CreatedAt.Format(time.RFC3339),
	})
}
