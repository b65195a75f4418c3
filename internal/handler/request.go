package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roadside/internal/domain"
	"roadside/internal/service"
)

// RequestHandler handles HTTP requests for service requests.
type RequestHandler struct {
	requestService *service.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequestBody is the HTTP request body for creating a service request.
type CreateRequestBody struct {
	UserID      string `json:"userId"`
	Location    string `json:"location"`
	ServiceType string `json:"serviceType"`
}

// CreateRequestResponse is the HTTP response for a successful submission.
type CreateRequestResponse struct {
	Success      bool    `json:"success"`
	RequestID    string  `json:"requestId"`
	ProviderName string  `json:"providerName"`
	ETA          int     `json:"eta"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
}

// StatusResponse is the HTTP response for the polled status view.
type StatusResponse struct {
	Success      bool   `json:"success"`
	Status       string `json:"status"`
	ProviderName string `json:"providerName,omitempty"`
	ETA          int    `json:"eta"`
}

// RequestResponse is the full request record.
type RequestResponse struct {
	ID           string  `json:"id"`
	CustomerID   string  `json:"customerId"`
	ServiceType  string  `json:"serviceType"`
	Location     string  `json:"location"`
	Status       string  `json:"status"`
	ProviderID   string  `json:"providerId,omitempty"`
	ProviderName string  `json:"providerName,omitempty"`
	Price        float64 `json:"price"`
	ETA          int     `json:"eta"`
	ServiceNotes string  `json:"serviceNotes,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	CompletedAt  string  `json:"completedAt,omitempty"`
	CancelledAt  string  `json:"cancelledAt,omitempty"`
	CancelReason string  `json:"cancelReason,omitempty"`
}

// UpdateStatusBody is the HTTP request body for a provider status action.
type UpdateStatusBody struct {
	Status       string `json:"status"`
	ServiceNotes string `json:"serviceNotes,omitempty"`
}

// CancelRequestBody is the HTTP request body for cancelling a request.
type CancelRequestBody struct {
	CancelledBy string `json:"cancelledBy,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Create handles POST /api/request
func (h *RequestHandler) Create(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	result, err := h.requestService.CreateRequest(c.Request.Context(), service.CreateRequestParams{
		CustomerID:  body.UserID,
		ServiceType: body.ServiceType,
		Location:    body.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	req := result.Request
	respondJSON(c, http.StatusCreated, CreateRequestResponse{
		Success:      true,
		RequestID:    req.ID,
		ProviderName: req.ProviderName,
		ETA:          req.ETARemaining(time.Now()),
		Status:       string(req.Status),
		Price:        req.Price,
	})
}

// GetStatus handles GET /api/status/:requestId
func (h *RequestHandler) GetStatus(c *gin.Context) {
	view, err := h.requestService.GetStatusView(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, StatusResponse{
		Success:      true,
		Status:       string(view.Status),
		ProviderName: view.ProviderName,
		ETA:          view.ETAMinutes,
	})
}

// Get handles GET /api/request/:id
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(req))
}

// UpdateStatus handles PUT /api/request/:id/status
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	var body UpdateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	req, err := h.requestService.Advance(c.Request.Context(), service.AdvanceParams{
		RequestID:    c.Param("id"),
		Target:       domain.RequestStatus(body.Status),
		ServiceNotes: body.ServiceNotes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(req))
}

// Cancel handles POST /api/request/:id/cancel
func (h *RequestHandler) Cancel(c *gin.Context) {
	var body CancelRequestBody
	// The body is optional; cancelling with no reason is fine.
	_ = c.ShouldBindJSON(&body)

	req, err := h.requestService.Cancel(c.Request.Context(), service.CancelParams{
		RequestID:   c.Param("id"),
		CancelledBy: body.CancelledBy,
		Reason:      body.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(req))
}

func toRequestResponse(req *domain.ServiceRequest) RequestResponse {
	resp := RequestResponse{
		ID:           req.ID,
		CustomerID:   req.CustomerID,
		ServiceType:  string(req.ServiceType),
		Location:     req.Location,
		Status:       string(req.Status),
		ProviderID:   req.ProviderID,
		ProviderName: req.ProviderName,
		Price:        req.Price,
		ETA:          req.ETARemaining(time.Now()),
		ServiceNotes: req.ServiceNotes,
		CreatedAt:    req.CreatedAt.Format(time.RFC3339),
	}

	if !req.CompletedAt.IsZero() {
		resp.CompletedAt = req.CompletedAt.Format(time.RFC3339)
	}
	if !req.CancelledAt.IsZero() {
		resp.CancelledAt = req.CancelledAt.Format(time.RFC3339)
		resp.CancelReason = req.CancelReason
	}

	return resp
}
