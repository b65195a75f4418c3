package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roadside/internal/domain"
	"roadside/internal/service"
)

// DriverHandler serves the provider-facing endpoints: the open request
// board and roster management.
type DriverHandler struct {
	requestService  *service.RequestService
	providerService *service.ProviderService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(requestService *service.RequestService, providerService *service.ProviderService) *DriverHandler {
	return &DriverHandler{
		requestService:  requestService,
		providerService: providerService,
	}
}

// OpenRequestsResponse lists the non-terminal requests.
type OpenRequestsResponse struct {
	Success  bool              `json:"success"`
	Requests []RequestResponse `json:"requests"`
}

// RegisterProviderBody is the HTTP request body for provider registration.
type RegisterProviderBody struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	ServiceType string `json:"serviceType"`
	Plate       string `json:"plate,omitempty"`
}

// ProviderResponse is the provider record.
type ProviderResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	ServiceType string `json:"serviceType"`
	Status      string `json:"status"`
	Plate       string `json:"plate,omitempty"`
}

// ProviderListResponse lists the full roster.
type ProviderListResponse struct {
	Success   bool               `json:"success"`
	Providers []ProviderResponse `json:"providers"`
}

// UpdateAvailabilityBody is the HTTP request body for toggling availability.
type UpdateAvailabilityBody struct {
	Status string `json:"status"`
}

// ListOpenRequests handles GET /api/driver/requests
func (h *DriverHandler) ListOpenRequests(c *gin.Context) {
	requests, err := h.requestService.ListOpen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]RequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toRequestResponse(req))
	}

	respondJSON(c, http.StatusOK, OpenRequestsResponse{Success: true, Requests: out})
}

// RegisterProvider handles POST /api/providers
func (h *DriverHandler) RegisterProvider(c *gin.Context) {
	var body RegisterProviderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	provider, created, err := h.providerService.Register(c.Request.Context(), service.RegisterProviderParams{
		Name:        body.Name,
		Phone:       body.Phone,
		ServiceType: body.ServiceType,
		Plate:       body.Plate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	respondJSON(c, code, toProviderResponse(provider))
}

// ListProviders handles GET /api/providers
func (h *DriverHandler) ListProviders(c *gin.Context) {
	providers, err := h.providerService.ListProviders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ProviderResponse, 0, len(providers))
	for _, p := range providers {
		out = append(out, toProviderResponse(p))
	}

	respondJSON(c, http.StatusOK, ProviderListResponse{Success: true, Providers: out})
}

// UpdateAvailability handles PUT /api/providers/:id/status
func (h *DriverHandler) UpdateAvailability(c *gin.Context) {
	var body UpdateAvailabilityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	provider, err := h.providerService.SetAvailability(
		c.Request.Context(),
		c.Param("id"),
		domain.ProviderStatus(body.Status),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toProviderResponse(provider))
}

func toProviderResponse(p *domain.Provider) ProviderResponse {
	return ProviderResponse{
		ID:          p.ID,
		Name:        p.Name,
		Phone:       p.Phone,
		ServiceType: string(p.ServiceType),
		Status:      string(p.Status),
		Plate:       p.Plate,
	}
}
