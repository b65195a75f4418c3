package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roadside/internal/domain"
	"roadside/internal/service"
)

// FeedbackHandler handles HTTP requests for feedback on finished requests.
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedbackBody is the HTTP request body for submitting feedback.
type SubmitFeedbackBody struct {
	RequestID   string `json:"requestId"`
	SubmittedBy string `json:"submittedBy"`
	Role        string `json:"role"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment,omitempty"`
}

// FeedbackResponse is one feedback entry on the wire.
type FeedbackResponse struct {
	ID          string `json:"id"`
	RequestID   string `json:"requestId"`
	SubmittedBy string `json:"submittedBy"`
	Role        string `json:"role"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// FeedbackListResponse is the HTTP response for listing a request's feedback.
type FeedbackListResponse struct {
	Success  bool               `json:"success"`
	Feedback []FeedbackResponse `json:"feedback"`
}

// Submit handles POST /api/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var body SubmitFeedbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	feedback, err := h.feedbackService.SubmitFeedback(c.Request.Context(), service.SubmitFeedbackParams{
		RequestID:   body.RequestID,
		SubmittedBy: body.SubmittedBy,
		Role:        body.Role,
		Rating:      body.Rating,
		Comment:     body.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toFeedbackResponse(feedback))
}

// List handles GET /api/feedback/:requestId
func (h *FeedbackHandler) List(c *gin.Context) {
	entries, err := h.feedbackService.ListFeedback(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := FeedbackListResponse{Success: true, Feedback: make([]FeedbackResponse, 0, len(entries))}
	for _, fb := range entries {
		resp.Feedback = append(resp.Feedback, toFeedbackResponse(fb))
	}
	respondJSON(c, http.StatusOK, resp)
}

func toFeedbackResponse(fb *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:          fb.ID,
		RequestID:   fb.RequestID,
		SubmittedBy: fb.SubmittedBy,
		Role:        string(fb.Role),
		Rating:      fb.Rating,
		Comment:     fb.Comment,
		CreatedAt:   fb.CreatedAt.Format(time.RFC3339),
	}
}
