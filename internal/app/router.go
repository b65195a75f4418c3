package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"roadside/internal/handler"
	"roadside/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RequestHandler  *handler.RequestHandler
	DriverHandler   *handler.DriverHandler
	PaymentHandler  *handler.PaymentHandler
	FeedbackHandler *handler.FeedbackHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", handler.Health)

	api := router.Group("/api")
	{
		// Customer routes.
		api.POST("/request", deps.RequestHandler.Create)
		api.GET("/status/:requestId", deps.RequestHandler.GetStatus)

		requests := api.Group("/request")
		{
			requests.GET("/:id", deps.RequestHandler.Get)
			requests.PUT("/:id/status", deps.RequestHandler.UpdateStatus)
			requests.POST("/:id/cancel", deps.RequestHandler.Cancel)
		}

		// Provider routes.
		api.GET("/driver/requests", deps.DriverHandler.ListOpenRequests)

		providers := api.Group("/providers")
		{
			providers.POST("/register", deps.DriverHandler.RegisterProvider)
			providers.GET("", deps.DriverHandler.ListProviders)
			providers.PUT("/:id/status", deps.DriverHandler.UpdateAvailability)
		}

		// Payment routes.
		api.POST("/payment/:requestId", deps.PaymentHandler.Process)
		api.GET("/payments/:id", deps.PaymentHandler.Get)

		// Feedback routes.
		api.POST("/feedback", deps.FeedbackHandler.Submit)
		api.GET("/feedback/:requestId", deps.FeedbackHandler.List)
	}

	return router
}
