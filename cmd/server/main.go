package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"roadside/internal/app"
	"roadside/internal/config"
	"roadside/internal/events"
	"roadside/internal/handler"
	internalRedis "roadside/internal/redis"
	"roadside/internal/repository/postgres"
	"roadside/internal/service"
	"roadside/internal/simulator"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Initialize the event publisher (optional).
	publisher, err := app.NewEventPublisher(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	if publisher != nil {
		defer publisher.Close()
		log.Printf("Connected to RabbitMQ (exchange=%s)", cfg.RabbitMQ.Exchange)
	}

	// Wire dependencies.
	server, requestService := wireServer(db, redisClient, publisher, nrApp, cfg)

	// Root context for background workers, cancelled on shutdown.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if cfg.Simulator.Enabled {
		worker := simulator.NewWorker(
			requestService,
			requestService,
			cfg.Simulator.Interval,
			cfg.Simulator.AcceptDelay,
		)
		go worker.Run(workerCtx)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// request service for the background simulator.
func wireServer(db *sql.DB, redisClient *redis.Client, publisher *events.Publisher, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.RequestService) {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)
	etaStore := internalRedis.NewETAStore(redisClient)

	// Initialize repositories.
	requestRepo := postgres.NewRequestRepository(db)
	providerRepo := postgres.NewProviderRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	// Initialize services. The publisher must only reach the notifier as a
	// non-nil interface value.
	var statusPublisher service.StatusPublisher
	if publisher != nil {
		statusPublisher = publisher
	}
	notificationService := service.NewNotificationService(statusPublisher)
	matchingService := service.NewMatchingService(db, lockStore, etaStore, cacheStore, providerRepo, requestRepo)
	requestService := service.NewRequestService(requestRepo, providerRepo, matchingService, notificationService, cacheStore, etaStore)
	providerService := service.NewProviderService(providerRepo)
	gateway := service.NewSimulatedGateway()
	paymentService := service.NewPaymentService(paymentRepo, requestRepo, gateway, notificationService, cacheStore)
	feedbackService := service.NewFeedbackService(feedbackRepo, requestRepo)

	// Initialize handlers.
	requestHandler := handler.NewRequestHandler(requestService)
	driverHandler := handler.NewDriverHandler(requestService, providerService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		RequestHandler:  requestHandler,
		DriverHandler:   driverHandler,
		PaymentHandler:  paymentHandler,
		FeedbackHandler: feedbackHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, requestService
}
