package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tmarwah/shopline-api/internal/config"
	"github.com/tmarwah/shopline-api/internal/database"
	"github.com/tmarwah/shopline-api/internal/handlers"
	"github.com/tmarwah/shopline-api/internal/outbox"
	"github.com/tmarwah/shopline-api/internal/repository"
	"github.com/tmarwah/shopline-api/internal/service"
	"github.com/tmarwah/shopline-api/pkg/auth"
	"github.com/tmarwah/shopline-api/pkg/kafka"
	"github.com/tmarwah/shopline-api/pkg/logger"
	"github.com/tmarwah/shopline-api/pkg/middleware"
	"github.com/tmarwah/shopline-api/pkg/retry"
)

// Server wires the HTTP surface to the services, the outbox processor
// and the Kafka pipeline.
type Server struct {
	config          *config.Config
	logger          logger.Logger
	router          *mux.Router
	httpServer      *http.Server
	db              *database.Database
	tokens          *auth.TokenManager
	orderService    *service.OrderService
	catalogService  *service.CatalogService
	userService     *service.UserService
	outboxProcessor *outbox.Processor
	kafkaProducer   *kafka.Producer
	kafkaConsumer   *kafka.Consumer
	authLimiter     *middleware.RateLimiterMiddleware
}

// NewServer creates a new API server with the given configuration and logger.
func NewServer(cfg *config.Config, logger logger.Logger) (*Server, error) {
	db, err := database.New(cfg, logger)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	if cfg.SeedData {
		if err := db.SeedCatalog(); err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	// Repositories
	outboxRepo := repository.NewOutboxRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db, outboxRepo, logger)
	productRepo := repository.NewProductRepository(db, logger)
	categoryRepo := repository.NewCategoryRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)

	// Services
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, logger)
	userService := service.NewUserService(userRepo, tokens, logger)

	// Outbox processor
	outboxProcessor := outbox.NewProcessor(outboxRepo, &outbox.ProcessorConfig{
		PollingInterval: 5 * time.Second,
		BatchSize:       10,
		MaxRetries:      3,
		BackoffStrategy: retry.NewDefaultExponentialBackoff(),
	}, logger)

	server := &Server{
		config:          cfg,
		logger:          logger,
		router:          mux.NewRouter(),
		db:              db,
		tokens:          tokens,
		orderService:    orderService,
		catalogService:  catalogService,
		userService:     userService,
		outboxProcessor: outboxProcessor,
		authLimiter: middleware.NewRateLimiterMiddleware(&middleware.RateLimiterConfig{
			IPMaxTokens:       10,
			IPRefillRate:      0.2,
			TrustForwardedFor: cfg.Env != "development",
		}, logger),
	}

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.setupKafka(); err != nil {
		return nil, err
	}

	server.setupRoutes()
	outboxProcessor.Start()

	return server, nil
}

// setupKafka connects the outbox processor to Kafka, or to a logging
// handler when the broker is disabled.
func (s *Server) setupKafka() error {
	var eventHandler outbox.MessageHandler

	if s.config.Kafka.Enabled {
		producer, err := kafka.NewProducer(s.config.Kafka.Brokers, s.logger)

		if err != nil {
			return fmt.Errorf("failed to create Kafka producer: %w", err)
		}

		s.kafkaProducer = producer
		eventHandler = outbox.NewKafkaHandler(producer, s.config.Kafka.OrdersTopic, s.logger)

		consumer, err := kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:       s.config.Kafka.Brokers,
			Topics:        []string{s.config.Kafka.OrdersTopic},
			ConsumerGroup: s.config.Kafka.ConsumerGroup,
		}, s.logger)

		if err != nil {
			return fmt.Errorf("failed to create Kafka consumer: %w", err)
		}

		s.kafkaConsumer = consumer
		consumer.RegisterHandler(s.config.Kafka.OrdersTopic, handlers.NewOrderEventsHandler(s.logger))

		if err := consumer.Start(); err != nil {
			// Non-fatal, the producer side still works
			s.logger.Error("Failed to start Kafka consumer", "error", err)
		}
	} else {
		s.logger.Warn("Kafka disabled, outbox events will only be logged")
		eventHandler = outbox.NewLoggingHandler(s.logger)
	}

	for _, eventType := range []string{
		"order_created",
		"order_status_changed",
		"payment_status_changed",
		"tracking_updated",
	} {
		s.outboxProcessor.RegisterHandler(eventType, eventHandler)
	}

	return nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its background workers
func (s *Server) Shutdown(ctx context.Context) error {
	s.outboxProcessor.Stop()
	s.authLimiter.Stop()

	if s.kafkaConsumer != nil {
		if err := s.kafkaConsumer.Stop(); err != nil {
			s.logger.Error("Error stopping Kafka consumer", "error", err)
		}
	}

	if s.kafkaProducer != nil {
		if err := s.kafkaProducer.Close(); err != nil {
			s.logger.Error("Error closing Kafka producer", "error", err)
		}
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("Error closing database connection", "error", err)
	}

	return s.httpServer.Shutdown(ctx)
}

// setupRoutes configures all the routes for our API
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/health", s.healthCheckHandler).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	// Auth endpoints, rate limited per client IP
	api.Handle("/auth/signup", s.authLimiter.Middleware(http.HandlerFunc(s.signupHandler))).Methods(http.MethodPost)
	api.Handle("/auth/login", s.authLimiter.Middleware(http.HandlerFunc(s.loginHandler))).Methods(http.MethodPost)
	api.Handle("/auth/me", s.authMiddleware(http.HandlerFunc(s.getProfileHandler))).Methods(http.MethodGet)

	// Order endpoints. Fixed paths are registered before the {id} routes.
	api.HandleFunc("/orders", s.createOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders", s.getOrdersHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders/search", s.searchOrdersHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders/stats", s.getOrderStatsHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", s.getOrderByIDHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/status", s.updateOrderStatusHandler).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{id}/payment-status", s.updatePaymentStatusHandler).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{id}/tracking", s.updateTrackingHandler).Methods(http.MethodPatch)

	// Catalog reads are public
	api.HandleFunc("/products", s.getProductsHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/category/{categoryId}", s.getProductsByCategoryHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.getProductByIDHandler).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.getCategoriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", s.getCategoryByIDHandler).Methods(http.MethodGet)

	// Catalog writes require an authenticated caller
	api.Handle("/products", s.authMiddleware(http.HandlerFunc(s.createProductHandler))).Methods(http.MethodPost)
	api.Handle("/products/{id}", s.authMiddleware(http.HandlerFunc(s.updateProductHandler))).Methods(http.MethodPut)
	api.Handle("/products/{id}", s.authMiddleware(http.HandlerFunc(s.deleteProductHandler))).Methods(http.MethodDelete)
	api.Handle("/categories", s.authMiddleware(http.HandlerFunc(s.createCategoryHandler))).Methods(http.MethodPost)
}

// Middleware for logging requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		s.logger.Info("Request processed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
			"remoteAddr", r.RemoteAddr,
		)
	})
}
