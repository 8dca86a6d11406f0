package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"catalog-sync/internal/config"
	"catalog-sync/internal/database"
	custommiddleware "catalog-sync/internal/middleware"
	"catalog-sync/internal/realtime"
	"catalog-sync/internal/repository"
	"catalog-sync/internal/service"
	"catalog-sync/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	hub    *realtime.Hub
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service, hub *realtime.Hub) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"mongo":       db.Health(r.Context()),
			"subscribers": hub.SubscriberCount(),
		})
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.Database())
	categoryRepo := repository.NewCategoryRepository(db.Database())

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, categoryRepo, hub)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	wsHandler := realtime.NewWebsocketHandler(hub, cfg.Server.AllowedOrigins, logger)

	// Optional Redis-backed rate limiting on mutating routes
	var redisClient *redis.Client
	var rateLimit func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rateLimit = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         "ratelimit:catalog",
		}, logger)
	}

	// Register routes
	catalogHandler.RegisterRoutes(router, wsHandler, rateLimit)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		hub:    hub,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Detach all live subscribers before dropping the store handle
	s.hub.Close()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.db.Close(ctx); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
