package server

import (
	"fmt"
	"net/http"
	"time"

	"stationery-catalog/internal/config"
	"stationery-catalog/internal/database"
	custommiddleware "stationery-catalog/internal/middleware"
	"stationery-catalog/internal/service"
	"stationery-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  *database.StoreHandle
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, store *database.StoreHandle) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := store.Health(r.Context())
		if health["status"] != "up" {
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
				"store":  health,
			})
			return
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"store":  health,
		})
	})

	// Initialize services
	catalog := service.NewCatalog(store.Store, logger, service.Options{
		JWTSecret:         cfg.JWT.Secret,
		AccessTokenExpiry: time.Duration(cfg.JWT.AccessExpiry) * time.Minute,
	})

	// Create auth middleware
	var protect func(http.Handler) http.Handler
	if cfg.Auth.Required {
		protect = custommiddleware.AuthMiddleware(catalog.Admins, logger)
	}

	// Throttle login attempts when Redis is available
	var redisClient *redis.Client
	var loginGuard func(http.Handler) http.Handler
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		loginGuard = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.LoginRequests,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         "login_rate_limit",
		}, logger)
	}

	// Register routes
	transport.NewHandler(catalog, logger).RegisterRoutes(router, protect, loginGuard)

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
		store:  store,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close store connection
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close store", zap.Error(err))
	}

	s.logger.Sync()
	return nil
}
