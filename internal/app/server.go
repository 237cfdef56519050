// File: internal/app/server.go
package app

import (
	"context"
	"net/http"
	"time"

	"gigmarket_backend/internal/config"
	"gigmarket_backend/internal/gig"
	"gigmarket_backend/internal/guard"
	"gigmarket_backend/internal/jobs"
	"gigmarket_backend/internal/middleware"
	"gigmarket_backend/internal/musician"
	"gigmarket_backend/internal/notification"
	"gigmarket_backend/internal/profile"
	"gigmarket_backend/internal/purchase"
	"gigmarket_backend/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by the server.
type Handlers struct {
	Session      *session.Handler
	Profile      *profile.Handler
	Gig          *gig.Handler
	Purchase     *purchase.Handler
	Notification *notification.Handler
	Musician     *musician.Handler
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer   *http.Server
	router       *gin.Engine
	cfg          *config.Config
	logger       *zap.Logger
	sessions     *session.Manager
	indexSyncJob *jobs.GigIndexSyncJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	sessions *session.Manager,
	routeGuard *guard.Guard,
	handlers Handlers,
	indexSyncJob *jobs.GigIndexSyncJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// The guard runs before every page. API and static paths pass straight through.
	router.Use(routeGuard.Middleware())

	authMW := middleware.AuthMiddleware(sessions, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Gig marketplace API is healthy!"})
	})

	api := router.Group("/api")
	if handlers.Musician != nil {
		handlers.Musician.RegisterRoutes(api)
	}

	v1 := api.Group("/v1")
	handlers.Session.RegisterRoutes(v1)
	handlers.Profile.RegisterRoutes(v1, authMW)
	handlers.Gig.RegisterRoutes(v1, authMW)
	handlers.Purchase.RegisterRoutes(v1, authMW)
	if handlers.Notification != nil {
		handlers.Notification.RegisterRoutes(v1, authMW)
	} else {
		logger.Info("Notifications disabled, routes not registered.")
	}

	router.NoRoute(guard.PageHandler(cfg.WebRoot))
	router.NoMethod(middleware.NoMethodJSON)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:   httpServer,
		router:       router,
		cfg:          cfg,
		logger:       logger,
		sessions:     sessions,
		indexSyncJob: indexSyncJob,
	}, nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	if s.indexSyncJob != nil {
		if err := s.indexSyncJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start gig index sync job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.indexSyncJob != nil {
		s.indexSyncJob.Stop()
	}
	err := s.httpServer.Shutdown(ctx)
	s.sessions.Close()
	return err
}
