package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngenohkevin/storcat-agent/config"
	"github.com/ngenohkevin/storcat-agent/internal/logging"
	"github.com/ngenohkevin/storcat-agent/internal/metrics"
)

// Version is reported by /health, /api/info and the CLI
const Version = "1.0.0"

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	handlers   *Handlers
	auth       *AuthService
	limiter    *RateLimiter
	httpServer *http.Server
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	s := &Server{
		cfg:      cfg,
		router:   router,
		handlers: NewHandlers(cfg),
		auth:     NewAuthService(cfg.APIKey, cfg.JWTSecret),
		limiter:  NewRateLimiter(cfg.RateLimitRPS),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(RequestIDMiddleware())
	s.router.Use(RecoveryMiddleware())
	s.router.Use(LoggerMiddleware())
	s.router.Use(CORSMiddleware(s.cfg.AllowedOrigins))
	s.router.Use(RateLimitMiddleware(s.limiter))
}

func (s *Server) setupRoutes() {
	// No auth
	s.router.GET("/health", s.handlers.HealthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api")
	if s.cfg.OpenAccess {
		logging.L().Warn("no API_KEY configured, /api is open to every caller")
	} else {
		api.Use(AuthMiddleware(s.auth))
	}
	{
		api.GET("/info", s.handlers.GetInfo)

		// Catalogs
		api.GET("/catalogs", s.handlers.ListCatalogs)
		api.POST("/catalogs", RequireAdmin(), s.handlers.CreateCatalog)
		api.POST("/catalogs/stream", RequireAdmin(), s.handlers.StreamCreateCatalog)
		api.GET("/catalogs/document", s.handlers.LoadCatalog)
		api.GET("/catalogs/rendered-path", s.handlers.GetRenderedPath)
		api.GET("/catalogs/rendered", s.handlers.GetRendered)

		api.GET("/search", s.handlers.Search)
	}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Run() error {
	logger := logging.L()

	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		<-quit
		logger.Info("shutting down server")
		notifySystemd(daemon.SdNotifyStopping)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting storcat agent",
		zap.String("addr", s.cfg.Addr()),
		zap.String("version", Version),
		zap.String("catalog_dir", s.cfg.CatalogDir),
		zap.Strings("allowed_paths", s.cfg.AllowedPaths),
	)
	notifySystemd(daemon.SdNotifyReady)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Clean up
	if err := s.handlers.Close(); err != nil {
		logger.Error("error closing handlers", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}

// notifySystemd reports service state when running under a Type=notify unit
func notifySystemd(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.L().Debug("sd_notify failed", zap.String("state", state), zap.Error(err))
		return
	}
	if sent {
		logging.L().Debug("sd_notify sent", zap.String("state", state))
	}
}

// Router returns the Gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
