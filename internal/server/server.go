// Package server sets up the HTTP server with all routes
package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ankitlade12/SafePassage/internal/config"
	"github.com/ankitlade12/SafePassage/internal/currency"
	"github.com/ankitlade12/SafePassage/internal/feeds"
	"github.com/ankitlade12/SafePassage/internal/guardian"
	"github.com/ankitlade12/SafePassage/internal/health"
	"github.com/ankitlade12/SafePassage/internal/logging"
	"github.com/ankitlade12/SafePassage/internal/metrics"
	"github.com/ankitlade12/SafePassage/internal/network"
	"github.com/ankitlade12/SafePassage/internal/offline"
	"github.com/ankitlade12/SafePassage/internal/oracle"
	"github.com/ankitlade12/SafePassage/internal/payout"
	"github.com/ankitlade12/SafePassage/internal/profile"
	"github.com/ankitlade12/SafePassage/internal/ratelimit"
	"github.com/ankitlade12/SafePassage/internal/realtime"
	"github.com/ankitlade12/SafePassage/internal/risk"
	"github.com/ankitlade12/SafePassage/internal/security"
	"github.com/ankitlade12/SafePassage/internal/traces"
	"github.com/ankitlade12/SafePassage/internal/validation"
)

// -----------------------------------------------------------------------------
// Server
// -----------------------------------------------------------------------------

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg            *config.Config
	alertStore     risk.Store
	payoutStore    payout.Store
	profileStore   profile.Store
	assessor       *risk.Assessor
	chaos          *network.ChaosSimulator
	netSim         *network.Simulator
	oracle         *oracle.Oracle
	orchestrator   *payout.Orchestrator
	guardianSwitch *guardian.Switch
	offlineMgr     *offline.Manager
	refresher      *feeds.Refresher
	realtimeHub    *realtime.Hub
	rateLimiter    *ratelimit.Limiter
	healthReg      *health.Registry
	db             *sql.DB // nil if using in-memory
	router         *gin.Engine
	httpSrv        *http.Server
	logger         *slog.Logger
	cancelRunCtx   context.CancelFunc // cancels background goroutines started in Run
	traceShutdown  func(context.Context) error

	// Health state
	ready   atomic.Bool
	healthy atomic.Bool
}

// Option configures the server
type Option func(*Server)

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRefresher sets a custom feed refresher (for testing)
func WithRefresher(r *feeds.Refresher) Option {
	return func(s *Server) {
		s.refresher = r
	}
}

// New creates a new server instance
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logging.New(cfg.LogLevel, "json"),
	}

	// Apply options first (may set logger/refresher)
	for _, opt := range opts {
		opt(s)
	}

	// Context for initialization
	ctx := context.Background()

	// Initialize storage (Postgres if DATABASE_URL set, otherwise in-memory)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		// Configure connection pool
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		// Test connection
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		s.db = db
		s.logger.Info("using PostgreSQL storage", "url", maskDSN(cfg.DatabaseURL))

		alertStore := risk.NewPostgresStore(db)
		if err := alertStore.Migrate(ctx); err != nil {
			s.logger.Warn("failed to migrate alert store", "error", err)
		}
		s.alertStore = alertStore

		payoutStore := payout.NewPostgresStore(db)
		if err := payoutStore.Migrate(ctx); err != nil {
			s.logger.Warn("failed to migrate payout store", "error", err)
		}
		s.payoutStore = payoutStore

		// Profile is a demo singleton, kept in memory even with a database
		s.profileStore = profile.NewMemoryStore()
	} else {
		s.alertStore = risk.NewMemoryStore()
		s.payoutStore = payout.NewMemoryStore()
		s.profileStore = profile.NewMemoryStore()
		s.logger.Info("using in-memory storage (data will not persist)")

		// Seed the demo scenario so the dashboard has something to show
		if err := s.alertStore.Replace(ctx, risk.SampleAlerts()); err != nil {
			s.logger.Warn("failed to seed sample alerts", "error", err)
		}
	}

	// Demo profile is always present so GET /v1/profile works out of the box
	if err := s.profileStore.Put(ctx, profile.DemoProfile()); err != nil {
		s.logger.Warn("failed to seed demo profile", "error", err)
	}

	// Core domain services
	s.assessor = risk.NewAssessor(cfg.AlertRadiusKM)
	s.netSim = network.NewSimulator()
	s.chaos = network.NewChaosSimulator()
	s.oracle = oracle.New(s.netSim)
	s.orchestrator = payout.NewOrchestrator(s.payoutStore)
	s.guardianSwitch = guardian.NewSwitch()
	s.offlineMgr = offline.NewManager()

	// External alert feeds
	if s.refresher == nil && !cfg.FeedsDisabled {
		if err := security.ValidateFeedURL(cfg.GDELTBaseURL); err != nil {
			return nil, fmt.Errorf("invalid GDELT_BASE_URL: %w", err)
		}
		if err := security.ValidateFeedURL(cfg.USGSFeedURL); err != nil {
			return nil, fmt.Errorf("invalid USGS_FEED_URL: %w", err)
		}
		s.refresher = feeds.NewRefresherFromConfig(cfg)
		s.logger.Info("alert feeds enabled",
			"gdelt", cfg.GDELTBaseURL,
			"usgs", cfg.USGSFeedURL)
	} else if cfg.FeedsDisabled {
		s.logger.Info("alert feeds disabled, serving stored alerts only")
	}

	// Create realtime hub for WebSocket streaming
	s.realtimeHub = realtime.NewHub(s.logger)
	s.logger.Info("realtime streaming enabled")

	// Health checks
	s.healthReg = health.NewRegistry()
	if s.db != nil {
		db := s.db
		s.healthReg.Register("database", func(ctx context.Context) health.Status {
			if err := db.PingContext(ctx); err != nil {
				return health.Status{Name: "database", Healthy: false, Detail: err.Error()}
			}
			return health.Status{Name: "database", Healthy: true}
		})
	}
	s.healthReg.Register("feeds", func(_ context.Context) health.Status {
		if s.refresher == nil {
			return health.Status{Name: "feeds", Healthy: true, Detail: "disabled"}
		}
		return health.Status{Name: "feeds", Healthy: true}
	})

	// Configure gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.healthy.Store(true)

	return s, nil
}

// maskDSN hides password in connection string for logging
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

func (s *Server) setupMiddleware() {
	// Recovery with logging
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.L(c.Request.Context()).Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}))

	// Security headers
	s.router.Use(security.HeadersMiddleware())

	// CORS (allow all origins for demo - restrict in production)
	s.router.Use(security.CORSMiddleware([]string{"*"}))

	// Request size limit (1MB)
	s.router.Use(validation.RequestSizeMiddleware(validation.MaxRequestSize))

	// Rate limiting
	rlCfg := ratelimit.DefaultConfig()
	if s.cfg.RateLimitRPM > 0 {
		rlCfg.RequestsPerMinute = s.cfg.RateLimitRPM
	}
	s.rateLimiter = ratelimit.New(rlCfg)
	s.router.Use(s.rateLimiter.Middleware())

	// Prometheus metrics
	s.router.Use(metrics.Middleware())

	// Request ID
	s.router.Use(s.requestIDMiddleware())

	// Logging
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check for existing request ID (from load balancer, etc.)
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		// Add to context
		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		ctx = logging.WithLogger(ctx, s.logger)
		c.Request = c.Request.WithContext(ctx)

		// Set response header
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := logging.L(c.Request.Context())

		// Log level based on status code
		switch {
		case status >= 500:
			logger.Error("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
				"client_ip", c.ClientIP(),
			)
		case status >= 400:
			logger.Warn("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		default:
			logger.Info("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}
	}
}

// -----------------------------------------------------------------------------
// Routes
// -----------------------------------------------------------------------------

func (s *Server) setupRoutes() {
	// Health & metrics endpoints
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/health/live", s.livenessHandler)
	s.router.GET("/health/ready", s.readinessHandler)
	s.router.GET("/metrics", metrics.Handler())

	// API info
	s.router.GET("/", s.infoHandler)
	s.router.GET("/api", s.infoHandler)

	// WebSocket for real-time streaming
	s.router.GET("/ws", func(c *gin.Context) {
		s.realtimeHub.HandleWebSocket(c.Writer, c.Request)
	})

	// V1 API group
	v1 := s.router.Group("/v1")

	riskHandler := risk.NewHandler(s.alertStore, s.assessor).
		WithEvents(s.realtimeHub)
	if s.refresher != nil {
		riskHandler = riskHandler.WithRefresher(s.refresher)
	}
	riskHandler.RegisterRoutes(v1)

	network.NewHandler(s.chaos).
		WithAlertSource(s.alertStore).
		RegisterRoutes(v1)

	oracle.NewHandler(s.oracle).RegisterRoutes(v1)

	payout.NewHandler(s.orchestrator, s.cfg.MinPayout, s.cfg.MaxPayout).
		WithEvents(s.realtimeHub).
		RegisterRoutes(v1)

	profile.NewHandler(s.profileStore).RegisterRoutes(v1)
	guardian.NewHandler(s.guardianSwitch).RegisterRoutes(v1)
	offline.NewHandler(s.offlineMgr).RegisterRoutes(v1)
	currency.NewHandler().RegisterRoutes(v1)

	// Realtime hub stats (dashboard footer)
	v1.GET("/realtime/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.realtimeHub.Stats())
	})
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	healthy, statuses := s.healthReg.CheckAll(ctx)

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		s.logger.Warn("health check degraded", "failing", health.Failing(statuses))
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"version":   "0.1.0",
		"checks":    statuses,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Safe-Passage",
		"description": "Emergency liquidity routing for travelers in crisis zones",
		"version":     "0.1.0",
		"mode":        s.cfg.Env,
		"endpoints": gin.H{
			"risk":            "POST /v1/risk",
			"alerts":          "GET /v1/alerts",
			"recommendations": "POST /v1/recommendations",
			"payouts":         "POST /v1/payouts",
			"network":         "GET /v1/network/effects",
			"websocket":       "GET /ws",
		},
	})
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Run starts the HTTP server with graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	// Create a cancellable context for background goroutines so Shutdown() can stop them.
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelRunCtx = cancel

	// Distributed tracing (no-op when OTLP endpoint is unset)
	shutdown, err := traces.Init(runCtx, s.cfg.OTLPEndpoint, s.logger)
	if err != nil {
		s.logger.Warn("failed to initialize tracing", "error", err)
	} else {
		s.traceShutdown = shutdown
	}

	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Channel to catch server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		s.logger.Info("starting server", "port", s.cfg.Port, "env", s.cfg.Env)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Start realtime hub
	go s.realtimeHub.Run(runCtx)

	// Sample DB pool stats into Prometheus gauges
	if s.db != nil {
		go metrics.StartDBStatsCollector(runCtx, s.db, 15*time.Second)
	}

	// Mark as ready after brief delay for startup
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.ready.Store(true)
		s.logger.Info("server ready")
	}()

	// Wait for shutdown signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.ready.Store(false)
	s.logger.Info("starting graceful shutdown")

	// Cancel the context for all background goroutines (hub, collectors)
	if s.cancelRunCtx != nil {
		s.cancelRunCtx()
	}

	// Give load balancers time to stop sending traffic
	time.Sleep(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
		s.logger.Info("rate limiter stopped")
	}

	// Flush pending trace spans
	if s.traceShutdown != nil {
		if err := s.traceShutdown(ctx); err != nil {
			s.logger.Error("trace shutdown error", "error", err)
		}
	}

	// Close database connection pool
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("database close error", "error", err)
		} else {
			s.logger.Info("database connection closed")
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the gin router for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based ID
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
