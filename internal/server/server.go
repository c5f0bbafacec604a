// Package server contains the HTTP handlers for the skill exchange API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "skillswap/docs" // swagger docs
	"skillswap/internal/bootstrap"
	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const rootBanner = "<h1>SkillSwap API</h1><p>Welcome! The API is up and running.</p>"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	logger         *slog.Logger

	userService  *service.UserService
	skillService *service.SkillService
	swapService  *service.SwapService
	authService  *service.AuthService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.OptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("runtime initialization failed: %w", err)
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The schema must already be in place.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	// Repositories cache through the package-level client.
	if redisClient != nil {
		cache.SetClient(redisClient)
	}

	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	tx := service.GormTx(db)

	ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("skillswap-api"),
		logger:         middleware.Logger,
		userService:    service.NewUserService(userRepo, skillRepo, tx),
		skillService:   service.NewSkillService(skillRepo, userRepo, tx),
		swapService:    service.NewSwapService(swapRepo, userRepo, skillRepo, tx),
		authService:    service.NewAuthService(userRepo, cfg.SecretKey, ttl),
	}, nil
}

// NewApp builds the Fiber application with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "SkillSwap API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			s.logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Tracing runs before the context middleware so the trace id reaches the logger.
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400, // 24 hours
	}))
}

// SetupRoutes configures all API routes
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Index)

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	api.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "SkillSwap Metrics"}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	users := api.Group("/users")
	users.Post("/register", s.Register)
	users.Post("/login", s.Login)
	users.Get("/", s.ListUsers)
	users.Get("/:id", s.GetUser)
	users.Get("/:id/swaps", s.ListUserSwaps)
	users.Post("/:id/skills/offered", s.AddOfferedSkill)
	users.Post("/:id/skills/seeking", s.AddSeekingSkill)

	skills := api.Group("/skills")
	skills.Post("/", s.CreateSkill)
	skills.Get("/", s.ListSkills)
	skills.Get("/:id/users", s.GetSkillHolders)

	swaps := api.Group("/swaps")
	swaps.Post("/propose", s.ProposeSwap)
	swaps.Get("/:id", s.GetSwap)
	swaps.Post("/:id/respond", s.RespondToSwap)

	app.Use(func(c *fiber.Ctx) error {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Not found"))
	})
}

// Index handles GET /
func (s *Server) Index(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(rootBanner)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
// Only the database is required; a missing cache degrades performance, not correctness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if err := cache.Ping(ctx); errors.Is(err, cache.ErrDisabled) {
		redisStatus = "unavailable"
	} else if err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	s.logger.Info("Server starting", slog.String("port", s.config.Port), slog.String("env", s.config.Env))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			s.logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		s.logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := cache.Close(); err != nil {
			s.logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
