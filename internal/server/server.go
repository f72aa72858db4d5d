// Package server contains the HTTP handlers for the HedWig API.
package server

import (
	"context"
	"fmt"
	"time"

	_ "hedwig/docs" // swagger docs
	"hedwig/internal/bootstrap"
	"hedwig/internal/config"
	"hedwig/internal/featureflags"
	"hedwig/internal/middleware"
	"hedwig/internal/models"
	"hedwig/internal/observability"
	"hedwig/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
)

const serviceName = "hedwig-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	runtime         *bootstrap.Runtime
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	tracingShutdown func(context.Context) error
	featureFlags    *featureflags.Manager
	session         *service.SessionService
	events          *service.EventService
	notifications   *service.NotificationService
	now             func() time.Time
}

// NewServer initializes tracing and the runtime, then builds the Server.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing initialization failed: %w", err)
	}

	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}

	s, err := NewServerWithDeps(cfg, rt)
	if err != nil {
		return nil, err
	}
	s.tracingShutdown = shutdown
	return s, nil
}

// NewServerWithDeps creates a Server from an already-initialized runtime.
// Use this in tests or when the caller owns bootstrap.
func NewServerWithDeps(cfg *config.Config, rt *bootstrap.Runtime) (*Server, error) {
	if rt == nil {
		return nil, fmt.Errorf("runtime is required")
	}
	now := func() time.Time { return time.Now().UTC() }
	if rt.Clock != nil {
		now = rt.Clock
	}
	return &Server{
		config:         cfg,
		runtime:        rt,
		redis:          rt.Redis,
		promMiddleware: middleware.InitMetrics(serviceName),
		featureFlags:   rt.Flags,
		session:        rt.Session,
		events:         rt.EventService,
		notifications:  rt.Notifier,
		now:            now,
	}, nil
}

// NewApp returns a Fiber app with the API error handler installed.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "HedWig API",
		BodyLimit: 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Tracing runs before the context middleware so the trace id reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	maxRequests := s.config.RateLimitPerMinute
	if maxRequests <= 0 {
		maxRequests = 100
	}
	app.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/health/live", s.LivenessCheck)
	api.Get("/health/ready", s.ReadinessCheck)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "HedWig API Metrics Dashboard",
	}))
	api.Get("/feature-flags", s.GetFeatureFlags)

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	session := api.Group("/session")
	session.Get("/", s.GetSession)
	session.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	session.Post("/logout", s.Logout)
	session.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)

	requireSession := middleware.SessionRequired(s.session.Current)

	events := api.Group("/events")
	events.Get("/", s.ListEvents)
	events.Get("/upcoming", s.GetUpcomingEvents)
	events.Get("/today", s.GetTodayEvents)
	events.Get("/popular", s.GetPopularEvents)
	events.Get("/recommended", s.GetRecommendedEvents)
	events.Get("/categories", s.GetCategories)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	events.Get("/:id/share", s.GetShareLinks)
	events.Get("/:id/countdown", s.GetCountdown)
	events.Get("/:id/attendance.csv", s.ExportAttendance("csv"))
	events.Get("/:id/attendance.json", s.ExportAttendance("json"))
	events.Post("/:id/rsvp", requireSession, s.RSVP)
	events.Delete("/:id/rsvp", requireSession, s.CancelRSVP)
	events.Post("/:id/comments", requireSession,
		middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.AddComment)
	events.Post("/:id/ratings", requireSession, s.AddRating)
	events.Post("/:id/media", requireSession,
		middleware.RateLimit(s.redis, 5, time.Minute, "add_media"), s.AddMedia)
	events.Post("/:id/media/:mediaId/comments", requireSession,
		middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.AddMediaComment)
	events.Post("/:id/media/:mediaId/reactions", requireSession, s.AddMediaReaction)
	events.Get("/:id", s.GetEvent)

	me := api.Group("/me", requireSession)
	me.Get("/events", s.GetMyEvents)
	me.Get("/schedule", s.GetMySchedule)
	me.Get("/qr/:id", s.GetCheckInCode)

	notifications := api.Group("/notifications", requireSession)
	notifications.Get("/", s.GetNotifications)
	notifications.Get("/unread-count", s.GetUnreadCount)
	notifications.Post("/read-all", s.MarkAllNotificationsRead)
	notifications.Post("/", middleware.RateLimit(s.redis, 20, time.Minute, "create_notification"), s.CreateNotification)
	notifications.Post("/:id/read", s.MarkNotificationRead)
	notifications.Delete("/:id", s.DeleteNotification)
}

// LivenessCheck handles liveness check requests
// @Summary Liveness check
// @Tags system
// @Produce json
// @Success 200 {object} object{status=string,time=string}
// @Router /health/live [get]
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   s.now(),
	})
}

// ReadinessCheck reports storage and rate limit backend health.
// @Summary Readiness check
// @Tags system
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} models.ErrorResponse
// @Router /health/ready [get]
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storageStatus := "healthy"
	if err := s.runtime.Ping(ctx); err != nil {
		storageStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storageStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"storage": fiber.Map{"backend": s.runtime.Store.Backend(), "status": storageStatus},
			"redis":   redisStatus,
		},
		"time": s.now(),
	})
}

// Start builds the app and blocks serving on the configured port.
func (s *Server) Start() error {
	app := NewApp()
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("Server starting", "port", s.config.Port, "storage", s.runtime.Store.Backend())
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := s.runtime.Close(); err != nil {
		middleware.Logger.Error("error closing runtime", "error", err)
	}

	if s.tracingShutdown != nil {
		if err := s.tracingShutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down tracer", "error", err)
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
