package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/writerhub/marketplace/docs"
	"github.com/writerhub/marketplace/internal/api/handler"
	"github.com/writerhub/marketplace/internal/api/middleware"
	"github.com/writerhub/marketplace/internal/core/ports"
	"github.com/writerhub/marketplace/internal/infrastructure/http/handlers"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	AuthService    ports.AuthService
	ContentService ports.ContentService
	JWTSecret      string
	TokenTTL       time.Duration
	Readiness      map[string]handlers.PingFunc
	Logger         zerolog.Logger

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(metricsMiddleware(d.Registry))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.JWTSecret, d.TokenTTL)
	userHandler := handler.NewUserHandler(d.AuthService)
	contentHandler := handler.NewContentHandler(d.ContentService)
	authMiddleware := middleware.Auth(d.JWTSecret)
	adminGate := middleware.RequireAdmin(d.AuthService)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/signin", authHandler.SignIn)
	e.GET("/auth/me", authHandler.Me, authMiddleware)
	e.PATCH("/users/me", userHandler.UpdateMe, authMiddleware)

	// --- Public content ---
	e.GET("/faqs", contentHandler.ListFAQs)
	e.GET("/pricing", contentHandler.Pricing)
	e.GET("/settings/job-posting-fee", contentHandler.JobPostingFee)

	// --- Admin routes: the stored user is re-checked on every call ---
	admin := e.Group("/admin", authMiddleware, adminGate)
	admin.GET("/users", userHandler.List)
	admin.POST("/users/:id/reset-password", userHandler.ResetPassword)
	admin.PATCH("/users/:id", userHandler.AdminUpdate)
	admin.POST("/faqs", contentHandler.CreateFAQ)
	admin.PUT("/faqs/:id", contentHandler.UpdateFAQ)
	admin.DELETE("/faqs/:id", contentHandler.DeleteFAQ)
	admin.GET("/settings", contentHandler.ListSettings)
	admin.PUT("/settings/:key", contentHandler.UpsertSetting)
	admin.PUT("/pricing", contentHandler.SetPricing)
	admin.PUT("/job-posting-fee", contentHandler.SetJobPostingFee)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "writerhub",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
