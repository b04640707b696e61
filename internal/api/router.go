package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/creative-cluster/studio-api/internal/api/handler"
	"github.com/creative-cluster/studio-api/internal/api/middleware"
	"github.com/creative-cluster/studio-api/internal/core/domain"
	"github.com/creative-cluster/studio-api/internal/core/ports"
)

// Dependencies is everything the router needs to serve the API.
type Dependencies struct {
	Logger        zerolog.Logger
	AuthService   ports.AuthService
	UserService   ports.UserService
	Verifier      middleware.AccessVerifier
	Checks        map[string]handler.DependencyCheck
	CORSOrigins   []string
	AuthRateRPS   float64
	EnableSwagger bool

	// Metrics receives the HTTP collectors and backs /metrics. Nil means the
	// default registry, where the promauto collectors of package metrics live.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	// Outside RequestLogger so the error handler has already set the final status.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "studio",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper:    skipMetricsEndpoint,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: len(deps.CORSOrigins) > 0 && deps.CORSOrigins[0] != "*",
	}))
	e.Use(echomiddleware.BodyLimit("10M"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	adminHandler := handler.NewAdminHandler(deps.UserService, deps.Logger)
	authenticate := middleware.Authenticate(deps.Verifier)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	if deps.AuthRateRPS > 0 {
		auth.Use(authRateLimiter(deps.AuthRateRPS))
	}
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/sign-in", authHandler.SignIn)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/sign-out", authHandler.SignOut, authenticate)
	auth.GET("/me", authHandler.Me, authenticate)

	// --- Profile routes ---
	users := api.Group("/users", authenticate)
	users.GET("/profile", userHandler.GetProfile)
	users.PATCH("/profile", userHandler.UpdateProfile)

	// --- Admin routes ---
	admin := api.Group("/admin", authenticate, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:userId/role", adminHandler.UpdateUserRole)

	// --- Health checks and operational endpoints (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Checks, deps.Logger).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	if deps.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

// authRateLimiter throttles credential endpoints per client IP.
func authRateLimiter(rps float64) echo.MiddlewareFunc {
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.ErrTooManyRequests
		},
	})
}

func skipMetricsEndpoint(c echo.Context) bool {
	return c.Path() == "/metrics"
}
