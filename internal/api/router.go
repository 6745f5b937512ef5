package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/profilehub/membership-service/docs"
	"github.com/profilehub/membership-service/internal/api/handler"
	"github.com/profilehub/membership-service/internal/api/middleware"
	"github.com/profilehub/membership-service/internal/core/ports"
	"github.com/profilehub/membership-service/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router exposes over HTTP.
type Dependencies struct {
	Profiles   ports.UserProfileService
	Membership ports.MembershipService
	Forms      ports.FormValidationService
	// Readiness maps dependency names to their connectivity checks.
	Readiness map[string]handlers.Pinger
	Log       zerolog.Logger
	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "membership",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper:    skipInfraRoutes,
	}))

	// --- Health probes and operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API v1 ---
	userHandler := handler.NewUserHandler(deps.Profiles, deps.Forms)
	membershipHandler := handler.NewMembershipHandler(deps.Membership)

	v1 := e.Group("/v1")
	v1.GET("/users", userHandler.List)
	v1.GET("/users/:id", userHandler.Get)
	v1.PATCH("/users/:id", userHandler.Update)
	v1.PUT("/users/:id/profile", userHandler.ReplaceProfile)
	v1.POST("/users/:id/membership/upgrade", membershipHandler.Upgrade)
	v1.POST("/forms/edit-profile/validate", userHandler.ValidateEditForm)

	return e
}

func skipInfraRoutes(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}
