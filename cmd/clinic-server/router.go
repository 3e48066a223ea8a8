package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/config"
	"github.com/clinicbook/clinicbook/internal/domain/contact"
	"github.com/clinicbook/clinicbook/internal/domain/dashboard"
	"github.com/clinicbook/clinicbook/internal/domain/identity"
	"github.com/clinicbook/clinicbook/internal/domain/scheduling"
	"github.com/clinicbook/clinicbook/internal/platform/auth"
	"github.com/clinicbook/clinicbook/internal/platform/db"
	"github.com/clinicbook/clinicbook/internal/platform/middleware"
)

const bodyLimit = "1M"

type routerDeps struct {
	validator echo.Validator
	sessions  *auth.SessionManager
	revoked   auth.RevocationStore
	actors    auth.ActorLookup
	limiter   *middleware.RateLimiter

	identity   *identity.Handler
	scheduling *scheduling.Handler
	contact    *contact.Handler
	dashboard  *dashboard.Handler
	dbHealth   echo.HandlerFunc
}

func newRouter(cfg *config.Config, logger zerolog.Logger, d routerDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = d.validator
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.CookieSecure))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit(bodyLimit))
	e.Use(auth.SessionMiddleware(d.sessions, d.revoked, d.actors, logger))

	// Health checks
	e.GET("/health", db.LivenessHandler())
	if d.dbHealth != nil {
		e.GET("/health/db", d.dbHealth)
	}

	throttle := middleware.RateLimit(d.limiter)
	root := e.Group("")
	d.dashboard.RegisterRoutes(root)
	d.identity.RegisterRoutes(root, identity.RouteOptions{
		Throttle:  throttle,
		LegacyGET: cfg.LegacyGetMutations,
	})
	d.scheduling.RegisterRoutes(root, scheduling.RouteOptions{LegacyGET: cfg.LegacyGetMutations})
	d.contact.RegisterRoutes(root, throttle)

	return e
}
