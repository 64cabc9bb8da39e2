package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"pulselog/internal/auth"
	"pulselog/internal/user"
	"pulselog/internal/utility"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Platform"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(LoggerMiddleware)

	// Public routes
	e.GET("/health", s.healthHandler)
	e.GET("/analyze", s.analyze.Capabilities)

	// Protected routes
	protected := e.Group("")
	protected.Use(auth.JwtAuthMiddleware)

	// Analysis pipeline
	protected.POST("/analyze", s.analyze.Analyze)

	// Activity history
	protected.GET("/activities", user.GetActivitiesHandler)
	protected.GET("/activities/:activity_id", user.GetActivityHandler)
	protected.DELETE("/activities/:activity_id", user.DeleteActivityHandler)

	// User profile
	protected.GET("/profile", user.GetProfileHandler)
	protected.PUT("/profile", user.UpsertProfileHandler)
	protected.GET("/user/overview", user.GetOverviewHandler)

	// Operational status
	protected.GET("/status", s.statusHandler)
	protected.GET("/status/ws", s.statusWebsocketHandler)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().
			Str("request_id", requestID).
			Str("client_ip", utility.GetRealIP(c)).
			Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
