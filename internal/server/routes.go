package server

import (
	"net/http"

	"github.com/devconnect/devconnect/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter()
	authenticated := middleware.Auth(s.authenticator)

	// The websocket endpoint does its own handshake authentication so
	// browser clients can pass the token as a query parameter.
	s.E.GET("/ws", s.bridge.Handler())

	s.E.POST("/api/auth/register", s.authHandler.Register, rateLimiter)
	s.E.POST("/api/auth/login", s.authHandler.Login, rateLimiter)

	api := s.E.Group("/api", authenticated)

	api.GET("/users/me", s.authHandler.Me)

	api.GET("/conversations/:userId", s.messageHandler.Conversation)
	api.POST("/conversations/:userId", s.messageHandler.Send)
	api.PATCH("/messages/:id", s.messageHandler.Edit)
	api.DELETE("/messages/:id", s.messageHandler.Delete)
	api.POST("/messages/:id/read", s.messageHandler.MarkRead)

	api.GET("/notifications", s.notificationHandler.List)
	api.POST("/notifications", s.notificationHandler.Create)
	api.POST("/notifications/:id/read", s.notificationHandler.MarkRead)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
