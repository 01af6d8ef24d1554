package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/middleware"
	"github.com/devconnect/devconnect/internal/notify"
	"github.com/devconnect/devconnect/internal/realtime"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// NotificationHandler exposes the notification feed and the producer
// endpoint other subsystems call to record a notification.
type NotificationHandler struct {
	service *notify.Service
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *notify.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// NotificationResponse extends the wire payload with the read flag, which
// only matters when fetching history.
type NotificationResponse struct {
	realtime.NotificationPayload
	Read bool `json:"read"`
}

// Create records a notification for another user and announces it to their
// live connections (POST /api/notifications).
func (h *NotificationHandler) Create(c echo.Context) error {
	var in notify.CreateInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
	}

	n, err := h.service.Create(c.Request().Context(), middleware.UserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, NotificationResponse{
		NotificationPayload: realtime.NewNotificationPayload(n),
		Read:                n.Read,
	})
}

// List returns the caller's notifications, newest first
// (GET /api/notifications?limit=N).
func (h *NotificationHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	notifications, err := h.service.ListForUser(c.Request().Context(), middleware.UserID(c), limit)
	if err != nil {
		return writeError(c, err)
	}

	responses := lo.Map(notifications, func(n *domain.Notification, _ int) NotificationResponse {
		return NotificationResponse{
			NotificationPayload: realtime.NewNotificationPayload(n),
			Read:                n.Read,
		}
	})
	return c.JSON(http.StatusOK, responses)
}

// MarkRead flips a notification's read flag (POST /api/notifications/:id/read).
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.service.MarkRead(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
