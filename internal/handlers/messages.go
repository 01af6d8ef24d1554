package handlers

import (
	"fmt"
	"net/http"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/messaging"
	"github.com/devconnect/devconnect/internal/middleware"
	"github.com/devconnect/devconnect/internal/realtime"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// MessageHandler exposes the message history and the REST fallbacks for
// clients without a live websocket.
type MessageHandler struct {
	service *messaging.Service
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service *messaging.Service) *MessageHandler {
	return &MessageHandler{service: service}
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type editMessageRequest struct {
	Content string `json:"content"`
}

// Conversation returns the full exchange with another user, oldest first
// (GET /api/conversations/:userId).
func (h *MessageHandler) Conversation(c echo.Context) error {
	msgs, err := h.service.Conversation(c.Request().Context(), middleware.UserID(c), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}

	payloads := lo.Map(msgs, func(m *domain.Message, _ int) realtime.MessagePayload {
		return realtime.NewMessagePayload(m)
	})
	return c.JSON(http.StatusOK, payloads)
}

// Send persists and delivers a message over REST (POST /api/conversations/:userId).
// The websocket sendMessage event is the primary path; this covers clients
// without a live connection.
func (h *MessageHandler) Send(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
	}

	msg, err := h.service.Send(c.Request().Context(), middleware.UserID(c), messaging.SendInput{
		ReceiverID: c.Param("userId"),
		Content:    req.Content,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, realtime.NewMessagePayload(msg))
}

// Edit replaces a message's content (PATCH /api/messages/:id).
func (h *MessageHandler) Edit(c echo.Context) error {
	var req editMessageRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
	}

	msg, err := h.service.Edit(c.Request().Context(), middleware.UserID(c), messaging.EditInput{
		MessageID: c.Param("id"),
		Content:   req.Content,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, realtime.NewMessagePayload(msg))
}

// Delete removes a message (DELETE /api/messages/:id).
func (h *MessageHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkRead flips the read flag on a message (POST /api/messages/:id/read).
func (h *MessageHandler) MarkRead(c echo.Context) error {
	if err := h.service.MarkRead(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
