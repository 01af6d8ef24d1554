package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/devconnect/devconnect/internal/auth"
	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles registration and credential issuance.
type AuthHandler struct {
	users         domain.UserRepository
	authenticator *auth.Authenticator
	validate      *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users domain.UserRepository, authenticator *auth.Authenticator) *AuthHandler {
	return &AuthHandler{
		users:         users,
		authenticator: authenticator,
		validate:      validator.New(),
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account (POST /api/auth/register).
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
	}
	if err := h.validate.Struct(req); err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.users.Create(c.Request().Context(), &domain.User{Email: req.Email, Name: req.Name}, hash)
	if err != nil {
		return writeError(c, err)
	}

	slog.Info("User registered", "email", user.Email)
	return c.JSON(http.StatusCreated, NewUserResponse(user))
}

// Login verifies credentials and issues the bearer token used by both the
// REST surface and the websocket handshake (POST /api/auth/login).
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
	}
	if err := h.validate.Struct(req); err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
	}

	hash, err := h.users.PasswordHash(c.Request().Context(), req.Email)
	if err != nil || !auth.CheckPassword(req.Password, hash) {
		return writeError(c, domain.ErrInvalidCredential)
	}

	user, err := h.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil || user == nil || user.ID == nil {
		return writeError(c, domain.ErrInvalidCredential)
	}

	token, err := h.authenticator.Issue(user.ID.String())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: token, User: NewUserResponse(user)})
}

// Me returns the authenticated user's profile (GET /api/users/me).
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.users.FindByID(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	if user == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(http.StatusOK, NewUserResponse(user))
}
