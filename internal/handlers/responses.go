package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/realtime"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UserResponse is the DTO for a single user. It controls which fields are
// exposed in the API; the password hash never leaves the domain.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// NewUserResponse creates a UserResponse DTO from a domain.User model.
func NewUserResponse(user *domain.User) *UserResponse {
	resp := &UserResponse{
		Email: user.Email,
		Name:  user.Name,
	}
	if user.ID != nil {
		resp.ID = user.ID.String()
	}
	if user.CreatedAt != nil {
		resp.CreatedAt = user.CreatedAt.Time
	}
	return resp
}

// TokenResponse carries a freshly issued credential.
type TokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// writeError maps a domain error to an HTTP response with the shared wire
// error code, so REST clients and websocket clients see the same taxonomy.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredential):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUserAlreadyExists):
		status = http.StatusConflict
	}

	code := realtime.ErrorCode(err)
	if errors.Is(err, domain.ErrUserAlreadyExists) {
		code = "USER_EXISTS"
	}

	return c.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
}
