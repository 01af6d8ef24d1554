package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// UserIDContextKey is the echo context key holding the authenticated user ID.
const UserIDContextKey = "userID"

// TokenVerifier resolves a bearer token to a user identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Auth creates a middleware that protects routes requiring authentication.
// It accepts the credential from the Authorization header.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
				token, _ = strings.CutPrefix(h, "Bearer ")
			}

			userID, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credential")
			}

			c.Set(UserIDContextKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user ID stored by Auth, or "" when the
// request did not pass through it.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDContextKey).(string)
	return id
}
