package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier struct {
	tokens map[string]string
}

func (v *staticVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	userID, ok := v.tokens[token]
	if !ok {
		return "", domain.ErrInvalidCredential
	}
	return userID, nil
}

func setupEcho() *echo.Echo {
	e := echo.New()
	verifier := &staticVerifier{tokens: map[string]string{"alice-token": "user:alice"}}
	e.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, middleware.UserID(c))
	}, middleware.Auth(verifier))
	return e
}

func TestAuthAcceptsValidToken(t *testing.T) {
	e := setupEcho()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer alice-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user:alice", rec.Body.String())
}

func TestAuthRejectsMissingToken(t *testing.T) {
	e := setupEcho()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	e := setupEcho()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserIDOutsideAuthIsEmpty(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Empty(t, middleware.UserID(c))
}
