package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the structure of the data stored inside the JWT.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies the bearer credentials presented during
// the connection handshake and on API requests. Verification is a pure check
// with no side effects beyond producing an identity.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator creates an Authenticator signing with the given secret.
func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed JWT for a specific user.
func (a *Authenticator) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "devconnect",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify parses and validates the signature and expiration of a token string
// and resolves it to a user identity. An empty token yields
// domain.ErrUnauthenticated; any signature or expiry failure yields
// domain.ErrInvalidCredential.
func (a *Authenticator) Verify(ctx context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", domain.ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidCredential, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", domain.ErrInvalidCredential
	}

	return claims.UserID, nil
}
