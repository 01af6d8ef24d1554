package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// User represents the core user model in the application domain.
// The password field holds the bcrypt hash and is never serialized.
type User struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	Email     string                        `json:"email"`
	Name      string                        `json:"name,omitempty"`
	Password  string                        `json:"-"`
	CreatedAt *surrealmodels.CustomDateTime `json:"createdAt,omitempty"`
}

// UserRepository defines the contract for user data storage operations.
// It lives in the domain because it's a requirement OF the domain, not
// of the database implementation.
type UserRepository interface {
	// Create inserts a new user with a pre-hashed password.
	// Returns ErrUserAlreadyExists when the email is taken.
	Create(ctx context.Context, user *User, passwordHash string) (*User, error)

	// FindByEmail returns the user with the given email, or nil when absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the user with the given record ID, or nil when absent.
	FindByID(ctx context.Context, id string) (*User, error)

	// PasswordHash returns the stored bcrypt hash for the given email.
	PasswordHash(ctx context.Context, email string) (string, error)
}
