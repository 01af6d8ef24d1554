package database

import (
	"context"
	"fmt"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// UserStore encapsulates database operations for users.
type UserStore struct {
	db *surrealdb.DB
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *surrealdb.DB) *UserStore {
	return &UserStore{db: db}
}

var _ domain.UserRepository = (*UserStore)(nil)

// Create inserts a new user record with the given bcrypt hash.
func (s *UserStore) Create(ctx context.Context, user *domain.User, passwordHash string) (*domain.User, error) {
	existing, err := s.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	query := `
		CREATE user SET
			email = $email,
			name = $name,
			password = $password,
			createdAt = time::now()
		RETURN AFTER
	`
	params := map[string]any{
		"email":    user.Email,
		"name":     user.Name,
		"password": passwordHash,
	}

	created, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("user was not created")
	}

	return created, nil
}

// FindByEmail queries for a single user by their email address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := "SELECT * FROM user WHERE email = $email"
	params := map[string]any{"email": email}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return user, nil
}

// FindByID queries for a single user by their record ID.
func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	recordID, err := parseRecordID("user", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	query := "SELECT * FROM user WHERE id = $id"
	params := map[string]any{"id": recordID}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return user, nil
}

// PasswordHash returns the stored bcrypt hash for the given email.
func (s *UserStore) PasswordHash(ctx context.Context, email string) (string, error) {
	query := "SELECT password FROM user WHERE email = $email"
	params := map[string]any{"email": email}

	type row struct {
		Password string `json:"password"`
	}
	result, err := QueryOne[row](ctx, s.db, query, params)
	if err != nil {
		return "", fmt.Errorf("database query failed: %w", err)
	}
	if result == nil {
		return "", domain.ErrNotFound
	}
	return result.Password, nil
}
