package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common business logic failures. Handlers and the realtime layer
// translate them into HTTP status codes and wire error events respectively.
var (
	// ErrUnauthenticated indicates a request or connection handshake arrived
	// without any credential.
	ErrUnauthenticated = errors.New("no credential provided")

	// ErrInvalidCredential indicates the presented credential failed
	// signature or expiry checks.
	ErrInvalidCredential = errors.New("invalid or expired credential")

	// ErrInvalidRequest indicates a malformed payload (empty content,
	// missing receiver, self-addressed message).
	ErrInvalidRequest = errors.New("invalid request payload")

	// ErrForbidden indicates the authenticated identity is not allowed to
	// perform the operation (e.g. editing someone else's message).
	ErrForbidden = errors.New("not authorized to perform this action")

	// ErrNotFound indicates the referenced resource does not exist.
	ErrNotFound = errors.New("requested resource not found")

	// ErrUserAlreadyExists is returned when trying to create a user with an
	// email that is already registered.
	ErrUserAlreadyExists = errors.New("user with this email already exists")

	// ErrPersistence wraps storage gateway failures. Nothing is delivered to
	// any connection when persistence fails.
	ErrPersistence = errors.New("persistence failure")
)
