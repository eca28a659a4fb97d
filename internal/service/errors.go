package service

import "errors"

var (
	// ErrIdentityConflict is returned when a username or email is already registered.
	ErrIdentityConflict = errors.New("identity conflict")
	// ErrAuthenticationFailed covers both unknown usernames and wrong passwords.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrIdentityNotFound is returned when an identity vanished between credential
	// verification and loading.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrInvalidToken is the single failure reported by token validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTodoNotFound is returned when a todo does not exist for the caller.
	ErrTodoNotFound = errors.New("todo not found")
)

// ConflictError names the field that collided during registration.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}

// Is reports ErrIdentityConflict as the error kind.
func (e *ConflictError) Is(target error) bool {
	return target == ErrIdentityConflict
}
