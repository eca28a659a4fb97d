package domain

import (
	"errors"
	"time"
)

// Authority names a permission granted to an identity.
type Authority string

const (
	AuthorityUser Authority = "ROLE_USER"
)

// User is the stored identity for an account holder.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Authorities  []Authority
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")
