package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/todo-service/internal/domain"
)

// ErrBadCredentials reports an unknown username or a wrong password. The two
// cases are deliberately indistinguishable.
var ErrBadCredentials = errors.New("bad credentials")

// PasswordHasher hashes and compares passwords with a one-way adaptive hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, plain string) error
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when cost is out of range.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash hashes a plaintext password with the configured cost.
func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare verifies a password against its hashed value.
func (h BcryptHasher) Compare(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// IdentityLookup loads a stored identity by username.
type IdentityLookup interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// CredentialVerifier checks a username/password pair against the identity store.
type CredentialVerifier struct {
	users  IdentityLookup
	hasher PasswordHasher
}

// NewCredentialVerifier constructs a verifier.
func NewCredentialVerifier(users IdentityLookup, hasher PasswordHasher) *CredentialVerifier {
	return &CredentialVerifier{users: users, hasher: hasher}
}

// Verify returns nil when username exists and password matches its hash, and
// ErrBadCredentials otherwise. Store failures other than a missing identity are
// returned as-is.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) error {
	user, err := v.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrBadCredentials
		}
		return err
	}
	if err := v.hasher.Compare(user.PasswordHash, password); err != nil {
		return ErrBadCredentials
	}
	return nil
}
