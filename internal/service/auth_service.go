package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/events"
	"github.com/spec-kit/todo-service/internal/repository"
)

// IssuedToken is an access token handed back to the client.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	hasher     auth.PasswordHasher
	verifier   *auth.CredentialVerifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Hasher     auth.PasswordHasher
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service. Dispatcher and Logger are optional.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   deps.Tokens,
		hasher:     deps.Hasher,
		verifier:   auth.NewCredentialVerifier(deps.UserRepo, deps.Hasher),
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Register creates a new identity and returns a token bound to its username.
// The username is checked before the email, so a double collision reports the
// username. The checks are not atomic with the insert; concurrent registrations
// of the same username can both succeed.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (IssuedToken, error) {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return IssuedToken{}, &ConflictError{Field: "username"}
	}

	exists, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return IssuedToken{}, &ConflictError{Field: "email"}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Authorities:  []domain.Authority{domain.AuthorityUser},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return IssuedToken{}, fmt.Errorf("create user: %w", err)
	}

	issued, err := s.issue(user)
	if err != nil {
		return IssuedToken{}, err
	}
	s.publish(ctx, events.EventUserRegistered, user)
	return issued, nil
}

// Authenticate verifies credentials and returns a fresh token.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (IssuedToken, error) {
	if err := s.verifier.Verify(ctx, username, password); err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			return IssuedToken{}, ErrAuthenticationFailed
		}
		return IssuedToken{}, fmt.Errorf("verify credentials: %w", err)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return IssuedToken{}, ErrIdentityNotFound
		}
		return IssuedToken{}, fmt.Errorf("load user: %w", err)
	}

	issued, err := s.issue(user)
	if err != nil {
		return IssuedToken{}, err
	}
	s.publish(ctx, events.EventUserLoggedIn, user)
	return issued, nil
}

// ValidateToken returns ErrInvalidToken for any token that cannot be decoded
// or is not currently valid. The underlying cause is never exposed.
func (s *AuthService) ValidateToken(token string) error {
	if _, err := s.tokenMgr.ExtractSubject(token); err != nil {
		return ErrInvalidToken
	}
	if _, err := s.tokenMgr.Verify(token); err != nil {
		s.logger.Debug("token validation failed", zap.String("kind", auth.TokenErrorKind(err)))
		return ErrInvalidToken
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (IssuedToken, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("issue token: %w", err)
	}
	return IssuedToken{Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, user *domain.User) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    user.ID,
		Username:  user.Username,
		Timestamp: time.Now().UTC(),
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish auth event", zap.String("type", string(eventType)), zap.Error(err))
	}
}
