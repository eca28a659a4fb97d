package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/todo-service/internal/domain"
)

const (
	principalKey = "auth_principal"
	bearerPrefix = "Bearer "
)

// Principal represents the authenticated caller for the lifetime of one request.
type Principal struct {
	Username    string
	Authorities []domain.Authority
	User        *domain.User
}

// RejectionRecorder counts token rejections by kind.
type RejectionRecorder interface {
	RecordTokenRejection(kind string)
}

// AuthMiddleware attaches a Principal to requests carrying a valid bearer
// token. It never rejects a request itself; routes that need an identity are
// guarded by RequireAuthenticated.
type AuthMiddleware struct {
	tokens  *TokenManager
	users   IdentityLookup
	logger  *zap.Logger
	metrics RejectionRecorder
}

// NewAuthMiddleware constructs middleware. metrics may be nil.
func NewAuthMiddleware(tokens *TokenManager, users IdentityLookup, logger *zap.Logger, metrics RejectionRecorder) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger, metrics: metrics}
}

// Handle enriches the request with a Principal when possible and always
// forwards to the next handler exactly once.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	m.authenticate(c)
	return c.Next()
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return
	}
	token := authHeader[len(bearerPrefix):]

	username, err := m.tokens.ExtractSubject(token)
	if err != nil {
		m.reject(c, err)
		return
	}

	if _, ok := PrincipalFromContext(c); ok {
		return
	}

	user, err := m.users.GetByUsername(c.UserContext(), username)
	if err != nil || user == nil {
		m.logger.Debug("token subject lookup failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return
	}

	if err := m.tokens.VerifyForUser(token, user.Username); err != nil {
		m.reject(c, err)
		return
	}

	c.Locals(principalKey, &Principal{
		Username:    username,
		Authorities: append([]domain.Authority(nil), user.Authorities...),
		User:        user,
	})
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, err error) {
	kind := TokenErrorKind(err)
	m.logger.Debug("bearer token rejected",
		zap.String("kind", kind),
		zap.String("path", c.Path()),
	)
	if m.metrics != nil {
		m.metrics.RecordTokenRejection(kind)
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil
}

// SetPrincipal binds principal to the request.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}
