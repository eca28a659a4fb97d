package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/todo-service/internal/domain"
	apperrors "github.com/spec-kit/todo-service/pkg/util/errorutil"
)

// RequireAuthenticated rejects requests that reached it without a Principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// HasAuthority reports whether the principal was granted authority.
func (p *Principal) HasAuthority(authority domain.Authority) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// RequireAuthority rejects requests whose principal lacks authority.
func RequireAuthority(authority domain.Authority) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.HasAuthority(authority) {
			return apperrors.NewForbidden("insufficient authority")
		}
		return c.Next()
	}
}
