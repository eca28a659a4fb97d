package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/todo-service/internal/api/dto"
	"github.com/spec-kit/todo-service/internal/service"
	apperrors "github.com/spec-kit/todo-service/pkg/util/errorutil"
)

const (
	bearerPrefix   = "Bearer "
	maxPasswordLen = 72
)

// AuthHandler exposes registration, login and token validation.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}
	if len(req.Password) > maxPasswordLen {
		return apperrors.NewValidationError("password too long", map[string]any{"max_bytes": maxPasswordLen})
	}

	issued, err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		var conflict *service.ConflictError
		if errors.As(err, &conflict) {
			return apperrors.NewConflict(conflict.Error(), map[string]any{"field": conflict.Field})
		}
		return err
	}

	return c.Status(http.StatusOK).JSON(dto.AuthResponse{Token: issued.Token})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	issued, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) || errors.Is(err, service.ErrIdentityNotFound) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return err
	}

	return c.JSON(dto.AuthResponse{Token: issued.Token})
}

// Validate handles GET /auth/validate.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return apperrors.NewUnauthorized("invalid token")
	}
	if err := h.auth.ValidateToken(header[len(bearerPrefix):]); err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	c.Status(http.StatusOK)
	return nil
}
