package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/todo-service/internal/api/http/handlers"
	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Todos          *handlers.TodosHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The bearer token filter runs on every
// route; only the todo group requires it to have produced a principal.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/validate", cfg.Auth.Validate)

	todos := app.Group("/todos", auth.RequireAuthenticated(), auth.RequireAuthority(domain.AuthorityUser))
	todos.Post("/", cfg.Todos.Create)
	todos.Get("/", cfg.Todos.List)
	todos.Get("/:id", cfg.Todos.Get)
	todos.Put("/:id", cfg.Todos.Update)
	todos.Put("/:id/toggle", cfg.Todos.Toggle)
	todos.Delete("/:id", cfg.Todos.Delete)
}
