package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/todo-service/internal/api/dto"
	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/service"
	apperrors "github.com/spec-kit/todo-service/pkg/util/errorutil"
)

// TodosHandler exposes the authenticated caller's todos.
type TodosHandler struct {
	todos *service.TodoService
}

// NewTodosHandler constructs handler.
func NewTodosHandler(todoService *service.TodoService) *TodosHandler {
	return &TodosHandler{todos: todoService}
}

// Create handles POST /todos.
func (h *TodosHandler) Create(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	req, err := parseTodoRequest(c)
	if err != nil {
		return err
	}

	todo, err := h.todos.Create(c.UserContext(), ownerID, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(dto.NewTodoResponse(todo))
}

// List handles GET /todos.
func (h *TodosHandler) List(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	todos, err := h.todos.List(c.UserContext(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTodoListResponse(todos))
}

// Get handles GET /todos/:id.
func (h *TodosHandler) Get(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	todo, err := h.todos.Get(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return mapTodoError(err)
	}
	return c.JSON(dto.NewTodoResponse(todo))
}

// Update handles PUT /todos/:id.
func (h *TodosHandler) Update(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	req, err := parseTodoRequest(c)
	if err != nil {
		return err
	}
	todo, err := h.todos.Update(c.UserContext(), ownerID, c.Params("id"), req.Title, req.Description)
	if err != nil {
		return mapTodoError(err)
	}
	return c.JSON(dto.NewTodoResponse(todo))
}

// Toggle handles PUT /todos/:id/toggle.
func (h *TodosHandler) Toggle(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	todo, err := h.todos.Toggle(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return mapTodoError(err)
	}
	return c.JSON(dto.NewTodoResponse(todo))
}

// Delete handles DELETE /todos/:id.
func (h *TodosHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	if err := h.todos.Delete(c.UserContext(), ownerID, c.Params("id")); err != nil {
		return mapTodoError(err)
	}
	c.Status(http.StatusOK)
	return nil
}

func ownerFrom(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return "", apperrors.NewUnauthorized("authentication required")
	}
	return principal.User.ID, nil
}

func parseTodoRequest(c *fiber.Ctx) (dto.TodoRequest, error) {
	var req dto.TodoRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" {
		return req, apperrors.NewValidationError("title required", nil)
	}
	return req, nil
}

func mapTodoError(err error) error {
	if errors.Is(err, service.ErrTodoNotFound) {
		return apperrors.NewNotFound("todo", map[string]any{})
	}
	return err
}
