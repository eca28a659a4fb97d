package service

import (
	"context"
	"errors"

	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/repository"
)

// TodoService manages todos on behalf of their owner.
type TodoService struct {
	todos repository.TodoRepository
}

// NewTodoService builds the service.
func NewTodoService(todos repository.TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

// Create stores a new, incomplete todo for ownerID.
func (s *TodoService) Create(ctx context.Context, ownerID, title, description string) (*domain.Todo, error) {
	todo := &domain.Todo{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// List returns ownerID's todos, most recently updated first.
func (s *TodoService) List(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	return s.todos.ListByOwner(ctx, ownerID)
}

// Get returns a single todo owned by ownerID.
func (s *TodoService) Get(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, mapTodoErr(err)
	}
	return todo, nil
}

// Update replaces the title and description of a todo.
func (s *TodoService) Update(ctx context.Context, ownerID, id, title, description string) (*domain.Todo, error) {
	todo, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	todo.Title = title
	todo.Description = description
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, mapTodoErr(err)
	}
	return todo, nil
}

// Toggle flips the completed flag of a todo.
func (s *TodoService) Toggle(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	todo, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	todo.Completed = !todo.Completed
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, mapTodoErr(err)
	}
	return todo, nil
}

// Delete removes a todo.
func (s *TodoService) Delete(ctx context.Context, ownerID, id string) error {
	return mapTodoErr(s.todos.Delete(ctx, ownerID, id))
}

func mapTodoErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrTodoNotFound
	}
	return err
}
