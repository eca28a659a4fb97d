package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/todo-service/internal/domain"
)

// TodoRepository persists todos. Every lookup is scoped to an owner.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	Update(ctx context.Context, todo *domain.Todo) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type todoRepository struct {
	db DBTX
}

// NewTodoRepository returns a Postgres-backed implementation.
func NewTodoRepository(db DBTX) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	const query = `
        INSERT INTO todos (id, owner_id, title, description, completed)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}
	return r.db.QueryRow(ctx, query,
		todo.ID,
		todo.OwnerID,
		todo.Title,
		todo.Description,
		todo.Completed,
	).Scan(&todo.CreatedAt, &todo.UpdatedAt)
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	const query = `
        UPDATE todos SET title=$1, description=$2, completed=$3, updated_at=NOW()
        WHERE id=$4 AND owner_id=$5
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		todo.Title,
		todo.Description,
		todo.Completed,
		todo.ID,
		todo.OwnerID,
	).Scan(&todo.UpdatedAt)
	return mapNoRows(err)
}

func (r *todoRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	const query = `
        SELECT id, owner_id, title, description, completed, created_at, updated_at
        FROM todos WHERE id=$1 AND owner_id=$2`

	var todo domain.Todo
	if err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&todo.ID,
		&todo.OwnerID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &todo, nil
}

func (r *todoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	const query = `
        SELECT id, owner_id, title, description, completed, created_at, updated_at
        FROM todos WHERE owner_id=$1 ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Todo{}
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.OwnerID,
			&todo.Title,
			&todo.Description,
			&todo.Completed,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, todo)
	}
	return result, rows.Err()
}

func (r *todoRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM todos WHERE id=$1 AND owner_id=$2`

	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
