package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/todo-service/internal/domain"
)

var todoCols = []string{"id", "owner_id", "title", "description", "completed", "created_at", "updated_at"}

func TestTodoRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO todos")).
		WithArgs(pgxmock.AnyArg(), "u1", "buy milk", "2%", false).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	todo := &domain.Todo{OwnerID: "u1", Title: "buy milk", Description: "2%"}
	require.NoError(t, repo.Create(context.Background(), todo))
	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, now, todo.UpdatedAt)
}

func TestTodoRepository_ListByOwner(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE owner_id=$1 ORDER BY updated_at DESC")).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(todoCols).
			AddRow("t2", "u1", "second", "", true, now, now).
			AddRow("t1", "u1", "first", "", false, now.Add(-time.Hour), now.Add(-time.Hour)))

	todos, err := repo.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "t2", todos[0].ID)
	assert.True(t, todos[0].Completed)
}

func TestTodoRepository_ListByOwner_Empty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE owner_id=$1")).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(todoCols))

	todos, err := repo.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestTodoRepository_GetByID_ScopedToOwner(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE id=$1 AND owner_id=$2")).
		WithArgs("t1", "intruder").
		WillReturnRows(pgxmock.NewRows(todoCols))

	_, err := repo.GetByID(context.Background(), "intruder", "t1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTodoRepository_Update(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE todos SET title=$1, description=$2, completed=$3")).
		WithArgs("new", "desc", true, "t1", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	todo := &domain.Todo{ID: "t1", OwnerID: "u1", Title: "new", Description: "desc", Completed: true}
	require.NoError(t, repo.Update(context.Background(), todo))
	assert.Equal(t, now, todo.UpdatedAt)
}

func TestTodoRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id=$1 AND owner_id=$2")).
		WithArgs("t1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id=$1 AND owner_id=$2")).
		WithArgs("t1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), "u1", "t1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "t1"), domain.ErrNotFound)
}
