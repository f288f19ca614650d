package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/errors"
	"tasklist/internal/model"
)

func TestCreateUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "Alice", "alice")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.Pro)
	assert.NotNil(t, user.Todos)
	assert.Empty(t, user.Todos)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	first, err := repo.CreateUser(ctx, "Alice", "alice")
	require.NoError(t, err)

	second, err := repo.CreateUser(ctx, "Other Alice", "alice")
	assert.Nil(t, second)
	assert.Equal(t, errors.ErrUsernameTaken, err)

	// the store still resolves the first registration only
	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "Alice", found.Name)
}

func TestFindByUsernameAndID(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "Bob", "bob")
	require.NoError(t, err)

	byName, err := repo.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Same(t, user, byName)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Same(t, user, byID)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.Equal(t, errors.ErrUserNotFound, err)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.Equal(t, errors.ErrUserNotFound, err)
}

func TestTodoOperations(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "Carol", "carol")
	require.NoError(t, err)

	first := &model.Todo{ID: uuid.New(), Title: "first", CreatedAt: time.Now()}
	second := &model.Todo{ID: uuid.New(), Title: "second", CreatedAt: time.Now()}
	require.NoError(t, repo.AddTodo(ctx, user, first))
	require.NoError(t, repo.AddTodo(ctx, user, second))

	// insertion order is preserved
	require.Len(t, user.Todos, 2)
	assert.Equal(t, "first", user.Todos[0].Title)
	assert.Equal(t, "second", user.Todos[1].Title)

	found, err := repo.FindTodo(ctx, user, second.ID)
	require.NoError(t, err)
	assert.Same(t, second, found)

	_, err = repo.FindTodo(ctx, user, uuid.New())
	assert.Equal(t, errors.ErrTodoNotFound, err)

	require.NoError(t, repo.RemoveTodo(ctx, user, first.ID))
	require.Len(t, user.Todos, 1)
	assert.Equal(t, "second", user.Todos[0].Title)

	// removing again reports the todo as missing
	err = repo.RemoveTodo(ctx, user, first.ID)
	assert.Equal(t, errors.ErrTodoNotFound, err)
}

func TestTodosNotSharedBetweenUsers(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	alice, err := repo.CreateUser(ctx, "Alice", "alice")
	require.NoError(t, err)
	bob, err := repo.CreateUser(ctx, "Bob", "bob")
	require.NoError(t, err)

	todo := &model.Todo{ID: uuid.New(), Title: "alice only"}
	require.NoError(t, repo.AddTodo(ctx, alice, todo))

	_, err = repo.FindTodo(ctx, bob, todo.ID)
	assert.Equal(t, errors.ErrTodoNotFound, err)
}
