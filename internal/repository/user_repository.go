package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"tasklist/internal/errors"
	"tasklist/internal/model"
)

// UserRepository defines store operations over the user collection and the
// todo lists embedded in it.
type UserRepository interface {
	CreateUser(ctx context.Context, name, username string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindTodo(ctx context.Context, user *model.User, todoID uuid.UUID) (*model.Todo, error)
	AddTodo(ctx context.Context, user *model.User, todo *model.Todo) error
	RemoveTodo(ctx context.Context, user *model.User, todoID uuid.UUID) error
	// Locker exposes the store mutex. The repository does not lock per call;
	// the router holds this lock for the full guard-and-handler span of each
	// request so that guard checks and handler mutations are atomic.
	Locker() sync.Locker
}

type memoryUserRepository struct {
	mu    sync.Mutex
	users []*model.User
}

// NewMemoryUserRepository builds the process-lifetime in-memory store. State
// starts empty and is discarded on exit; tests construct one per case.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{}
}

// CreateUser registers a new user with a generated id and an empty todo list.
// Username uniqueness is enforced here, at creation time only.
func (r *memoryUserRepository) CreateUser(ctx context.Context, name, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return nil, errors.ErrUsernameTaken
		}
	}
	user := &model.User{
		ID:       uuid.New(),
		Name:     name,
		Username: username,
		Pro:      false,
		Todos:    []*model.Todo{},
	}
	r.users = append(r.users, user)
	return user, nil
}

// FindByID finds a user by its generated id.
func (r *memoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

// FindByUsername finds a user by its username credential.
func (r *memoryUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

// FindTodo searches the owner's list for a todo by id.
func (r *memoryUserRepository) FindTodo(ctx context.Context, user *model.User, todoID uuid.UUID) (*model.Todo, error) {
	for _, t := range user.Todos {
		if t.ID == todoID {
			return t, nil
		}
	}
	return nil, errors.ErrTodoNotFound
}

// AddTodo appends a todo to the owner's list, preserving insertion order.
func (r *memoryUserRepository) AddTodo(ctx context.Context, user *model.User, todo *model.Todo) error {
	user.Todos = append(user.Todos, todo)
	return nil
}

// RemoveTodo removes a todo from the owner's list by id.
func (r *memoryUserRepository) RemoveTodo(ctx context.Context, user *model.User, todoID uuid.UUID) error {
	for i, t := range user.Todos {
		if t.ID == todoID {
			user.Todos = append(user.Todos[:i], user.Todos[i+1:]...)
			return nil
		}
	}
	return errors.ErrTodoNotFound
}

func (r *memoryUserRepository) Locker() sync.Locker {
	return &r.mu
}
