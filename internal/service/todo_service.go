package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tasklist/internal/cache"
	"tasklist/internal/errors"
	"tasklist/internal/model"
	"tasklist/internal/repository"
)

// TodoService exposes todo operations on an already-resolved owner.
type TodoService interface {
	List(ctx context.Context, user *model.User) ([]*model.Todo, error)
	Create(ctx context.Context, user *model.User, title string, deadline time.Time) (*model.Todo, error)
	Find(ctx context.Context, user *model.User, todoID uuid.UUID) (*model.Todo, error)
	Update(ctx context.Context, user *model.User, todo *model.Todo, title string, deadline time.Time) (*model.Todo, error)
	Complete(ctx context.Context, user *model.User, todo *model.Todo) (*model.Todo, error)
	Delete(ctx context.Context, user *model.User, todo *model.Todo) error
}

type todoService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewTodoService builds a TodoService with repository and cache.
func NewTodoService(repo repository.UserRepository, cache *cache.Client) TodoService {
	return &todoService{repo: repo, cache: cache}
}

// invalidate drops the owner's cached document; todos are embedded in it.
func (s *todoService) invalidate(ctx context.Context, user *model.User) {
	_ = s.cache.Delete(ctx, cache.UserKey(user.ID))
}

// List returns the owner's todos in insertion order. May be empty, never nil.
func (s *todoService) List(ctx context.Context, user *model.User) ([]*model.Todo, error) {
	return user.Todos, nil
}

// Create appends a new todo for the owner. The free-plan quota applies here
// and only here; it never constrains reads or later mutations.
func (s *todoService) Create(ctx context.Context, user *model.User, title string, deadline time.Time) (*model.Todo, error) {
	if !user.CanCreateTodo() {
		return nil, errors.ErrTodoQuotaReached
	}
	todo := &model.Todo{
		ID:        uuid.New(),
		Title:     title,
		Deadline:  deadline,
		Done:      false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddTodo(ctx, user, todo); err != nil {
		return nil, err
	}
	s.invalidate(ctx, user)
	return todo, nil
}

// Find looks up a todo in the owner's list.
func (s *todoService) Find(ctx context.Context, user *model.User, todoID uuid.UUID) (*model.Todo, error) {
	return s.repo.FindTodo(ctx, user, todoID)
}

// Update overwrites title and deadline in place. Done, CreatedAt and ID are
// untouched.
func (s *todoService) Update(ctx context.Context, user *model.User, todo *model.Todo, title string, deadline time.Time) (*model.Todo, error) {
	todo.Title = title
	todo.Deadline = deadline
	s.invalidate(ctx, user)
	return todo, nil
}

// Complete marks a todo as done. Idempotent: completing an already-done todo
// succeeds and leaves it done.
func (s *todoService) Complete(ctx context.Context, user *model.User, todo *model.Todo) (*model.Todo, error) {
	todo.Done = true
	s.invalidate(ctx, user)
	return todo, nil
}

// Delete removes the todo from its owner's list. The repository re-checks
// membership and reports a missing todo even after guard resolution.
func (s *todoService) Delete(ctx context.Context, user *model.User, todo *model.Todo) error {
	if err := s.repo.RemoveTodo(ctx, user, todo.ID); err != nil {
		return err
	}
	s.invalidate(ctx, user)
	return nil
}
