package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"tasklist/internal/cache"
	"tasklist/internal/errors"
	"tasklist/internal/model"
	"tasklist/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes account operations.
type UserService interface {
	Register(ctx context.Context, name, username string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpgradeToPro(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

// Register creates a new free-plan account. The repository rejects duplicate
// usernames, so a failed registration leaves the store untouched.
func (s *userService) Register(ctx context.Context, name, username string) (*model.User, error) {
	user, err := s.repo.CreateUser(ctx, name, username)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, cache.UserKey(user.ID))
	return user, nil
}

// GetByID retrieves a user by id with read-through caching. Cached copies are
// detached from the store and only served on read paths.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, cache.UserKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, cache.UserKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// GetByUsername resolves the per-request username credential. Never cached:
// the result is mutated in place by the todo handlers.
func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// UpgradeToPro flips the account to the pro plan. The transition is one-way;
// upgrading an already-pro account is an error.
func (s *userService) UpgradeToPro(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Pro {
		return nil, errors.ErrProAlreadyActive
	}
	user.Pro = true
	_ = s.cache.Delete(ctx, cache.UserKey(user.ID))
	return user, nil
}
