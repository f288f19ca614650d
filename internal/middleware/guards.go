package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tasklist/internal/errors"
	"tasklist/internal/model"
	"tasklist/internal/service"
)

// UsernameHeader carries the caller's plaintext credential on every todo route.
const UsernameHeader = "username"

const (
	userContextKey = "user"
	todoContextKey = "todo"
)

// UserFrom returns the user resolved by a guard earlier in the chain.
func UserFrom(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// TodoFrom returns the todo resolved by the todo-existence guard.
func TodoFrom(c echo.Context) *model.Todo {
	todo, _ := c.Get(todoContextKey).(*model.Todo)
	return todo
}

// Guards bundles the request-validation middleware. Each guard either rejects
// the request with a mapped domain error or resolves entities into the echo
// context for the handler; a failed guard guarantees the handler never runs.
type Guards struct {
	users service.UserService
	todos service.TodoService
}

// NewGuards creates the guard chain over the given services.
func NewGuards(users service.UserService, todos service.TodoService) *Guards {
	return &Guards{users: users, todos: todos}
}

// RequireAccount resolves the user named by the username header.
func (g *Guards) RequireAccount(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		username := c.Request().Header.Get(UsernameHeader)
		user, err := g.users.GetByUsername(c.Request().Context(), username)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// CheckTodoQuota enforces the free-plan ceiling at todo creation time. Must
// run after RequireAccount.
func (g *Guards) CheckTodoQuota(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := UserFrom(c)
		if !user.CanCreateTodo() {
			httpErr := errors.MapErrorToHTTP(errors.ErrTodoQuotaReached)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// RequireTodo resolves both the owner (username header) and the target todo
// (:id path param). Check order is fixed: user lookup, then id shape, then
// todo lookup, so a malformed id on an unknown user still gets 404.
func (g *Guards) RequireTodo(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		username := c.Request().Header.Get(UsernameHeader)
		user, err := g.users.GetByUsername(ctx, username)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}

		todoID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			httpErr := errors.MapErrorToHTTP(errors.ErrInvalidTodoID)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}

		todo, err := g.todos.Find(ctx, user, todoID)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}

		c.Set(userContextKey, user)
		c.Set(todoContextKey, todo)
		return next(c)
	}
}

// RequireUserByID resolves a user by the :id path param. Unlike RequireTodo
// there is no id-shape precheck: a malformed id is just an unknown id.
func (g *Guards) RequireUserByID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			httpErr := errors.MapErrorToHTTP(errors.ErrUserNotFound)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		user, err := g.users.GetByID(c.Request().Context(), id)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}
