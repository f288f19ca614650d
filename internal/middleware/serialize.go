package middleware

import (
	"github.com/labstack/echo/v4"

	"tasklist/internal/repository"
)

// Serialize holds the store lock from before the first guard until the
// handler returns. Echo serves requests concurrently; the store is a single
// mutable collection, so each request's guard checks and handler mutation
// must observe and apply as one atomic step.
func Serialize(store repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := store.Locker()
			l.Lock()
			defer l.Unlock()
			return next(c)
		}
	}
}
