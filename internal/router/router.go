package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tasklist/internal/config"
	"tasklist/internal/handler"
	"tasklist/internal/middleware"
	"tasklist/internal/repository"
)

// Register wires routes, guards and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	store repository.UserRepository,
	guards *middleware.Guards,
	userHandler *handler.UserHandler,
	todoHandler *handler.TodoHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Every data route runs under the store lock so that guard resolution
	// and handler mutation are atomic per request.
	api := e.Group("", middleware.Serialize(store))

	// User routes
	api.POST("/users", userHandler.Register)
	api.GET("/users/:id", userHandler.GetUser, guards.RequireUserByID)
	api.PATCH("/users/:id/pro", userHandler.UpgradeToPro, guards.RequireUserByID)

	// Todo routes
	api.GET("/todos", todoHandler.List, guards.RequireAccount)
	api.POST("/todos", todoHandler.Create, guards.RequireAccount, guards.CheckTodoQuota)
	api.PUT("/todos/:id", todoHandler.Update, guards.RequireTodo)
	api.PATCH("/todos/:id/done", todoHandler.Complete, guards.RequireTodo)
	// Delete composes both user guards; the account and todo lookups are
	// enforced independently.
	api.DELETE("/todos/:id", todoHandler.Delete, guards.RequireAccount, guards.RequireTodo)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
