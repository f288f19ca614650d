package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tasklist/internal/errors"
	"tasklist/internal/middleware"
	"tasklist/internal/service"
)

// TodoHandler handles todo endpoints. Entity resolution happens in the guard
// chain; handlers only run business logic on already-resolved users and todos.
type TodoHandler struct {
	svc service.TodoService
}

// NewTodoHandler creates a new todo handler.
func NewTodoHandler(svc service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// TodoRequest is the create/update payload.
type TodoRequest struct {
	Title    string `json:"title" validate:"required"`
	Deadline string `json:"deadline" validate:"required"`
}

// deadlineLayouts are the accepted deadline formats: RFC 3339 date-times and
// bare dates.
var deadlineLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDeadline(s string) (time.Time, error) {
	var err error
	for _, layout := range deadlineLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// bindTodoRequest binds and validates the payload, then parses the deadline.
func bindTodoRequest(c echo.Context) (TodoRequest, time.Time, error) {
	var req TodoRequest
	if err := c.Bind(&req); err != nil {
		return req, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return req, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return req, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid deadline",
			Code:  "VALIDATION_ERROR",
		})
	}
	return req, deadline, nil
}

// List godoc
// @Summary List the caller's todos
// @Tags todos
// @Produce json
// @Param username header string true "Username"
// @Success 200 {array} model.Todo
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	todos, err := h.svc.List(c.Request().Context(), middleware.UserFrom(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, todos)
}

// Create godoc
// @Summary Create a todo
// @Tags todos
// @Accept json
// @Produce json
// @Param username header string true "Username"
// @Param todo body TodoRequest true "Todo payload"
// @Success 201 {object} model.Todo
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	req, deadline, err := bindTodoRequest(c)
	if err != nil {
		return err
	}
	todo, err := h.svc.Create(c.Request().Context(), middleware.UserFrom(c), req.Title, deadline)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, todo)
}

// Update godoc
// @Summary Update a todo's title and deadline
// @Tags todos
// @Accept json
// @Produce json
// @Param username header string true "Username"
// @Param id path string true "Todo ID"
// @Param todo body TodoRequest true "Todo payload"
// @Success 200 {object} model.Todo
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	req, deadline, err := bindTodoRequest(c)
	if err != nil {
		return err
	}
	todo, err := h.svc.Update(c.Request().Context(), middleware.UserFrom(c), middleware.TodoFrom(c), req.Title, deadline)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, todo)
}

// Complete godoc
// @Summary Mark a todo as done
// @Tags todos
// @Produce json
// @Param username header string true "Username"
// @Param id path string true "Todo ID"
// @Success 200 {object} model.Todo
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id}/done [patch]
func (h *TodoHandler) Complete(c echo.Context) error {
	todo, err := h.svc.Complete(c.Request().Context(), middleware.UserFrom(c), middleware.TodoFrom(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, todo)
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Param username header string true "Username"
// @Param id path string true "Todo ID"
// @Success 204 "No Content"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), middleware.UserFrom(c), middleware.TodoFrom(c)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
