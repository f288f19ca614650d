package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no user matches the given username or id.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrTodoNotFound is returned when a todo id is not in the owner's list.
	ErrTodoNotFound = errors.New("todo not found")
	// ErrInvalidTodoID is returned when a todo id is not a well-formed UUID.
	ErrInvalidTodoID = errors.New("invalid todo id")
	// ErrUsernameTaken is returned when registering with an existing username.
	ErrUsernameTaken = errors.New("Username already exists")
	// ErrProAlreadyActive is returned when upgrading an account that is already pro.
	ErrProAlreadyActive = errors.New("Pro plan is already activated.")
	// ErrTodoQuotaReached is returned when a free account hits the todo ceiling.
	ErrTodoQuotaReached = errors.New("the maximum limit of ten tasks in free plan has been reached")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrTodoNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "TODO_NOT_FOUND")
	case ErrInvalidTodoID:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TODO_ID")
	case ErrUsernameTaken:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USERNAME_TAKEN")
	case ErrProAlreadyActive:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PRO_ALREADY_ACTIVE")
	case ErrTodoQuotaReached:
		return NewHTTPError(http.StatusForbidden, err.Error(), "TODO_QUOTA_REACHED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
