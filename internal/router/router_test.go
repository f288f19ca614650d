package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/config"
	"tasklist/internal/errors"
	"tasklist/internal/handler"
	"tasklist/internal/middleware"
	"tasklist/internal/model"
	"tasklist/internal/repository"
	"tasklist/internal/router"
	"tasklist/internal/service"
)

// newTestServer wires the full application around a fresh in-memory store,
// with the redis cache disabled.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	cfg := &config.Config{ServerPort: "0", CORSOrigins: []string{"*"}}
	store := repository.NewMemoryUserRepository()
	users := service.NewUserService(store, nil)
	todos := service.NewTodoService(store, nil)
	guards := middleware.NewGuards(users, todos)
	router.Register(e, cfg, store, guards, handler.NewUserHandler(users), handler.NewTodoHandler(todos))
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, username string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if username != "" {
		req.Header.Set(middleware.UsernameHeader, username)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func registerUser(t *testing.T, e *echo.Echo, name, username string) model.User {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/users", "", map[string]string{"name": name, "username": username})
	require.Equal(t, http.StatusCreated, rec.Code)
	var user model.User
	decodeJSON(t, rec, &user)
	return user
}

func createTodo(t *testing.T, e *echo.Echo, username, title, deadline string) model.Todo {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/todos", username, map[string]string{"title": title, "deadline": deadline})
	require.Equal(t, http.StatusCreated, rec.Code)
	var todo model.Todo
	decodeJSON(t, rec, &todo)
	return todo
}

func TestRegisterUser(t *testing.T) {
	e := newTestServer(t)

	user := registerUser(t, e, "Alice", "alice")
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.Pro)
	assert.NotNil(t, user.Todos)
	assert.Empty(t, user.Todos)

	// todos serializes as an empty array, never null
	rec := do(t, e, http.MethodGet, "/users/"+user.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"todos":[]`)
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	e := newTestServer(t)

	first := registerUser(t, e, "Alice", "alice")

	rec := do(t, e, http.MethodPost, "/users", "", map[string]string{"name": "Other", "username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errors.ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Username already exists", resp.Error)

	// the store kept only the first registration
	rec = do(t, e, http.MethodGet, "/users/"+first.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found model.User
	decodeJSON(t, rec, &found)
	assert.Equal(t, "Alice", found.Name)
}

func TestRegisterUser_MissingFields(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/users", "", map[string]string{"name": "No Username"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserByID(t *testing.T) {
	e := newTestServer(t)
	user := registerUser(t, e, "Bob", "bob")

	rec := do(t, e, http.MethodGet, "/users/"+user.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found model.User
	decodeJSON(t, rec, &found)
	assert.Equal(t, user.ID, found.ID)

	// unknown and malformed ids are both a missing user
	rec = do(t, e, http.MethodGet, "/users/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodGet, "/users/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpgradeToPro(t *testing.T) {
	e := newTestServer(t)
	user := registerUser(t, e, "Bob", "bob")

	rec := do(t, e, http.MethodPatch, "/users/"+user.ID.String()+"/pro", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var upgraded model.User
	decodeJSON(t, rec, &upgraded)
	assert.True(t, upgraded.Pro)

	// the upgrade is one-way and not repeatable
	rec = do(t, e, http.MethodPatch, "/users/"+user.ID.String()+"/pro", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errors.ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Pro plan is already activated.", resp.Error)

	rec = do(t, e, http.MethodGet, "/users/"+user.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found model.User
	decodeJSON(t, rec, &found)
	assert.True(t, found.Pro)
}

func TestListTodos_UnknownUsername(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/todos", "nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp errors.ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "user does not exist", resp.Error)
}

func TestFreePlanQuota(t *testing.T) {
	e := newTestServer(t)
	user := registerUser(t, e, "Alice", "alice")

	for i := 0; i < model.FreePlanTodoLimit; i++ {
		createTodo(t, e, "alice", fmt.Sprintf("task %d", i), "2025-01-01")
	}

	// the eleventh creation on the free plan is forbidden
	rec := do(t, e, http.MethodPost, "/todos", "alice", map[string]string{"title": "extra", "deadline": "2025-01-01"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var resp errors.ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "the maximum limit of ten tasks in free plan has been reached", resp.Error)

	rec = do(t, e, http.MethodGet, "/todos", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var todos []model.Todo
	decodeJSON(t, rec, &todos)
	assert.Len(t, todos, model.FreePlanTodoLimit)

	// after upgrading to pro the same request succeeds
	rec = do(t, e, http.MethodPatch, "/users/"+user.ID.String()+"/pro", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	createTodo(t, e, "alice", "extra", "2025-01-01")

	rec = do(t, e, http.MethodGet, "/todos", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &todos)
	assert.Len(t, todos, model.FreePlanTodoLimit+1)
}

func TestUpdateTodo(t *testing.T) {
	e := newTestServer(t)
	registerUser(t, e, "Alice", "alice")
	todo := createTodo(t, e, "alice", "old", "2025-01-01")

	rec := do(t, e, http.MethodPut, "/todos/"+todo.ID.String(), "alice", map[string]string{"title": "new", "deadline": "2026-06-30"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Todo
	decodeJSON(t, rec, &updated)
	assert.Equal(t, todo.ID, updated.ID)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, 2026, updated.Deadline.Year())
	assert.False(t, updated.Done)
	assert.Equal(t, todo.CreatedAt, updated.CreatedAt)
}

func TestMarkTodoDone_Idempotent(t *testing.T) {
	e := newTestServer(t)
	registerUser(t, e, "Alice", "alice")
	todo := createTodo(t, e, "alice", "task", "2025-01-01")

	for i := 0; i < 2; i++ {
		rec := do(t, e, http.MethodPatch, "/todos/"+todo.ID.String()+"/done", "alice", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var done model.Todo
		decodeJSON(t, rec, &done)
		assert.True(t, done.Done)
	}
}

func TestDeleteTodo(t *testing.T) {
	e := newTestServer(t)
	registerUser(t, e, "Alice", "alice")
	todo := createTodo(t, e, "alice", "task", "2025-01-01")

	rec := do(t, e, http.MethodDelete, "/todos/"+todo.ID.String(), "alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/todos", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var todos []model.Todo
	decodeJSON(t, rec, &todos)
	assert.Empty(t, todos)

	// a second delete of the same id is a missing todo
	rec = do(t, e, http.MethodDelete, "/todos/"+todo.ID.String(), "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedTodoID(t *testing.T) {
	e := newTestServer(t)
	registerUser(t, e, "Alice", "alice")

	routes := []struct {
		method string
		target string
		body   interface{}
	}{
		{http.MethodPut, "/todos/not-a-uuid", map[string]string{"title": "t", "deadline": "2025-01-01"}},
		{http.MethodPatch, "/todos/not-a-uuid/done", nil},
		{http.MethodDelete, "/todos/not-a-uuid", nil},
	}

	for _, r := range routes {
		// with an existing user the malformed id is rejected as 400
		rec := do(t, e, r.method, r.target, "alice", r.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", r.method, r.target)
		var resp errors.ErrorResponse
		decodeJSON(t, rec, &resp)
		assert.Equal(t, "invalid todo id", resp.Error)

		// with an unknown user the account check wins and reads as 404
		rec = do(t, e, r.method, r.target, "nobody", r.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", r.method, r.target)
	}
}

func TestTodoLifecycle(t *testing.T) {
	e := newTestServer(t)

	user := registerUser(t, e, "A", "a")
	assert.False(t, user.Pro)
	assert.Empty(t, user.Todos)

	todo := createTodo(t, e, "a", "t", "2025-01-01")
	assert.False(t, todo.Done)
	assert.Equal(t, "t", todo.Title)

	rec := do(t, e, http.MethodPatch, "/todos/"+todo.ID.String()+"/done", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var done model.Todo
	decodeJSON(t, rec, &done)
	assert.True(t, done.Done)

	rec = do(t, e, http.MethodDelete, "/todos/"+todo.ID.String(), "a", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, "/todos", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
