package model

import "github.com/google/uuid"

// FreePlanTodoLimit is the maximum number of todos a free account may hold.
const FreePlanTodoLimit = 10

// User represents a registered account owning an ordered list of todos.
type User struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Pro      bool      `json:"pro"`
	Todos    []*Todo   `json:"todos"`
}

// CanCreateTodo reports whether the account is allowed to create another todo.
// Pro accounts are uncapped; free accounts are limited to FreePlanTodoLimit.
func (u *User) CanCreateTodo() bool {
	return u.Pro || len(u.Todos) < FreePlanTodoLimit
}
