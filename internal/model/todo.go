package model

import (
	"time"

	"github.com/google/uuid"
)

// Todo is a single task owned by exactly one user.
type Todo struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Deadline  time.Time `json:"deadline"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}
