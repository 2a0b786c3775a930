package models

import (
	"time"

	"github.com/google/uuid"
)

// TodoDB represents a todo record in the database.
type TodoDB struct {
	TodoID      uuid.UUID `json:"id" db:"todo_id"`             // Primary key
	UserID      uuid.UUID `json:"-" db:"user_id"`              // Owning user
	Title       string    `json:"title" db:"title"`            // Short title
	Description string    `json:"desc" db:"description"`       // Free-form description
	Completed   bool      `json:"completed" db:"completed"`    // Completion flag
	CreatedAt   time.Time `json:"created_at" db:"created_at"`  // Creation timestamp
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`  // Set on every mutation
}
