package contact

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxNameLen  = 120
	MaxEmailLen = 120
)

// Message maps to the contacts table. Messages are never updated.
type Message struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SubmitInput is the contact form.
type SubmitInput struct {
	Name    string `json:"name" form:"name" validate:"required,max=120"`
	Email   string `json:"email" form:"email" validate:"required,max=120,email"`
	Message string `json:"message" form:"message" validate:"required"`
}
