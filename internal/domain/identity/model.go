package identity

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxHandleLen          = 120
	MaxNameLen            = 120
	MaxPhoneLen           = 20
	DefaultSpecialization = "General"
)

// User maps to the users table. Every registered actor is a User; Role is
// fixed at registration.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Doctor maps to the doctors table. UserID links the profile to the account
// that registered it; profiles added by another doctor have none.
type Doctor struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Specialization string     `db:"specialization" json:"specialization"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	UserID         *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username       string `json:"username" form:"username" validate:"required"`
	Password       string `json:"password" form:"password" validate:"required"`
	Role           string `json:"role" form:"role" validate:"omitempty,oneof=patient doctor"`
	Specialization string `json:"specialization" form:"specialization" validate:"max=120"`
}

// LoginInput is the login form.
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// AddDoctorInput is the form for adding a doctor profile without an account.
type AddDoctorInput struct {
	Name           string `json:"name" form:"name" validate:"required,max=120"`
	Specialization string `json:"specialization" form:"specialization" validate:"required,max=120"`
	Phone          string `json:"phone" form:"phone" validate:"max=20"`
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
