package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/pkg/pagination"
)

// Lookups return an error matching apperr.ErrNotFound when nothing matches.

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRole(ctx context.Context, role string, p pagination.Params) ([]*User, int, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	// GetUnlinkedByName returns the oldest profile without an account whose
	// name equals name.
	GetUnlinkedByName(ctx context.Context, name string) (*Doctor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, p pagination.Params) ([]*Doctor, int, error)
	Count(ctx context.Context) (int, error)
}

// AppointmentPurger removes the appointments that reference an actor or a
// doctor profile ahead of deleting it.
type AppointmentPurger interface {
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) (int64, error)
	DeleteByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)
}

// TxRunner runs fn inside one datastore transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
