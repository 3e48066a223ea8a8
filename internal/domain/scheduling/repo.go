package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/platform/auth"
	"github.com/clinicbook/clinicbook/pkg/pagination"
)

type AppointmentRepository interface {
	// Create inserts a Pending appointment; an occupied slot yields apperr.ErrSlotTaken.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindBySlot(ctx context.Context, doctorID uuid.UUID, date, tm string) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) (int64, error)
	DeleteByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)
	List(ctx context.Context, f ListFilter, p pagination.Params) ([]*AppointmentView, int, error)
	Count(ctx context.Context) (int, error)
}

// DoctorDirectory answers the questions booking and listing ask about doctor
// profiles.
type DoctorDirectory interface {
	CountDoctors(ctx context.Context) (int, error)
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
	// DoctorIDForActor resolves a doctor account to its profile; ok is false
	// when the account has none.
	DoctorIDForActor(ctx context.Context, actor auth.Principal) (id uuid.UUID, ok bool, err error)
	DoctorChoices(ctx context.Context) ([]DoctorChoice, error)
}
