package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
	"github.com/clinicbook/clinicbook/internal/platform/auth"
	"github.com/clinicbook/clinicbook/pkg/pagination"
)

type Service struct {
	repo    AppointmentRepository
	doctors DoctorDirectory
	logger  zerolog.Logger
}

func NewService(repo AppointmentRepository, doctors DoctorDirectory, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		doctors: doctors,
		logger:  logger.With().Str("component", "scheduling").Logger(),
	}
}

// -- Booking --

// BookingForm returns the doctors a patient can book with, ordered by name.
func (s *Service) BookingForm(ctx context.Context, actor auth.Principal) ([]DoctorChoice, error) {
	if err := actor.Require(auth.RolePatient); err != nil {
		return nil, err
	}
	choices, err := s.doctors.DoctorChoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctor choices: %w", err)
	}
	if len(choices) == 0 {
		return nil, apperr.ErrNoDoctorsAvailable
	}
	return choices, nil
}

// Book reserves a slot with a doctor for the calling patient. The slot is
// checked before insert; a concurrent booking that slips past the check is
// rejected by the slot constraint and reported the same way.
func (s *Service) Book(ctx context.Context, actor auth.Principal, in BookInput) (*Appointment, error) {
	if err := actor.Require(auth.RolePatient); err != nil {
		return nil, err
	}

	n, err := s.doctors.CountDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("count doctors: %w", err)
	}
	if n == 0 {
		return nil, apperr.ErrNoDoctorsAvailable
	}

	doctorID, err := uuid.Parse(strings.TrimSpace(in.DoctorID))
	if err != nil {
		return nil, apperr.Validation("doctor_id does not name a doctor")
	}
	ok, err := s.doctors.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("look up doctor: %w", err)
	}
	if !ok {
		return nil, apperr.Validation("doctor_id does not name a doctor")
	}

	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, apperr.Validation("date must be in YYYY-MM-DD format")
	}
	tm, err := time.Parse(TimeLayout, strings.TrimSpace(in.Time))
	if err != nil {
		return nil, apperr.Validation("time must be in HH:MM format")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, apperr.Validation("description is required")
	}

	a := &Appointment{
		PatientID:          actor.ID,
		DoctorID:           doctorID,
		Date:               date.Format(DateLayout),
		Time:               tm.Format(TimeLayout),
		ProblemDescription: desc,
		Status:             StatusPending,
	}

	existing, err := s.repo.FindBySlot(ctx, a.DoctorID, a.Date, a.Time)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if len(existing) > 0 {
		return nil, apperr.ErrSlotTaken
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("doctor_id", a.DoctorID.String()).
		Str("patient_id", a.PatientID.String()).
		Msg("appointment booked")
	return a, nil
}

// -- Administration --

func (s *Service) DeleteAppointment(ctx context.Context, actor auth.Principal, id uuid.UUID) error {
	if err := actor.Require(auth.RoleDoctor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("appointment_id", id.String()).Str("by", actor.ID.String()).Msg("appointment deleted")
	return nil
}

// UpdateStatus sets an appointment's status to the trimmed value verbatim.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Principal, id uuid.UUID, status string) (*Appointment, error) {
	if err := actor.Require(auth.RoleDoctor); err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperr.Validation("status is required")
	}
	if len([]rune(status)) > MaxStatusLen {
		return nil, apperr.Validation("status must be at most %d characters", MaxStatusLen)
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status

	s.logger.Info().
		Str("appointment_id", id.String()).
		Str("status", status).
		Str("by", actor.ID.String()).
		Msg("appointment status updated")
	return a, nil
}

// -- Listing --

// ListAppointments returns the appointments visible to actor: a patient sees
// its own, a doctor sees those of its profile (none without a profile), and
// everyone else sees all of them.
func (s *Service) ListAppointments(ctx context.Context, actor auth.Principal, p pagination.Params) ([]*AppointmentView, int, error) {
	var f ListFilter
	switch actor.Role {
	case auth.RolePatient:
		id := actor.ID
		f.PatientID = &id
	case auth.RoleDoctor:
		id, ok, err := s.doctors.DoctorIDForActor(ctx, actor)
		if err != nil {
			return nil, 0, fmt.Errorf("resolve doctor profile: %w", err)
		}
		if !ok {
			return []*AppointmentView{}, 0, nil
		}
		f.DoctorID = &id
	}
	return s.repo.List(ctx, f, p)
}

func (s *Service) CountAppointments(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
