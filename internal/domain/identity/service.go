package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
	"github.com/clinicbook/clinicbook/internal/platform/auth"
	"github.com/clinicbook/clinicbook/pkg/pagination"
)

type Service struct {
	users        UserRepository
	doctors      DoctorRepository
	appointments AppointmentPurger
	tx           TxRunner
	sessions     *auth.SessionManager
	revoked      auth.RevocationStore
	logger       zerolog.Logger
}

func NewService(
	users UserRepository,
	doctors DoctorRepository,
	appointments AppointmentPurger,
	tx TxRunner,
	sessions *auth.SessionManager,
	revoked auth.RevocationStore,
	logger zerolog.Logger,
) *Service {
	return &Service{
		users:        users,
		doctors:      doctors,
		appointments: appointments,
		tx:           tx,
		sessions:     sessions,
		revoked:      revoked,
		logger:       logger.With().Str("component", "identity").Logger(),
	}
}

// -- Registration & Sessions --

// Register creates an actor. A doctor registration also creates the doctor's
// profile, linked to the new account, in the same transaction. Registration
// does not log the actor in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	username := truncate(strings.TrimSpace(in.Username), MaxHandleLen)
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	if in.Password == "" {
		return nil, apperr.Validation("password is required")
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = auth.RolePatient
	}
	if !auth.ValidRole(role) {
		return nil, apperr.Validation("role must be one of: patient, doctor")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperr.ErrDuplicateHandle
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{Username: username, PasswordHash: hash, Role: role}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		if role != auth.RoleDoctor {
			return nil
		}
		spec := truncate(strings.TrimSpace(in.Specialization), MaxNameLen)
		if spec == "" {
			spec = DefaultSpecialization
		}
		return s.doctors.Create(ctx, &Doctor{
			Name:           truncate(username, MaxNameLen),
			Specialization: spec,
			UserID:         &u.ID,
		})
	})
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicateHandle) {
			return nil, err
		}
		return nil, fmt.Errorf("register %s: %w", role, err)
	}

	s.logger.Info().Str("user_id", u.ID.String()).Str("role", role).Msg("actor registered")
	return u, nil
}

// Authenticate checks a handle and secret. Unknown handles and wrong secrets
// yield the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = truncate(strings.TrimSpace(username), MaxHandleLen)
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a session token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*User, auth.Session, error) {
	u, err := s.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, auth.Session{}, err
	}
	sess, err := s.sessions.Issue(auth.Principal{ID: u.ID, Handle: u.Username, Role: u.Role})
	if err != nil {
		return nil, auth.Session{}, err
	}
	return u, sess, nil
}

// LookupActor reloads a session's actor by id. ok is false once the actor
// has been deleted.
func (s *Service) LookupActor(ctx context.Context, id uuid.UUID) (auth.Principal, bool, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return auth.Principal{}, false, nil
	}
	if err != nil {
		return auth.Principal{}, false, fmt.Errorf("look up actor: %w", err)
	}
	return auth.Principal{ID: u.ID, Handle: u.Username, Role: u.Role}, true, nil
}

// Logout revokes the session described by claims until it would expire.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apperr.ErrUnauthenticated
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// -- Doctor profiles --

// AddDoctor creates a profile with no linked account.
func (s *Service) AddDoctor(ctx context.Context, actor auth.Principal, in AddDoctorInput) (*Doctor, error) {
	if err := actor.Require(auth.RoleDoctor); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	spec := strings.TrimSpace(in.Specialization)
	phone := strings.TrimSpace(in.Phone)
	switch {
	case name == "":
		return nil, apperr.Validation("name is required")
	case spec == "":
		return nil, apperr.Validation("specialization is required")
	case len([]rune(name)) > MaxNameLen:
		return nil, apperr.Validation("name must be at most %d characters", MaxNameLen)
	case len([]rune(spec)) > MaxNameLen:
		return nil, apperr.Validation("specialization must be at most %d characters", MaxNameLen)
	case len([]rune(phone)) > MaxPhoneLen:
		return nil, apperr.Validation("phone must be at most %d characters", MaxPhoneLen)
	}

	d := &Doctor{Name: name, Specialization: spec}
	if phone != "" {
		d.Phone = &phone
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("doctor_id", d.ID.String()).Str("by", actor.ID.String()).Msg("doctor profile added")
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// DoctorForActor resolves the profile of a doctor account: the linked profile
// first, then an unlinked profile named after the handle. It returns nil when
// the actor has no profile.
func (s *Service) DoctorForActor(ctx context.Context, actor auth.Principal) (*Doctor, error) {
	d, err := s.doctors.GetByUserID(ctx, actor.ID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	d, err = s.doctors.GetUnlinkedByName(ctx, actor.Handle)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

// -- Administrative deletes --

// DeletePatient removes an actor and, first, every appointment it booked.
func (s *Service) DeletePatient(ctx context.Context, actor auth.Principal, id uuid.UUID) error {
	if err := actor.Require(auth.RoleDoctor); err != nil {
		return err
	}

	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.NotFound("patient")
			}
			return err
		}
		n, err := s.appointments.DeleteByPatient(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", id.String()).
		Int64("appointments_removed", removed).
		Str("by", actor.ID.String()).
		Msg("patient deleted")
	return nil
}

// DeleteDoctor removes a doctor profile and, first, every appointment with it.
func (s *Service) DeleteDoctor(ctx context.Context, actor auth.Principal, id uuid.UUID) error {
	if err := actor.Require(auth.RoleDoctor); err != nil {
		return err
	}

	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.doctors.GetByID(ctx, id); err != nil {
			return err
		}
		n, err := s.appointments.DeleteByDoctor(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return s.doctors.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("doctor_id", id.String()).
		Int64("appointments_removed", removed).
		Str("by", actor.ID.String()).
		Msg("doctor deleted")
	return nil
}

// -- Listing --

func (s *Service) ListPatients(ctx context.Context, p pagination.Params) ([]*User, int, error) {
	return s.users.ListByRole(ctx, auth.RolePatient, p)
}

func (s *Service) ListDoctors(ctx context.Context, p pagination.Params) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, p)
}

func (s *Service) CountPatients(ctx context.Context) (int, error) {
	return s.users.CountByRole(ctx, auth.RolePatient)
}

func (s *Service) CountDoctors(ctx context.Context) (int, error) {
	return s.doctors.Count(ctx)
}
