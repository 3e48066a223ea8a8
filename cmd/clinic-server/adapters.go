package main

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/domain/identity"
	"github.com/clinicbook/clinicbook/internal/domain/scheduling"
	"github.com/clinicbook/clinicbook/internal/platform/apperr"
	"github.com/clinicbook/clinicbook/internal/platform/auth"
	"github.com/clinicbook/clinicbook/pkg/pagination"
)

// doctorProfiles is the part of identity.Service the booking flow needs.
type doctorProfiles interface {
	CountDoctors(ctx context.Context) (int, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*identity.Doctor, error)
	DoctorForActor(ctx context.Context, actor auth.Principal) (*identity.Doctor, error)
	ListDoctors(ctx context.Context, p pagination.Params) ([]*identity.Doctor, int, error)
}

// doctorDirectory adapts identity's doctor profiles to
// scheduling.DoctorDirectory, avoiding an import between the two domains.
type doctorDirectory struct {
	profiles doctorProfiles
}

var _ scheduling.DoctorDirectory = (*doctorDirectory)(nil)

func (d *doctorDirectory) CountDoctors(ctx context.Context) (int, error) {
	return d.profiles.CountDoctors(ctx)
}

func (d *doctorDirectory) DoctorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := d.profiles.GetDoctor(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *doctorDirectory) DoctorIDForActor(ctx context.Context, actor auth.Principal) (uuid.UUID, bool, error) {
	doc, err := d.profiles.DoctorForActor(ctx, actor)
	if err != nil || doc == nil {
		return uuid.Nil, false, err
	}
	return doc.ID, true, nil
}

// DoctorChoices lists every profile; the repository orders them by name.
func (d *doctorDirectory) DoctorChoices(ctx context.Context) ([]scheduling.DoctorChoice, error) {
	doctors, _, err := d.profiles.ListDoctors(ctx, pagination.Unbounded())
	if err != nil {
		return nil, err
	}
	choices := make([]scheduling.DoctorChoice, 0, len(doctors))
	for _, doc := range doctors {
		choices = append(choices, scheduling.DoctorChoice{
			ID:             doc.ID,
			Name:           doc.Name,
			Specialization: doc.Specialization,
		})
	}
	return choices, nil
}
