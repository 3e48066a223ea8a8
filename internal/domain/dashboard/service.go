// Package dashboard reports the headline counts shown on the landing page.
package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type PatientCounter interface {
	CountPatients(ctx context.Context) (int, error)
}

type DoctorCounter interface {
	CountDoctors(ctx context.Context) (int, error)
}

type AppointmentCounter interface {
	CountAppointments(ctx context.Context) (int, error)
}

// Counts is the body of GET /.
type Counts struct {
	Patients     int `json:"patients"`
	Doctors      int `json:"doctors"`
	Appointments int `json:"appointments"`
}

type Service struct {
	patients     PatientCounter
	doctors      DoctorCounter
	appointments AppointmentCounter
}

func NewService(patients PatientCounter, doctors DoctorCounter, appointments AppointmentCounter) *Service {
	return &Service{patients: patients, doctors: doctors, appointments: appointments}
}

// Counts runs the three count queries concurrently.
func (s *Service) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.Patients, err = s.patients.CountPatients(ctx)
		return err
	})
	g.Go(func() (err error) {
		c.Doctors, err = s.doctors.CountDoctors(ctx)
		return err
	})
	g.Go(func() (err error) {
		c.Appointments, err = s.appointments.CountAppointments(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Counts{}, err
	}
	return c, nil
}
