package scheduling

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "Pending"
	MaxStatusLen  = 20

	// DateLayout and TimeLayout are the accepted booking formats
	// (YYYY-MM-DD and HH:MM).
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment maps to the appointments table. Date and Time are kept in
// their wire layouts; the repository converts them to DATE and TIME.
type Appointment struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	PatientID          uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID           uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Date               string    `db:"appointment_date" json:"date"`
	Time               string    `db:"appointment_time" json:"time"`
	ProblemDescription string    `db:"problem_description" json:"problem_description"`
	Status             string    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// AppointmentView is a listing row with the names of both parties.
type AppointmentView struct {
	Appointment
	PatientUsername string `json:"patient_username"`
	DoctorName      string `json:"doctor_name"`
}

// DoctorChoice is one selectable doctor on the booking form.
type DoctorChoice struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
}

// BookInput is the booking form.
type BookInput struct {
	DoctorID    string `json:"doctor_id" form:"doctor_id"`
	Date        string `json:"date" form:"date"`
	Time        string `json:"time" form:"time"`
	Description string `json:"description" form:"description"`
}

// StatusInput is the body of PATCH /appointments/:id/status.
type StatusInput struct {
	Status string `json:"status" form:"status"`
}

// ListFilter narrows an appointment listing. Nil fields do not filter.
type ListFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}
