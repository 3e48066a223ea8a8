package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
	"github.com/clinicbook/clinicbook/internal/platform/db"
	"github.com/clinicbook/clinicbook/pkg/pagination"
)

const slotConstraint = "appointments_slot_key"

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const apptCols = `a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
	a.problem_description, a.status, a.created_at`

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	date, tm, err := slotArgs(a.Date, a.Time)
	if err != nil {
		return err
	}
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusPending
	}

	err = r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, appointment_time,
			problem_description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		a.ID, a.PatientID, a.DoctorID, date, tm, a.ProblemDescription, a.Status,
	).Scan(&a.CreatedAt)
	if db.IsUniqueViolation(err, slotConstraint) {
		return apperr.ErrSlotTaken
	}
	if db.IsForeignKeyViolation(err) {
		return apperr.Validation("patient or doctor no longer exists")
	}
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments a WHERE a.id = $1`, id))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("appointment")
	}
	return a, err
}

func (r *appointmentRepoPG) FindBySlot(ctx context.Context, doctorID uuid.UUID, date, tm string) ([]*Appointment, error) {
	d, t, err := slotArgs(date, tm)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments a
		WHERE a.doctor_id = $1 AND a.appointment_date = $2 AND a.appointment_time = $3`,
		doctorID, d, t)
	if err != nil {
		return nil, fmt.Errorf("find appointments by slot: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE appointments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("delete appointments of patient: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *appointmentRepoPG) DeleteByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE doctor_id = $1`, doctorID)
	if err != nil {
		return 0, fmt.Errorf("delete appointments of doctor: %w", err)
	}
	return tag.RowsAffected(), nil
}

const listWhere = `WHERE ($1::uuid IS NULL OR a.patient_id = $1) AND ($2::uuid IS NULL OR a.doctor_id = $2)`

func (r *appointmentRepoPG) List(ctx context.Context, f ListFilter, p pagination.Params) ([]*AppointmentView, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments a `+listWhere, f.PatientID, f.DoctorID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+`, u.username, d.name
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id
		`+listWhere+`
		ORDER BY a.appointment_date, a.appointment_time, a.id
		LIMIT $3 OFFSET $4`,
		f.PatientID, f.DoctorID, p.LimitArg(), p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []*AppointmentView
	for rows.Next() {
		var v AppointmentView
		var date pgtype.Date
		var tm pgtype.Time
		if err := rows.Scan(&v.ID, &v.PatientID, &v.DoctorID, &date, &tm,
			&v.ProblemDescription, &v.Status, &v.CreatedAt, &v.PatientUsername, &v.DoctorName); err != nil {
			return nil, 0, fmt.Errorf("scan appointment: %w", err)
		}
		v.Date, v.Time = formatDate(date), formatTime(tm)
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	return out, total, nil
}

func (r *appointmentRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date pgtype.Date
	var tm pgtype.Time
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &date, &tm,
		&a.ProblemDescription, &a.Status, &a.CreatedAt)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan appointment: %w", err)
	}
	a.Date, a.Time = formatDate(date), formatTime(tm)
	return &a, nil
}

// slotArgs converts wire-format date and time into query arguments.
func slotArgs(date, tm string) (pgtype.Date, pgtype.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return pgtype.Date{}, pgtype.Time{}, apperr.Validation("date must be in YYYY-MM-DD format")
	}
	t, err := time.Parse(TimeLayout, tm)
	if err != nil {
		return pgtype.Date{}, pgtype.Time{}, apperr.Validation("time must be in HH:MM format")
	}
	return pgtype.Date{Time: d, Valid: true}, toPGTime(t), nil
}

func toPGTime(t time.Time) pgtype.Time {
	us := int64(t.Hour())*int64(time.Hour/time.Microsecond) +
		int64(t.Minute())*int64(time.Minute/time.Microsecond)
	return pgtype.Time{Microseconds: us, Valid: true}
}

func formatDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

func formatTime(t pgtype.Time) string {
	if !t.Valid {
		return ""
	}
	mins := t.Microseconds / int64(time.Minute/time.Microsecond)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
