package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hospital-booking/internal/model"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Create(ctx context.Context, a model.Appointment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO appointments
		   (id, patient_id, doctor_id, appointment_date, start_time, end_time,
		    status, reason, notes, prescription, diagnosis, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.StartTime, a.EndTime,
		a.Status, a.Reason, a.Notes, a.Prescription, a.Diagnosis, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// ListForPatient returns the patient's appointments newest first, joined with
// the doctor's name and specialization.
func (r *AppointmentRepository) ListForPatient(ctx context.Context, patientID string) ([]model.PatientAppointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.start_time, a.end_time,
		       a.status, a.reason, a.notes, a.prescription, a.diagnosis, a.created_at, a.updated_at,
		       u.name, COALESCE(dp.specialization, '')
		FROM appointments a
		JOIN users u ON u.id = a.doctor_id
		LEFT JOIN doctor_profiles dp ON dp.user_id = a.doctor_id
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date DESC, a.start_time DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	defer rows.Close()

	out := make([]model.PatientAppointment, 0)
	for rows.Next() {
		var pa model.PatientAppointment
		if err := rows.Scan(
			&pa.ID, &pa.PatientID, &pa.DoctorID, &pa.Date, &pa.StartTime, &pa.EndTime,
			&pa.Status, &pa.Reason, &pa.Notes, &pa.Prescription, &pa.Diagnosis,
			&pa.CreatedAt, &pa.UpdatedAt, &pa.DoctorName, &pa.DoctorSpecialization,
		); err != nil {
			return nil, fmt.Errorf("scan patient appointment: %w", err)
		}
		out = append(out, pa)
	}
	return out, rows.Err()
}

// ListForDoctor returns the doctor's appointments newest first, joined with
// the patient's name and email.
func (r *AppointmentRepository) ListForDoctor(ctx context.Context, doctorID string) ([]model.DoctorAppointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.start_time, a.end_time,
		       a.status, a.reason, a.notes, a.prescription, a.diagnosis, a.created_at, a.updated_at,
		       u.name, u.email
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		WHERE a.doctor_id = $1
		ORDER BY a.appointment_date DESC, a.start_time DESC
	`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list doctor appointments: %w", err)
	}
	defer rows.Close()

	out := make([]model.DoctorAppointment, 0)
	for rows.Next() {
		var da model.DoctorAppointment
		if err := rows.Scan(
			&da.ID, &da.PatientID, &da.DoctorID, &da.Date, &da.StartTime, &da.EndTime,
			&da.Status, &da.Reason, &da.Notes, &da.Prescription, &da.Diagnosis,
			&da.CreatedAt, &da.UpdatedAt, &da.PatientName, &da.PatientEmail,
		); err != nil {
			return nil, fmt.Errorf("scan doctor appointment: %w", err)
		}
		out = append(out, da)
	}
	return out, rows.Err()
}

// FindOwned looks an appointment up by id scoped to one side of the booking,
// so a caller can never touch someone else's appointment.
func (r *AppointmentRepository) FindOwned(ctx context.Context, id string, ownerColumn string, ownerID string) (model.Appointment, error) {
	if ownerColumn != "patient_id" && ownerColumn != "doctor_id" {
		return model.Appointment{}, fmt.Errorf("unsupported owner column %q", ownerColumn)
	}

	var a model.Appointment
	err := r.pool.QueryRow(ctx,
		`SELECT id, patient_id, doctor_id, appointment_date, start_time, end_time,
		        status, reason, notes, prescription, diagnosis, created_at, updated_at
		 FROM appointments WHERE id = $1 AND `+ownerColumn+` = $2`,
		id, ownerID).Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.StartTime, &a.EndTime,
		&a.Status, &a.Reason, &a.Notes, &a.Prescription, &a.Diagnosis,
		&a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Appointment{}, model.ErrAppointmentNotFound
	}
	if err != nil {
		return model.Appointment{}, fmt.Errorf("find appointment: %w", err)
	}
	return a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a model.Appointment) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments
		 SET status = $2, notes = $3, prescription = $4, diagnosis = $5, updated_at = $6
		 WHERE id = $1`,
		a.ID, a.Status, a.Notes, a.Prescription, a.Diagnosis, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) PatientStats(ctx context.Context, patientID string, now time.Time) (model.PatientStats, error) {
	var s model.PatientStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'confirmed' AND appointment_date >= $2),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*)
		FROM appointments
		WHERE patient_id = $1
	`, patientID, now.UTC()).Scan(&s.UpcomingAppointments, &s.PendingAppointments, &s.TotalAppointments)
	if err != nil {
		return model.PatientStats{}, fmt.Errorf("patient stats: %w", err)
	}
	return s, nil
}

func (r *AppointmentRepository) DoctorStats(ctx context.Context, doctorID string, today time.Time) (model.DoctorStats, error) {
	var s model.DoctorStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'confirmed' AND appointment_date = $2::date),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(DISTINCT patient_id) FILTER (WHERE status = 'completed')
		FROM appointments
		WHERE doctor_id = $1
	`, doctorID, today.UTC()).Scan(&s.TodayAppointments, &s.PendingAppointments, &s.TotalPatients)
	if err != nil {
		return model.DoctorStats{}, fmt.Errorf("doctor stats: %w", err)
	}
	return s, nil
}

// Counts returns the platform-wide appointment totals for the admin dashboard.
func (r *AppointmentRepository) Counts(ctx context.Context, today time.Time) (total int, todayCount int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE appointment_date = $1::date)
		FROM appointments
	`, today.UTC()).Scan(&total, &todayCount)
	if err != nil {
		return 0, 0, fmt.Errorf("count appointments: %w", err)
	}
	return total, todayCount, nil
}
