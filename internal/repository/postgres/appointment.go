package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-records/internal/model"
)

const appointmentSelect = `
	SELECT a.id, a.patient_id, a.doctor_id, a.scheduled_at, a.status, a.reason, a.created_at,
	       p.name AS patient_name, d.name AS doctor_name
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id
`

type appointmentRepository struct {
	db *sqlx.DB
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	if appointment.Status == "" {
		appointment.Status = model.AppointmentStatusScheduled
	}

	query := `
		INSERT INTO appointments (patient_id, doctor_id, scheduled_at, status, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.ScheduledAt,
		appointment.Status,
		appointment.Reason,
	).Scan(&appointment.ID, &appointment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", translate(err, "appointment"))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, appointmentSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", translate(err, "appointment"))
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_id = $1, doctor_id = $2, scheduled_at = $3, status = $4, reason = $5
		WHERE id = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.ScheduledAt,
		appointment.Status,
		appointment.Reason,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", translate(err, "appointment"))
	}
	return requireAffected(res, "appointment")
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return requireAffected(res, "appointment")
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	appointments := []*model.Appointment{}
	query := appointmentSelect + ` ORDER BY a.scheduled_at DESC, a.id DESC`
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
