package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (name, department, title)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, doctor.Name, doctor.Department, doctor.Title).
		Scan(&doctor.ID, &doctor.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", translate(err, "doctor"))
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	query := `SELECT id, name, department, title, created_at FROM doctors WHERE id = $1`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", translate(err, "doctor"))
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `UPDATE doctors SET name = $1, department = $2, title = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, doctor.Name, doctor.Department, doctor.Title, doctor.ID)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", translate(err, "doctor"))
	}
	return requireAffected(res, "doctor")
}

// Delete relies on the schema: visits lose their doctor reference, while
// existing appointments make the delete fail with a conflict.
func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", translate(err, "doctor"))
	}
	return requireAffected(res, "doctor")
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `SELECT id, name, department, title, created_at FROM doctors ORDER BY name ASC, id ASC`
	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) CountAppointments(ctx context.Context, id int64) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM appointments WHERE doctor_id = $1`, id); err != nil {
		return 0, fmt.Errorf("failed to count doctor appointments: %w", err)
	}
	return n, nil
}
