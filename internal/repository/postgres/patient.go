package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
)

const patientColumns = `id, name, gender, date_of_birth, phone, address, id_number, created_at`

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (name, gender, date_of_birth, phone, address, id_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		patient.Name,
		patient.Gender,
		patient.DateOfBirth,
		patient.Phone,
		patient.Address,
		patient.IDNumber,
	).Scan(&patient.ID, &patient.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", translate(err, "patient"))
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", translate(err, "patient"))
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, gender = $2, date_of_birth = $3, phone = $4, address = $5, id_number = $6
		WHERE id = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Gender,
		patient.DateOfBirth,
		patient.Phone,
		patient.Address,
		patient.IDNumber,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", translate(err, "patient"))
	}
	return requireAffected(res, "patient")
}

// Delete removes dependent visits and appointments and then the patient in a
// single transaction. The foreign keys cascade as well; the explicit deletes
// keep the outcome independent of how the schema was created.
func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM visits WHERE patient_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete patient visits: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE patient_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete patient appointments: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		return requireAffected(res, "patient")
	})
}

func (r *patientRepository) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	args := []interface{}{}

	if filter != nil && filter.Query != "" {
		query += ` WHERE name LIKE $1 OR phone LIKE $1 OR id_number LIKE $1`
		args = append(args, containsPattern(filter.Query))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) ListByName(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY name ASC, id ASC`
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
