package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
)

const visitSelect = `
	SELECT v.id, v.patient_id, v.doctor_id, d.name AS doctor_name, v.visit_date,
	       v.symptoms, v.diagnosis, v.treatment, v.notes, v.created_at, v.updated_at
	FROM visits v
	LEFT JOIN doctors d ON d.id = v.doctor_id
`

type visitRepository struct {
	db *sqlx.DB
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visits (patient_id, doctor_id, visit_date, symptoms, diagnosis, treatment, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		visit.PatientID,
		visit.DoctorID,
		visit.VisitDate,
		visit.Symptoms,
		visit.Diagnosis,
		visit.Treatment,
		visit.Notes,
	).Scan(&visit.ID, &visit.CreatedAt, &visit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", translate(err, "visit"))
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id int64) (*model.Visit, error) {
	var visit model.Visit
	if err := r.db.GetContext(ctx, &visit, visitSelect+` WHERE v.id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", translate(err, "visit"))
	}
	return &visit, nil
}

func (r *visitRepository) Update(ctx context.Context, visit *model.Visit) error {
	query := `
		UPDATE visits
		SET doctor_id = $1, visit_date = $2, symptoms = $3, diagnosis = $4,
		    treatment = $5, notes = $6, updated_at = $7
		WHERE id = $8
	`
	visit.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query,
		visit.DoctorID,
		visit.VisitDate,
		visit.Symptoms,
		visit.Diagnosis,
		visit.Treatment,
		visit.Notes,
		visit.UpdatedAt,
		visit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update visit: %w", translate(err, "visit"))
	}
	return requireAffected(res, "visit")
}

func (r *visitRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	return requireAffected(res, "visit")
}

func (r *visitRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Visit, error) {
	query := visitSelect + `
		WHERE v.patient_id = $1
		ORDER BY v.visit_date DESC NULLS LAST, v.id DESC
	`
	visits := []*model.Visit{}
	if err := r.db.SelectContext(ctx, &visits, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) ListRecent(ctx context.Context, limit int) ([]*model.RecentVisit, error) {
	query := `
		SELECT v.id, v.patient_id, v.doctor_id, d.name AS doctor_name, v.visit_date,
		       v.symptoms, v.diagnosis, v.treatment, v.notes, v.created_at, v.updated_at,
		       p.name AS patient_name
		FROM visits v
		JOIN patients p ON p.id = v.patient_id
		LEFT JOIN doctors d ON d.id = v.doctor_id
		ORDER BY v.created_at DESC, v.id DESC
		LIMIT $1
	`
	visits := []*model.RecentVisit{}
	if err := r.db.SelectContext(ctx, &visits, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent visits: %w", err)
	}
	return visits, nil
}
