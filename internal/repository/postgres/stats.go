package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-records/internal/model"
)

type statsRepository struct {
	db *sqlx.DB
}

func (r *statsRepository) Counts(ctx context.Context) (*model.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM patients)     AS patient_count,
			(SELECT COUNT(*) FROM doctors)      AS doctor_count,
			(SELECT COUNT(*) FROM appointments) AS appointment_count
	`
	var stats model.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	return &stats, nil
}
