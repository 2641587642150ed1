package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      VARCHAR(80)  NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	role          VARCHAR(20)  NOT NULL DEFAULT 'clerk'
	              CHECK (role IN ('admin', 'doctor', 'nurse', 'clerk')),
	active        BOOLEAN      NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS patients (
	id            BIGSERIAL PRIMARY KEY,
	name          VARCHAR(100) NOT NULL CHECK (name <> ''),
	gender        VARCHAR(10)  NOT NULL DEFAULT '',
	date_of_birth DATE,
	phone         VARCHAR(50)  NOT NULL DEFAULT '',
	address       VARCHAR(255) NOT NULL DEFAULT '',
	id_number     VARCHAR(50)  NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS doctors (
	id         BIGSERIAL PRIMARY KEY,
	name       VARCHAR(100) NOT NULL CHECK (name <> ''),
	department VARCHAR(100) NOT NULL DEFAULT '',
	title      VARCHAR(100) NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS visits (
	id         BIGSERIAL PRIMARY KEY,
	patient_id BIGINT      NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
	doctor_id  BIGINT      REFERENCES doctors(id) ON DELETE SET NULL,
	visit_date DATE,
	symptoms   TEXT        NOT NULL DEFAULT '',
	diagnosis  VARCHAR(255) NOT NULL DEFAULT '',
	treatment  TEXT        NOT NULL DEFAULT '',
	notes      TEXT        NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_visits_patient_id ON visits (patient_id);

CREATE TABLE IF NOT EXISTS appointments (
	id           BIGSERIAL PRIMARY KEY,
	patient_id   BIGINT      NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
	doctor_id    BIGINT      NOT NULL REFERENCES doctors(id) ON DELETE RESTRICT,
	scheduled_at TIMESTAMP   NOT NULL,
	status       VARCHAR(20) NOT NULL DEFAULT 'scheduled'
	             CHECK (status IN ('scheduled', 'completed', 'cancelled')),
	reason       VARCHAR(255) NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_appointments_patient_id ON appointments (patient_id);
CREATE INDEX IF NOT EXISTS idx_appointments_doctor_id ON appointments (doctor_id);
`

const dropSQL = `DROP TABLE IF EXISTS appointments, visits, doctors, patients, users CASCADE`

// Migrate creates any missing tables. It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Reset drops every table and recreates the schema.
func Reset(ctx context.Context, db *sqlx.DB) error {
	base := NewBaseRepository(db)
	return base.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, dropSQL); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	})
}
