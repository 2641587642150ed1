package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-records/internal/repository"
)

// Repositories bundles every store backed by one connection pool.
type Repositories struct {
	Patients     repository.PatientRepository
	Doctors      repository.DoctorRepository
	Visits       repository.VisitRepository
	Appointments repository.AppointmentRepository
	Users        repository.UserRepository
	Stats        repository.StatsRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Patients:     NewPatientRepository(db),
		Doctors:      NewDoctorRepository(db),
		Visits:       NewVisitRepository(db),
		Appointments: NewAppointmentRepository(db),
		Users:        NewUserRepository(db),
		Stats:        NewStatsRepository(db),
	}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewStatsRepository(db *sqlx.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}
