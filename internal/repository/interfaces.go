package repository

import (
	"context"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// All repository interfaces in one file
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		// Delete removes the patient together with its visits and appointments.
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, error)
		// ListByName is used to fill patient pickers.
		ListByName(ctx context.Context) ([]*model.Patient, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id int64) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Doctor, error)
		CountAppointments(ctx context.Context, id int64) (int, error)
	}

	VisitRepository interface {
		Create(ctx context.Context, visit *model.Visit) error
		Get(ctx context.Context, id int64) (*model.Visit, error)
		Update(ctx context.Context, visit *model.Visit) error
		Delete(ctx context.Context, id int64) error
		ListByPatient(ctx context.Context, patientID int64) ([]*model.Visit, error)
		ListRecent(ctx context.Context, limit int) ([]*model.RecentVisit, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Appointment, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
	}

	StatsRepository interface {
		Counts(ctx context.Context) (*model.DashboardStats, error)
	}
)
