package appointment

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	validate    validator.Validator
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository, v validator.Validator) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		validate:    v,
	}
}

func (s *Service) List(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// Create books an appointment. The status defaults to scheduled.
func (s *Service) Create(ctx context.Context, form *model.AppointmentForm) (*model.Appointment, error) {
	appointment := &model.Appointment{Status: model.AppointmentStatusScheduled}
	if err := s.apply(ctx, form, appointment); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) Update(ctx context.Context, id int64, form *model.AppointmentForm) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, form, appointment); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// apply validates the form and copies it onto appointment. An empty status
// leaves the current one untouched.
func (s *Service) apply(ctx context.Context, form *model.AppointmentForm, appointment *model.Appointment) error {
	form.Trim()
	if err := s.validate.Validate(form); err != nil {
		return apperrors.NewValidation(err.Error())
	}

	patientID, err := validator.ParseID(form.PatientID)
	if err != nil {
		return apperrors.NewValidation("Please select a valid patient")
	}
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidation("Selected patient does not exist")
		}
		return err
	}

	doctorID, err := validator.ParseID(form.DoctorID)
	if err != nil {
		return apperrors.NewValidation("Please select a valid doctor")
	}
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidation("Selected doctor does not exist")
		}
		return err
	}

	scheduledAt, err := validator.ParseDateTime(form.ScheduledAt)
	if err != nil {
		return apperrors.NewValidation("Scheduled at must be formatted as YYYY-MM-DDTHH:MM")
	}

	appointment.PatientID = patientID
	appointment.DoctorID = doctorID
	appointment.ScheduledAt = scheduledAt
	appointment.Reason = form.Reason
	if form.Status != "" {
		appointment.Status = model.AppointmentStatus(form.Status)
	}
	return nil
}
