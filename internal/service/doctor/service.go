package doctor

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

type Service struct {
	repo     repository.DoctorRepository
	validate validator.Validator
}

func NewService(repo repository.DoctorRepository, v validator.Validator) *Service {
	return &Service{repo: repo, validate: v}
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form *model.DoctorForm) (*model.Doctor, error) {
	doctor := &model.Doctor{}
	if err := s.apply(form, doctor); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) Update(ctx context.Context, id int64, form *model.DoctorForm) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(form, doctor); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// Delete refuses doctors that still have appointments. Visits only lose
// their doctor reference.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.CountAppointments(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.NewConflict(
			fmt.Sprintf("Doctor has %d appointment(s) and cannot be deleted", n), nil)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) apply(form *model.DoctorForm, doctor *model.Doctor) error {
	form.Trim()
	if err := s.validate.Validate(form); err != nil {
		return apperrors.NewValidation(err.Error())
	}
	doctor.Name = form.Name
	doctor.Department = form.Department
	doctor.Title = form.Title
	return nil
}
