package patient

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

type PatientService interface {
	List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, error)
	ListByName(ctx context.Context) ([]*model.Patient, error)
	Get(ctx context.Context, id int64) (*model.Patient, error)
	Detail(ctx context.Context, id int64) (*model.Patient, []*model.Visit, error)
	Create(ctx context.Context, form *model.PatientForm) (*model.Patient, error)
	Update(ctx context.Context, id int64, form *model.PatientForm) (*model.Patient, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo      repository.PatientRepository
	visitRepo repository.VisitRepository
	validate  validator.Validator
}

func NewService(repo repository.PatientRepository, visitRepo repository.VisitRepository, v validator.Validator) *Service {
	return &Service{repo: repo, visitRepo: visitRepo, validate: v}
}

func (s *Service) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, error) {
	if filter != nil {
		filter.Query = validator.Trim(filter.Query)
	}
	patients, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) ListByName(ctx context.Context) ([]*model.Patient, error) {
	return s.repo.ListByName(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

// Detail returns the patient with its visits, newest first.
func (s *Service) Detail(ctx context.Context, id int64) (*model.Patient, []*model.Visit, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	visits, err := s.visitRepo.ListByPatient(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list patient visits: %w", err)
	}
	return patient, visits, nil
}

func (s *Service) Create(ctx context.Context, form *model.PatientForm) (*model.Patient, error) {
	patient := &model.Patient{}
	if err := s.apply(form, patient); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, id int64, form *model.PatientForm) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(form, patient); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Delete removes the patient and every visit and appointment it owns.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) apply(form *model.PatientForm, patient *model.Patient) error {
	form.Trim()
	if err := s.validate.Validate(form); err != nil {
		return apperrors.NewValidation(err.Error())
	}

	dob, err := validator.ParseDate(form.DateOfBirth)
	if err != nil {
		return apperrors.NewValidation("Date of birth must be formatted as YYYY-MM-DD")
	}

	patient.Name = form.Name
	patient.Gender = form.Gender
	patient.DateOfBirth = dob
	patient.Phone = form.Phone
	patient.Address = form.Address
	patient.IDNumber = form.IDNumber
	return nil
}
