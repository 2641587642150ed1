package visit

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

type Service struct {
	repo        repository.VisitRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	validate    validator.Validator
}

func NewService(repo repository.VisitRepository, patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository, v validator.Validator) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		validate:    v,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Visit, error) {
	return s.repo.Get(ctx, id)
}

// Create records a visit for an existing patient. A missing patient yields a
// not found error rather than a validation error.
func (s *Service) Create(ctx context.Context, patientID int64, form *model.VisitForm) (*model.Visit, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}

	visit := &model.Visit{PatientID: patientID}
	if err := s.apply(ctx, form, visit); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}
	return visit, nil
}

func (s *Service) Update(ctx context.Context, id int64, form *model.VisitForm) (*model.Visit, error) {
	visit, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, form, visit); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// Delete removes the visit and returns the owning patient's id.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	visit, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return 0, err
	}
	return visit.PatientID, nil
}

func (s *Service) apply(ctx context.Context, form *model.VisitForm, visit *model.Visit) error {
	form.Trim()
	if err := s.validate.Validate(form); err != nil {
		return apperrors.NewValidation(err.Error())
	}

	visitDate, err := validator.ParseDate(form.VisitDate)
	if err != nil {
		return apperrors.NewValidation("Visit date must be formatted as YYYY-MM-DD")
	}

	doctorID, err := validator.ParseOptionalID(form.DoctorID)
	if err != nil {
		return apperrors.NewValidation("Please select a valid doctor")
	}
	if doctorID != nil {
		if _, err := s.doctorRepo.Get(ctx, *doctorID); err != nil {
			if apperrors.IsNotFound(err) {
				return apperrors.NewValidation("Selected doctor does not exist")
			}
			return err
		}
	}

	visit.DoctorID = doctorID
	visit.VisitDate = visitDate
	visit.Symptoms = form.Symptoms
	visit.Diagnosis = form.Diagnosis
	visit.Treatment = form.Treatment
	visit.Notes = form.Notes
	return nil
}
