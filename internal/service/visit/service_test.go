package visit

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository/repotest"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

func setup(t *testing.T) (*Service, *repotest.Store, *model.Patient) {
	t.Helper()
	store := repotest.NewStore()
	patient := &model.Patient{Name: "Alice"}
	require.NoError(t, store.Patients().Create(context.Background(), patient))
	return NewService(store.Visits(), store.Patients(), store.Doctors(), validator.New()), store, patient
}

func TestCreateForMissingPatientIsNotFound(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Create(context.Background(), 999, &model.VisitForm{Diagnosis: "flu"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateWithUnknownDoctorIsValidation(t *testing.T) {
	svc, _, patient := setup(t)

	_, err := svc.Create(context.Background(), patient.ID, &model.VisitForm{DoctorID: "77"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Selected doctor does not exist", apperrors.Message(err))
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc, _, patient := setup(t)

	_, err := svc.Create(context.Background(), patient.ID, &model.VisitForm{VisitDate: "yesterday"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateAndUpdate(t *testing.T) {
	svc, store, patient := setup(t)
	ctx := context.Background()

	doctor := &model.Doctor{Name: "Dr. Lee"}
	require.NoError(t, store.Doctors().Create(ctx, doctor))

	v, err := svc.Create(ctx, patient.ID, &model.VisitForm{
		DoctorID:  strconv.FormatInt(doctor.ID, 10),
		VisitDate: "2024-03-01",
		Diagnosis: " flu ",
	})
	require.NoError(t, err)
	assert.Equal(t, "flu", v.Diagnosis)
	require.NotNil(t, v.DoctorID)

	updated, err := svc.Update(ctx, v.ID, &model.VisitForm{Diagnosis: "cold"})
	require.NoError(t, err)
	assert.Nil(t, updated.DoctorID)
	assert.Nil(t, updated.VisitDate)
	assert.Equal(t, patient.ID, updated.PatientID)
}

func TestDeleteReturnsPatientID(t *testing.T) {
	svc, _, patient := setup(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, patient.ID, &model.VisitForm{})
	require.NoError(t, err)

	patientID, err := svc.Delete(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, patientID)

	_, err = svc.Delete(ctx, v.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
