package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository/repotest"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(repotest.NewStore().Doctors(), validator.New())

	_, err := svc.Create(context.Background(), &model.DoctorForm{Department: "ENT"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestListOrderedByName(t *testing.T) {
	svc := NewService(repotest.NewStore().Doctors(), validator.New())
	ctx := context.Background()

	for _, name := range []string{"Zhang", "Adams", "Li"} {
		_, err := svc.Create(ctx, &model.DoctorForm{Name: name})
		require.NoError(t, err)
	}

	doctors, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 3)
	assert.Equal(t, "Adams", doctors[0].Name)
	assert.Equal(t, "Zhang", doctors[2].Name)
}

func TestDeleteWithAppointmentsIsConflict(t *testing.T) {
	store := repotest.NewStore()
	svc := NewService(store.Doctors(), validator.New())
	ctx := context.Background()

	d, err := svc.Create(ctx, &model.DoctorForm{Name: "Lee"})
	require.NoError(t, err)
	p := &model.Patient{Name: "Alice"}
	require.NoError(t, store.Patients().Create(ctx, p))
	require.NoError(t, store.Appointments().Create(ctx, &model.Appointment{
		PatientID: p.ID, DoctorID: d.ID, ScheduledAt: time.Now(),
	}))

	err = svc.Delete(ctx, d.ID)
	assert.True(t, apperrors.IsConflict(err))

	_, err = svc.Get(ctx, d.ID)
	assert.NoError(t, err)
}

func TestDeleteNullifiesVisitDoctor(t *testing.T) {
	store := repotest.NewStore()
	svc := NewService(store.Doctors(), validator.New())
	ctx := context.Background()

	d, err := svc.Create(ctx, &model.DoctorForm{Name: "Lee"})
	require.NoError(t, err)
	p := &model.Patient{Name: "Alice"}
	require.NoError(t, store.Patients().Create(ctx, p))
	v := &model.Visit{PatientID: p.ID, DoctorID: &d.ID}
	require.NoError(t, store.Visits().Create(ctx, v))

	require.NoError(t, svc.Delete(ctx, d.ID))

	kept, err := store.Visits().Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.DoctorID)
}
