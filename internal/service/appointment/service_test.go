package appointment

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

type fixture struct {
	svc       *Service
	patientID string
	doctorID  string
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := repotest.NewStore()
	ctx := context.Background()
	p := &model.Patient{Name: "Alice"}
	require.NoError(t, store.Patients().Create(ctx, p))
	d := &model.Doctor{Name: "Lee"}
	require.NoError(t, store.Doctors().Create(ctx, d))

	return fixture{
		svc:       NewService(store.Appointments(), store.Patients(), store.Doctors(), validator.New()),
		patientID: strconv.FormatInt(p.ID, 10),
		doctorID:  strconv.FormatInt(d.ID, 10),
	}
}

func TestCreateDefaultsToScheduled(t *testing.T) {
	f := setup(t)

	a, err := f.svc.Create(context.Background(), &model.AppointmentForm{
		PatientID: f.patientID, DoctorID: f.doctorID, ScheduledAt: "2024-05-02T09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, a.Status)
	assert.Equal(t, 9, a.ScheduledAt.Hour())
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)

	cases := map[string]*model.AppointmentForm{
		"missing patient": {DoctorID: f.doctorID, ScheduledAt: "2024-05-02T09:30"},
		"unknown patient": {PatientID: "999", DoctorID: f.doctorID, ScheduledAt: "2024-05-02T09:30"},
		"unknown doctor":  {PatientID: f.patientID, DoctorID: "999", ScheduledAt: "2024-05-02T09:30"},
		"bad time":        {PatientID: f.patientID, DoctorID: f.doctorID, ScheduledAt: "2024-05-02"},
		"unknown status":  {PatientID: f.patientID, DoctorID: f.doctorID, ScheduledAt: "2024-05-02T09:30", Status: "lost"},
		"non numeric id":  {PatientID: "abc", DoctorID: f.doctorID, ScheduledAt: "2024-05-02T09:30"},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), form)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestUpdateKeepsStatusWhenBlank(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, &model.AppointmentForm{
		PatientID: f.patientID, DoctorID: f.doctorID, ScheduledAt: "2024-05-02T09:30", Status: "completed",
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, a.ID, &model.AppointmentForm{
		PatientID: f.patientID, DoctorID: f.doctorID, ScheduledAt: "2024-05-03T10:00", Reason: "follow-up",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
	assert.Equal(t, "follow-up", updated.Reason)
}

func TestListNewestScheduleFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, at := range []string{"2024-05-01T09:00", "2024-06-01T09:00", "2024-04-01T09:00"} {
		_, err := f.svc.Create(ctx, &model.AppointmentForm{PatientID: f.patientID, DoctorID: f.doctorID, ScheduledAt: at})
		require.NoError(t, err)
	}

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 6, int(list[0].ScheduledAt.Month()))
	assert.Equal(t, 4, int(list[2].ScheduledAt.Month()))
	assert.Equal(t, "Alice", list[0].PatientName)
}
