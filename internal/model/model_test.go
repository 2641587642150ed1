package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasAnyRole(t *testing.T) {
	clerk := &User{Role: RoleClerk}
	admin := &User{Role: RoleAdmin}

	assert.True(t, clerk.HasAnyRole(RoleNurse, RoleClerk))
	assert.False(t, clerk.HasAnyRole(RoleAdmin))
	assert.True(t, admin.HasAnyRole(RoleDoctor))
	assert.True(t, admin.HasAnyRole())

	var anonymous *User
	assert.False(t, anonymous.HasAnyRole(RoleClerk))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleNurse.Valid())
	assert.False(t, Role("janitor").Valid())
}

func TestFormsRoundTrip(t *testing.T) {
	dob := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	pf := FormFromPatient(&Patient{Name: "Wang Fang", DateOfBirth: &dob})
	assert.Equal(t, "2023-05-01", pf.DateOfBirth)

	doctorID := int64(3)
	vf := FormFromVisit(&Visit{DoctorID: &doctorID})
	assert.Equal(t, "3", vf.DoctorID)
	assert.Empty(t, vf.VisitDate)

	af := FormFromAppointment(&Appointment{
		PatientID:   1,
		DoctorID:    2,
		ScheduledAt: time.Date(2024, 1, 2, 8, 15, 0, 0, time.UTC),
		Status:      AppointmentStatusScheduled,
	})
	assert.Equal(t, "2024-01-02T08:15", af.ScheduledAt)
	assert.Equal(t, "scheduled", af.Status)
}

func TestPatientFormTrim(t *testing.T) {
	f := &PatientForm{Name: "  Li Lei ", Phone: " 138 "}
	f.Trim()
	assert.Equal(t, "Li Lei", f.Name)
	assert.Equal(t, "138", f.Phone)
}
