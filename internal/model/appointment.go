package model

import (
	"strconv"
	"time"

	"github.com/jwalitptl/clinic-records/pkg/validator"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists the closed set in display order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

type Appointment struct {
	ID          int64             `db:"id" json:"id"`
	PatientID   int64             `db:"patient_id" json:"patient_id"`
	DoctorID    int64             `db:"doctor_id" json:"doctor_id"`
	ScheduledAt time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status      AppointmentStatus `db:"status" json:"status"`
	Reason      string            `db:"reason" json:"reason"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`

	// Populated by list queries.
	PatientName string `db:"patient_name" json:"patient_name,omitempty"`
	DoctorName  string `db:"doctor_name" json:"doctor_name,omitempty"`
}

type AppointmentForm struct {
	PatientID   string `form:"patient_id" validate:"required"`
	DoctorID    string `form:"doctor_id" validate:"required"`
	ScheduledAt string `form:"scheduled_at" validate:"required"`
	Status      string `form:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Reason      string `form:"reason" validate:"max=255"`
}

func (f *AppointmentForm) Trim() {
	f.PatientID = validator.Trim(f.PatientID)
	f.DoctorID = validator.Trim(f.DoctorID)
	f.ScheduledAt = validator.Trim(f.ScheduledAt)
	f.Status = validator.Trim(f.Status)
	f.Reason = validator.Trim(f.Reason)
}

func FormFromAppointment(a *Appointment) *AppointmentForm {
	return &AppointmentForm{
		PatientID:   strconv.FormatInt(a.PatientID, 10),
		DoctorID:    strconv.FormatInt(a.DoctorID, 10),
		ScheduledAt: validator.FormatDateTime(a.ScheduledAt),
		Status:      string(a.Status),
		Reason:      a.Reason,
	}
}
