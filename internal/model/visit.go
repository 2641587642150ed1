package model

import (
	"strconv"
	"time"

	"github.com/jwalitptl/clinic-records/pkg/validator"
)

// Visit is a medical record of one consultation. It always belongs to a
// patient and optionally names the attending doctor.
type Visit struct {
	ID         int64      `db:"id" json:"id"`
	PatientID  int64      `db:"patient_id" json:"patient_id"`
	DoctorID   *int64     `db:"doctor_id" json:"doctor_id,omitempty"`
	DoctorName *string    `db:"doctor_name" json:"doctor_name,omitempty"`
	VisitDate  *time.Time `db:"visit_date" json:"visit_date,omitempty"`
	Symptoms   string     `db:"symptoms" json:"symptoms"`
	Diagnosis  string     `db:"diagnosis" json:"diagnosis"`
	Treatment  string     `db:"treatment" json:"treatment"`
	Notes      string     `db:"notes" json:"notes"`
	Timestamps
}

type VisitForm struct {
	DoctorID  string `form:"doctor_id"`
	VisitDate string `form:"visit_date"`
	Symptoms  string `form:"symptoms" validate:"max=2000"`
	Diagnosis string `form:"diagnosis" validate:"max=255"`
	Treatment string `form:"treatment" validate:"max=2000"`
	Notes     string `form:"notes" validate:"max=4000"`
}

func (f *VisitForm) Trim() {
	f.DoctorID = validator.Trim(f.DoctorID)
	f.VisitDate = validator.Trim(f.VisitDate)
	f.Symptoms = validator.Trim(f.Symptoms)
	f.Diagnosis = validator.Trim(f.Diagnosis)
	f.Treatment = validator.Trim(f.Treatment)
	f.Notes = validator.Trim(f.Notes)
}

func FormFromVisit(v *Visit) *VisitForm {
	f := &VisitForm{
		VisitDate: validator.FormatDate(v.VisitDate),
		Symptoms:  v.Symptoms,
		Diagnosis: v.Diagnosis,
		Treatment: v.Treatment,
		Notes:     v.Notes,
	}
	if v.DoctorID != nil {
		f.DoctorID = strconv.FormatInt(*v.DoctorID, 10)
	}
	return f
}
