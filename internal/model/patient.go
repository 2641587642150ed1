package model

import (
	"time"

	"github.com/jwalitptl/clinic-records/pkg/validator"
)

type Patient struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Gender      string     `db:"gender" json:"gender"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Phone       string     `db:"phone" json:"phone"`
	Address     string     `db:"address" json:"address"`
	IDNumber    string     `db:"id_number" json:"id_number"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// PatientForm is the submitted new/edit form. Fields stay strings so the
// form can be redisplayed exactly as entered.
type PatientForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Gender      string `form:"gender" validate:"max=10"`
	DateOfBirth string `form:"date_of_birth"`
	Phone       string `form:"phone" validate:"max=50"`
	Address     string `form:"address" validate:"max=255"`
	IDNumber    string `form:"id_number" validate:"max=50"`
}

func (f *PatientForm) Trim() {
	f.Name = validator.Trim(f.Name)
	f.Gender = validator.Trim(f.Gender)
	f.DateOfBirth = validator.Trim(f.DateOfBirth)
	f.Phone = validator.Trim(f.Phone)
	f.Address = validator.Trim(f.Address)
	f.IDNumber = validator.Trim(f.IDNumber)
}

// FormFromPatient pre-fills the edit form.
func FormFromPatient(p *Patient) *PatientForm {
	return &PatientForm{
		Name:        p.Name,
		Gender:      p.Gender,
		DateOfBirth: validator.FormatDate(p.DateOfBirth),
		Phone:       p.Phone,
		Address:     p.Address,
		IDNumber:    p.IDNumber,
	}
}
