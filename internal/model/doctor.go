package model

import (
	"time"

	"github.com/jwalitptl/clinic-records/pkg/validator"
)

type Doctor struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Department string    `db:"department" json:"department"`
	Title      string    `db:"title" json:"title"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type DoctorForm struct {
	Name       string `form:"name" validate:"required,max=100"`
	Department string `form:"department" validate:"max=100"`
	Title      string `form:"title" validate:"max=100"`
}

func (f *DoctorForm) Trim() {
	f.Name = validator.Trim(f.Name)
	f.Department = validator.Trim(f.Department)
	f.Title = validator.Trim(f.Title)
}

func FormFromDoctor(d *Doctor) *DoctorForm {
	return &DoctorForm{Name: d.Name, Department: d.Department, Title: d.Title}
}
