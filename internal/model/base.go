package model

import "time"

// Timestamps contains the audit columns shared by mutable records
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PatientFilter narrows the patient list
type PatientFilter struct {
	// Query is matched as a substring of name, phone or id_number.
	Query string `form:"q"`
}

// DashboardStats is the landing page summary
type DashboardStats struct {
	PatientCount     int            `db:"patient_count"`
	DoctorCount      int            `db:"doctor_count"`
	AppointmentCount int            `db:"appointment_count"`
	RecentVisits     []*RecentVisit `db:"-"`
}

// RecentVisit is a visit joined with the owning patient's name
type RecentVisit struct {
	Visit
	PatientName string `db:"patient_name"`
}
