// Package repotest provides in-memory repositories for tests of the layers
// above storage. They follow the same ordering and delete rules as the
// postgres schema.
package repotest

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

// Store holds every table. The zero value is not usable; call NewStore.
type Store struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time

	patients     map[int64]model.Patient
	doctors      map[int64]model.Doctor
	visits       map[int64]model.Visit
	appointments map[int64]model.Appointment
	users        map[int64]model.User
}

func NewStore() *Store {
	return &Store{
		clock:        time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		patients:     map[int64]model.Patient{},
		doctors:      map[int64]model.Doctor{},
		visits:       map[int64]model.Visit{},
		appointments: map[int64]model.Appointment{},
		users:        map[int64]model.User{},
	}
}

// tick returns a new id and a strictly increasing timestamp.
func (s *Store) tick() (int64, time.Time) {
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	return s.nextID, s.clock
}

func notFound(resource string) error {
	return apperrors.NewNotFound(resource, sql.ErrNoRows)
}

func (s *Store) Patients() repository.PatientRepository         { return patientRepo{s} }
func (s *Store) Doctors() repository.DoctorRepository           { return doctorRepo{s} }
func (s *Store) Visits() repository.VisitRepository             { return visitRepo{s} }
func (s *Store) Appointments() repository.AppointmentRepository { return appointmentRepo{s} }
func (s *Store) Users() repository.UserRepository               { return userRepo{s} }
func (s *Store) Stats() repository.StatsRepository              { return statsRepo{s} }

type patientRepo struct{ s *Store }

func (r patientRepo) Create(_ context.Context, p *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID, p.CreatedAt = r.s.tick()
	r.s.patients[p.ID] = *p
	return nil
}

func (r patientRepo) Get(_ context.Context, id int64) (*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.patients[id]
	if !ok {
		return nil, notFound("patient")
	}
	return &p, nil
}

func (r patientRepo) Update(_ context.Context, p *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.patients[p.ID]
	if !ok {
		return notFound("patient")
	}
	p.CreatedAt = old.CreatedAt
	r.s.patients[p.ID] = *p
	return nil
}

func (r patientRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[id]; !ok {
		return notFound("patient")
	}
	for vid, v := range r.s.visits {
		if v.PatientID == id {
			delete(r.s.visits, vid)
		}
	}
	for aid, a := range r.s.appointments {
		if a.PatientID == id {
			delete(r.s.appointments, aid)
		}
	}
	delete(r.s.patients, id)
	return nil
}

func (r patientRepo) List(_ context.Context, filter *model.PatientFilter) ([]*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Patient{}
	for _, p := range r.s.patients {
		p := p
		if filter != nil && filter.Query != "" &&
			!strings.Contains(p.Name, filter.Query) &&
			!strings.Contains(p.Phone, filter.Query) &&
			!strings.Contains(p.IDNumber, filter.Query) {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r patientRepo) ListByName(_ context.Context) ([]*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Patient{}
	for _, p := range r.s.patients {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type doctorRepo struct{ s *Store }

func (r doctorRepo) Create(_ context.Context, d *model.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID, d.CreatedAt = r.s.tick()
	r.s.doctors[d.ID] = *d
	return nil
}

func (r doctorRepo) Get(_ context.Context, id int64) (*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, notFound("doctor")
	}
	return &d, nil
}

func (r doctorRepo) Update(_ context.Context, d *model.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.doctors[d.ID]
	if !ok {
		return notFound("doctor")
	}
	d.CreatedAt = old.CreatedAt
	r.s.doctors[d.ID] = *d
	return nil
}

func (r doctorRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.doctors[id]; !ok {
		return notFound("doctor")
	}
	for _, a := range r.s.appointments {
		if a.DoctorID == id {
			return apperrors.NewConflict("doctor is referenced by other records", nil)
		}
	}
	for vid, v := range r.s.visits {
		if v.DoctorID != nil && *v.DoctorID == id {
			v.DoctorID = nil
			r.s.visits[vid] = v
		}
	}
	delete(r.s.doctors, id)
	return nil
}

func (r doctorRepo) List(_ context.Context) ([]*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Doctor{}
	for _, d := range r.s.doctors {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r doctorRepo) CountAppointments(_ context.Context, id int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, a := range r.s.appointments {
		if a.DoctorID == id {
			n++
		}
	}
	return n, nil
}

type visitRepo struct{ s *Store }

// withDoctorName fills the joined column. Callers hold the lock.
func (r visitRepo) withDoctorName(v model.Visit) *model.Visit {
	v.DoctorName = nil
	if v.DoctorID != nil {
		if d, ok := r.s.doctors[*v.DoctorID]; ok {
			name := d.Name
			v.DoctorName = &name
		}
	}
	return &v
}

func (r visitRepo) Create(_ context.Context, v *model.Visit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[v.PatientID]; !ok {
		return apperrors.NewConflict("visit is referenced by other records", nil)
	}
	if v.DoctorID != nil {
		if _, ok := r.s.doctors[*v.DoctorID]; !ok {
			return apperrors.NewConflict("visit is referenced by other records", nil)
		}
	}
	v.ID, v.CreatedAt = r.s.tick()
	v.UpdatedAt = v.CreatedAt
	r.s.visits[v.ID] = *v
	return nil
}

func (r visitRepo) Get(_ context.Context, id int64) (*model.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.visits[id]
	if !ok {
		return nil, notFound("visit")
	}
	return r.withDoctorName(v), nil
}

func (r visitRepo) Update(_ context.Context, v *model.Visit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.visits[v.ID]
	if !ok {
		return notFound("visit")
	}
	v.PatientID = old.PatientID
	v.CreatedAt = old.CreatedAt
	_, v.UpdatedAt = r.s.tick()
	r.s.visits[v.ID] = *v
	return nil
}

func (r visitRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.visits[id]; !ok {
		return notFound("visit")
	}
	delete(r.s.visits, id)
	return nil
}

func (r visitRepo) ListByPatient(_ context.Context, patientID int64) ([]*model.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Visit{}
	for _, v := range r.s.visits {
		if v.PatientID == patientID {
			out = append(out, r.withDoctorName(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].VisitDate, out[j].VisitDate
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r visitRepo) ListRecent(_ context.Context, limit int) ([]*model.RecentVisit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.RecentVisit{}
	for _, v := range r.s.visits {
		out = append(out, &model.RecentVisit{
			Visit:       *r.withDoctorName(v),
			PatientName: r.s.patients[v.PatientID].Name,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type appointmentRepo struct{ s *Store }

// checkRefs enforces the foreign keys. Callers hold the lock.
func (r appointmentRepo) checkRefs(a *model.Appointment) error {
	if _, ok := r.s.patients[a.PatientID]; !ok {
		return apperrors.NewConflict("appointment is referenced by other records", nil)
	}
	if _, ok := r.s.doctors[a.DoctorID]; !ok {
		return apperrors.NewConflict("appointment is referenced by other records", nil)
	}
	return nil
}

func (r appointmentRepo) withNames(a model.Appointment) *model.Appointment {
	a.PatientName = r.s.patients[a.PatientID].Name
	a.DoctorName = r.s.doctors[a.DoctorID].Name
	return &a
}

func (r appointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = model.AppointmentStatusScheduled
	}
	a.ID, a.CreatedAt = r.s.tick()
	r.s.appointments[a.ID] = *a
	return nil
}

func (r appointmentRepo) Get(_ context.Context, id int64) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, notFound("appointment")
	}
	return r.withNames(a), nil
}

func (r appointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.appointments[a.ID]
	if !ok {
		return notFound("appointment")
	}
	if err := r.checkRefs(a); err != nil {
		return err
	}
	a.CreatedAt = old.CreatedAt
	r.s.appointments[a.ID] = *a
	return nil
}

func (r appointmentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[id]; !ok {
		return notFound("appointment")
	}
	delete(r.s.appointments, id)
	return nil
}

func (r appointmentRepo) List(_ context.Context) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Appointment{}
	for _, a := range r.s.appointments {
		out = append(out, r.withNames(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return apperrors.NewConflict("user already exists", nil)
		}
	}
	u.ID, u.CreatedAt = r.s.tick()
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) Get(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, notFound("user")
}

// SetActive toggles a user's active flag; there is no repository method for
// it because accounts are only managed from the command line.
func (s *Store) SetActive(id int64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Active = active
		s.users[id] = u
	}
}

type statsRepo struct{ s *Store }

func (r statsRepo) Counts(_ context.Context) (*model.DashboardStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return &model.DashboardStats{
		PatientCount:     len(r.s.patients),
		DoctorCount:      len(r.s.doctors),
		AppointmentCount: len(r.s.appointments),
	}, nil
}
