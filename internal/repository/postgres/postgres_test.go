package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/internal/model"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func TestPatientCreateReturnsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)
	now := time.Now()

	mock.ExpectQuery(q("INSERT INTO patients")).
		WithArgs("Alice", "F", sqlmock.AnyArg(), "555", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))

	p := &model.Patient{Name: "Alice", Gender: "F", Phone: "555"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientGetMissingIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectQuery(q("FROM patients WHERE id = $1")).
		WithArgs(9999).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := repo.Get(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPatientListFilterEscapesPattern(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "gender", "date_of_birth", "phone", "address", "id_number", "created_at"}).
		AddRow(2, "Bob 50%", "M", nil, "", "", "", time.Now())
	mock.ExpectQuery(q("WHERE name LIKE $1 OR phone LIKE $1 OR id_number LIKE $1 ORDER BY created_at DESC, id DESC")).
		WithArgs(`%50\%%`).
		WillReturnRows(rows)

	patients, err := repo.List(context.Background(), &model.PatientFilter{Query: "50%"})
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Bob 50%", patients[0].Name)
	assert.Nil(t, patients[0].DateOfBirth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientListWithoutFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectQuery(q("FROM patients ORDER BY created_at DESC")).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	patients, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestPatientDeleteRemovesDependentsInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM visits WHERE patient_id = $1")).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q("DELETE FROM appointments WHERE patient_id = $1")).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM patients WHERE id = $1")).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientDeleteRollsBackWhenMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM visits")).WithArgs(8).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("DELETE FROM appointments")).WithArgs(8).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("DELETE FROM patients")).WithArgs(8).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 8)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientDeleteRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM visits")).WithArgs(3).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorDeleteReferencedIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDoctorRepository(db)

	mock.ExpectExec(q("DELETE FROM doctors WHERE id = $1")).
		WithArgs(4).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	err := repo.Delete(context.Background(), 4)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDoctorCountAppointments(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDoctorRepository(db)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM appointments WHERE doctor_id = $1")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountAppointments(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestVisitListByPatientOrdersNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVisitRepository(db)

	cols := []string{"id", "patient_id", "doctor_id", "doctor_name", "visit_date", "symptoms",
		"diagnosis", "treatment", "notes", "created_at", "updated_at"}
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(cols).
		AddRow(5, 1, 2, "Dr. Lee", d, "cough", "flu", "rest", "", d, d).
		AddRow(4, 1, nil, nil, nil, "", "checkup", "", "", d, d)
	mock.ExpectQuery(q("ORDER BY v.visit_date DESC NULLS LAST, v.id DESC")).
		WithArgs(1).
		WillReturnRows(rows)

	visits, err := repo.ListByPatient(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	require.NotNil(t, visits[0].DoctorName)
	assert.Equal(t, "Dr. Lee", *visits[0].DoctorName)
	assert.Nil(t, visits[1].DoctorID)
	assert.Nil(t, visits[1].VisitDate)
}

func TestVisitUpdateMissingIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVisitRepository(db)

	mock.ExpectExec(q("UPDATE visits")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Visit{ID: 42})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAppointmentCreateDefaultsStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	at := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(q("INSERT INTO appointments")).
		WithArgs(1, 2, at, "scheduled", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, time.Now()))

	a := &model.Appointment{PatientID: 1, DoctorID: 2, ScheduledAt: at}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, model.AppointmentStatusScheduled, a.Status)
	assert.Equal(t, int64(10), a.ID)
}

func TestUserCreateDuplicateIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	err := repo.Create(context.Background(), &model.User{Username: "admin", Role: model.RoleAdmin})
	assert.True(t, apperrors.IsConflict(err))
}

func TestStatsCounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStatsRepository(db)

	mock.ExpectQuery(q("AS patient_count")).
		WillReturnRows(sqlmock.NewRows([]string{"patient_count", "doctor_count", "appointment_count"}).AddRow(3, 2, 1))

	stats, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.PatientCount)
	assert.Equal(t, 2, stats.DoctorCount)
	assert.Equal(t, 1, stats.AppointmentCount)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%abc%", containsPattern("abc"))
	assert.Equal(t, `%a\_b\\c%`, containsPattern(`a_b\c`))
}
