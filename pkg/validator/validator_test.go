package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doctorForm struct {
	Name   string `form:"name" validate:"required"`
	Status string `form:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
}

func TestValidateRequired(t *testing.T) {
	v := New()

	err := v.Validate(&doctorForm{})
	require.Error(t, err)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)
	assert.Equal(t, "Name is required", fe.Message)

	assert.NoError(t, v.Validate(&doctorForm{Name: "Dr. Li"}))
}

func TestValidateOneOf(t *testing.T) {
	err := New().Validate(&doctorForm{Name: "x", Status: "lost"})
	require.Error(t, err)
	assert.Equal(t, "Status has an unsupported value", err.Error())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-05-01")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2023-05-01", FormatDate(d))

	_, err = ParseDate("2023-13-40")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("01/05/2023")
	assert.ErrorIs(t, err, ErrInvalidDate)

	d, err = ParseDate("   ")
	assert.NoError(t, err)
	assert.Nil(t, d)
}

func TestParseDateTime(t *testing.T) {
	ts, err := ParseDateTime("2024-02-29T09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 9, 30, 0, 0, time.UTC), ts)
	assert.Equal(t, "2024-02-29T09:30", FormatDateTime(ts))

	_, err = ParseDateTime("2024-02-29")
	assert.ErrorIs(t, err, ErrInvalidDateTime)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}

	opt, err := ParseOptionalID("")
	assert.NoError(t, err)
	assert.Nil(t, opt)
}
