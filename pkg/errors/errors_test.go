package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapping(t *testing.T) {
	err := fmt.Errorf("failed to get patient: %w", NewNotFound("patient", sql.ErrNoRows))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "patient not found", Message(err))
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStatusCode(t *testing.T) {
	cases := map[*AppError]int{
		NewNotFound("doctor", nil):    http.StatusNotFound,
		NewValidation("name missing"): http.StatusBadRequest,
		NewConflict("in use", nil):    http.StatusConflict,
		Forbidden(nil):                http.StatusForbidden,
		Unauthorized(nil):             http.StatusUnauthorized,
		NewInternal(nil):              http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.StatusCode(), err.Message)
	}
}

func TestPlainErrorIsInternal(t *testing.T) {
	err := fmt.Errorf("boom")
	assert.Equal(t, ErrInternal, CodeOf(err))
	assert.Equal(t, "boom", Message(err))
}
