package validator

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

var (
	ErrInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidDateTime = errors.New("date and time must be formatted as YYYY-MM-DDTHH:MM")
	ErrInvalidID       = errors.New("invalid identifier")
)

// Trim removes surrounding whitespace from a submitted value.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ParseDate parses an optional YYYY-MM-DD value. Empty input yields nil.
// Out-of-range values such as 2023-13-40 are rejected.
func ParseDate(s string) (*time.Time, error) {
	s = Trim(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

// ParseDateTime parses a required YYYY-MM-DDTHH:MM value as sent by
// datetime-local inputs.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, Trim(s))
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return t, nil
}

// ParseID coerces a positive integer identifier.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(Trim(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParseOptionalID is ParseID for fields that may be left blank.
func ParseOptionalID(s string) (*int64, error) {
	if Trim(s) == "" {
		return nil, nil
	}
	id, err := ParseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// FormatDate renders an optional date back into its form representation.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatDateTime renders a time for a datetime-local input.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}
