package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks form structs tagged with `validate`.
type Validator interface {
	Validate(interface{}) error
}

type structValidator struct {
	v        *validator.Validate
	messages map[string]string
}

// New returns a Validator whose messages name fields by their `form` tag.
func New() Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &structValidator{
		v: v,
		messages: map[string]string{
			"required": "%s is required",
			"oneof":    "%s has an unsupported value",
			"max":      "%s is too long",
			"min":      "%s is too short",
		},
	}
}

// Validate returns nil or a *FieldError for the first failing field.
func (s *structValidator) Validate(obj interface{}) error {
	err := s.v.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	first := verrs[0]
	format, ok := s.messages[first.Tag()]
	if !ok {
		format = "%s is invalid"
	}
	return &FieldError{
		Field:   first.Field(),
		Message: fmt.Sprintf(format, Label(first.Field())),
	}
}

// FieldError reports a single invalid form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Label turns a form field name like "date_of_birth" into "Date of birth".
func Label(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
