// Package web holds the HTML templates, compiled into the binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

//go:embed templates
var files embed.FS

// Templates parses every page. Each file defines a template named after its
// path below templates/, e.g. "patients/list.html".
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(Funcs()).ParseFS(files,
		"templates/*.html",
		"templates/*/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return validator.FormatDate(t)
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"can": func(u *model.User, roles ...string) bool {
			rs := make([]model.Role, len(roles))
			for i, r := range roles {
				rs[i] = model.Role(r)
			}
			return u.HasAnyRole(rs...)
		},
		"flashClass": func(level string) string {
			if level == "error" {
				return "danger"
			}
			return level
		},
		"selected": func(a, b string) bool {
			return a == b
		},
		"idstr": func(id int64) string {
			return fmt.Sprint(id)
		},
	}
}
