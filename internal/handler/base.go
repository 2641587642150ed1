package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-records/internal/middleware"
	"github.com/jwalitptl/clinic-records/internal/session"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

// Template names shared by several handlers.
const (
	TemplateNotFound = "errors/404.html"
	TemplateError    = "errors/500.html"
)

// Render executes a page template. Every page gets the queued flash
// messages, which are consumed here, and the signed-in user.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = session.From(c).PopFlashes()
	data["CurrentUser"] = middleware.CurrentUser(c)
	data["CurrentPath"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

// RenderStatus renders the error page for status. It is also used by the
// recovery middleware.
func RenderStatus(c *gin.Context, status int) {
	switch status {
	case http.StatusNotFound:
		Render(c, status, TemplateNotFound, nil)
	default:
		Render(c, status, TemplateError, nil)
	}
}

func NotFound(c *gin.Context) {
	RenderStatus(c, http.StatusNotFound)
	c.Abort()
}

// Error renders the page matching err: 404 for missing records, 500 for
// anything else.
func Error(c *gin.Context, err error) {
	if apperrors.IsNotFound(err) {
		NotFound(c)
		return
	}

	_ = c.Error(err)
	log.Ctx(c.Request.Context()).Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")
	RenderStatus(c, http.StatusInternalServerError)
	c.Abort()
}

// Redirect queues a flash message and redirects with 302.
func Redirect(c *gin.Context, level, message, location string) {
	session.Flash(c, level, message)
	c.Redirect(http.StatusFound, location)
}

// ParamID parses the positive integer route parameter name. An invalid id
// renders the not found page and returns false.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := validator.ParseID(c.Param(name))
	if err != nil {
		NotFound(c)
		return 0, false
	}
	return id, true
}
