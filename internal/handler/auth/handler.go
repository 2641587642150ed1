package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/middleware"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/auth"
	"github.com/jwalitptl/clinic-records/internal/session"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

const templateLogin = "auth/login.html"

type Handler struct {
	svc      *auth.Service
	sessions *session.Manager
	limiter  *middleware.RateLimiter
	metrics  *metrics.Metrics
}

// NewHandler wires the login pages. limiter and m may be nil.
func NewHandler(svc *auth.Service, sessions *session.Manager, limiter *middleware.RateLimiter, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, sessions: sessions, limiter: limiter, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	login := []gin.HandlerFunc{h.Login}
	if h.limiter != nil {
		login = append([]gin.HandlerFunc{h.limiter.RateLimit()}, login...)
	}

	r.GET("/login", h.LoginPage)
	r.POST("/login", login...)
	r.GET("/logout", authMW.RequireAuth(), h.Logout)
}

func (h *Handler) LoginPage(c *gin.Context) {
	next := middleware.SafeRedirect(c.Query("next"), "/")
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, next)
		return
	}
	handler.Render(c, http.StatusOK, templateLogin, gin.H{
		"Next": next,
		"Form": &model.LoginForm{},
	})
}

// Login authenticates the submitted credentials. On failure the form is
// shown again with the username kept and the session left anonymous.
func (h *Handler) Login(c *gin.Context) {
	var form model.LoginForm
	_ = c.ShouldBind(&form)
	next := middleware.SafeRedirect(c.PostForm("next"), "/")

	user, err := h.svc.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			handler.Error(c, err)
			return
		}
		h.count("failure")
		log.Ctx(c.Request.Context()).Info().Str("username", form.Username).Msg("Failed login attempt")

		session.Flash(c, session.FlashDanger, "Invalid username or password.")
		form.Password = ""
		handler.Render(c, http.StatusOK, templateLogin, gin.H{
			"Next": next,
			"Form": &form,
		})
		return
	}

	h.count("success")
	sess := h.sessions.Renew(c)
	sess.SetUser(user.ID)
	handler.Redirect(c, session.FlashSuccess, fmt.Sprintf("Welcome, %s.", user.Username), next)
}

func (h *Handler) Logout(c *gin.Context) {
	session.From(c).ClearUser()
	handler.Redirect(c, session.FlashInfo, "You have been logged out.", "/login")
}

func (h *Handler) count(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}
