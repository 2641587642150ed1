package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/session"
)

const ContextCurrentUser = "current_user"

// UserLoader resolves the user stored in a session; nil means anonymous.
type UserLoader interface {
	CurrentUser(ctx context.Context, id int64) (*model.User, error)
}

type AuthMiddleware struct {
	users UserLoader
}

func NewAuthMiddleware(users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// LoadUser reloads the session's user on every request so role changes and
// deactivation take effect immediately. It must run after the session
// middleware.
func (m *AuthMiddleware) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.From(c)
		if sess.Authenticated() {
			user, err := m.users.CurrentUser(c.Request.Context(), sess.UserID)
			if err != nil {
				log.Ctx(c.Request.Context()).Error().Err(err).Int64("user_id", sess.UserID).Msg("Failed to load current user")
			}
			if user != nil {
				c.Set(ContextCurrentUser, user)
			} else if err == nil {
				sess.ClearUser()
			}
		}
		c.Next()
	}
}

// RequireAuth sends anonymous visitors to the login page, remembering where
// they were going.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			target := "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles lets the request through when the user holds one of roles.
// Admins always pass. Anyone else is sent to the dashboard with a warning.
func (m *AuthMiddleware) RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			m.RequireAuth()(c)
			return
		}
		if !user.HasAnyRole(roles...) {
			log.Ctx(c.Request.Context()).Warn().
				Int64("user_id", user.ID).
				Str("role", string(user.Role)).
				Str("path", c.Request.URL.Path).
				Msg("Permission denied")
			session.Flash(c, session.FlashWarning, "You do not have permission to perform this action.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextCurrentUser); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// SafeRedirect returns next when it is a path on this site, otherwise
// fallback. Absolute and scheme-relative URLs are rejected.
func SafeRedirect(next, fallback string) string {
	if next == "" || next[0] != '/' {
		return fallback
	}
	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
