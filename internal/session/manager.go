package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-records/pkg/security"
)

const (
	CookieName = "clinic_session"
	contextKey = "session"
)

// Manager ties the session cookie to a Store. The cookie only carries a
// signed session id; all state lives in the store.
type Manager struct {
	store  Store
	signer *security.TokenSigner
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, signer *security.TokenSigner, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, signer: signer, ttl: ttl, secure: secure}
}

// Middleware loads the session before the handler runs and persists it
// afterwards if it changed.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.load(c)
		c.Set(contextKey, sess)

		c.Next()

		sess = From(c)
		if !sess.dirty {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.store.Save(ctx, sess); err != nil {
			log.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to save session")
		}
	}
}

func (m *Manager) load(c *gin.Context) *Session {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		id, err := m.signer.Verify(cookie)
		if err == nil {
			sess, err := m.store.Load(c.Request.Context(), id)
			if err == nil {
				return sess
			}
			if !errors.Is(err, ErrSessionNotFound) {
				log.Error().Err(err).Msg("Failed to load session")
			}
		}
	}

	sess := newSession()
	m.writeCookie(c, sess.ID)
	return sess
}

// Renew moves the session to a fresh id, keeping its contents. Called on
// login so an id issued before authentication cannot be reused after it.
func (m *Manager) Renew(c *gin.Context) *Session {
	sess := From(c)
	if err := m.store.Delete(c.Request.Context(), sess.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to delete old session")
	}
	sess.ID = uuid.NewString()
	sess.dirty = true
	m.writeCookie(c, sess.ID)
	c.Set(contextKey, sess)
	return sess
}

func (m *Manager) writeCookie(c *gin.Context, id string) {
	token, err := m.signer.Sign(id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign session cookie")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
}

// From returns the request's session. Outside the middleware it returns a
// detached session that is never persisted.
func From(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	sess := &Session{}
	c.Set(contextKey, sess)
	return sess
}

// Flash queues a one-shot message on the request's session.
func Flash(c *gin.Context, level, message string) {
	From(c).AddFlash(level, message)
}
