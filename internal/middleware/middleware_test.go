package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/session"
	"github.com/jwalitptl/clinic-records/pkg/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUsers map[int64]*model.User

func (s stubUsers) CurrentUser(_ context.Context, id int64) (*model.User, error) {
	return s[id], nil
}

// newAuthRouter logs every request in as the user with id given by the
// X-Test-User header.
func newAuthRouter(users stubUsers, roles ...model.Role) (*gin.Engine, *bool) {
	reached := false
	mgr := session.NewManager(session.NewMemoryStore(time.Minute), security.NewTokenSigner("s", time.Minute), time.Minute, false)
	auth := NewAuthMiddleware(users)

	r := gin.New()
	r.Use(mgr.Middleware())
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			for uid, u := range users {
				if u.Username == id {
					session.From(c).SetUser(uid)
				}
			}
		}
		c.Next()
	})
	r.Use(auth.LoadUser())
	r.POST("/doctors/1/delete", auth.RequireAuth(), auth.RequireRoles(roles...), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusNoContent)
	})
	return r, &reached
}

func testUsers() stubUsers {
	return stubUsers{
		1: {ID: 1, Username: "admin", Role: model.RoleAdmin, Active: true},
		2: {ID: 2, Username: "clerk", Role: model.RoleClerk, Active: true},
		3: {ID: 3, Username: "nurse", Role: model.RoleNurse, Active: true},
	}
}

func post(r http.Handler, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	r, reached := newAuthRouter(testUsers(), model.RoleAdmin)

	w := post(r, "/doctors/1/delete", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fdoctors%2F1%2Fdelete", w.Header().Get("Location"))
	assert.False(t, *reached)
}

func TestRequireRolesDeniesClerk(t *testing.T) {
	r, reached := newAuthRouter(testUsers(), model.RoleAdmin)

	w := post(r, "/doctors/1/delete", "clerk")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.False(t, *reached)
}

func TestRequireRolesAdminAlwaysPasses(t *testing.T) {
	r, reached := newAuthRouter(testUsers(), model.RoleNurse, model.RoleClerk)

	w := post(r, "/doctors/1/delete", "admin")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, *reached)
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	r, reached := newAuthRouter(testUsers(), model.RoleNurse, model.RoleClerk)

	w := post(r, "/doctors/1/delete", "nurse")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, *reached)
}

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"/patients?q=a":           "/patients?q=a",
		"":                        "/",
		"https://evil.example":    "/",
		"//evil.example/patients": "/",
		`/\evil.example`:          "/",
		"patients":                "/",
	}
	for next, want := range cases {
		assert.Equal(t, want, SafeRedirect(next, "/"), next)
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1})
	r := gin.New()
	r.POST("/login", rl.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, post(r, "/login", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/login", "").Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(DefaultSecurityConfig(false)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRecoveryRendersErrorPage(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(func(c *gin.Context, status int) {
		c.String(status, "something went wrong")
	}))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "something went wrong", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderXRequestID))
}

func TestSizeLimit(t *testing.T) {
	r := gin.New()
	r.POST("/", SizeLimit(4), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.ContentLength = 10
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
