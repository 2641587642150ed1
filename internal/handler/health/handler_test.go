package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct{ err error }

func (f fakeDB) PingContext(context.Context) error { return f.err }

func serve(t *testing.T, db Pinger, path string) (int, Report) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(db).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var report Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	return w.Code, report
}

func TestReadiness(t *testing.T) {
	code, report := serve(t, fakeDB{}, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, "ok", report.Database)

	code, report = serve(t, fakeDB{err: errors.New("connection refused")}, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusUnavailable, report.Status)
	assert.Equal(t, "unreachable", report.Database)
}

func TestLivenessIgnoresDatabase(t *testing.T) {
	code, report := serve(t, fakeDB{err: errors.New("down")}, "/livez")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusAlive, report.Status)
	assert.False(t, report.Time.IsZero())
}
