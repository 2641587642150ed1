package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	StatusAlive       = "alive"
	StatusHealthy     = "healthy"
	StatusUnavailable = "unavailable"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Report is the JSON body of both probes.
type Report struct {
	Status   string    `json:"status"`
	Database string    `json:"database,omitempty"`
	Time     time.Time `json:"time"`
}

type Handler struct {
	db Pinger
}

func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.Readiness)
	r.GET("/livez", h.Liveness)
}

func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, Report{Status: StatusAlive, Time: time.Now()})
}

// Readiness reports whether the database answers within two seconds.
func (h *Handler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, Report{
			Status:   StatusUnavailable,
			Database: "unreachable",
			Time:     time.Now(),
		})
		return
	}
	c.JSON(http.StatusOK, Report{Status: StatusHealthy, Database: "ok", Time: time.Now()})
}
