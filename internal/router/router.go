package router

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/handler/health"
	"github.com/jwalitptl/clinic-records/internal/middleware"
	"github.com/jwalitptl/clinic-records/internal/session"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

// Handler is a group of pages that declares its own routes and the roles
// each mutating route requires.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup, *middleware.AuthMiddleware)
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	sessions *session.Manager
	health   *health.Handler
	metrics  *metrics.Metrics

	authH    Handler
	handlers []Handler
}

type RouterConfig struct {
	Debug       bool
	TLS         bool
	MaxBodySize int64

	// TrustedProxies may set X-Forwarded-For. With none, ClientIP is the
	// TCP peer, which keeps per-IP rate limits from being spoofed.
	TrustedProxies []string
}

// NewRouter builds the engine with the shared middleware chain. authH serves
// the login pages; handlers serve pages that need a signed-in user.
func NewRouter(
	templates *template.Template,
	auth *middleware.AuthMiddleware,
	sessions *session.Manager,
	healthH *health.Handler,
	m *metrics.Metrics,
	authH Handler,
	handlers []Handler,
	config RouterConfig,
) *Router {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.MaxBodySize == 0 {
		config.MaxBodySize = middleware.DefaultMaxBodySize
	}

	engine := gin.New()
	engine.SetHTMLTemplate(templates)
	engine.HandleMethodNotAllowed = false
	if err := engine.SetTrustedProxies(config.TrustedProxies); err != nil {
		log.Error().Err(err).Msg("Invalid trusted proxies, trusting none")
		_ = engine.SetTrustedProxies(nil)
	}

	r := &Router{
		engine:   engine,
		auth:     auth,
		sessions: sessions,
		health:   healthH,
		metrics:  m,
		authH:    authH,
		handlers: handlers,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Sentry(),
		middleware.Logger(),
		middleware.Recovery(handler.RenderStatus),
		middleware.Metrics(m),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(config.TLS)),
		middleware.Timeout(middleware.DefaultRequestTimeout),
		middleware.SizeLimit(config.MaxBodySize),
	)

	r.setup()
	return r
}

func (r *Router) setup() {
	r.health.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	pages := r.engine.Group("")
	pages.Use(r.sessions.Middleware(), r.auth.LoadUser())
	r.authH.RegisterRoutes(pages, r.auth)

	protected := pages.Group("")
	protected.Use(r.auth.RequireAuth())
	for _, h := range r.handlers {
		h.RegisterRoutes(protected, r.auth)
	}

	r.engine.NoRoute(r.sessions.Middleware(), r.auth.LoadUser(), handler.NotFound)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
