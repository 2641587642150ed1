package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-records/internal/config"
	appointmenthandler "github.com/jwalitptl/clinic-records/internal/handler/appointment"
	authhandler "github.com/jwalitptl/clinic-records/internal/handler/auth"
	dashboardhandler "github.com/jwalitptl/clinic-records/internal/handler/dashboard"
	doctorhandler "github.com/jwalitptl/clinic-records/internal/handler/doctor"
	"github.com/jwalitptl/clinic-records/internal/handler/health"
	patienthandler "github.com/jwalitptl/clinic-records/internal/handler/patient"
	visithandler "github.com/jwalitptl/clinic-records/internal/handler/visit"
	"github.com/jwalitptl/clinic-records/internal/middleware"
	"github.com/jwalitptl/clinic-records/internal/repository/postgres"
	"github.com/jwalitptl/clinic-records/internal/router"
	appointmentService "github.com/jwalitptl/clinic-records/internal/service/appointment"
	authService "github.com/jwalitptl/clinic-records/internal/service/auth"
	dashboardService "github.com/jwalitptl/clinic-records/internal/service/dashboard"
	doctorService "github.com/jwalitptl/clinic-records/internal/service/doctor"
	patientService "github.com/jwalitptl/clinic-records/internal/service/patient"
	visitService "github.com/jwalitptl/clinic-records/internal/service/visit"
	"github.com/jwalitptl/clinic-records/internal/session"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
	"github.com/jwalitptl/clinic-records/pkg/security"
	"github.com/jwalitptl/clinic-records/pkg/validator"
	"github.com/jwalitptl/clinic-records/web"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionStore == config.SessionStoreRedis {
		store, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
}

func runServer(ctx context.Context, cfg *config.Config) error {
	flush, err := initSentry(cfg)
	if err != nil {
		return err
	}
	defer flush()

	// Initialize database
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	repos := postgres.NewRepositories(db)

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	sessions := session.NewManager(store, security.NewTokenSigner(cfg.SecretKey, cfg.SessionTTL), cfg.SessionTTL, !cfg.Debug)

	// Initialize services
	v := validator.New()
	authSvc := authService.NewService(repos.Users, security.NewBcryptHasher(bcrypt.DefaultCost))
	patientSvc := patientService.NewService(repos.Patients, repos.Visits, v)
	doctorSvc := doctorService.NewService(repos.Doctors, v)
	visitSvc := visitService.NewService(repos.Visits, repos.Patients, repos.Doctors, v)
	appointmentSvc := appointmentService.NewService(repos.Appointments, repos.Patients, repos.Doctors, v)
	dashboardSvc := dashboardService.NewService(repos.Stats, repos.Visits)

	m := metrics.NewMetrics("clinic")
	m.RegisterDB(db.DB, "clinic")

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.LoginRateLimit),
		Burst: cfg.LoginRateBurst,
	})

	templates, err := web.Templates()
	if err != nil {
		return err
	}

	r := router.NewRouter(
		templates,
		middleware.NewAuthMiddleware(authSvc),
		sessions,
		health.NewHandler(db),
		m,
		authhandler.NewHandler(authSvc, sessions, limiter, m),
		[]router.Handler{
			dashboardhandler.NewHandler(dashboardSvc),
			patienthandler.NewHandler(patientSvc),
			visithandler.NewHandler(visitSvc, patientSvc, doctorSvc),
			doctorhandler.NewHandler(doctorSvc),
			appointmenthandler.NewHandler(appointmentSvc, patientSvc, doctorSvc),
		},
		router.RouterConfig{Debug: cfg.Debug, TrustedProxies: cfg.TrustedProxies},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("debug", cfg.Debug).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
