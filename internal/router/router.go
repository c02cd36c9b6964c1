package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/config"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/handlers"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/middleware"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository/postgres"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/service"
)

func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer(log, cfg))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.Gatekeeper)
	r.Use(middleware.WithAuth(log, cfg))

	r.Get("/healthz", handlers.Health())
	r.Method("GET", "/metrics", promhttp.Handler())

	accountRepo := postgres.NewAccountRepo(db)
	submissionRepo := postgres.NewSubmissionRepo(db)
	authSvc := service.NewAuthService(accountRepo, cfg.SessionSecret, cfg.SessionTTL)

	ah := handlers.NewAuthHTTP(authSvc, cfg)
	uh := handlers.NewUserHTTP(accountRepo, authSvc)
	sh := handlers.NewSubmissionHTTP(submissionRepo)
	eh := handlers.NewExportHTTP(submissionRepo)
	dh := handlers.NewDashboardHTTP(submissionRepo, accountRepo)
	rh := handlers.NewReportsHTTP(submissionRepo)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ah.Register())
		r.Post("/login", ah.Login())
		r.Post("/logout", ah.Logout())
		r.Post("/forgot-password", ah.ForgotPassword())
		r.Post("/reset-password", ah.ResetPassword())
		r.Get("/me", ah.Me())
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/settings", uh.GetSettings())
		r.Put("/settings", uh.UpdateSettings())
		r.Post("/password", uh.UpdatePassword())
	})

	r.Route("/api/submissions", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", sh.List())
		r.Get("/export", eh.Export())
		r.Get("/dashboard", dh.Summary())
		r.With(middleware.RequireRoles(models.RoleOperator)).Post("/", sh.Create())
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sh.Get())
			r.With(middleware.RequireRoles(models.RoleOperator)).Put("/", sh.Update())
			r.With(middleware.RequireRoles(models.RoleOperator)).Delete("/", sh.Delete())
		})
	})

	r.With(middleware.RequireAuth).Get("/api/reports", rh.Report())

	return r
}
