package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	// JWTService enables bearer authentication when non-nil.
	JWTService     jwt.Service
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

func NewRouter(opts RouterOptions, timeCardHandler TimeCardHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "punchclock"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	authenticated := func(r chi.Router) {
		if opts.JWTService != nil {
			r.Use(jwtauth.Verifier(opts.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
		}
	}
	adminOnly := func(r chi.Router) {
		if opts.JWTService != nil {
			r.Use(middleware.AdminOnly)
		}
	}

	r.Group(func(r chi.Router) {
		authenticated(r)

		// Administrative data-correction operations
		r.Group(func(r chi.Router) {
			adminOnly(r)
			r.Post("/recalculate-timecards", timeCardHandler.Recalculate)
			r.Post("/api/v1/timecards/recalculate", timeCardHandler.Recalculate)
			r.Put("/api/v1/jobs/{jobID}/shift-config", timeCardHandler.UpsertShiftConfig)
			r.Put("/api/v1/punch-clock-settings", timeCardHandler.UpsertSettings)
			r.Delete("/api/v1/timecards/{id}", timeCardHandler.Delete)
		})

		r.Post("/api/v1/timecards/punch-in", timeCardHandler.PunchIn)
		r.Post("/api/v1/timecards/punch-out", timeCardHandler.PunchOut)
		r.Get("/api/v1/timecards", timeCardHandler.List)
		r.Get("/api/v1/timecards/{id}", timeCardHandler.Get)
	})

	return r
}
