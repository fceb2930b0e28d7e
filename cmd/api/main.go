package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/punchclock-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/repository/postgresql"
	timeCardService "github.com/cmlabs-hris/punchclock-backend-go/internal/service/timecard"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	timeCardRepo := postgresql.NewTimeCardRepository(db)
	shiftConfigRepo := postgresql.NewJobShiftConfigRepository(db)
	settingsRepo := postgresql.NewPunchClockSettingsRepository(db)

	recalculationSvc := timeCardService.NewRecalculationService(timeCardRepo, shiftConfigRepo, settingsRepo)
	timeCardSvc := timeCardService.NewTimeCardService(postgresql.NewTransactor(db), timeCardRepo, shiftConfigRepo, settingsRepo)

	var jwtService jwt.Service
	if cfg.AuthEnabled() {
		jwtService, err = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
		if err != nil {
			return fmt.Errorf("init jwt service: %w", err)
		}
	} else {
		slog.Warn("JWT_SECRET_KEY is empty, API authentication is disabled")
	}

	timeCardHandler := appHTTP.NewTimeCardHandler(recalculationSvc, timeCardSvc, cfg.AuthEnabled())
	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		JWTService:     jwtService,
		AllowedOrigins: cfg.App.AllowedOrigins,
		Env:            cfg.App.Env,
		Version:        cfg.App.Version,
		LogLevel:       cfg.SlogLevel(),
	}, timeCardHandler)

	scheduler := cron.NewScheduler(false)
	cron.NewTimeCardJobs(recalculationSvc, cfg.Recalc.CompanyIDs, cfg.Recalc.Interval).RegisterJobs(scheduler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start(gctx)
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		slog.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
