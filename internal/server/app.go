// Package server initializes and runs the backend: it opens the database,
// applies migrations, wires repositories into services, and serves the HTTP
// API until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wealthboard/wealthboard/internal/logging"
	"github.com/wealthboard/wealthboard/internal/server/config"
	"github.com/wealthboard/wealthboard/internal/server/httpapi"
	"github.com/wealthboard/wealthboard/internal/server/repositories/repomanager"
	"github.com/wealthboard/wealthboard/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	authService         *services.Auth
	notificationService *services.Notifications
	profileService      *services.Profiles
	onboardingService   *services.Onboarding
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app := &App{
		config:              cfg,
		logger:              logger,
		db:                  db,
		authService:         services.NewAuth(rm.Users(db), rm.RefreshTokens(db), cfg),
		notificationService: services.NewNotifications(rm.Notifications(db)),
		profileService:      services.NewProfiles(rm.Profiles(db)),
		onboardingService:   services.NewOnboarding(db, rm),
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	router := httpapi.NewRouter(httpapi.Deps{
		Auth:          app.authService,
		Notifications: app.notificationService,
		Profiles:      app.profileService,
		Onboarding:    app.onboardingService,
		Logger:        app.logger,
	})

	srv := &http.Server{Addr: app.config.EndpointAddrHTTP, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, "http server error", "error", err)
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
