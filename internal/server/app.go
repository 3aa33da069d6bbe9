// Package server initializes and runs the habitsync server: it opens the
// database, applies migrations, starts the websocket hub and serves the HTTP
// API until a termination signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dkhodakov/habitsync/internal/logging"
	"github.com/dkhodakov/habitsync/internal/server/auth"
	"github.com/dkhodakov/habitsync/internal/server/config"
	"github.com/dkhodakov/habitsync/internal/server/httpapi"
	"github.com/dkhodakov/habitsync/internal/server/hub"
	"github.com/dkhodakov/habitsync/internal/server/storage"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *storage.Manager
	hub     *hub.Hub
	api     *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	if c.SecretKey == "" {
		return nil, fmt.Errorf("secret key is required (-k or secret_key in the config file)")
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	sm, err := storage.Open(c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	h := hub.New(logger)

	return &App{
		config:  c,
		logger:  logger,
		storage: sm,
		hub:     h,
		api:     httpapi.NewServer(c, sm.DB(), h, logger),
	}, nil
}

// IssueDevToken prints a signed token for the identity given via the -issue
// flag ("user-id:username").
func (app *App) IssueDevToken() error {
	id, username, ok := strings.Cut(app.config.IssueFor, ":")
	if !ok || id == "" || username == "" {
		return fmt.Errorf(`-issue expects "user-id:username", got %q`, app.config.IssueFor)
	}
	token, err := auth.CreateToken(app.config.SecretKey, id, username, 30*24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.storage.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}()

	if err := app.storage.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	if app.config.IssueFor != "" {
		return app.IssueDevToken()
	}

	app.logger.Info(ctx, "starting server", "addr", app.config.Addr,
		"driver", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	go app.hub.Run()
	defer app.hub.Stop()

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
