package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/todoapi/server/internal/config"
	"github.com/todoapi/server/internal/domain/reminder"
	"github.com/todoapi/server/internal/platform/notifier"
	"github.com/todoapi/server/internal/platform/postgres"
	"github.com/todoapi/server/internal/scheduler"
	"github.com/todoapi/server/internal/service"
	"github.com/todoapi/server/internal/service/auth"
	"github.com/todoapi/server/internal/store"
)

// Names of the scheduled jobs.
const (
	jobNotify = "notify"
	jobReset  = "reset"
)

// dependencies are the outer adapters the application is built on.
type dependencies struct {
	users    store.UserStore
	tasks    store.TaskStore
	tx       store.TxBeginner
	sessions store.SessionFactory
	sender   notifier.Sender
}

// application holds the shared application dependencies and is responsible
// for their cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService          auth.JWTService
	userService         service.UserService
	taskService         service.TaskService
	notificationService *service.NotificationService

	scheduler *scheduler.Scheduler
}

// newApplication wires the PostgreSQL stores and the configured sender into
// a new application.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	sender, err := notifier.New(cfg.Notification, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification sender: %w", err)
	}

	app, err := buildApplication(cfg, logger, dependencies{
		users:    postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger),
		tasks:    postgres.NewPostgresTaskStore(db, logger),
		tx:       db,
		sessions: postgres.NewSessionFactory(db, logger),
		sender:   sender,
	})
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// buildApplication creates the services and registers the reminder jobs.
func buildApplication(cfg *config.Config, logger *slog.Logger, deps dependencies) (*application, error) {
	app := &application{config: cfg, logger: logger}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.userService = service.NewUserService(deps.users, auth.NewBcryptVerifier(), deps.tx, logger)
	app.taskService = service.NewTaskService(deps.tasks, deps.tx, logger)

	params := reminder.Params{ResetWindow: cfg.Notification.ResetWindow}
	app.notificationService, err = service.NewNotificationService(deps.users, deps.sender, params, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %w", err)
	}

	app.scheduler, err = scheduler.New(cfg.Scheduler, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	runner := service.NewNotificationRunner(app.notificationService, deps.sessions)
	for _, job := range []scheduler.Job{
		scheduler.JobFunc(jobNotify, runner.Notify),
		scheduler.JobFunc(jobReset, runner.Reset),
	} {
		if err := app.scheduler.Register(job); err != nil {
			return nil, fmt.Errorf("failed to register job %s: %w", job.Name(), err)
		}
	}

	logger.Info("application initialized",
		"reset_window", params.ResetWindow,
		"scheduler_interval", cfg.Scheduler.Interval)
	return app, nil
}

// startScheduler starts the reminder jobs and kicks off a first dispatcher
// run so reminders do not wait a full interval after a restart.
func (app *application) startScheduler() error {
	if err := app.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	if !app.config.Scheduler.Enabled {
		return nil
	}
	if err := app.scheduler.RunNow(jobNotify); err != nil && !errors.Is(err, scheduler.ErrJobBusy) {
		app.logger.Warn("initial notification run not queued", "error", err)
	}
	return nil
}

// Run starts the scheduler and the HTTP server and blocks until ctx is
// cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.startScheduler(); err != nil {
		app.cleanup(context.Background())
		return err
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops the scheduler, waiting for in-flight runs until ctx
// expires, and closes the database.
func (app *application) cleanup(ctx context.Context) {
	if app.scheduler != nil {
		if err := app.scheduler.Stop(ctx); err != nil {
			app.logger.Error("scheduler did not stop cleanly", "error", err)
		}
		for _, st := range app.scheduler.Snapshot() {
			app.logger.Info("job stats",
				"job", st.Name,
				"runs", st.Runs,
				"failures", st.Failures,
				"skipped", st.Skipped,
				"dropped", st.Dropped)
		}
	}

	if app.db != nil {
		closeDB(app.db, app.logger)
	}

	app.logger.Info("application shutdown completed")
}
