// Package server initializes and runs the Baby Steps server. It opens the
// Postgres pool, applies migrations, seeds the demo account when asked to,
// and runs the REST and gRPC health endpoints until the context is
// cancelled or a signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/dmitrijs2005/babysteps/internal/server/config"
	"github.com/dmitrijs2005/babysteps/internal/server/handlers"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/babysteps/internal/server/services"

	gs "github.com/dmitrijs2005/babysteps/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services handlers.Services
}

func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	app, err := newApp(ctx, c, l, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, l logging.Logger, db *sql.DB, m repomanager.RepositoryManager) (*App, error) {

	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, m, c)

	if c.SeedDemoData {
		created, err := us.SeedDemo(ctx)
		if err != nil {
			return nil, fmt.Errorf("demo seed error: %w", err)
		}
		if created {
			l.Info(ctx, "Demo account created", "email", models.DemoEmail)
		}
	}

	return &App{
		config: c,
		logger: l,
		db:     db,
		services: handlers.Services{
			Users:      us,
			Babies:     services.NewBabyService(db, m),
			Activities: services.NewActivityService(db, m),
			Reminders:  services.NewReminderService(db, m),
			Settings:   services.NewSettingsService(db, m),
			Backups:    services.NewBackupService(c),
		},
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context) error {

	srv := handlers.NewApp(app.services, app.config.SecretKey, app.logger)

	// announces address
	ln, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return err
	}

	app.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Listener(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping HTTP server...")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.ShutdownWithContext(sctx); err != nil {
		app.logger.Error(sctx, "HTTP shutdown error", "error", err)
	}
	// Serve may not have picked up the listener yet.
	_ = ln.Close()

	return <-errc
}

func (app *App) startGRPCServer(ctx context.Context) error {
	return gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger).Run(ctx)
}

// Run serves until ctx is done, a signal arrives or either server fails.
// The database pool is closed on return.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, name+" server error", "error", err)
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			mu.Unlock()
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("http", app.startHTTPServer)
	go run("grpc", app.startGRPCServer)
	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")

	return errors.Join(append(errs, app.db.Close())...)
}
