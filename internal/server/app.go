// Package server wires configuration, storage, services and both transports
// (HTTP and gRPC) into one process and runs them until a signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/httpapi"
	"github.com/dmitrijs2005/gophtasks/internal/server/metrics"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"

	gs "github.com/dmitrijs2005/gophtasks/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

// NewApp opens the database, applies migrations and builds both servers.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	repomanager.SetMigrationLogger(logger)

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	m := metrics.New()
	hasher := auth.NewBcryptHasher(c.BcryptCost)
	issuer := auth.NewJWTIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	as := services.NewAuthService(db, rm, hasher, issuer, logger, m)
	ts := services.NewTaskService(db, rm, logger, m)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: httpapi.NewServer(c.EndpointAddrHTTP, as, ts, logger, m),
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, as, ts, m),
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

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or either
// server fails. The database is closed before returning.
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

	run := func(name string, f func(context.Context) error) {
		defer wg.Done()
		if err := f(ctx); err != nil {
			app.logger.Error(ctx, "server failed", "server", name, "error", err)
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			mu.Unlock()
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("http", app.httpServer.Run)
	go run("grpc", app.grpcServer.Run)

	wg.Wait()

	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}

	app.logger.Info(context.Background(), "App stopped")

	return errors.Join(errs...)
}
