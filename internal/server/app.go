// Package server wires the gophdrive server together: configuration,
// logging, the metadata database, the storage backend, the services and
// the HTTP listeners, with graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/api"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/services"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
)

var (
	openDB = sql.Open

	newS3Store = func(ctx context.Context, c storage.S3Config) (storage.Store, error) {
		return storage.NewS3Store(ctx, c)
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	server      *api.Server
	userService *services.UserService
	fileService *services.FileService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	if c.SecretKey == "" {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret init error: %w", err)
		}
		c.SecretKey = secret
		logger.Warn(ctx, "no secret key configured, sessions will not survive a restart")
	}

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := openDB(rm.DriverName(), c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if c.DatabaseDriver == repomanager.DriverSQLite {
		// one writer at a time; avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	store, err := newStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := services.NewUserService(db, rm, c, logger)
	fs := services.NewFileService(db, rm, store, logger)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		server:      api.NewServer(c, logger, us, fs),
		userService: us,
		fileService: fs,
	}, nil
}

func newStore(ctx context.Context, c *config.Config) (storage.Store, error) {
	switch c.StorageBackend {
	case storage.BackendS3:
		return newS3Store(ctx, storage.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			Endpoint:     c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Prefix:       c.S3Prefix,
			UsePathStyle: c.S3UsePathStyle,
		})
	case storage.BackendLocal:
		return storage.NewLocalStore(c.StoragePath)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", c.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a signal arrives, then closes the
// database. A listener failure stops the other listeners too.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "closing database failed", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "database", app.config.DatabaseDriver)
	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})
	if app.config.MetricsAddr != "" {
		g.Go(func() error {
			return api.ServeMetrics(gctx, app.config.MetricsAddr, app.logger)
		})
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "app stopped with error", "error", err)
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return nil
}
