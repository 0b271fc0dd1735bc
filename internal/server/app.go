// Package server wires the LifeLog server together: configuration, the
// document store, blob storage, services and the gRPC and metrics
// listeners. It also handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/blob"
	"github.com/dmitrijs2005/lifelog/internal/filex"
	"github.com/dmitrijs2005/lifelog/internal/logging"
	"github.com/dmitrijs2005/lifelog/internal/server/config"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lifelog/internal/server/services"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/dmitrijs2005/lifelog/internal/server/store/mongostore"
	"github.com/dmitrijs2005/lifelog/internal/server/store/sqlstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gs "github.com/dmitrijs2005/lifelog/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    store.Driver
	services *services.Services
	registry *prometheus.Registry
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.NewJSON(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	driver, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}
	blobs, err := openBlobs(ctx, c)
	if err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	m := repomanager.NewStoreRepositoryManager(driver)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &App{
		config:   c,
		logger:   logger,
		store:    driver,
		services: services.New(m, blobs, c, logger),
		registry: reg,
	}, nil
}

// openStore opens the configured document store and brings its schema up
// to date.
func openStore(ctx context.Context, c *config.Config) (store.Driver, error) {
	switch c.StoreDriver {
	case config.StoreMemory:
		return store.NewMemory(repomanager.Schemas()...), nil
	case config.StoreSQLite, config.StorePostgres:
		d := sqlstore.SQLite
		if c.StoreDriver == config.StorePostgres {
			d = sqlstore.Postgres
		}
		s, err := sqlstore.Open(ctx, d, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("migrations: %w", err)
		}
		return s, nil
	case config.StoreMongo:
		s, err := mongostore.Open(ctx, c.MongoURI, c.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx, repomanager.Schemas()); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
}

func openBlobs(ctx context.Context, c *config.Config) (blob.Store, error) {
	switch blob.Driver(c.BlobDriver) {
	case blob.DriverFilesystem:
		dir, err := filex.EnsureDir(c.UploadDir)
		if err != nil {
			return nil, err
		}
		return blob.NewFSStore(dir)
	case blob.DriverMemory:
		return blob.NewMemoryStore(), nil
	case blob.DriverS3:
		return blob.NewS3Store(ctx, blob.S3Config{
			AccessKeyID:     c.S3RootUser,
			SecretAccessKey: c.S3RootPassword,
			Bucket:          c.S3Bucket,
			Region:          c.S3Region,
			Endpoint:        c.S3BaseEndpoint,
			PathStyle:       c.S3UsePathStyle,
		})
	}
	return nil, fmt.Errorf("unknown blob driver %q", c.BlobDriver)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.services, gs.Options{
		SecretKey:     app.config.SecretKey,
		MaskForbidden: app.config.MaskForbidden,
		Metrics:       gs.NewMetrics(app.registry),
	})
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a listener fails,
// then closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreDriver, "blobs", app.config.BlobDriver)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.store.Close(closeCtx); err != nil {
		app.logger.Error(closeCtx, "closing store", "error", err)
	}
	app.logger.Info(closeCtx, "App stopped")
}
