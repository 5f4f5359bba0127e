// Package server wires the linkshare application together: configuration,
// logging, the PostgreSQL metadata store, the blob store, the services and
// the HTTP API, and runs it until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/dmitrijs2005/linkshare/internal/server/blobstore"
	"github.com/dmitrijs2005/linkshare/internal/server/cache"
	"github.com/dmitrijs2005/linkshare/internal/server/config"
	"github.com/dmitrijs2005/linkshare/internal/server/httpapi"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkshare/internal/server/services"
)

// rotation limits for the log file
const (
	logMaxSizeMB  = 100
	logMaxBackups = 5
	logMaxAgeDays = 30
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	db        *sql.DB
	handler   http.Handler
}

// NewApp connects to the database, applies migrations and builds the
// HTTP handler. Resources are released by Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, logCloser, err := logging.New(logging.Options{
		Level:      c.LogLevel,
		Output:     c.LogOutput,
		FilePath:   c.LogFile,
		MaxSizeMB:  logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAgeDays: logMaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &App{
		config:    c,
		logger:    logger,
		logCloser: logCloser,
		db:        db,
		handler:   newHandler(c, db, rm, blobs, logger, reg),
	}, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch c.BlobBackend {
	case config.BlobBackendFS:
		return blobstore.NewFSStore(c.UploadDir)
	case config.BlobBackendS3:
		client, err := blobstore.NewS3Client(ctx, blobstore.S3ClientOptions{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, err
		}
		return blobstore.NewS3Store(client, c.S3Bucket, c.S3KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

// newHandler builds the services and the router over the given stores.
func newHandler(
	c *config.Config,
	db *sql.DB,
	rm repomanager.RepositoryManager,
	blobs blobstore.Store,
	logger logging.Logger,
	reg *prometheus.Registry,
) http.Handler {
	links := cache.NewLinkCache(c.LinkCacheSize, c.LinkCacheTTL, reg)

	us := services.NewUserService(db, rm, c, logger)
	fs := services.NewFileService(db, rm, blobs, links, c, logger, services.NewFileMetrics(reg))

	h := httpapi.NewHandler(us, fs, logger, c.MaxUploadSize)
	return httpapi.NewRouter(h, us.Verify, reg)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.handler, app.config.ShutdownTimeout, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database and the log file.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	_ = app.logCloser.Close()

	return runErr
}
