package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eterea/eterea/internal/config"
	"github.com/eterea/eterea/internal/httpserver"
	"github.com/eterea/eterea/internal/httpserver/deps"
	"github.com/eterea/eterea/internal/ingest"
	"github.com/eterea/eterea/internal/logger"
	"github.com/eterea/eterea/internal/preview"
	"github.com/eterea/eterea/internal/store/sqlite"
	"github.com/eterea/eterea/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	store  *sqlite.Store
	server *httpserver.Server
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open the database early - fail fast if the file is unusable
	loggerClient.Infof("Opening bookmark database at %s", cfg.DatabasePath)
	store, err := sqlite.Open(cfg.DatabasePath, loggerClient.Named("store"), sqlite.Options{
		BusyTimeout:  cfg.BusyTimeout,
		WriteRetries: cfg.WriteRetries,
		RetryBackoff: cfg.RetryBackoff,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	importer := ingest.NewImporter(store, loggerClient.Named("import"), cfg.ImportBatchSize)

	fetcher := preview.New(loggerClient.Named("preview"),
		cfg.PreviewTimeout, cfg.PreviewCacheTTL, cfg.PreviewMaxRedirects)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		Store:           store,
		Importer:        importer,
		Preview:         fetcher,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		MaxSearchLimit:  cfg.MaxSearchLimit,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		store:  store,
		server: server,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("Starting Eterea v%s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Infof("Eterea %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		_ = a.store.Close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close database: %v", err)
	} else {
		a.logger.Info("Database closed cleanly")
	}

	a.logger.Info("Eterea stopped cleanly")
	return nil
}
