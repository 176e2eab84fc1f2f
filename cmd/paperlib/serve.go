package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/csheth/paperlib/internal/backup"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/server"
	"github.com/csheth/paperlib/internal/session"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the library over a JSON HTTP API",
	Long: `Serve exposes the library, arXiv search and summaries under /api and
Prometheus metrics under /metrics. When backup.schedule and backup.bucket are
set the library is also backed up to S3 on that cron schedule.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := server.NewMetrics()
	store, closeStore, err := openStore(library.WithNotifier(metrics))
	if err != nil {
		return err
	}
	defer closeStore()
	metrics.WatchLibrary(store)

	if cfg.Backup.Schedule != "" && cfg.Backup.Bucket != "" {
		uploader, err := newUploader(ctx)
		if err != nil {
			return err
		}
		scheduler, err := backup.Schedule(cfg.Backup.Schedule, uploader, snapshotFunc(store), logger)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
		logger.Info("backups scheduled", zap.String("schedule", cfg.Backup.Schedule), zap.String("bucket", cfg.Backup.Bucket))
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	opts := server.Options{
		Store:      store,
		Session:    session.New(),
		Searcher:   newArxivClient(),
		Metrics:    metrics,
		Logger:     logger,
		MaxResults: cfg.Arxiv.MaxResults,
		APIKey:     cfg.Server.APIKey,
	}
	if summarizer := newSummarizer(); summarizer != nil {
		opts.Summarizer = summarizer
	}
	router, err := server.New(opts)
	if err != nil {
		return err
	}

	srv := server.NewHTTPServer(cfg.Server.Addr, router)
	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr), zap.Int("papers", store.Len()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
