package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmrzaf/datadash/internal/api"
	"github.com/mmrzaf/datadash/internal/app"
	"github.com/mmrzaf/datadash/internal/config"
	"github.com/mmrzaf/datadash/internal/infra/repos/history"
	"github.com/mmrzaf/datadash/internal/infra/repos/presets"
	"github.com/mmrzaf/datadash/internal/infra/repos/sinks"
	"github.com/mmrzaf/datadash/internal/logging"
	"github.com/mmrzaf/datadash/internal/registry"
)

func main() {
	cfg := config.Load()

	presetsDir := flag.String("presets-dir", cfg.PresetsDir, "Presets directory")
	sinksDir := flag.String("sinks-dir", cfg.SinksDir, "Sinks directory")
	historyDB := flag.String("history-db", cfg.HistoryDSN, "Generation history database (sqlite path or postgres URL, empty to disable)")
	bindAddr := flag.String("bind", cfg.BindAddr, "Bind address")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	batchSize := flag.Int("batch-size", cfg.BatchSize, "Default insert batch size")
	flag.Parse()

	logger := logging.NewLogger(*logLevel).WithComponent("api_main")

	var historyRepo history.Repository
	if *historyDB != "" {
		repo, err := history.Open(*historyDB)
		if err != nil {
			logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "init_history"})
			os.Exit(1)
		}
		defer repo.Close()
		historyRepo = repo
	}

	svc := app.NewDatasetService(
		registry.DefaultGeneratorRegistry(),
		presets.NewFileRepository(*presetsDir),
		sinks.NewFileRepository(*sinksDir),
		historyRepo,
		logger,
		*batchSize,
	)
	router := api.NewRouter(api.NewHandler(svc), logger, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              *bindAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infow("startup.listening", map[string]any{
		"bind":            *bindAddr,
		"presets_dir":     *presetsDir,
		"history_enabled": historyRepo != nil,
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "listen"})
		os.Exit(1)
	}
	logger.Infow("shutdown.complete", nil)
}
