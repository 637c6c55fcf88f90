package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/smartcrm/kernel/internal/adapters/duckdb"
	"github.com/smartcrm/kernel/internal/adapters/providers"
	appconfig "github.com/smartcrm/kernel/internal/config"
	"github.com/smartcrm/kernel/internal/core/domain"
	"github.com/smartcrm/kernel/internal/core/services"
	"github.com/smartcrm/kernel/pkg/kernel"
)

// phaseDelay is the simulated latency between generation phases, matching
// the pacing the progress stream was designed around.
const phaseDelay = 900 * time.Millisecond

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("starting smartcrm kernel")

	if err := run(logger); err != nil {
		logger.Error("kernel startup failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		cancel()
	}()

	dbPath := os.Getenv("SMARTCRM_DB_PATH")
	if dbPath == "" {
		dbPath = "smartcrm.db"
	}

	repo, err := duckdb.NewRepository(dbPath)
	if err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	defer repo.Close()

	// Encryption for API key storage
	secretKey, err := appconfig.NewSecretKey()
	if err != nil {
		return fmt.Errorf("failed to init secret key: %w", err)
	}

	// Settings store: loads persisted config from DuckDB with encrypted secrets
	settingsStore, err := appconfig.NewSettingsStore(logger, repo, secretKey)
	if err != nil {
		return fmt.Errorf("failed to init settings store: %w", err)
	}
	settingsStore.OnChange(func(cfg *domain.AppConfig) {
		logger.Info("settings hot-reloaded", "has_generation_key", cfg.HasRequiredKeys())
	})

	// Provider source re-reads the settings on every call, so saved keys
	// take effect without a restart.
	source := providers.NewSource(settingsStore)

	eventBus := services.NewEventBus(logger)

	dispatcher := services.NewDispatcher(logger)
	services.RegisterBuiltins(dispatcher, phaseDelay, source)
	logger.Info("generation routines registered", "count", len(dispatcher.IDs()))

	toolRunner := services.NewToolRunner(logger, source, nil)

	apiServer := kernel.NewServer(logger, dispatcher, toolRunner, eventBus, settingsStore, source, repo)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:5174"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	addr := os.Getenv("SMARTCRM_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: c.Handler(apiServer.Handler()),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting api server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
