package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spacebridge/connsync-server/internal/api"
	"github.com/spacebridge/connsync-server/internal/config"
	"github.com/spacebridge/connsync-server/internal/db"
	"github.com/spacebridge/connsync-server/internal/orchestrator"
	"github.com/spacebridge/connsync-server/internal/store"
	syncpkg "github.com/spacebridge/connsync-server/internal/sync"
	"github.com/spacebridge/connsync-server/internal/sync/reconciler"
	"github.com/spacebridge/connsync-server/internal/telemetry"
	"github.com/spacebridge/connsync-server/internal/versions"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the connection sync API server",
	Long: `Start the connection sync API server.

The server requires a configuration file (--config) that specifies:
- The orchestrator endpoint and request timeout
- Database connection parameters
- Reconciliation interval and telemetry settings

See examples/ directory for sample configurations.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time
	serverRequestTimeout   = 30 * time.Second // Attach/detach includes a remote round trip
	serverReadTimeout      = 10 * time.Second // Enough for headers and small requests
	serverWriteTimeout     = 35 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout      = 60 * time.Second // Keep connections alive for reuse
)

func init() {
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		slog.Error("Failed to bind config flag", "error", err)
		os.Exit(1)
	}

	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		slog.Error("Failed to mark config flag as required", "error", err)
		os.Exit(1)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	configPath := viper.GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	address := cfg.Server.GetAddress()
	slog.Info("Starting connection sync API server",
		"address", address,
		"orchestrator", cfg.Orchestrator.Endpoint)

	// Telemetry provider (noop when disabled)
	telemetryProvider, err := telemetry.NewProvider(ctx, cfg.Telemetry, versions.GetVersionInfo().Version)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down telemetry provider", "error", err)
		}
	}()

	meter := telemetryProvider.Meter()
	syncMetrics, err := telemetry.NewSyncMetrics(meter)
	if err != nil {
		return fmt.Errorf("failed to create sync metrics: %w", err)
	}
	reconcilerMetrics, err := telemetry.NewReconcilerMetrics(meter)
	if err != nil {
		return fmt.Errorf("failed to create reconciler metrics: %w", err)
	}

	// Database pool and store
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	connStore, err := store.NewPostgresStore(pool)
	if err != nil {
		return fmt.Errorf("failed to create connection store: %w", err)
	}

	// Orchestrator client
	timeout, err := cfg.Orchestrator.GetTimeout()
	if err != nil {
		return fmt.Errorf("invalid orchestrator timeout: %w", err)
	}
	orchClient, err := orchestrator.NewClient(cfg.Orchestrator.Endpoint, timeout)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator client: %w", err)
	}

	// The manager and the reconciler share one keyed lock so reconciliation
	// never interleaves with an in-flight operation on the same identity.
	locks := syncpkg.NewKeyedLock()
	manager := syncpkg.NewManager(connStore, orchClient, locks,
		syncpkg.WithMetrics(syncMetrics))

	interval, err := cfg.Reconciliation.GetInterval()
	if err != nil {
		return fmt.Errorf("invalid reconciliation interval: %w", err)
	}

	rec := reconciler.New(connStore, orchClient, locks, interval,
		reconciler.WithMetrics(reconcilerMetrics))

	recCtx, recCancel := context.WithCancel(context.Background())
	defer recCancel()
	rec.Start(recCtx)

	// Create the API server with middleware
	router := api.NewServer(manager, connStore, pool.Ping,
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(serverRequestTimeout),
			api.LoggingMiddleware,
		),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("Shutting down server", "signal", sig.String())
	}

	rec.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}

	slog.Info("Server shutdown complete")
	return nil
}
