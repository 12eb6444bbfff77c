package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ventureforge/ventureforge/pkg/agent"
	"github.com/ventureforge/ventureforge/pkg/agent/controller"
	"github.com/ventureforge/ventureforge/pkg/api"
	"github.com/ventureforge/ventureforge/pkg/cleanup"
	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/database"
	"github.com/ventureforge/ventureforge/pkg/masking"
	"github.com/ventureforge/ventureforge/pkg/services"
	"github.com/ventureforge/ventureforge/pkg/slack"
	"github.com/ventureforge/ventureforge/pkg/store"
	"github.com/ventureforge/ventureforge/pkg/version"
)

func newServeCmd() *cobra.Command {
	var configDir, httpPort string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the journey HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configDir, httpPort)
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	cmd.Flags().StringVar(&httpPort, "http-port", getEnv("HTTP_PORT", "8080"), "HTTP listen port")
	return cmd
}

func serve(ctx context.Context, configDir, httpPort string) error {
	// Load .env file from config directory
	envPath := filepath.Join(configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", envPath, "error", err)
	} else {
		slog.Info("Loaded environment", "path", envPath)
	}

	slog.Info("Starting VentureForge",
		"version", version.Full(),
		"http_port", httpPort,
		"config_dir", configDir)

	// 1. Initialize configuration
	cfg, err := config.Initialize(ctx, configDir)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// 2. Initialize database
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Connected to database", "driver", dbConfig.Driver)

	// 3. LLM clients and the stage executor.
	// gRPC clients dial lazily; the first turn makes the actual connection.
	clients := agent.NewClientFactory(agent.LLMServiceAddr())
	defer func() {
		if err := clients.Close(); err != nil {
			slog.Error("Error closing LLM clients", "error", err)
		}
	}()
	executor, err := controller.NewFactory(cfg, clients).Executor(ctx)
	if err != nil {
		return fmt.Errorf("failed to build stage executor: %w", err)
	}
	slog.Info("Stage executor initialized", "llm_service_addr", agent.LLMServiceAddr())

	// 4. Domain services
	warningsService := services.NewSystemWarningsService()
	sessionService := services.NewSessionService(
		store.NewSessionStore(dbClient), executor, cfg.Journey.MaxMessageLength, warningsService)
	sessionService.SetMasker(masking.NewService(cfg.Masking))
	if cfg.Slack.Enabled {
		sessionService.SetNotifier(slack.NewService(slack.ServiceConfig{
			Token:        os.Getenv(cfg.Slack.TokenEnv),
			Channel:      cfg.Slack.Channel,
			DashboardURL: cfg.Slack.DashboardURL,
		}))
		slog.Info("Slack milestone notifications enabled", "channel", cfg.Slack.Channel)
	}

	retention := cleanup.NewService(cfg.Retention, sessionService)
	retention.Start(ctx)
	defer retention.Stop()

	// 5. HTTP server (non-blocking)
	gin.SetMode(gin.ReleaseMode)
	httpServer := api.NewServer(cfg, dbClient, sessionService)
	httpServer.SetWarningsService(warningsService)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + httpPort
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 6. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	var serveErr error
	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
		serveErr = err
	}

	// 7. Graceful shutdown: let in-flight turns finish generating.
	shutdownTimeout := cfg.Journey.GenerationTimeout + cfg.Journey.ClassificationTimeout + 10*time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("VentureForge stopped")
	return serveErr
}
