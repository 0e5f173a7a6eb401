// disputeflow server: drives the four-phase credit-card dispute workflow,
// delegating reasoning to external AI agents and exposing case state over
// HTTP for the rendering collaborator.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/creditops/disputeflow/pkg/api"
	"github.com/creditops/disputeflow/pkg/config"
	"github.com/creditops/disputeflow/pkg/database"
	"github.com/creditops/disputeflow/pkg/gateway"
	"github.com/creditops/disputeflow/pkg/services"
	"github.com/creditops/disputeflow/pkg/workflow"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config",
		getEnv("CONFIG_PATH", "./deploy/disputeflow.yaml"),
		"Path to configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment", "error", err)
	}

	ctx := context.Background()

	// 1. Configuration
	cfg, err := config.Initialize(ctx, *configPath)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	// 2. Optional persistence
	var dbClient *database.Client
	var store *database.Store
	if cfg.Persistence.Enabled {
		dbConfig, err := database.LoadConfigFromEnv()
		if err != nil {
			slog.Error("Failed to load database config", "error", err)
			os.Exit(1)
		}
		dbClient, err = database.NewClient(ctx, dbConfig)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				slog.Error("Error closing database client", "error", err)
			}
		}()
		store = database.NewStore(dbClient)
		slog.Info("Connected to PostgreSQL database")
	}

	// 3. Agent gateway and workflow
	agentClient := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey(), cfg.Gateway.Timeout)

	deps := workflow.Deps{
		Invoker: agentClient,
		Agents: workflow.AgentRoster{
			Intake:       cfg.Agents.Intake,
			Lookup:       cfg.Agents.Lookup,
			Compliance:   cfg.Agents.Compliance,
			Synthesis:    cfg.Agents.Synthesis,
			Resolution:   cfg.Agents.Resolution,
			Orchestrator: cfg.Agents.Orchestrator,
		},
		Logger: slog.Default(),
	}
	if store != nil {
		deps.Recorder = store
	}
	registry := workflow.NewRegistry(deps)

	// 4. Services and HTTP server
	caseService := services.NewCaseService(registry, store, slog.Default())
	server := api.NewServer(caseService, dbClient)

	httpServer := &http.Server{
		Addr:              ":" + getEnv("HTTP_PORT", strconv.Itoa(cfg.Server.Port)),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting disputeflow", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// 5. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
}
