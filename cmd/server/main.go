package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"automation-hub/backend/internal/api"
	"automation-hub/backend/internal/config"
	"automation-hub/backend/internal/descriptor"
	"automation-hub/backend/internal/engine"
	"automation-hub/backend/internal/logging"
	"automation-hub/backend/internal/repository"
	"automation-hub/backend/internal/services"
	"automation-hub/backend/internal/tls"
	"automation-hub/backend/internal/vault"
)

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "automation-hub",
		Short: "Deploys workspace automations onto spaces via engine instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFile)
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to config file")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(ctx context.Context, configFile string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("configuration loading failed: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.LogLevel)
	logger.Info("Starting Automation Hub")

	dbPool, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	defer dbPool.Close()

	store := repository.NewPostgresStore(dbPool)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database connected")

	secretVault, err := vault.NewSecretBoxVault(cfg.Vault.Secret)
	if err != nil {
		return fmt.Errorf("vault initialization failed: %w", err)
	}

	engineClient := engine.NewHTTPClient(time.Duration(cfg.Engine.TimeoutSeconds) * time.Second)
	descriptorStore := descriptor.NewHTTPStore(cfg.Descriptor.APIBase,
		time.Duration(cfg.Descriptor.TimeoutSeconds)*time.Second)

	deployments := services.NewDeploymentService(store, engineClient, descriptorStore, secretVault, logger)
	provisioning := services.NewProvisioningService(store, descriptorStore, secretVault, logger)
	logger.Info("Service layer initialized")

	// Create Echo server
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("automation-hub"))

	server := api.NewServer(deployments, provisioning, logger)
	server.RegisterRoutes(e)

	// expose OpenAPI spec and Swagger UI
	e.GET("/openapi.yaml", echo.WrapHandler(api.SpecHandler()))
	e.GET("/docs", echo.WrapHandler(api.SwaggerHandler()))

	logger.Info("REST API handlers mounted")

	addr := cfg.Server.Addr
	if cfg.TLS.Enable {
		addr = ":8443"
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", addr, "tls", cfg.TLS.Enable)
		if cfg.TLS.Enable {
			if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
				logger.Error("TLS enabled but cert/key file not provided")
				serverErrors <- httpServer.ListenAndServe()
				return
			}
			// generate if missing and hostnames provided
			if _, err := os.Stat(cfg.TLS.CertFile); os.IsNotExist(err) {
				if len(cfg.TLS.Hostnames) > 0 {
					if err := tls.GenerateSelfSignedCert(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames); err != nil {
						logger.Error("failed to generate self-signed cert", "error", err)
					}
				}
			}
			serverErrors <- httpServer.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			serverErrors <- httpServer.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := httpServer.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}
		logger.Info("Server stopped gracefully")
	}
	return nil
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	logger.Debug("Initializing database connection")

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
