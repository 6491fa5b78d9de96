package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/user-records/internal/config"
	"github.com/vasiliy-maslov/user-records/internal/db"
	userHttp "github.com/vasiliy-maslov/user-records/internal/handler/http"
	"github.com/vasiliy-maslov/user-records/internal/user"
)

var (
	runMigrations bool
	useMemory     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&runMigrations, "migrate", false,
		"apply database migrations before serving")
	serveCmd.Flags().BoolVar(&useMemory, "memory", false,
		"keep users in memory instead of PostgreSQL (data is lost on exit)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Info().Msg("Starting user-service...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		repo   user.Repository
		pinger userHttp.Pinger
	)

	if useMemory {
		log.Warn().Msg("Using in-memory user store")
		repo = user.NewMemoryRepository()
	} else {
		connectCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		dbPool, err := db.New(connectCtx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		if runMigrations {
			if err := dbPool.Migrate(true); err != nil {
				return err
			}
		}

		repo = user.NewRepository(dbPool.Pool)
		pinger = dbPool
	}

	userSvc := user.NewService(repo)
	router := userHttp.NewRouter(userHttp.NewUserHandler(userSvc), pinger)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("could not listen on %s: %w", cfg.App.Port, err)
	case sig := <-stopCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info().Msg("User-service stopped gracefully.")
	return nil
}

// loadConfig skips database validation when serving from memory.
func loadConfig() (*config.Config, error) {
	if useMemory {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.ValidateApp(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
