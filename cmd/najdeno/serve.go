package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/najdeno/internal/api"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "listen address (default: :8080)")
	serveCmd.Flags().String("jwt-secret", "", "identity token signing secret (default: stored in the database)")
	serveCmd.Flags().String("jwt-issuer", "", "required identity token issuer")
}

func runServe(cmd *cobra.Command, _ []string) error {
	closeLog, err := setupLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := openDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	s := store.New(database)

	secret, err := signingSecret(cmd.Context(), s)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(s, secret, cfg.JWTIssuer))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// openDatabase opens the database and brings its schema up to date.
func openDatabase(path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "path", path)
	return database, nil
}

// signingSecret returns the configured token secret, falling back to the one
// generated and stored in the database on first run.
func signingSecret(ctx context.Context, s *store.Store) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}
	secret, err := s.SigningSecret(ctx)
	if err != nil {
		return "", fmt.Errorf("loading signing secret: %w", err)
	}
	slog.Warn("no jwt secret configured, using the one stored in the database")
	return secret, nil
}
