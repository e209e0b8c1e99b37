// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/book-selection/internal/export"
	"github.com/pdiddy/book-selection/internal/server"
	"github.com/pdiddy/book-selection/internal/session"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API behind the browser form",
	Long: `Serve exposes one in-memory session over HTTP: student details, catalog
search, candidate selection, list editing, and spreadsheet download. State
lives only as long as the process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "origins allowed by CORS")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("serve.allowed_origins", serveCmd.Flags().Lookup("allowed-origins"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	layout, err := export.LayoutByName(cfg.Export.Layout)
	if err != nil {
		return err
	}

	logger := slog.Default()
	sess := session.New(newCatalogClient(cfg),
		session.WithLogger(logger),
		session.WithIDGenerator(uuid.NewString),
	)

	if !logger.Enabled(cmd.Context(), slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.New(sess, layout, cfg.Export.Deadline, logger).Router(cfg.Serve.AllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "layout", layout.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
