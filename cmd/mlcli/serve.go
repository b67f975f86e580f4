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

	"github.com/spf13/cobra"

	"github.com/GavinEsch/mlcli/internal/auth"
	"github.com/GavinEsch/mlcli/internal/server"
	"github.com/GavinEsch/mlcli/internal/store/fs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only HTTP query service",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		s, err := fs.New(cfg.Workdir)
		if err != nil {
			return err
		}
		defer s.Close()

		gate := auth.NewGate(cfg.Workdir)
		if !gate.Configured() {
			logger.Warn("no API key configured; all requests will be rejected until 'mlcli auth --generate' is run")
		}

		addr := cfg.HTTPAddr
		if port > 0 {
			addr = fmt.Sprintf(":%d", port)
		}

		qs := server.NewQueryServer(s, gate, cfg.Workdir, logger)
		httpServer := &http.Server{
			Addr:    addr,
			Handler: qs.NewHTTPHandler(),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides MLCLI_HTTP_ADDR)")
}
