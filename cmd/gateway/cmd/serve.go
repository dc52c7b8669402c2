package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecomkassa/ferma-gateway/internal/api"
	"github.com/ecomkassa/ferma-gateway/internal/atol"
	"github.com/ecomkassa/ferma-gateway/internal/auditlog"
	"github.com/ecomkassa/ferma-gateway/internal/config"
	"github.com/ecomkassa/ferma-gateway/internal/metrics"
	"github.com/ecomkassa/ferma-gateway/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	audit, err := auditlog.Open(cfg.AuditDBPath)
	if err != nil {
		slog.Error("failed to open audit log", "error", err, "db_path", cfg.AuditDBPath)
		return err
	}
	defer func() {
		if err := audit.Close(); err != nil {
			slog.Error("failed to close audit log", "error", err)
		}
	}()

	sessions, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		slog.Error("failed to open session store", "error", err, "db_path", cfg.SessionDBPath)
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			slog.Error("failed to close session store", "error", err)
		}
	}()

	m := metrics.NewRegistry()
	audit.OnDrop = m.AuditDropped.Inc

	upstream := atol.NewClient(atol.ClientConfig{BaseURL: cfg.BaseURL()})
	server := api.NewServer(cfg, upstream, audit, sessions, m)

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("starting ferma-gateway",
		"addr", addr,
		"environment", cfg.Environment,
		"upstream", cfg.BaseURL(),
		"token_refresh", cfg.Credentials() != nil,
	)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		if err := httpServer.Close(); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		return err
	}

	slog.Info("server stopped")
	return nil
}
