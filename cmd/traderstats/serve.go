package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newthinker/traderstats/internal/api"
	"github.com/newthinker/traderstats/internal/api/session"
	"github.com/newthinker/traderstats/internal/app"
	"github.com/newthinker/traderstats/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("creating app: %w", err)
	}

	deps := api.Dependencies{
		App:      a,
		Sessions: session.NewStore(cfg.Server.MaxSessions, cfg.SessionTTL()),
	}
	metricsPath := ""
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.NewRegistry()
		a.SetMetrics(deps.Metrics)
		metricsPath = cfg.Metrics.Path
	}

	log.Info("starting traderstats server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Type),
	)

	server, err := api.NewServer(api.Config{
		Host:             cfg.Server.Host,
		Port:             cfg.Server.Port,
		MaxUploadBytes:   int64(cfg.Server.MaxUploadMB) << 20,
		MetricsPath:      metricsPath,
		ImportsPerMinute: cfg.Server.ImportsPerMinute,
		CORSOrigins:      cfg.Server.CORSOrigins,
	}, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
