package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/newthinker/traderstats/internal/app"
	"github.com/newthinker/traderstats/internal/config"
	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/logger"
	"go.uber.org/zap"
)

// loadConfig reads --config when given, otherwise the defaults. A .env file
// in the working directory is loaded first so ${VAR} values can use it.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg := config.Defaults()
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWithOptions(logOptions(cfg, debug))
}

// logOptions maps the log config to logger options. --debug wins over the
// configured level.
func logOptions(cfg *config.Config, development bool) logger.Options {
	opts := logger.Options{
		Development: development,
		Level:       cfg.Log.Level,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	}
	if development {
		opts.Level = "debug"
	}
	return opts
}

// withApp handles common config, logger and app setup.
func withApp(fn func(a *app.App, cfg *config.Config, log *zap.Logger) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !debug && cfg.Log.Level == "info" {
		// Only warnings reach the terminal unless --debug.
		cfg.Log.Level = "warn"
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("creating app: %w", err)
	}
	return fn(a, cfg, log)
}

// importFiles runs the exports through the pipeline and reports rejected
// files on stderr.
func importFiles(ctx context.Context, a *app.App, paths []string) (*app.Import, error) {
	imp, err := a.ImportPaths(ctx, paths)
	if imp != nil {
		for _, f := range imp.Files {
			if !f.Accepted() {
				color.New(color.FgYellow).Fprintf(os.Stderr, "skipped %s: %v\n", f.Name, f.Err)
			}
		}
	}
	if errors.Is(err, core.ErrNoTrades) {
		return nil, fmt.Errorf("no trades found in %d file(s): %w", len(paths), err)
	}
	return imp, err
}
