// Package app wires the import pipeline, the export archive and report
// assembly into one service used by the CLI and the API server.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/newthinker/traderstats/internal/config"
	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/ingest"
	"github.com/newthinker/traderstats/internal/journal"
	"github.com/newthinker/traderstats/internal/metrics"
	"github.com/newthinker/traderstats/internal/report"
	"github.com/newthinker/traderstats/internal/storage/archive"
	"go.uber.org/zap"
)

// App is the main application service
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *metrics.Registry
	archive    archive.Storage
	classifier journal.Classifier
	location   *time.Location
}

// Import is the outcome of one import: the trades plus per-file results.
type Import struct {
	Store   *journal.Store
	Files   []ingest.FileResult
	Dropped map[string]int
}

// New creates a new App instance and opens the configured export archive.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Defaults()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, err)
	}

	store, err := archive.New(archive.Options{
		Type: cfg.Storage.Type,
		Path: cfg.Storage.Path,
		S3: archive.S3Config{
			Bucket:    cfg.Storage.S3.Bucket,
			Endpoint:  cfg.Storage.S3.Endpoint,
			Region:    cfg.Storage.S3.Region,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			Prefix:    cfg.Storage.S3.Prefix,
		},
	})
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		archive:    store,
		classifier: journal.TypeTextClassifier{},
		location:   loc,
	}, nil
}

// SetMetrics enables pipeline metrics.
func (a *App) SetMetrics(reg *metrics.Registry) {
	a.metrics = reg
}

// SetClassifier replaces the row classifier.
func (a *App) SetClassifier(c journal.Classifier) {
	if c != nil {
		a.classifier = c
	}
}

// SetArchive replaces the export archive.
func (a *App) SetArchive(s archive.Storage) {
	a.archive = s
}

// Archive returns the export archive.
func (a *App) Archive() archive.Storage {
	return a.archive
}

// Import runs files through the pipeline. When no trade can be
// reconstructed the result is still returned, with core.ErrNoTrades.
func (a *App) Import(ctx context.Context, files []ingest.File) (*Import, error) {
	start := time.Now()

	batch := ingest.LoadBatch(ctx, files, ingest.LoadOptions{
		Sheet:    a.cfg.Import.Sheet,
		Columns:  a.cfg.Import.Columns,
		Location: a.location,
		Logger:   a.logger,
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := journal.Reconstruct(batch.Rows, a.classifier)
	imp := &Import{
		Store:   journal.NewStore(res.Trades),
		Files:   batch.Results,
		Dropped: res.Dropped,
	}

	a.logger.Info("import complete",
		zap.Int("files", len(files)),
		zap.Int("accepted", batch.Accepted()),
		zap.Int("rows", len(batch.Rows)),
		zap.Int("trades", len(res.Trades)),
		zap.Int("dropped", res.DroppedTotal()),
		zap.Duration("duration", time.Since(start)),
	)
	for reason, n := range res.Dropped {
		a.logger.Debug("groups dropped", zap.String("reason", reason), zap.Int("count", n))
	}

	if a.metrics != nil {
		for _, r := range batch.Results {
			if r.Accepted() {
				a.metrics.RecordFile("accepted")
			} else {
				a.metrics.RecordFile("rejected")
			}
		}
		a.metrics.RecordImport(len(res.Trades), res.Dropped, time.Since(start).Seconds())
	}

	if imp.Store.Len() == 0 {
		return imp, core.ErrNoTrades
	}
	return imp, nil
}

// ImportPaths imports exports read from the archive.
func (a *App) ImportPaths(ctx context.Context, paths []string) (*Import, error) {
	files := make([]ingest.File, len(paths))
	for i, p := range paths {
		files[i] = ingest.FromReader(a.archive, p)
	}
	return a.Import(ctx, files)
}

// Report builds the report for scope using the configured week start.
func (a *App) Report(store *journal.Store, scope report.Scope) (*report.Report, error) {
	r, err := report.Build(store, scope, report.Options{WeekStart: a.cfg.WeekStart()})
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		kind := "month"
		if scope.IsAllTime() {
			kind = "all"
		}
		a.metrics.RecordReport(kind)
	}
	return r, nil
}

// Months lists the months with trades and the default (latest) month.
func (a *App) Months(store *journal.Store) ([]core.Month, core.Month, error) {
	latest, ok := store.LatestMonth()
	if !ok {
		return nil, core.Month{}, fmt.Errorf("no dated trades: %w", core.ErrNoTrades)
	}
	return store.Months(), latest, nil
}
