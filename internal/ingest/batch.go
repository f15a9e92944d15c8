package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/newthinker/traderstats/internal/core"
	"go.uber.org/zap"
)

// Reader fetches raw export bytes by path. The archive storage backends
// satisfy it.
type Reader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// File is one export of a batch. Load is called at most once.
type File struct {
	Name string
	Load func(ctx context.Context) ([]byte, error)
}

// FromReader returns a file loaded lazily from r.
func FromReader(r Reader, path string) File {
	return File{
		Name: path,
		Load: func(ctx context.Context) ([]byte, error) {
			return r.Read(ctx, path)
		},
	}
}

// FromBytes returns a file backed by an in-memory upload.
func FromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Load: func(context.Context) ([]byte, error) {
			return data, nil
		},
	}
}

// LoadOptions configures LoadBatch.
type LoadOptions struct {
	Sheet    string
	Columns  Columns
	Location *time.Location
	Logger   *zap.Logger
}

// FileResult records the outcome of one file.
type FileResult struct {
	Name  string `json:"name"`
	Sheet string `json:"sheet,omitempty"`
	Rows  int    `json:"rows"`
	Err   error  `json:"-"`
}

// Accepted reports whether the file contributed rows to the batch.
func (r FileResult) Accepted() bool {
	return r.Err == nil
}

// Batch is the concatenation of every accepted file's rows in input order.
type Batch struct {
	Rows    []RawRow
	Results []FileResult
}

// Accepted returns the number of accepted files.
func (b Batch) Accepted() int {
	n := 0
	for _, r := range b.Results {
		if r.Accepted() {
			n++
		}
	}
	return n
}

// Rejected returns the results of files that were rejected.
func (b Batch) Rejected() []FileResult {
	var out []FileResult
	for _, r := range b.Results {
		if !r.Accepted() {
			out = append(out, r)
		}
	}
	return out
}

// LoadBatch reads, parses and normalizes every file. A failure in one file
// is recorded in its result and does not affect the others.
func LoadBatch(ctx context.Context, files []File, opts LoadOptions) Batch {
	if opts.Sheet == "" {
		opts.Sheet = DefaultSheet
	}
	if opts.Columns == (Columns{}) {
		opts.Columns = DefaultColumns()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	batch := Batch{Results: make([]FileResult, 0, len(files))}
	for _, f := range files {
		res := FileResult{Name: f.Name}

		if err := ctx.Err(); err != nil {
			res.Err = err
			batch.Results = append(batch.Results, res)
			continue
		}

		rows, sheet, err := loadFile(ctx, f, opts)
		res.Sheet = sheet
		if err != nil {
			res.Err = err
			logger.Warn("export rejected",
				zap.String("source", f.Name),
				zap.Error(err),
			)
		} else {
			res.Rows = len(rows)
			batch.Rows = append(batch.Rows, rows...)
			logger.Debug("export loaded",
				zap.String("source", f.Name),
				zap.String("sheet", sheet),
				zap.Int("rows", len(rows)),
			)
		}
		batch.Results = append(batch.Results, res)
	}

	return batch
}

func loadFile(ctx context.Context, f File, opts LoadOptions) ([]RawRow, string, error) {
	if f.Load == nil {
		return nil, "", core.WrapError(core.ErrFileRejected, fmt.Errorf("%s: no content", f.Name))
	}
	data, err := f.Load(ctx)
	if err != nil {
		return nil, "", core.WrapError(core.ErrFileRejected, fmt.Errorf("%s: %w", f.Name, err))
	}

	table, err := ReadTable(f.Name, data, opts.Sheet)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", f.Name, err)
	}

	rows, err := Normalize(table, sourceName(f.Name), opts.Columns, opts.Location)
	if err != nil {
		return nil, table.Sheet, fmt.Errorf("%s: %w", f.Name, err)
	}
	return rows, table.Sheet, nil
}

// sourceName tags rows with the file's base name so trade ids stay short.
func sourceName(name string) string {
	return filepath.Base(name)
}
