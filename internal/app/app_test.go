package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newthinker/traderstats/internal/config"
	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/ingest"
	"github.com/newthinker/traderstats/internal/metrics"
	"github.com/newthinker/traderstats/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marchCSV = `Trade #,Type,Date and time,Price USD,Position size (qty),Net P&L USD
1,Entry long,2024-03-04 09:30,100,1,
1,Exit long,2024-03-04 10:30,110,1,100
2,Entry short,2024-03-04 11:00,110,1,
2,Exit short,2024-03-04 12:00,114,1,-40
3,Entry long,2024-03-05 09:30,100,1,
`

const aprilCSV = `Trade #,Type,Date and time,Net P&L USD
7,Entry long,2024-04-01 09:30,
7,Exit long,2024-04-01 10:30,25
`

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.Path = t.TempDir()

	a, err := New(cfg, nil)
	require.NoError(t, err)
	return a
}

func TestApp_Import(t *testing.T) {
	a := newTestApp(t)
	reg := metrics.NewRegistry()
	a.SetMetrics(reg)

	imp, err := a.Import(context.Background(), []ingest.File{
		ingest.FromBytes("march.csv", []byte(marchCSV)),
		ingest.FromBytes("broken.csv", []byte("Trade #\n1\n")),
		ingest.FromBytes("april.csv", []byte(aprilCSV)),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, imp.Store.Len())
	assert.Equal(t, 1, imp.Dropped["no_exit"])
	require.Len(t, imp.Files, 3)
	assert.False(t, imp.Files[1].Accepted())

	months, latest, err := a.Months(imp.Store)
	require.NoError(t, err)
	assert.Len(t, months, 2)
	assert.Equal(t, core.Month{Year: 2024, Month: time.April}, latest)

	r, err := a.Report(imp.Store, report.SingleMonth(core.Month{Year: 2024, Month: time.March}))
	require.NoError(t, err)
	v := r.View()
	assert.Equal(t, "$60.00", v.TotalPnL)
	assert.Equal(t, "50.00%", v.WinRate)
}

func TestApp_ImportNoTrades(t *testing.T) {
	a := newTestApp(t)

	imp, err := a.Import(context.Background(), []ingest.File{
		ingest.FromBytes("open.csv", []byte("Trade #,Type\n1,Entry long\n")),
	})
	assert.True(t, errors.Is(err, core.ErrNoTrades))
	require.NotNil(t, imp, "file results are still reported")
	assert.Len(t, imp.Files, 1)
}

func TestApp_ImportPaths(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Archive().Write(ctx, "2024/april.csv", []byte(aprilCSV)))

	imp, err := a.ImportPaths(ctx, []string{"2024/april.csv", "2024/missing.csv"})
	require.NoError(t, err)
	assert.Equal(t, 1, imp.Store.Len())
	assert.True(t, errors.Is(imp.Files[1].Err, core.ErrFileRejected))

	trades := imp.Store.All()
	assert.Equal(t, "april.csv#7", trades[0].ID)
}

func TestApp_ReportEmptyStore(t *testing.T) {
	a := newTestApp(t)
	imp, _ := a.Import(context.Background(), nil)

	_, err := a.Report(imp.Store, report.AllTime())
	assert.True(t, errors.Is(err, core.ErrNoTrades))
}

func TestNew_InvalidTimezone(t *testing.T) {
	cfg := config.Defaults()
	cfg.Import.Timezone = "Nowhere/Special"
	_, err := New(cfg, nil)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}
