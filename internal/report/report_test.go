package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/ingest"
	"github.com/newthinker/traderstats/internal/journal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradeAt(id string, exit time.Time, pnl string) journal.Trade {
	return journal.Trade{
		ID:        id,
		ExitTime:  exit,
		Date:      core.DateOf(exit),
		Direction: core.DirectionLong,
		PnL:       decimal.RequireFromString(pnl),
	}
}

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2024, month, day, hour, 0, 0, 0, time.UTC)
}

func sampleStore() *journal.Store {
	return journal.NewStore([]journal.Trade{
		tradeAt("a#1", at(time.February, 12, 10), "200"),
		tradeAt("a#2", at(time.March, 4, 10), "100"),
		tradeAt("a#3", at(time.March, 4, 14), "-40"),
		tradeAt("a#4", at(time.March, 6, 10), "25.5"),
	})
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("all")
	require.NoError(t, err)
	assert.True(t, s.IsAllTime())
	assert.Equal(t, "All time", s.Label())

	s, err = ParseScope("2024-03")
	require.NoError(t, err)
	m, ok := s.Month()
	assert.True(t, ok)
	assert.Equal(t, core.Month{Year: 2024, Month: time.March}, m)
	assert.Equal(t, "March 2024", s.Label())
	assert.Equal(t, "2024-03", s.String())

	_, err = ParseScope("March")
	assert.True(t, errors.Is(err, core.ErrInvalidScope))
}

func TestBuild_EmptyStore(t *testing.T) {
	_, err := Build(journal.NewStore(nil), AllTime(), Options{})
	assert.True(t, errors.Is(err, core.ErrNoTrades))

	_, err = Build(nil, AllTime(), Options{})
	assert.True(t, errors.Is(err, core.ErrNoTrades))
}

func TestBuild_SingleTradeScenario(t *testing.T) {
	rows := []ingest.RawRow{
		{Source: "x.xlsx", TradeNo: int64p(1), Type: "Entry long", Time: at(time.March, 1, 9)},
		{Source: "x.xlsx", TradeNo: int64p(1), Type: "Exit long", Time: at(time.March, 1, 10), NetPnL: decimal.RequireFromString("150.00")},
	}
	store := journal.NewStore(journal.Reconstruct(rows, nil).Trades)

	r, err := Build(store, AllTime(), Options{})
	require.NoError(t, err)

	v := r.View()
	assert.Equal(t, "$150.00", v.TotalPnL)
	assert.Equal(t, "100.00%", v.WinRate)
	assert.Equal(t, "1 days", v.Streak)
	require.Len(t, v.Trades, 1)
	assert.Equal(t, "2024-03-01 10:00", v.Trades[0].ExitTime)
	assert.Equal(t, "Long", v.Trades[0].Direction)
}

func int64p(n int64) *int64 { return &n }

func TestBuild_AllTime(t *testing.T) {
	r, err := Build(sampleStore(), AllTime(), Options{WeekStart: time.Sunday})
	require.NoError(t, err)

	assert.Equal(t, 4, r.Stats.TradeCount)
	assert.True(t, r.Stats.TotalPnL.Equal(decimal.RequireFromString("285.5")))
	assert.Len(t, r.Daily, 3)
	assert.Equal(t, 3, r.Streak)

	// calendar shows the latest month
	require.NotNil(t, r.Calendar)
	assert.Equal(t, core.Month{Year: 2024, Month: time.March}, r.Calendar.Month)

	assert.Equal(t, "All time", r.Header.Scope)
	assert.Equal(t, core.NewDate(2024, time.February, 12), r.Header.FirstDate)
	assert.Equal(t, core.NewDate(2024, time.March, 6), r.Header.LastDate)

	v := r.View()
	assert.Equal(t, "Scope: All time • Trades shown: 4 • Data range: 2024-02-12 → 2024-03-06", v.Caption)
}

func TestBuild_SingleMonth(t *testing.T) {
	r, err := Build(sampleStore(), SingleMonth(core.Month{Year: 2024, Month: time.February}), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Header.TradesShown)
	assert.True(t, r.Stats.TotalPnL.Equal(decimal.NewFromInt(200)))
	require.NotNil(t, r.Calendar)
	assert.Equal(t, time.February, r.Calendar.Month.Month)

	v := r.View()
	assert.True(t, strings.HasPrefix(v.Caption, "Scope: February 2024 • Trades shown: 1"))
	assert.Contains(t, v.Caption, "Data range: 2024-02-12 → 2024-03-06", "data range spans the whole store")
}

func TestBuild_MonthWithoutTrades(t *testing.T) {
	r, err := Build(sampleStore(), SingleMonth(core.Month{Year: 2023, Month: time.July}), Options{})
	require.NoError(t, err)

	assert.Zero(t, r.Stats.TradeCount)
	assert.Zero(t, r.Stats.WinRate)
	assert.Zero(t, r.Streak)
	require.NotNil(t, r.Calendar)
	for _, c := range r.Calendar.Cells {
		assert.Zero(t, c.Trades)
	}
}

func TestView_SameDayScenario(t *testing.T) {
	r, err := Build(sampleStore(), SingleMonth(core.Month{Year: 2024, Month: time.March}), Options{})
	require.NoError(t, err)

	v := r.View()
	assert.Equal(t, "66.67%", v.WinRate)
	assert.Equal(t, "-$40.00", v.AvgLoss)
	assert.Equal(t, "$62.75", v.AvgWin)
	assert.Equal(t, "3", v.TotalTrades)

	require.NotNil(t, v.Calendar)
	assert.Equal(t, "March 2024", v.Calendar.Title)
	assert.Equal(t, []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}, v.Calendar.Weekdays)

	// March 2024 starts on a Friday: row 1 is Feb 25..Mar 2, row 2 is Mar 3..9
	mar4 := v.Calendar.Weeks[1][1]
	assert.Equal(t, 4, mar4.Day)
	assert.Equal(t, "$60.00", mar4.PnL)
	assert.Equal(t, "2 trades", mar4.Trades)
	assert.True(t, mar4.Positive)

	mar5 := v.Calendar.Weeks[1][2]
	assert.Empty(t, mar5.PnL)

	assert.True(t, v.Calendar.Weeks[0][0].Muted)
}

func TestView_UnknownExitTime(t *testing.T) {
	store := journal.NewStore([]journal.Trade{
		tradeAt("a#1", at(time.March, 4, 10), "1"),
		{ID: "a#2", PnL: decimal.NewFromInt(-1)},
	})

	r, err := Build(store, AllTime(), Options{})
	require.NoError(t, err)

	v := r.View()
	require.Len(t, v.Trades, 2)
	assert.Empty(t, v.Trades[1].ExitTime)
	assert.False(t, v.Trades[1].Positive)
}
