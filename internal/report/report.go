// Package report assembles the statistics, calendar and trade log for one scope.
package report

import (
	"time"

	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/journal"
	"github.com/newthinker/traderstats/internal/stats"
)

// Options configures report assembly.
type Options struct {
	WeekStart time.Weekday
}

// Header summarizes what the report shows.
type Header struct {
	Scope       string    `json:"scope"`
	TradesShown int       `json:"trades_shown"`
	FirstDate   core.Date `json:"first_date"`
	LastDate    core.Date `json:"last_date"`
}

// Report is the full set of derived views for one scope.
type Report struct {
	Scope    Scope               `json:"-"`
	Header   Header              `json:"header"`
	Stats    stats.ScopeStats    `json:"stats"`
	Streak   int                 `json:"longest_winning_streak"`
	Daily    []stats.DailyBucket `json:"daily"`
	Calendar *stats.Calendar     `json:"calendar,omitempty"`
	Trades   []journal.Trade     `json:"trades"`
}

// Build computes the report for scope. An empty store yields core.ErrNoTrades
// and no statistics.
//
// Statistics, daily buckets and the streak cover the scope's trades. The
// calendar shows the scope month, or the latest month for all-time scopes,
// and is built from that month's trades.
func Build(store *journal.Store, scope Scope, opts Options) (*Report, error) {
	if store == nil || store.Len() == 0 {
		return nil, core.ErrNoTrades
	}

	var trades []journal.Trade
	calMonth, hasCal := scope.Month()
	if scope.IsAllTime() {
		trades = store.All()
		calMonth, hasCal = store.LatestMonth()
	} else {
		trades = store.FilterByMonth(calMonth)
	}

	daily := stats.Daily(trades)
	r := &Report{
		Scope:  scope,
		Stats:  stats.Summarize(trades),
		Streak: stats.LongestWinningStreak(daily),
		Daily:  daily,
		Trades: trades,
		Header: Header{
			Scope:       scope.Label(),
			TradesShown: len(trades),
		},
	}
	r.Header.FirstDate, r.Header.LastDate, _ = store.DateRange()

	if hasCal {
		days := stats.DayMap(stats.Daily(store.FilterByMonth(calMonth)))
		cal := stats.BuildCalendar(calMonth, opts.WeekStart, days)
		r.Calendar = &cal
	}

	return r, nil
}
