package stats

import (
	"github.com/newthinker/traderstats/internal/core"
	"github.com/shopspring/decimal"
)

// ScopeStats holds performance statistics for a set of trades
type ScopeStats struct {
	TradeCount  int             `json:"trade_count"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
	Breakeven   int             `json:"breakeven"`
	WinRate     float64         `json:"win_rate"` // Fraction in [0, 1]
	TotalPnL    decimal.Decimal `json:"total_pnl"`
	AvgWin      decimal.Decimal `json:"avg_win"`  // Zero without winners
	AvgLoss     decimal.Decimal `json:"avg_loss"` // Zero without losers, otherwise negative
	MaxDrawdown decimal.Decimal `json:"max_drawdown"`
}

// DailyBucket is the net result of one day with at least one trade
type DailyBucket struct {
	Date   core.Date       `json:"date"`
	PnL    decimal.Decimal `json:"pnl"`
	Trades int             `json:"trades"`
}

// DayTotals is the calendar's view of a day
type DayTotals struct {
	PnL    decimal.Decimal
	Trades int
}

// Cell is one day of the calendar grid. Cells outside the month, and days
// without trades, carry zero values.
type Cell struct {
	Date    core.Date       `json:"date"`
	InMonth bool            `json:"in_month"`
	PnL     decimal.Decimal `json:"pnl"`
	Trades  int             `json:"trades"`
}
