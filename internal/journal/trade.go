package journal

import (
	"time"

	"github.com/newthinker/traderstats/internal/core"
	"github.com/shopspring/decimal"
)

// Trade is a completed round trip reconstructed from an entry and an exit row.
type Trade struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	EntryTime time.Time      `json:"entry_time"`
	ExitTime  time.Time      `json:"exit_time"`
	Date      core.Date      `json:"date"` // exit day; zero when exit time is unknown
	Direction core.Direction `json:"direction"`

	Quantity   decimal.NullDecimal `json:"quantity"`
	EntryPrice decimal.NullDecimal `json:"entry_price"`
	ExitPrice  decimal.NullDecimal `json:"exit_price"`
	PnL        decimal.Decimal     `json:"pnl"`
}

// IsWin returns true if the trade made money
func (t Trade) IsWin() bool {
	return t.PnL.IsPositive()
}

// IsLoss returns true if the trade lost money
func (t Trade) IsLoss() bool {
	return t.PnL.IsNegative()
}

// HasDate reports whether the exit time, and so the trade date, is known.
func (t Trade) HasDate() bool {
	return !t.Date.IsZero()
}
