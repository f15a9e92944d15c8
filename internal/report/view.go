package report

import (
	"fmt"
	"strings"

	"github.com/newthinker/traderstats/internal/stats"
)

// View is a report rendered to display strings.
type View struct {
	Title         string        `json:"title" yaml:"title"`
	TotalPnL      string        `json:"total_pnl" yaml:"total_pnl"`
	TotalPositive bool          `json:"total_positive" yaml:"total_positive"`
	Caption       string        `json:"caption" yaml:"caption"`
	AvgWin        string        `json:"avg_win" yaml:"avg_win"`
	AvgLoss       string        `json:"avg_loss" yaml:"avg_loss"`
	WinRate       string        `json:"win_rate" yaml:"win_rate"`
	Streak        string        `json:"longest_winning_streak" yaml:"longest_winning_streak"`
	TotalTrades   string        `json:"total_trades" yaml:"total_trades"`
	MaxDrawdown   string        `json:"max_drawdown" yaml:"max_drawdown"`
	Calendar      *CalendarView `json:"calendar,omitempty" yaml:"calendar,omitempty"`
	Trades        []TradeRow    `json:"trades" yaml:"trades"`
}

// CalendarView is the month grid as display strings.
type CalendarView struct {
	Title    string      `json:"title" yaml:"title"`
	Weekdays []string    `json:"weekdays" yaml:"weekdays"`
	Weeks    [][]DayView `json:"weeks" yaml:"weeks"`
}

// DayView is one calendar cell. PnL and Trades are empty for padding days
// and days without trades.
type DayView struct {
	Day      int    `json:"day" yaml:"day"`
	Muted    bool   `json:"muted,omitempty" yaml:"muted,omitempty"`
	PnL      string `json:"pnl,omitempty" yaml:"pnl,omitempty"`
	Positive bool   `json:"positive,omitempty" yaml:"positive,omitempty"`
	Trades   string `json:"trades,omitempty" yaml:"trades,omitempty"`
}

// TradeRow is one line of the trade log.
type TradeRow struct {
	ExitTime   string `json:"exit_time" yaml:"exit_time"`
	Direction  string `json:"direction" yaml:"direction"`
	Qty        string `json:"qty" yaml:"qty"`
	EntryPrice string `json:"entry_price" yaml:"entry_price"`
	ExitPrice  string `json:"exit_price" yaml:"exit_price"`
	PnL        string `json:"pnl" yaml:"pnl"`
	Positive   bool   `json:"-" yaml:"-"`
}

// View renders the report for display.
func (r *Report) View() View {
	v := View{
		Title:         "Monthly Performance",
		TotalPnL:      FormatMoney(r.Stats.TotalPnL),
		TotalPositive: !r.Stats.TotalPnL.IsNegative(),
		Caption:       r.caption(),
		AvgWin:        FormatMoney(r.Stats.AvgWin),
		AvgLoss:       FormatMoney(r.Stats.AvgLoss),
		WinRate:       FormatPercent(r.Stats.WinRate),
		Streak:        fmt.Sprintf("%d days", r.Streak),
		TotalTrades:   FormatCount(r.Stats.TradeCount),
		MaxDrawdown:   FormatMoney(r.Stats.MaxDrawdown),
		Trades:        make([]TradeRow, 0, len(r.Trades)),
	}

	if r.Calendar != nil {
		v.Calendar = calendarView(*r.Calendar)
	}

	for _, t := range r.Trades {
		row := TradeRow{
			Direction:  string(t.Direction),
			Qty:        FormatNullDecimal(t.Quantity),
			EntryPrice: FormatNullDecimal(t.EntryPrice),
			ExitPrice:  FormatNullDecimal(t.ExitPrice),
			PnL:        FormatMoney(t.PnL),
			Positive:   !t.PnL.IsNegative(),
		}
		if !t.ExitTime.IsZero() {
			row.ExitTime = t.ExitTime.Format(TimeLayout)
		}
		v.Trades = append(v.Trades, row)
	}

	return v
}

func (r *Report) caption() string {
	parts := []string{
		"Scope: " + r.Header.Scope,
		"Trades shown: " + FormatCount(r.Header.TradesShown),
	}
	if !r.Header.FirstDate.IsZero() {
		parts = append(parts, fmt.Sprintf("Data range: %s → %s", r.Header.FirstDate, r.Header.LastDate))
	}
	return strings.Join(parts, " • ")
}

func calendarView(cal stats.Calendar) *CalendarView {
	cv := &CalendarView{Title: cal.Month.Label()}
	for _, wd := range cal.Weekdays() {
		cv.Weekdays = append(cv.Weekdays, strings.ToUpper(wd.String()[:3]))
	}

	for _, week := range cal.Weeks() {
		row := make([]DayView, 0, len(week))
		for _, c := range week {
			dv := DayView{Day: c.Date.Day, Muted: !c.InMonth}
			if c.InMonth && (!c.PnL.IsZero() || c.Trades != 0) {
				dv.PnL = FormatMoney(c.PnL)
				dv.Positive = !c.PnL.IsNegative()
				dv.Trades = fmt.Sprintf("%d trades", c.Trades)
			}
			row = append(row, dv)
		}
		cv.Weeks = append(cv.Weeks, row)
	}
	return cv
}
