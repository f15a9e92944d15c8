package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/newthinker/traderstats/internal/core"
)

// Calendar is a month laid out as whole weeks.
type Calendar struct {
	Month     core.Month   `json:"month"`
	WeekStart time.Weekday `json:"week_start"`
	Cells     []Cell       `json:"cells"`
}

// BuildCalendar lays out m as whole 7-day weeks starting on weekStart. Days in
// the month take their totals from days; padding days are zero.
func BuildCalendar(m core.Month, weekStart time.Weekday, days map[core.Date]DayTotals) Calendar {
	first, last := m.First(), m.Last()
	start := first.AddDays(-int((first.Weekday() - weekStart + 7) % 7))
	end := last.AddDays(int((weekStart + 6 - last.Weekday() + 7) % 7))

	cal := Calendar{Month: m, WeekStart: weekStart}
	for d := start; !d.After(end); d = d.AddDays(1) {
		c := Cell{Date: d}
		if m.Contains(d) {
			c.InMonth = true
			if t, ok := days[d]; ok {
				c.PnL = t.PnL
				c.Trades = t.Trades
			}
		}
		cal.Cells = append(cal.Cells, c)
	}
	return cal
}

// Weeks splits the grid into rows of seven cells.
func (c Calendar) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, len(c.Cells)/7)
	for i := 0; i+7 <= len(c.Cells); i += 7 {
		weeks = append(weeks, c.Cells[i:i+7])
	}
	return weeks
}

// Weekdays returns the column headings in grid order.
func (c Calendar) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 7)
	for i := range out {
		out[i] = (c.WeekStart + time.Weekday(i)) % 7
	}
	return out
}

// ParseWeekStart accepts "sunday" or "monday". Empty means Sunday.
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("invalid week start %q (expected sunday or monday)", s)
	}
}
