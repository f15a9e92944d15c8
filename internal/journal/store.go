package journal

import (
	"slices"

	"github.com/newthinker/traderstats/internal/core"
)

// Store is an immutable, exit-time ordered set of trades. Re-importing
// builds a new Store.
type Store struct {
	trades []Trade
}

// NewStore copies trades and sorts them by exit time.
func NewStore(trades []Trade) *Store {
	s := &Store{trades: slices.Clone(trades)}
	sortByExit(s.trades)
	return s
}

// All returns every trade in exit-time order.
func (s *Store) All() []Trade {
	return slices.Clone(s.trades)
}

// Len returns the number of trades.
func (s *Store) Len() int {
	return len(s.trades)
}

// FilterByDateRange returns trades whose date falls in [start, end].
// Trades with an unknown date are never included.
func (s *Store) FilterByDateRange(start, end core.Date) []Trade {
	var out []Trade
	for _, t := range s.trades {
		if !t.HasDate() || t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterByMonth returns trades dated in month m.
func (s *Store) FilterByMonth(m core.Month) []Trade {
	return s.FilterByDateRange(m.First(), m.Last())
}

// Months returns the distinct months that have dated trades, ascending.
func (s *Store) Months() []core.Month {
	seen := make(map[core.Month]bool)
	var months []core.Month
	for _, t := range s.trades {
		if !t.HasDate() {
			continue
		}
		m := t.Date.MonthOf()
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	slices.SortFunc(months, func(a, b core.Month) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		default:
			return 0
		}
	})
	return months
}

// LatestMonth returns the month of the most recent dated trade.
func (s *Store) LatestMonth() (core.Month, bool) {
	months := s.Months()
	if len(months) == 0 {
		return core.Month{}, false
	}
	return months[len(months)-1], true
}

// DateRange returns the earliest and latest trade dates.
func (s *Store) DateRange() (first, last core.Date, ok bool) {
	for _, t := range s.trades {
		if !t.HasDate() {
			continue
		}
		if !ok || t.Date.Before(first) {
			first = t.Date
		}
		if !ok || t.Date.After(last) {
			last = t.Date
		}
		ok = true
	}
	return first, last, ok
}
