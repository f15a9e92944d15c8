package stats

import (
	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/journal"
	"github.com/shopspring/decimal"
)

// Summarize computes performance statistics from trades
func Summarize(trades []journal.Trade) ScopeStats {
	if len(trades) == 0 {
		return ScopeStats{}
	}

	var s ScopeStats
	var sumWin, sumLoss decimal.Decimal
	pnls := make([]decimal.Decimal, 0, len(trades))

	for _, t := range trades {
		pnls = append(pnls, t.PnL)
		s.TotalPnL = s.TotalPnL.Add(t.PnL)
		switch {
		case t.IsWin():
			s.Wins++
			sumWin = sumWin.Add(t.PnL)
		case t.IsLoss():
			s.Losses++
			sumLoss = sumLoss.Add(t.PnL)
		default:
			s.Breakeven++
		}
	}

	s.TradeCount = len(trades)
	s.WinRate = float64(s.Wins) / float64(s.TradeCount)
	if s.Wins > 0 {
		s.AvgWin = sumWin.Div(decimal.NewFromInt(int64(s.Wins)))
	}
	if s.Losses > 0 {
		s.AvgLoss = sumLoss.Div(decimal.NewFromInt(int64(s.Losses)))
	}
	s.MaxDrawdown = maxDrawdown(pnls)

	return s
}

// maxDrawdown finds the largest peak-to-trough decline of cumulative P&L.
// The running peak starts at zero, so an opening loss counts as drawdown.
func maxDrawdown(pnls []decimal.Decimal) decimal.Decimal {
	var maxDD, peak, cumulative decimal.Decimal

	for _, p := range pnls {
		cumulative = cumulative.Add(p)
		if cumulative.GreaterThan(peak) {
			peak = cumulative
		}
		if dd := peak.Sub(cumulative); dd.GreaterThan(maxDD) {
			maxDD = dd
		}
	}

	return maxDD
}

// Daily groups trades by trade date, ascending. Trades without a known
// date are skipped.
func Daily(trades []journal.Trade) []DailyBucket {
	index := make(map[core.Date]int)
	var buckets []DailyBucket

	for _, t := range trades {
		if !t.HasDate() {
			continue
		}
		i, ok := index[t.Date]
		if !ok {
			i = len(buckets)
			index[t.Date] = i
			buckets = append(buckets, DailyBucket{Date: t.Date})
		}
		buckets[i].PnL = buckets[i].PnL.Add(t.PnL)
		buckets[i].Trades++
	}

	sortBuckets(buckets)
	return buckets
}

// DayMap keys daily buckets by date for calendar lookups.
func DayMap(buckets []DailyBucket) map[core.Date]DayTotals {
	m := make(map[core.Date]DayTotals, len(buckets))
	for _, b := range buckets {
		m[b.Date] = DayTotals{PnL: b.PnL, Trades: b.Trades}
	}
	return m
}
