package stats

import (
	"slices"

	"github.com/newthinker/traderstats/internal/core"
)

// LongestWinningStreak returns the longest run of consecutive positive days
// among the given days-with-trades. Calendar gaps between trading days do not
// break a run; only a day with P&L <= 0 does.
func LongestWinningStreak(days []DailyBucket) int {
	var best, cur int
	for _, d := range days {
		if d.PnL.IsPositive() {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}

func sortBuckets(buckets []DailyBucket) {
	slices.SortStableFunc(buckets, func(a, b DailyBucket) int {
		return compareDates(a.Date, b.Date)
	})
}

func compareDates(a, b core.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
