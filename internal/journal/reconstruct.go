package journal

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/ingest"
)

// Reasons a row group produced no trade.
const (
	DropNoEntry  = "no_entry"
	DropNoExit   = "no_exit"
	DropInverted = "inverted"
)

// Result holds the reconstructed trades and the count of discarded groups per reason.
type Result struct {
	Trades  []Trade
	Dropped map[string]int
}

// DroppedTotal returns the number of discarded groups.
func (r Result) DroppedTotal() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

// groupKey identifies the rows of one trade. Rows without a trade number are
// grouped by contiguous run within their source instead of being merged.
type groupKey struct {
	source string
	no     int64
	null   bool
	run    int
}

func (k groupKey) compare(o groupKey) int {
	if c := cmp.Compare(k.source, o.source); c != 0 {
		return c
	}
	if k.null != o.null {
		if k.null {
			return 1
		}
		return -1
	}
	if k.null {
		return cmp.Compare(k.run, o.run)
	}
	return cmp.Compare(k.no, o.no)
}

// Reconstruct pairs entry and exit rows into completed trades. A nil
// classifier uses TypeTextClassifier. Trades are returned sorted by exit time.
func Reconstruct(rows []ingest.RawRow, classifier Classifier) Result {
	if classifier == nil {
		classifier = TypeTextClassifier{}
	}

	groups := groupRows(rows)
	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, groupKey.compare)

	res := Result{Dropped: make(map[string]int)}
	for _, k := range keys {
		trade, reason := pair(groups[k], classifier)
		if reason != "" {
			res.Dropped[reason]++
			continue
		}
		if k.null {
			trade.ID = fmt.Sprintf("%s#%d", k.source, len(res.Trades)+1)
		} else {
			trade.ID = fmt.Sprintf("%s#%d", k.source, k.no)
		}
		res.Trades = append(res.Trades, trade)
	}

	sortByExit(res.Trades)
	return res
}

func groupRows(rows []ingest.RawRow) map[groupKey][]ingest.RawRow {
	groups := make(map[groupKey][]ingest.RawRow)
	runs := make(map[string]int)
	inRun := make(map[string]bool)

	for _, r := range rows {
		var k groupKey
		if r.TradeNo == nil {
			if !inRun[r.Source] {
				runs[r.Source]++
				inRun[r.Source] = true
			}
			k = groupKey{source: r.Source, null: true, run: runs[r.Source]}
		} else {
			inRun[r.Source] = false
			k = groupKey{source: r.Source, no: *r.TradeNo}
		}
		groups[k] = append(groups[k], r)
	}
	return groups
}

// pair picks the first entry and last exit of a group by timestamp. Rows
// without a timestamp sort after timed rows in input order.
func pair(rows []ingest.RawRow, c Classifier) (Trade, string) {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b ingest.RawRow) int {
		return compareTimes(a.HasTime(), b.HasTime(), a.Time.Compare(b.Time))
	})

	entry, exit := -1, -1
	for i, r := range sorted {
		switch c.Kind(r.Type) {
		case core.RowEntry:
			if entry < 0 {
				entry = i
			}
		case core.RowExit:
			exit = i
		}
	}
	if entry < 0 {
		return Trade{}, DropNoEntry
	}
	if exit < 0 {
		return Trade{}, DropNoExit
	}

	er, xr := sorted[entry], sorted[exit]
	if er.HasTime() && xr.HasTime() && er.Time.After(xr.Time) {
		return Trade{}, DropInverted
	}

	return Trade{
		Source:     er.Source,
		EntryTime:  er.Time,
		ExitTime:   xr.Time,
		Date:       core.DateOf(xr.Time),
		Direction:  c.Direction(er.Type),
		Quantity:   er.Quantity,
		EntryPrice: er.Price,
		ExitPrice:  xr.Price,
		PnL:        xr.NetPnL,
	}, ""
}

// compareTimes orders known times ascending and unknown times last.
func compareTimes(aKnown, bKnown bool, byTime int) int {
	switch {
	case aKnown && bKnown:
		return byTime
	case aKnown:
		return -1
	case bKnown:
		return 1
	default:
		return 0
	}
}

func sortByExit(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		a, b := trades[i], trades[j]
		return compareTimes(!a.ExitTime.IsZero(), !b.ExitTime.IsZero(), a.ExitTime.Compare(b.ExitTime)) < 0
	})
}
