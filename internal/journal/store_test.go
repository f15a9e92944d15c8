package journal

import (
	"testing"
	"time"

	"github.com/newthinker/traderstats/internal/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trade(id string, exit time.Time, pnl int64) Trade {
	return Trade{
		ID:       id,
		ExitTime: exit,
		Date:     core.DateOf(exit),
		PnL:      decimal.NewFromInt(pnl),
	}
}

func sampleStore() *Store {
	return NewStore([]Trade{
		trade("c", time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), 5),
		trade("a", time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC), 1),
		trade("u", time.Time{}, 9),
		trade("b", time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC), -2),
		trade("d", time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC), 3),
	})
}

func ids(trades []Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.ID
	}
	return out
}

func TestStore_All(t *testing.T) {
	s := sampleStore()
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []string{"a", "b", "d", "c", "u"}, ids(s.All()))

	all := s.All()
	all[0].ID = "mutated"
	assert.Equal(t, "a", s.All()[0].ID, "All returns a copy")
}

func TestStore_FilterByDateRange(t *testing.T) {
	s := sampleStore()

	got := s.FilterByDateRange(core.NewDate(2024, time.March, 1), core.NewDate(2024, time.April, 2))
	assert.Equal(t, []string{"b", "d", "c"}, ids(got), "inclusive on both ends, order kept")

	assert.Empty(t, s.FilterByDateRange(core.NewDate(2025, time.January, 1), core.NewDate(2025, time.December, 31)))
}

func TestStore_FilterByMonth(t *testing.T) {
	s := sampleStore()
	assert.Equal(t, []string{"a"}, ids(s.FilterByMonth(core.Month{Year: 2024, Month: time.February})))
	assert.Equal(t, []string{"b"}, ids(s.FilterByMonth(core.Month{Year: 2024, Month: time.March})))
	assert.Len(t, s.FilterByMonth(core.Month{Year: 2023, Month: time.April}), 0)
}

func TestStore_Months(t *testing.T) {
	s := sampleStore()
	assert.Equal(t, []core.Month{
		{Year: 2024, Month: time.February},
		{Year: 2024, Month: time.March},
		{Year: 2024, Month: time.April},
	}, s.Months())

	latest, ok := s.LatestMonth()
	require.True(t, ok)
	assert.Equal(t, core.Month{Year: 2024, Month: time.April}, latest)

	first, last, ok := s.DateRange()
	require.True(t, ok)
	assert.Equal(t, core.NewDate(2024, time.February, 28), first)
	assert.Equal(t, core.NewDate(2024, time.April, 2), last)
}

func TestStore_Empty(t *testing.T) {
	s := NewStore(nil)
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Months())

	_, ok := s.LatestMonth()
	assert.False(t, ok)
	_, _, ok = s.DateRange()
	assert.False(t, ok)
}
