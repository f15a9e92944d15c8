// Package ingest turns broker exports into canonical rows.
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/traderstats/internal/core"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// RawRow is one order-book line item of an export.
type RawRow struct {
	// Source identifies the export the row came from (file name or path).
	Source string
	// TradeNo is the broker's trade number; nil when the cell is empty.
	TradeNo *int64
	// Type is the free-text row type, e.g. "Entry long" or "Exit short".
	Type string
	// Time is the row timestamp; zero when absent or unparseable.
	Time     time.Time
	Price    decimal.NullDecimal
	Quantity decimal.NullDecimal
	// NetPnL defaults to zero when absent.
	NetPnL decimal.Decimal
}

// HasTime reports whether the row timestamp was parsed.
func (r RawRow) HasTime() bool {
	return !r.Time.IsZero()
}

// Columns names the export columns the normalizer reads.
type Columns struct {
	TradeNo  string `mapstructure:"trade_no"`
	Type     string `mapstructure:"type"`
	Time     string `mapstructure:"time"`
	Quantity string `mapstructure:"quantity"`
	Price    string `mapstructure:"price"`
	NetPnL   string `mapstructure:"net_pnl"`
}

// DefaultColumns returns the TradingView "List of trades" headers.
func DefaultColumns() Columns {
	return Columns{
		TradeNo:  "Trade #",
		Type:     "Type",
		Time:     "Date and time",
		Quantity: "Position size (qty)",
		Price:    "Price USD",
		NetPnL:   "Net P&L USD",
	}
}

// Normalize converts a table into canonical rows tagged with source.
// Only the trade number and type columns are structurally required.
func Normalize(t Table, source string, cols Columns, loc *time.Location) ([]RawRow, error) {
	if loc == nil {
		loc = time.UTC
	}

	tradeIdx := t.column(cols.TradeNo)
	if tradeIdx < 0 {
		return nil, core.WrapError(core.ErrMissingColumn, fmt.Errorf("column %q", cols.TradeNo))
	}
	typeIdx := t.column(cols.Type)
	if typeIdx < 0 {
		return nil, core.WrapError(core.ErrMissingColumn, fmt.Errorf("column %q", cols.Type))
	}
	timeIdx := t.column(cols.Time)
	qtyIdx := t.column(cols.Quantity)
	priceIdx := t.column(cols.Price)
	pnlIdx := t.column(cols.NetPnL)

	rows := make([]RawRow, 0, len(t.Rows))
	for _, rec := range t.Rows {
		if blank(rec) {
			continue
		}

		row := RawRow{
			Source:   source,
			TradeNo:  parseTradeNo(cell(rec, tradeIdx)),
			Type:     cell(rec, typeIdx),
			Time:     ParseTimestamp(cell(rec, timeIdx), loc),
			Quantity: parseDecimal(cell(rec, qtyIdx)),
			Price:    parseDecimal(cell(rec, priceIdx)),
		}
		if pnl := parseDecimal(cell(rec, pnlIdx)); pnl.Valid {
			row.NetPnL = pnl.Decimal
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"1/2/06 15:04",
	"1/2/06 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"01-02-06 15:04",
	"Jan 2, 2006, 15:04",
	"Jan 2, 2006 15:04",
}

// Excel serial day numbers accepted as timestamps (1900-01-01 .. 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseTimestamp parses an export timestamp. Naive timestamps are interpreted
// in loc; Excel serial numbers are accepted. Unparseable input yields the zero time.
func ParseTimestamp(s string, loc *time.Location) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= minExcelSerial && f <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
		}
	}
	return time.Time{}
}

var numberCleaner = strings.NewReplacer(",", "", "$", "", " ", "", "\u00a0", "", "\u2212", "-")

func parseDecimal(s string) decimal.NullDecimal {
	s = numberCleaner.Replace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if negative {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if negative {
		d = d.Neg()
	}
	return decimal.NewNullDecimal(d)
}

func parseTradeNo(s string) *int64 {
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	n := int64(f)
	return &n
}
