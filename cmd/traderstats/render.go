package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/newthinker/traderstats/internal/report"
	"gopkg.in/yaml.v3"
)

type viewKind string

const (
	viewAll       viewKind = "all"
	viewDashboard viewKind = "dashboard"
	viewCalendar  viewKind = "calendar"
	viewTrades    viewKind = "trades"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func pnl(s string, positive bool) string {
	if positive {
		return green(s)
	}
	return red(s)
}

// render writes the selected part of v in the requested format.
func render(w io.Writer, v report.View, kind viewKind, format outputFormat) error {
	var out any = v
	switch kind {
	case viewCalendar:
		out = v.Calendar
	case viewTrades:
		out = v.Trades
	case viewDashboard:
		dash := v
		dash.Calendar = nil
		dash.Trades = nil
		out = dash
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}

	if kind == viewAll || kind == viewDashboard {
		renderDashboard(w, v)
	}
	if (kind == viewAll || kind == viewCalendar) && v.Calendar != nil {
		fmt.Fprintln(w)
		renderCalendar(w, *v.Calendar)
	}
	if kind == viewAll || kind == viewTrades {
		fmt.Fprintln(w)
		renderTrades(w, v.Trades)
	}
	return nil
}

func renderDashboard(w io.Writer, v report.View) {
	fmt.Fprintln(w, bold(v.Title))
	fmt.Fprintln(w, faint(v.Caption))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total P&L\t%s\t\n", pnl(v.TotalPnL, v.TotalPositive))
	fmt.Fprintf(tw, "Win rate\t%s\t\n", v.WinRate)
	fmt.Fprintf(tw, "Avg win\t%s\t\n", green(v.AvgWin))
	fmt.Fprintf(tw, "Avg loss\t%s\t\n", red(v.AvgLoss))
	fmt.Fprintf(tw, "Longest winning streak\t%s\t\n", v.Streak)
	fmt.Fprintf(tw, "Total trades\t%s\t\n", v.TotalTrades)
	fmt.Fprintf(tw, "Max drawdown\t%s\t\n", v.MaxDrawdown)
	tw.Flush()
}

// calendarCellWidth fits "-$12,345.67" and "12 trades".
const calendarCellWidth = 12

func renderCalendar(w io.Writer, cal report.CalendarView) {
	fmt.Fprintln(w, bold(cal.Title))

	var b strings.Builder
	for _, wd := range cal.Weekdays {
		b.WriteString(pad(wd))
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	for _, week := range cal.Weeks {
		var days, amounts, counts strings.Builder
		for _, d := range week {
			day := pad(fmt.Sprintf("%d", d.Day))
			if d.Muted {
				day = faint(day)
			}
			days.WriteString(day)

			amount := pad(d.PnL)
			if d.PnL != "" {
				amount = pnl(amount, d.Positive)
			}
			amounts.WriteString(amount)
			counts.WriteString(pad(d.Trades))
		}
		fmt.Fprintln(w, strings.TrimRight(days.String(), " "))
		fmt.Fprintln(w, strings.TrimRight(amounts.String(), " "))
		fmt.Fprintln(w, strings.TrimRight(counts.String(), " "))
	}
}

func pad(s string) string {
	if n := calendarCellWidth - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s + " "
}

func renderTrades(w io.Writer, rows []report.TradeRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No trades in scope.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EXIT TIME\tDIRECTION\tQTY\tENTRY\tEXIT\tP&L\t")
	fmt.Fprintln(tw, "---------\t---------\t---\t-----\t----\t---\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.ExitTime, r.Direction, r.Qty, r.EntryPrice, r.ExitPrice, pnl(r.PnL, r.Positive))
	}
	tw.Flush()
}
