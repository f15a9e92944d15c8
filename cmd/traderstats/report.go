package main

import (
	"context"
	"fmt"
	"os"

	"github.com/newthinker/traderstats/internal/app"
	"github.com/newthinker/traderstats/internal/config"
	"github.com/newthinker/traderstats/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportScope  string
	reportView   string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>...",
	Short: "Show performance statistics for trade exports",
	Long: `Import one or more .xlsx/.csv exports and show the dashboard, the month
calendar and the trade log for the selected scope.

Relative paths are resolved against the configured export storage.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportScope, "scope", "all", "all or YYYY-MM")
	reportCmd.Flags().StringVar(&reportView, "view", "all", "dashboard, calendar, trades or all")
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "table, json or yaml")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	scope, err := report.ParseScope(reportScope)
	if err != nil {
		return err
	}
	view, err := parseView(reportView)
	if err != nil {
		return err
	}
	format, err := parseFormat(reportFormat)
	if err != nil {
		return err
	}

	return withApp(func(a *app.App, cfg *config.Config, log *zap.Logger) error {
		imp, err := importFiles(context.Background(), a, args)
		if err != nil {
			return err
		}

		rep, err := a.Report(imp.Store, scope)
		if err != nil {
			return err
		}

		log.Debug("report built",
			zap.String("scope", scope.String()),
			zap.Int("trades", rep.Header.TradesShown),
		)
		return render(os.Stdout, rep.View(), view, format)
	})
}

func parseView(s string) (viewKind, error) {
	switch v := viewKind(s); v {
	case viewAll, viewDashboard, viewCalendar, viewTrades:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q (expected dashboard, calendar, trades or all)", s)
	}
}

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected table, json or yaml)", s)
	}
}
