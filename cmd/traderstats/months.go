package main

import (
	"context"
	"fmt"

	"github.com/newthinker/traderstats/internal/app"
	"github.com/newthinker/traderstats/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var monthsCmd = &cobra.Command{
	Use:   "months <file>...",
	Short: "List the months that contain trades",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMonths,
}

func init() {
	rootCmd.AddCommand(monthsCmd)
}

func runMonths(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App, cfg *config.Config, log *zap.Logger) error {
		imp, err := importFiles(context.Background(), a, args)
		if err != nil {
			return err
		}

		months, latest, err := a.Months(imp.Store)
		if err != nil {
			return err
		}

		for _, m := range months {
			marker := ""
			if m == latest {
				marker = "  (default)"
			}
			fmt.Printf("%s  %s%s\n", m, m.Label(), marker)
		}
		return nil
	})
}
