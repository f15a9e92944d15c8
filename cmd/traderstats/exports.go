package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/newthinker/traderstats/internal/app"
	"github.com/newthinker/traderstats/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "Manage archived exports",
	Long:  `Commands for the export archive (local directory or S3 bucket, see storage in the config).`,
}

var exportsListCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List archived exports",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExportsList,
}

var exportsPutCmd = &cobra.Command{
	Use:   "put <local-file> <archive-path>",
	Short: "Copy a local export into the archive",
	Args:  cobra.ExactArgs(2),
	RunE:  runExportsPut,
}

var exportsRmCmd = &cobra.Command{
	Use:   "rm <archive-path>",
	Short: "Remove an archived export",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportsRm,
}

func init() {
	rootCmd.AddCommand(exportsCmd)
	exportsCmd.AddCommand(exportsListCmd)
	exportsCmd.AddCommand(exportsPutCmd)
	exportsCmd.AddCommand(exportsRmCmd)
}

func runExportsList(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	return withApp(func(a *app.App, cfg *config.Config, log *zap.Logger) error {
		paths, err := a.Archive().List(context.Background(), prefix)
		if err != nil {
			return fmt.Errorf("listing exports: %w", err)
		}
		if len(paths) == 0 {
			fmt.Println("No exports found.")
			return nil
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		log.Debug("exports listed", zap.String("prefix", prefix), zap.Int("count", len(paths)))
		return nil
	})
}

func runExportsPut(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	return withApp(func(a *app.App, cfg *config.Config, log *zap.Logger) error {
		if err := a.Archive().Write(context.Background(), dst, data); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		color.Green("✓ stored %s (%d bytes)", dst, len(data))
		log.Info("export archived", zap.String("path", dst), zap.Int("bytes", len(data)))
		return nil
	})
}

func runExportsRm(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App, cfg *config.Config, log *zap.Logger) error {
		ctx := context.Background()
		ok, err := a.Archive().Exists(ctx, args[0])
		if err != nil {
			return fmt.Errorf("checking %s: %w", args[0], err)
		}
		if !ok {
			return fmt.Errorf("%s: not found", args[0])
		}
		if err := a.Archive().Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("deleting %s: %w", args[0], err)
		}
		color.Green("✓ removed %s", args[0])
		return nil
	})
}
