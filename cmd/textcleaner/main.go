package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"textcleaner/cmd/textcleaner/commands"
	"textcleaner/internal/app"
)

var rootCmd = &cobra.Command{
	Use:     app.AppName,
	Short:   "Clean scanned text images with the imgclean tool",
	Version: app.AppVersion,
	Long: `textcleaner - binarize scanned text images.

Images are handed to the imgclean executable installed next to textcleaner
(or in tool.dir) and the cleaned result is written back to disk.

Examples:
  textcleaner clean page.png                 # writes page-cleaned.png
  textcleaner clean page.jpg -a sauvola      # pick an algorithm
  textcleaner batch scans/*.png --out-dir out
  textcleaner inspect page-cleaned.png
  textcleaner algorithms`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&commands.Globals.ConfigFile, "config", "", "TOML configuration file")
	flags.StringVar(&commands.Globals.LogLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	flags.BoolVar(&commands.Globals.JSONLogs, "json-logs", false, "Write logs as JSON")

	rootCmd.AddCommand(commands.CleanCmd)
	rootCmd.AddCommand(commands.BatchCmd)
	rootCmd.AddCommand(commands.SweepCmd)
	rootCmd.AddCommand(commands.InspectCmd)
	rootCmd.AddCommand(commands.AlgorithmsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
