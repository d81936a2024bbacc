package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"textcleaner/internal/imaging"
)

var InspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show an image's dimensions and format",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	info, err := imaging.Inspect(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], info)
	return nil
}
