package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"textcleaner/internal/algorithms"
)

var AlgorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List binarization algorithms",
	Args:  cobra.NoArgs,
	RunE:  runAlgorithms,
}

func runAlgorithms(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	manager := algorithms.NewManager()
	if cfg.Algorithm.Default != "" {
		name, err := manager.Parse(cfg.Algorithm.Default)
		if err != nil {
			return err
		}
		if err := manager.SetCurrentAlgorithm(name); err != nil {
			return err
		}
	}

	current := manager.GetCurrentAlgorithm()
	for _, alg := range manager.GetAvailableAlgorithms() {
		marker := " "
		if alg.Name == current {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %s\n", marker, alg.Name, alg.Title)
	}
	return nil
}
