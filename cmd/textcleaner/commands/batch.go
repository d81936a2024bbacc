package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"textcleaner/internal/app"
)

var BatchCmd = &cobra.Command{
	Use:   "batch <inputs...>",
	Short: "Clean many images concurrently",
	Long: `Clean many images, running up to workers.max_concurrent tools at once.

Each result is written as <name>-cleaned.<ext> in --out-dir, or next to its
input when --out-dir is not given. A failing file does not stop the others.

Examples:
  textcleaner batch scans/*.png --out-dir cleaned
  textcleaner batch a.jpg b.jpg -a bataineh`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var (
	batchOutDirFlag    string
	batchAlgorithmFlag string
	batchVerifyFlag    bool
)

func init() {
	BatchCmd.Flags().StringVar(&batchOutDirFlag, "out-dir", "", "Directory for cleaned images")
	BatchCmd.Flags().StringVarP(&batchAlgorithmFlag, "algorithm", "a", "", "Binarization algorithm (see 'textcleaner algorithms')")
	BatchCmd.Flags().BoolVar(&batchVerifyFlag, "verify", false, "Decode each input before cleaning")
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, cleanup, err := startApplication(cmd, app.Options{Verify: batchVerifyFlag}, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	alg, err := a.ResolveAlgorithm(batchAlgorithmFlag)
	if err != nil {
		return err
	}

	results, err := a.Pipeline.CleanFiles(a.Context(), args, batchOutDirFlag, alg)
	if results == nil && err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", r.Input, r.Err)
			continue
		}
		fmt.Fprintf(out, "ok   %s -> %s (%dms)\n", r.Input, r.Output, r.Duration.Milliseconds())
	}

	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
