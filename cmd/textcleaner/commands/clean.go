package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"textcleaner/internal/app"
	"textcleaner/internal/pipeline"
)

var CleanCmd = &cobra.Command{
	Use:   "clean <input>",
	Short: "Clean one image",
	Long: `Clean one image and write the result.

Without -o the result is written next to the input as <name>-cleaned.<ext>.
The output path is printed on success.

Examples:
  textcleaner clean page.png
  textcleaner clean page.ppm -o clean.ppm -a niblack`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

var (
	cleanOutputFlag    string
	cleanAlgorithmFlag string
	cleanVerifyFlag    bool
)

func init() {
	CleanCmd.Flags().StringVarP(&cleanOutputFlag, "output", "o", "", "Output file")
	CleanCmd.Flags().StringVarP(&cleanAlgorithmFlag, "algorithm", "a", "", "Binarization algorithm (see 'textcleaner algorithms')")
	CleanCmd.Flags().BoolVar(&cleanVerifyFlag, "verify", false, "Decode the input before cleaning")
}

func runClean(cmd *cobra.Command, args []string) error {
	a, cleanup, err := startApplication(cmd, app.Options{Verify: cleanVerifyFlag}, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	alg, err := a.ResolveAlgorithm(cleanAlgorithmFlag)
	if err != nil {
		return err
	}

	input := args[0]
	output := cleanOutputFlag
	if output == "" {
		output = pipeline.DefaultOutputPath(input, "")
	}

	res := a.Pipeline.CleanFile(a.Context(), input, output, alg)
	if res.Err != nil {
		return res.Err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Output)
	return nil
}
