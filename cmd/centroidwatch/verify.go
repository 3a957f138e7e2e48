package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrsinham/centroidwatch/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <test-set-dir>",
	Short: "Compare report isocenters against their plans",
	Long: `Verify walks every patient folder of a test set, reads the isocenter of
the RTPLAN and the isocenter line of the Centroid report, and prints whether
they agree. The table is also saved as detailed_comparison.txt in the test set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := loadConfig(v)
		if err != nil {
			return err
		}

		rows, err := verify.Run(args[0], logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), verify.Render(rows))

		path, err := verify.SaveTable(args[0], rows)
		if err != nil {
			return fmt.Errorf("save comparison: %w", err)
		}
		matched, total := verify.Summary(rows)
		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d folders match. Comparison saved to %s\n", matched, total, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
