package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	dryRun  bool
	backup  bool
	strict  bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "ora-cte-fix",
	Short: "Rewrite CIS benchmark report rows that raise ORA-00937",
	Long: `ora-cte-fix rewrites report-row SELECT statements of the CIS Oracle
benchmark script that mix COUNT(*) with per-row CDB/PDB scalar subqueries.
Each statement is replaced by an equivalent one that computes the container
description in a CONTAINER_INFO common table expression and groups by it.

The SQL is never executed; files are edited in place.`,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Print a diff instead of writing the file")
	rootCmd.PersistentFlags().BoolVar(&backup, "backup", false, "Keep the original file as <file>.bak")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Exit non-zero when sections are skipped or nothing is rewritten")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(patternCmd, sectionsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		stop()
		os.Exit(1)
	}
}
