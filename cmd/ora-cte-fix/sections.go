package main

import (
	"fmt"
	"io"

	"ora-cte-fix/internal/catalog"
	"ora-cte-fix/internal/model"
	"ora-cte-fix/internal/reporter"
	"ora-cte-fix/internal/rewriter"

	"github.com/spf13/cobra"
)

var (
	targetFile  string
	catalogPath string
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Rewrite the known benchmark sections 5.15 to 5.22",
	Long: `sections locates each catalogued section by its literal header comment,
finds the end of the statement that follows it and replaces the statement with
its CTE form. Missing or unterminated sections are reported and skipped; the
sections that could be rewritten are still saved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runSections(targetFile, catalogPath, cmd.OutOrStdout())
	},
}

func init() {
	sectionsCmd.Flags().StringVarP(&targetFile, "file", "f", catalog.DefaultFile, "SQL script to rewrite")
	sectionsCmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "YAML file replacing the built-in section list")
}

func runSections(target, catalogFile string, out io.Writer) error {
	descs := catalog.Default()
	if catalogFile != "" {
		var err error
		fmt.Fprintf(out, "Loading sections from %s...\n", catalogFile)
		descs, err = catalog.Load(catalogFile)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	engine := rewriter.NewEngine()
	engine.Register(rewriter.NewSectionRewriter(descs))

	res := engine.FixFile(target, rewriter.Options{DryRun: dryRun, Backup: backup})
	if res.Err != nil {
		return res.Err
	}

	rpt := reporter.NewConsoleReporter(out, dryRun)
	if !dryRun {
		rpt.Done = "All remaining sections have been fixed!"
	}
	if err := rpt.Report([]model.FileResult{res}); err != nil {
		return fmt.Errorf("reporting failed: %w", err)
	}
	return rewriter.Verify([]model.FileResult{res}, strict)
}
