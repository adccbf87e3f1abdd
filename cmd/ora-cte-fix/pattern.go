package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"ora-cte-fix/internal/model"
	"ora-cte-fix/internal/reporter"
	"ora-cte-fix/internal/rewriter"
	"ora-cte-fix/internal/scanner"

	"github.com/spf13/cobra"
)

var (
	excludes []string
	workers  int
)

var patternCmd = &cobra.Command{
	Use:   "pattern <sql_file>",
	Short: "Rewrite every statement matching the legacy report-row layout",
	Long: `pattern finds every statement-audit report row laid out exactly as the
legacy benchmark generator emits it, whatever its section number, and rewrites
it in CTE form. Section number and audit option are taken from the header
comment. When the argument is a directory every *.sql file below it is
rewritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runPattern(cmd.Context(), args[0], cmd.OutOrStdout())
	},
}

func init() {
	patternCmd.Flags().StringSliceVarP(&excludes, "exclude", "e", []string{".git", "vendor"}, "Glob patterns to exclude in directory mode")
	patternCmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of files rewritten concurrently in directory mode")
}

func runPattern(ctx context.Context, target string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", target, err)
	}

	engine := rewriter.NewEngine()
	engine.Register(rewriter.NewPatternRewriter())
	opts := rewriter.Options{DryRun: dryRun, Backup: backup}

	var results []model.FileResult
	if info.IsDir() {
		fmt.Fprintf(out, "Scanning %s for SQL scripts...\n", target)
		results, err = fixDir(ctx, engine, target, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Processed %d files.\n", len(results))
	} else {
		res := engine.FixFile(target, opts)
		if res.Err != nil {
			return res.Err
		}
		results = []model.FileResult{res}
	}

	var rpt model.Reporter = reporter.NewConsoleReporter(out, dryRun)
	if err := rpt.Report(results); err != nil {
		return fmt.Errorf("reporting failed: %w", err)
	}
	return rewriter.Verify(results, strict)
}

func fixDir(ctx context.Context, engine *rewriter.Engine, root string, opts rewriter.Options) ([]model.FileResult, error) {
	walker := scanner.NewFileWalker([]string{"sql"}, excludes)
	paths, errs := walker.Walk(ctx, root)

	pool := scanner.NewWorkerPool(workers, func(path string) model.FileResult {
		return engine.FixFile(path, opts)
	})

	var results []model.FileResult
	for res := range pool.Start(ctx, paths) {
		results = append(results, res)
	}
	if err := <-errs; err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}
