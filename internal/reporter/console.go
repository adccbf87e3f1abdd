package reporter

import (
	"fmt"
	"io"

	"ora-cte-fix/internal/model"

	"github.com/fatih/color"
)

type ConsoleReporter struct {
	out      io.Writer
	showDiff bool
	// Done is printed once after all files, e.g. "All remaining sections have been fixed!"
	Done string
}

// NewConsoleReporter writes human-readable progress to w. Diffs of dry runs
// are printed when showDiff is set.
func NewConsoleReporter(w io.Writer, showDiff bool) *ConsoleReporter {
	return &ConsoleReporter{out: w, showDiff: showDiff}
}

func (r *ConsoleReporter) Report(results []model.FileResult) error {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(r.out, "%s %s: %v\n", color.RedString("✘"), res.Path, res.Err)
			continue
		}

		for _, o := range res.Outcomes {
			fmt.Fprintln(r.out, formatOutcome(o))
		}

		rewritten, skipped := res.Rewritten(), res.Skipped()
		summary := fmt.Sprintf("%s: %d statements rewritten, %d skipped", res.Path, rewritten, skipped)
		switch {
		case skipped > 0:
			fmt.Fprintln(r.out, color.YellowString(summary))
		case rewritten == 0:
			fmt.Fprintln(r.out, color.New(color.Faint).Sprint(summary))
		default:
			fmt.Fprintln(r.out, color.GreenString(summary))
		}

		if res.Written {
			fmt.Fprintf(r.out, "Fixed ORA-00937 errors in %s\n", res.Path)
		}
		if r.showDiff {
			if res.Diff == "" {
				fmt.Fprintf(r.out, "%s: no changes\n", res.Path)
			} else {
				fmt.Fprint(r.out, colorDiff(res.Diff))
			}
		}
	}

	if r.Done != "" {
		fmt.Fprintln(r.out, color.GreenString(r.Done))
	}
	return nil
}

func formatOutcome(o model.Outcome) string {
	label := o.Section
	if label == "" {
		label = o.Location.String()
	}

	switch o.Status {
	case model.StatusRewritten:
		return fmt.Sprintf("%s Fixed section %s (%s) at %s", color.GreenString("✔"), label, o.AuditOption, o.Location)
	case model.StatusNotFound:
		return fmt.Sprintf("%s Section %s pattern not found", color.YellowString("!"), label)
	case model.StatusUnterminated:
		return fmt.Sprintf("%s Section %s end not found (from %s)", color.YellowString("!"), label, o.Location)
	case model.StatusAlreadyRewritten:
		return fmt.Sprintf("%s Section %s already rewritten", color.CyanString("="), label)
	case model.StatusMalformedHeader:
		return fmt.Sprintf("%s Malformed header at %s: %s", color.YellowString("!"), o.Location, o.Message)
	default:
		return fmt.Sprintf("Section %s: %s", label, o.Status)
	}
}
