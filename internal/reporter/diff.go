package reporter

import (
	"strings"

	"github.com/fatih/color"
)

// colorDiff highlights added and removed lines of a unified diff.
func colorDiff(diff string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(color.CyanString(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(color.GreenString(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(color.RedString(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
