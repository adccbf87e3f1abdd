package rewriter

import (
	"strings"

	"ora-cte-fix/internal/model"
	"ora-cte-fix/internal/parser"
)

// SectionRewriter rewrites a fixed list of benchmark sections, locating each
// one by its literal header and the extent of the statement that follows.
type SectionRewriter struct {
	Sections []model.SectionDescriptor
}

func NewSectionRewriter(sections []model.SectionDescriptor) *SectionRewriter {
	return &SectionRewriter{Sections: sections}
}

func (r *SectionRewriter) Name() string { return "sections" }

// Locate returns the span of the statement anchored by d's header.
// It reports model.StatusNotFound or model.StatusUnterminated on failure, and
// model.StatusAlreadyRewritten when the statement is already in CTE form.
func (r *SectionRewriter) Locate(content string, d model.SectionDescriptor) (model.Span, model.Status) {
	start := strings.Index(content, d.Header())
	if start == -1 {
		return model.Span{}, model.StatusNotFound
	}
	if parser.StartsWithCTE(content, start) {
		return model.Span{Start: start}, model.StatusAlreadyRewritten
	}
	end, ok := parser.FindStatementEnd(content, start)
	if !ok {
		return model.Span{Start: start}, model.StatusUnterminated
	}
	return model.Span{Start: start, End: end}, model.StatusRewritten
}

func (r *SectionRewriter) Rewrite(path string, content string) (string, []model.Outcome) {
	outcomes := make([]model.Outcome, 0, len(r.Sections))

	for _, d := range r.Sections {
		span, status := r.Locate(content, d)
		o := model.Outcome{
			Rewriter:    r.Name(),
			Section:     d.Section,
			AuditOption: d.AuditOption,
			Status:      status,
		}
		if status != model.StatusNotFound {
			o.Location = model.Location{FilePath: path, Line: parser.LineAt(content, span.Start)}
		}
		if status != model.StatusRewritten {
			outcomes = append(outcomes, o)
			continue
		}

		oldSection := content[span.Start:span.End]
		newSection := renderStatement(statementData{
			Header:      content[span.Start:parser.LineEnd(content, span.Start)],
			Section:     d.Section,
			AuditOption: d.AuditOption,
			Table:       d.Table,
			Column:      d.Column,
			Remediation: d.Remediation,
		})
		content = strings.Replace(content, oldSection, newSection, 1)
		outcomes = append(outcomes, o)
	}

	return content, outcomes
}
