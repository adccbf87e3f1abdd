package rewriter

import (
	"regexp"
	"strings"

	"ora-cte-fix/internal/model"
	"ora-cte-fix/internal/parser"
)

// legacyStatement matches, line for line, the statement-audit report row
// that mixes COUNT(*) with per-row CDB/PDB scalar subqueries.
var legacyStatement = regexp.MustCompile(strings.Join([]string{
	`(?P<header>-- 5\.\d+ Enable '[^']+' Audit Option - Oracle 12c\+ Non-multitenant OR when running from PDB\n)`,
	`SELECT '<tr class="' \|\|\n`,
	`  CASE \n`,
	`    WHEN COUNT\(\*\) > 0 THEN 'pass'\n`,
	`    ELSE 'fail'\n`,
	`  END \|\| '">' \|\|\n`,
	`  '<td>5\.\d+</td>' \|\|\n`,
	`  '<td>Enable [^<]+ Audit Option \(Scored\) - ' \|\| \n`,
	`    CASE \n`,
	`      WHEN \(SELECT CDB FROM V\$DATABASE\) = 'YES' AND \(SELECT SYS_CONTEXT\('USERENV', 'CON_NAME'\) FROM DUAL\) != 'CDB\$ROOT' \n`,
	`      THEN '12c\+ PDB \(' \|\| \(SELECT SYS_CONTEXT\('USERENV', 'CON_NAME'\) FROM DUAL\) \|\| '\)'\n`,
	`      ELSE '12c\+ Non-MT'\n`,
	`    END \|\| '</td>' \|\|\n`,
	`  '<td>' \|\| CASE WHEN COUNT\(\*\) > 0 THEN 'PASS' ELSE 'FAIL' END \|\| '</td>' \|\|\n`,
	`  '<td>' \|\| \n`,
	`    CASE WHEN COUNT\(\*\) > 0 THEN \n`,
	`      LISTAGG\(AUDIT_OPTION \|\| ' \(SUCCESS:' \|\| SUCCESS \|\| ', FAILURE:' \|\| FAILURE \|\| '\)', ', '\) WITHIN GROUP \(ORDER BY AUDIT_OPTION\)\n`,
	`    ELSE '[^']+audit not enabled'\n`,
	`    END \|\| '</td>' \|\|\n`,
	`  '<td>[^<]+audit enabled \(SUCCESS=BY ACCESS, FAILURE=BY ACCESS\)</td>' \|\|\n`,
	`  '<td class="remediation">(?P<remediation>AUDIT [^;]+;)</td>' \|\|\n`,
	`  '</tr>'\n`,
	`FROM DBA_STMT_AUDIT_OPTS\n`,
	`WHERE USER_NAME IS NULL \n`,
	`AND PROXY_NAME IS NULL\n`,
	`AND SUCCESS = 'BY ACCESS' \n`,
	`AND FAILURE = 'BY ACCESS'\n`,
	`AND AUDIT_OPTION='[^']+'\n`,
	`AND TO_NUMBER\(SUBSTR\(\(SELECT VERSION FROM V\$INSTANCE\), 1, 2\)\) >= 12\n`,
	`AND \(\n`,
	`  -- Non-multitenant database\n`,
	`  NOT EXISTS \(SELECT 1 FROM V\$DATABASE WHERE CDB = 'YES'\)\n`,
	`  OR \n`,
	`  -- Running from PDB \(not CDB\$ROOT\)\n`,
	`  \(EXISTS \(SELECT 1 FROM V\$DATABASE WHERE CDB = 'YES'\) AND \n`,
	`   \(SELECT SYS_CONTEXT\('USERENV', 'CON_NAME'\) FROM DUAL\) != 'CDB\$ROOT'\)\n`,
	`\);`,
}, ""))

var (
	headerGroup      = legacyStatement.SubexpIndex("header")
	remediationGroup = legacyStatement.SubexpIndex("remediation")
)

// PatternRewriter rewrites every statement matching the legacy
// statement-audit layout, whatever its section.
type PatternRewriter struct{}

func NewPatternRewriter() *PatternRewriter {
	return &PatternRewriter{}
}

func (r *PatternRewriter) Name() string { return "pattern" }

// FindMatches returns every non-overlapping legacy statement in content.
func (r *PatternRewriter) FindMatches(content string) []model.Match {
	var matches []model.Match
	for _, loc := range legacyStatement.FindAllStringSubmatchIndex(content, -1) {
		m := model.Match{
			Span:        model.Span{Start: loc[0], End: loc[1]},
			Header:      content[loc[2*headerGroup]:loc[2*headerGroup+1]],
			Remediation: content[loc[2*remediationGroup]:loc[2*remediationGroup+1]],
		}
		m.Section, m.AuditOption, _ = parser.ParseHeader(m.Header)
		matches = append(matches, m)
	}
	return matches
}

func (r *PatternRewriter) Rewrite(path string, content string) (string, []model.Outcome) {
	return r.apply(path, content, r.FindMatches(content))
}

// apply replaces each match in content. matches must be ordered and
// non-overlapping.
func (r *PatternRewriter) apply(path string, content string, matches []model.Match) (string, []model.Outcome) {
	if len(matches) == 0 {
		return content, nil
	}

	var b strings.Builder
	b.Grow(len(content) + len(matches)*512)
	outcomes := make([]model.Outcome, 0, len(matches))
	last := 0

	for _, m := range matches {
		b.WriteString(content[last:m.Span.Start])
		last = m.Span.End

		o := model.Outcome{
			Rewriter:    r.Name(),
			Section:     m.Section,
			AuditOption: m.AuditOption,
			Location:    model.Location{FilePath: path, Line: parser.LineAt(content, m.Span.Start)},
		}

		// legacyStatement already constrains the header, so this only fires if
		// the expression and ParseHeader drift apart. Keep the original text.
		if m.Section == "" || m.AuditOption == "" {
			o.Status = model.StatusMalformedHeader
			o.Message = strings.TrimSpace(m.Header)
			b.WriteString(content[m.Span.Start:m.Span.End])
			outcomes = append(outcomes, o)
			continue
		}

		b.WriteString(renderStatement(statementData{
			Header:      m.Header,
			Section:     m.Section,
			AuditOption: m.AuditOption,
			Table:       model.StmtAuditTable,
			Remediation: m.Remediation,
		}))
		o.Status = model.StatusRewritten
		outcomes = append(outcomes, o)
	}

	b.WriteString(content[last:])
	return b.String(), outcomes
}
